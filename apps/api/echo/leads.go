package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradespark/core/lead"
)

type leadApi struct {
	svc *lead.Service
}

func registerLeadAPI(g *echo.Group, svc *lead.Service) {
	api := leadApi{svc: svc}

	lg := g.Group("/leads")
	lg.POST("", api.create)
	lg.GET("/options", api.options)
	lg.GET("/backlog", api.backlog)
}

// Handlers

func (api *leadApi) create(ctx echo.Context) error {
	if api.svc == nil {
		return errNoLeadSvc
	}
	data := new(lead.NewLead)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	l, err := api.svc.Submit(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusAccepted, l)
}

func (api *leadApi) options(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"roles":     lead.Roles,
		"sizes":     lead.Sizes,
		"timelines": lead.Timelines,
	})
}

func (api *leadApi) backlog(ctx echo.Context) error {
	if api.svc == nil {
		return errNoLeadSvc
	}
	leads, err := api.svc.Backlog()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, leads)
}
