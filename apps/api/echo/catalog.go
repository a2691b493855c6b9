package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradespark/core/catalog"
)

type catalogApi struct {
	catalog *catalog.Catalog
}

func registerCatalogAPI(g *echo.Group, cat *catalog.Catalog) {
	api := catalogApi{catalog: cat}

	cg := g.Group("/catalog")
	cg.GET("", api.grades)
	cg.GET("/:grade", api.subjects)
	cg.GET("/:grade/:subject", api.assignments)

	dg := g.Group("/datasets/:grade/:subject/:assignment")
	dg.GET("", api.dataset)
	dg.GET("/summary", api.summary)
}

// notFound names what is missing and suggests the closest known name, if any.
func notFound(kind, name string, known []string) error {
	msg := fmt.Sprintf("unknown %s %q", kind, name)
	if s, ok := catalog.Suggest(known, name); ok {
		msg += fmt.Sprintf(", did you mean %q?", s)
	}
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

// Handlers

func (api *catalogApi) grades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{
		"data_exists": api.catalog.DataExists(),
		"grades":      api.catalog.Grades(),
	})
}

func (api *catalogApi) subjects(ctx echo.Context) error {
	grade := ctx.Param("grade")
	subjects := api.catalog.Subjects(grade)
	if len(subjects) == 0 {
		return notFound("grade", grade, api.catalog.Grades())
	}
	return ctx.JSON(http.StatusOK, echo.Map{"grade": grade, "subjects": subjects})
}

func (api *catalogApi) assignments(ctx echo.Context) error {
	grade, subject := ctx.Param("grade"), ctx.Param("subject")
	known := api.catalog.Subjects(grade)
	if len(known) == 0 {
		return notFound("grade", grade, api.catalog.Grades())
	}
	assignments := api.catalog.Assignments(grade, subject)
	if len(assignments) == 0 {
		return notFound("subject", subject, known)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"grade": grade, "subject": subject, "assignments": assignments})
}

func (api *catalogApi) dataset(ctx echo.Context) error {
	var sel selectionRequest
	sel.BindParams(ctx)
	ds, err := api.catalog.Load(sel.Grade, sel.Subject, sel.Assignment)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, ds)
}

func (api *catalogApi) summary(ctx echo.Context) error {
	var sel selectionRequest
	sel.BindParams(ctx)
	sum, err := api.catalog.Summarize(sel.Grade, sel.Subject, sel.Assignment)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sum)
}
