package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradespark/core/settings"
)

type settingsApi struct {
	store *settings.Store
}

func registerSettingsAPI(g *echo.Group, store *settings.Store) {
	api := settingsApi{store: store}

	sg := g.Group("/settings")
	sg.GET("", api.retrieve)
	sg.POST("/save", api.save)
	sg.GET("/:key", api.get)
	sg.PUT("/:key", api.set)
}

// Handlers

func (api *settingsApi) retrieve(ctx echo.Context) error {
	doc := api.store.Settings()
	doc.APIKey = settings.MaskSecret(doc.APIKey)
	return ctx.JSON(http.StatusOK, doc)
}

func (api *settingsApi) get(ctx echo.Context) error {
	key := ctx.Param("key")
	doc := api.store.Settings()
	val, ok := doc.Value(key)
	if !ok {
		return errHttpNotFound
	}
	if key == settings.KeyAPIKey {
		val = settings.MaskSecret(val.(string))
	}
	return ctx.JSON(http.StatusOK, echo.Map{"key": key, "value": val})
}

func (api *settingsApi) set(ctx echo.Context) error {
	key := ctx.Param("key")
	data := new(settingValue)
	if err := data.Bind(ctx); err != nil {
		return err
	}
	if err := api.store.Set(key, data.Value); err != nil {
		return err
	}
	val := api.store.Get(key, nil)
	if key == settings.KeyAPIKey {
		val = settings.MaskSecret(val.(string))
	}
	return ctx.JSON(http.StatusOK, echo.Map{"key": key, "value": val})
}

func (api *settingsApi) save(ctx echo.Context) error {
	if err := api.store.Save(); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
