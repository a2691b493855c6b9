package echoapi

import (
	"encoding/json"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradespark/core"
	"github.com/trezcool/gradespark/core/catalog"
)

// selectionRequest identifies one dataset, from path params or a JSON body.
type selectionRequest struct {
	Grade      string `json:"grade" validate:"required,notblank"`
	Subject    string `json:"subject" validate:"required,notblank"`
	Assignment string `json:"assignment" validate:"required,notblank"`
}

func (sel *selectionRequest) BindParams(ctx echo.Context) {
	sel.Grade = ctx.Param("grade")
	sel.Subject = ctx.Param("subject")
	sel.Assignment = ctx.Param("assignment")
}

func (sel *selectionRequest) Clean() {
	sel.Grade = core.CleanString(sel.Grade)
	sel.Subject = core.CleanString(sel.Subject)
	sel.Assignment = core.CleanString(sel.Assignment)
}

type exportRequest struct {
	Filename string        `json:"filename"`
	Path     string        `json:"path"` // when set, the file is written under the exports dir instead of downloaded
	Rows     []catalog.Row `json:"rows" validate:"required"`
}

// settingValue captures a raw JSON value for a single settings key.
type settingValue struct {
	Value json.RawMessage `json:"value"`
}

func (sv *settingValue) Bind(ctx echo.Context) error {
	if err := json.NewDecoder(ctx.Request().Body).Decode(sv); err != nil {
		return core.NewArgumentError("body must be a JSON object with a \"value\" field")
	}
	if sv.Value == nil {
		return core.NewArgumentError("missing \"value\"")
	}
	return nil
}
