package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradespark/core"
	"github.com/trezcool/gradespark/core/catalog"
	"github.com/trezcool/gradespark/core/grading"
	"github.com/trezcool/gradespark/core/settings"
)

const (
	defaultExportName = "grading_results.csv"
	exportsDir        = "exports"
)

type (
	gradingApi struct {
		catalog   *catalog.Catalog
		simulator *grading.Simulator
		settings  *settings.Store
		validate  *validator.Validate
		exportDir string // disk exports land here; empty disables them
	}

	gradingResponse struct {
		ID         string         `json:"id"`
		Grade      string         `json:"grade"`
		Subject    string         `json:"subject"`
		Assignment string         `json:"assignment"`
		GradedAt   time.Time      `json:"graded_at"`
		Rows       []catalog.Row  `json:"rows"`
		Report     grading.Report `json:"report"`
		Summary    []string       `json:"summary"`
	}
)

func registerGradingAPI(
	g *echo.Group,
	cat *catalog.Catalog,
	sim *grading.Simulator,
	store *settings.Store,
	validate *validator.Validate,
	exportDir string,
) {
	api := gradingApi{
		catalog:   cat,
		simulator: sim,
		settings:  store,
		validate:  validate,
		exportDir: exportDir,
	}

	g.POST("/grading", api.grade)
	g.POST("/exports", api.export)
}

// Handlers

func (api *gradingApi) grade(ctx echo.Context) error {
	data := new(selectionRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	data.Clean()
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	ds, err := api.catalog.Load(data.Grade, data.Subject, data.Assignment)
	if err != nil {
		return err
	}
	rows, err := api.simulator.Run(ctx.Request().Context(), ds.Rows, data.Subject, data.Grade, nil)
	if err != nil {
		return err
	}

	if api.settings != nil {
		api.settings.Update(func(doc *settings.Settings) {
			doc.LastSelection = settings.Selection{Grade: data.Grade, Subject: data.Subject, Assignment: data.Assignment}
		})
	}

	report := grading.Summarize(rows)
	return ctx.JSON(http.StatusOK, gradingResponse{
		ID:         uuid.New().String(),
		Grade:      data.Grade,
		Subject:    data.Subject,
		Assignment: data.Assignment,
		GradedAt:   time.Now().UTC(),
		Rows:       rows,
		Report:     report,
		Summary:    report.Lines(),
	})
}

func (api *gradingApi) export(ctx echo.Context) error {
	data := new(exportRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	if data.Path != "" {
		path, err := api.exportPath(data.Path)
		if err != nil {
			return err
		}
		if err := catalog.ExportCSV(path, data.Rows); err != nil {
			return err
		}
		return ctx.JSON(http.StatusCreated, echo.Map{"path": path, "rows": len(data.Rows)})
	}

	name := filepath.Base(core.CleanString(data.Filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = defaultExportName
	}
	if !strings.EqualFold(filepath.Ext(name), catalog.Ext) {
		name += catalog.Ext
	}

	var buf bytes.Buffer
	if err := catalog.WriteCSV(&buf, data.Rows); err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// exportPath resolves name inside the export dir, refusing anything that would land outside it.
func (api *gradingApi) exportPath(name string) (string, error) {
	if api.exportDir == "" {
		return "", core.NewArgumentError("exports to disk are disabled")
	}
	if filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", core.NewArgumentError("export path must be relative to the exports directory")
	}
	if !strings.EqualFold(filepath.Ext(name), catalog.Ext) {
		name += catalog.Ext
	}
	path := filepath.Join(api.exportDir, name)
	rel, err := filepath.Rel(api.exportDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", core.NewArgumentError("export path must stay inside the exports directory")
	}
	return path, nil
}
