package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/microsievert/dosimetria/internal/domain"
	"github.com/microsievert/dosimetria/internal/pkg/constants"
	"github.com/microsievert/dosimetria/internal/service/ingest"
	"github.com/microsievert/dosimetria/internal/service/report"
)

// readDoseFile pulls the uploaded reader export out of the multipart form
// and parses it into header-keyed rows.
func readDoseFile(ctx echo.Context) ([]map[string]string, error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return nil, constants.ErrMissingFile
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open dose file: %w", err)
	}
	defer f.Close()

	rows, err := ingest.ParseDelimited(f)
	if err != nil {
		return nil, fmt.Errorf("parse dose file: %w", err)
	}
	return rows, nil
}

type processResponse struct {
	RunID   string              `json:"run_id"`
	Records []domain.DoseRecord `json:"records"`
}

// ProcessReport runs the engine over an uploaded dose file without
// persisting anything, so operators can review the batch first.
func (c *Controller) ProcessReport(ctx echo.Context) error {
	rows, err := readDoseFile(ctx)
	if err != nil {
		return err
	}

	run, err := c.service.Process(ctx.Request().Context(), rows, ctx.FormValue("periodo"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, processResponse{RunID: run.ID, Records: run.Records})
}

type uploadResponse struct {
	RunID         string              `json:"run_id"`
	Inserted      int                 `json:"inserted"`
	Total         int                 `json:"total"`
	SkippedFields []string            `json:"skipped_fields,omitempty"`
	Records       []domain.DoseRecord `json:"records"`
}

// UploadReport processes a dose file and persists the batch to the report
// table. Partial inserts surface the count done so far.
func (c *Controller) UploadReport(ctx echo.Context) error {
	rows, err := readDoseFile(ctx)
	if err != nil {
		return err
	}

	run, res, err := c.service.Upload(ctx.Request().Context(), rows, ctx.FormValue("periodo"))
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, uploadResponse{
		RunID:         run.ID,
		Inserted:      res.Inserted,
		Total:         res.Total,
		SkippedFields: res.SkippedFields,
		Records:       run.Records,
	})
}

// ExportReport processes a dose file and streams the batch back as a
// semicolon-delimited report instead of JSON.
func (c *Controller) ExportReport(ctx echo.Context) error {
	rows, err := readDoseFile(ctx)
	if err != nil {
		return err
	}

	run, err := c.service.Process(ctx.Request().Context(), rows, ctx.FormValue("periodo"))
	if err != nil {
		return err
	}
	if len(run.Records) == 0 {
		return constants.ErrNoMatches
	}

	out, err := report.RenderBatchCSV(run.Records, time.Now())
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="reporte_dosimetria.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", out)
}
