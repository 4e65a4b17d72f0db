package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	identity, exportRange, err := handler.exportIdentityAndRange(c)
	if err != nil {
		return handler.ledgerError(c, err)
	}

	summary, err := handler.exports.BuildSummary(c.UserContext(), identity, exportRange)
	if err != nil {
		return handler.ledgerError(c, err)
	}
	return c.JSON(fiber.Map{
		"totalEntries": summary.TotalEntries,
		"hasData":      summary.HasData,
		"dateFrom":     summary.DateFrom,
		"dateTo":       summary.DateTo,
		"credited":     summary.Credited.InexactFloat64(),
		"debited":      summary.Debited.InexactFloat64(),
	})
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	identity, exportRange, err := handler.exportIdentityAndRange(c)
	if err != nil {
		return handler.ledgerError(c, err)
	}

	rows, err := handler.exports.BuildCSVRows(c.UserContext(), identity, exportRange)
	if err != nil {
		return handler.ledgerError(c, err)
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return handler.apiError(c, fiber.StatusInternalServerError, codeInternal)
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return handler.apiError(c, fiber.StatusInternalServerError, codeInternal)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return handler.apiError(c, fiber.StatusInternalServerError, codeInternal)
	}

	setExportAttachmentHeaders(c, "text/csv; charset=utf-8", buildExportFilename(handler.now(), "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	identity, exportRange, err := handler.exportIdentityAndRange(c)
	if err != nil {
		return handler.ledgerError(c, err)
	}

	entries, err := handler.exports.BuildJSONEntries(c.UserContext(), identity, exportRange)
	if err != nil {
		return handler.ledgerError(c, err)
	}
	now := handler.now().UTC()

	serialized, err := json.MarshalIndent(fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"user_id":     identity.UserID,
		"entries":     entries,
	}, "", "  ")
	if err != nil {
		return handler.apiError(c, fiber.StatusInternalServerError, codeInternal)
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) exportIdentityAndRange(c *fiber.Ctx) (services.Identity, services.ExportRange, error) {
	identity, ok := currentIdentity(c)
	if !ok {
		return services.Identity{}, services.ExportRange{}, services.ErrUnauthenticated
	}
	exportRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return services.Identity{}, services.ExportRange{}, err
	}
	return identity, exportRange, nil
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("siteboost-credits-%s.%s", now.UTC().Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
