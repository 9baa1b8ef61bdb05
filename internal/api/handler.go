package api

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/skystatuspro/skystatus-sub006/internal/config"
	"github.com/skystatuspro/skystatus-sub006/internal/extractor"
	"github.com/skystatuspro/skystatus-sub006/internal/models"
	"github.com/skystatuspro/skystatus-sub006/internal/parser"
	"github.com/skystatuspro/skystatus-sub006/internal/reconcile"
)

// AnalyzeResponse is the JSON response from the /api/analyze endpoint.
type AnalyzeResponse struct {
	Success bool                    `json:"success"`
	Error   string                  `json:"error,omitempty"`
	Report  *models.StatementReport `json:"report,omitempty"`
	RawText string                  `json:"rawText,omitempty"`
	Version string                  `json:"version,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Settings config.Settings
	Version  string
}

// Register sets up the API routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/analyze", h.HandleAnalyze)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleAnalyze accepts a multipart form with either a PDF upload ("file")
// or pre-extracted text ("extractedText", pages separated by
// "---PAGE_BREAK---"), and returns the full statement report. Extraction
// failure is the only 422; parse gaps inside the statement come back as a
// partial report with notes.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	text := ""

	if extracted := c.FormValue("extractedText"); extracted != "" {
		var pages []string
		for _, page := range strings.Split(extracted, "---PAGE_BREAK---") {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
		text = strings.Join(pages, "\n\n")
	}

	if text == "" {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'extractedText'.")
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
		}

		tmpFile, err := os.CreateTemp("", "statement-*.pdf")
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
		}
		defer os.Remove(tmpFile.Name())
		tmpFile.Close()

		if err := c.SaveFile(fileHeader, tmpFile.Name()); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
		}

		combined, _, err := extractor.ExtractTextCombined(tmpFile.Name())
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
		}
		text = combined
	}

	ex := parser.Analyze(text, h.Settings.Heuristics)
	rep := reconcile.BuildReport(ex, h.Settings)

	resp := AnalyzeResponse{
		Success: true,
		Report:  &rep,
		Version: h.Version,
	}
	if c.FormValue("includeRawText") == "true" {
		resp.RawText = text
	}

	return c.JSON(resp)
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(AnalyzeResponse{
		Success: false,
		Error:   msg,
	})
}
