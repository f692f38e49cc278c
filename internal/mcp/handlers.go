package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pcavett/swatch/internal/config"
	"github.com/pcavett/swatch/internal/errors"
	"github.com/pcavett/swatch/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// AddRequest represents the arguments for add.
type AddRequest struct {
	Username     string  `json:"username"`
	ThemeColor   *string `json:"theme_color,omitempty"`
	SurfaceColor *string `json:"surface_color,omitempty"`
}

// GetRequest represents the arguments for get.
type GetRequest struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

// SetRequest represents the arguments for set.
type SetRequest struct {
	ID           string  `json:"id,omitempty"`
	Username     string  `json:"username,omitempty"`
	ThemeColor   *string `json:"theme_color,omitempty"`
	SurfaceColor *string `json:"surface_color,omitempty"`
}

// DeleteRequest represents the arguments for delete.
type DeleteRequest struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// VerifyRequest represents the arguments for verify.
type VerifyRequest struct {
	IncludeRecords bool `json:"include_records,omitempty"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// ImportRequest represents the arguments for import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// Handler implementations

// HandleAdd handles the add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(ctx, h.db, ops.AddInput{
		Username:     input.Username,
		ThemeColor:   input.ThemeColor,
		SurfaceColor: input.SurfaceColor,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(ctx, h.db, ops.GetInput{
		ID:       input.ID,
		Username: input.Username,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSet handles the set tool call.
func (h *Handlers) HandleSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Set(ctx, h.db, ops.SetInput{
		ID:           input.ID,
		Username:     input.Username,
		ThemeColor:   input.ThemeColor,
		SurfaceColor: input.SurfaceColor,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(ctx, h.db, ops.DeleteInput{
		ID:       input.ID,
		Username: input.Username,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(ctx, h.db, ops.ListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleBackfill handles the backfill tool call.
func (h *Handlers) HandleBackfill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Backfill(ctx, h.db, ops.BackfillInput{})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleVerify handles the verify tool call.
func (h *Handlers) HandleVerify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[VerifyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Verify(ctx, h.db, ops.VerifyInput{
		IncludeRecords: input.IncludeRecords,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path: input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	// Map to ops input
	mode := ops.ImportModeError
	if input.Mode == "replace" {
		mode = ops.ImportModeReplace
	}

	result, err := ops.Import(ctx, h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: mode,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if swatchErr, ok := err.(*errors.SwatchError); ok {
		errorObj := map[string]any{
			"code":    swatchErr.Code,
			"message": swatchErr.Message,
			"status":  swatchErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if swatchErr.Code != errors.ErrInternal && swatchErr.Details != nil {
			errorObj["details"] = swatchErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
