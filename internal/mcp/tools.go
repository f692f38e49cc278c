package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Descriptions are what MCP clients show to the model,
// so they spell out defaults and addressing rules.

var addToolDef = mcp.NewTool("pref_add",
	mcp.WithDescription("Add a user preference record. Missing colors default to blue-500 (theme) and slate-100 (surface)."),
	mcp.WithString("username",
		mcp.Required(),
		mcp.Description("Username (case-insensitive, max 64 chars)"),
	),
	mcp.WithString("theme_color",
		mcp.Description("Theme color token, e.g. green-700"),
	),
	mcp.WithString("surface_color",
		mcp.Description("Surface color token, e.g. slate-100"),
	),
)

var getToolDef = mcp.NewTool("pref_get",
	mcp.WithDescription("Get a preference record by id or username (exactly one)."),
	mcp.WithString("id",
		mcp.Description("Record ID (ULID)"),
	),
	mcp.WithString("username",
		mcp.Description("Username"),
	),
)

var setToolDef = mcp.NewTool("pref_set",
	mcp.WithDescription("Update a record's colors. At least one of theme_color or surface_color is required; omitted fields are left unchanged."),
	mcp.WithString("id",
		mcp.Description("Record ID (ULID)"),
	),
	mcp.WithString("username",
		mcp.Description("Username"),
	),
	mcp.WithString("theme_color",
		mcp.Description("New theme color token"),
	),
	mcp.WithString("surface_color",
		mcp.Description("New surface color token"),
	),
)

var deleteToolDef = mcp.NewTool("pref_delete",
	mcp.WithDescription("Delete a preference record by id or username (exactly one)."),
	mcp.WithString("id",
		mcp.Description("Record ID (ULID)"),
	),
	mcp.WithString("username",
		mcp.Description("Username"),
	),
)

var listToolDef = mcp.NewTool("pref_list",
	mcp.WithDescription("List preference records ordered by username."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum items to return (default 50, max 200)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Items to skip (default 0)"),
	),
)

var backfillToolDef = mcp.NewTool("pref_backfill",
	mcp.WithDescription("Rewrite every record whose theme_color is missing or set to the deprecated bare token 'blue' to the canonical default blue-500, in one atomic pass. Returns the affected count and a snapshot of all records. Safe to run repeatedly."),
)

var verifyToolDef = mcp.NewTool("pref_verify",
	mcp.WithDescription("Report how many records have a missing, deprecated, or unknown theme color without changing anything."),
	mcp.WithBoolean("include_records",
		mcp.Description("Include the offending records in the output"),
	),
)

var exportToolDef = mcp.NewTool("pref_export",
	mcp.WithDescription("Export all records to a JSONL file."),
	mcp.WithString("path",
		mcp.Description("Export file path (default: ~/.swatch/exports/users-<timestamp>.jsonl)"),
	),
)

var importToolDef = mcp.NewTool("pref_import",
	mcp.WithDescription("Import records from a JSONL export file."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Import file path (.jsonl)"),
	),
	mcp.WithString("mode",
		mcp.Description("Collision mode: error (default, atomic) or replace"),
	),
)
