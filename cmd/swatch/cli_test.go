package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/pcavett/swatch/internal/config"
	"github.com/pcavett/swatch/internal/db"
	"github.com/pcavett/swatch/internal/ops"
	"github.com/pcavett/swatch/internal/palette"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	cleanup := func() {
		database.Close()
	}
	return database, cleanup
}

// testConfig returns a default config for testing.
func testConfig() *config.Config {
	return config.DefaultConfig()
}

// seedLegacyRow inserts a record directly, bypassing validation, the way an
// old writer would have left it.
func seedLegacyRow(t *testing.T, database *sql.DB, id, username string, theme *string) {
	t.Helper()
	var themeVal any
	if theme != nil {
		themeVal = *theme
	}
	_, err := database.Exec(
		`INSERT INTO users (id, username, theme_color, surface_color, created_at, updated_at)
		 VALUES (?, ?, ?, NULL, 100, 100)`,
		id, username, themeVal)
	if err != nil {
		t.Fatalf("failed to seed legacy row: %v", err)
	}
}

// runApp runs the CLI app with captured stdout.
func runApp(t *testing.T, app *cli.App, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := app.Run(append([]string{"swatch"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	return buf.String(), err
}

// TestCLIAdd tests the add command.
func TestCLIAdd(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, "add", "--theme=green-700", "ada")
	if err != nil {
		t.Fatalf("add command failed: %v", err)
	}

	var output ops.AddOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Record.ID == "" {
		t.Error("expected non-empty ID")
	}
	if output.Record.Username != "ada" {
		t.Errorf("expected username=ada, got %s", output.Record.Username)
	}
	if output.Record.ThemeColor == nil || *output.Record.ThemeColor != "green-700" {
		t.Errorf("expected theme_color=green-700, got %v", output.Record.ThemeColor)
	}
	if output.Record.SurfaceColor == nil || *output.Record.SurfaceColor != palette.DefaultSurface {
		t.Errorf("expected default surface color, got %v", output.Record.SurfaceColor)
	}
}

// TestCLIAdd_FlagAfterPositional ensures a flag placed after the username is
// rejected. Flag parsing stops at the first positional argument, so without
// the guard the flag would be dropped and the record created with defaults.
func TestCLIAdd_FlagAfterPositional(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	_, err := runApp(t, app, "add", "ada", "--theme=chartreuse")
	if err == nil {
		t.Fatal("expected error for flag after positional argument, got nil")
	}

	// No record may be created on the failed invocation
	_, err = ops.Get(context.Background(), database, ops.GetInput{Username: "ada"})
	if err == nil {
		t.Error("record was created despite the rejected invocation")
	}

	// Same guard on the other positional commands
	for _, args := range [][]string{
		{"get", "someid", "--username=ada"},
		{"set", "someid", "--theme=green-700"},
		{"delete", "someid", "--username=ada"},
	} {
		if _, err := runApp(t, app, args...); err == nil {
			t.Errorf("%v: expected error for flag after positional argument", args)
		}
	}
}

// TestCLIGet tests the get command.
func TestCLIGet(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	addOut, err := ops.Add(context.Background(), database, ops.AddInput{Username: "ada"})
	if err != nil {
		t.Fatalf("failed to add test record: %v", err)
	}

	app := newCLIApp(database, testConfig())

	t.Run("get by username", func(t *testing.T) {
		out, err := runApp(t, app, "get", "--username=ada")
		if err != nil {
			t.Fatalf("get command failed: %v", err)
		}

		var output ops.GetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if output.Record.ID != addOut.Record.ID {
			t.Errorf("expected ID=%s, got %s", addOut.Record.ID, output.Record.ID)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		out, err := runApp(t, app, "get", addOut.Record.ID)
		if err != nil {
			t.Fatalf("get command failed: %v", err)
		}

		var output ops.GetOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if output.Record.Username != "ada" {
			t.Errorf("expected username=ada, got %s", output.Record.Username)
		}
	})
}

// TestCLISet tests the set command.
func TestCLISet(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := ops.Add(context.Background(), database, ops.AddInput{Username: "ada"})
	if err != nil {
		t.Fatalf("failed to add test record: %v", err)
	}

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, "set", "--username=ada", "--theme=violet-600")
	if err != nil {
		t.Fatalf("set command failed: %v", err)
	}

	var output ops.SetOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Record.ThemeColor == nil || *output.Record.ThemeColor != "violet-600" {
		t.Errorf("expected theme_color=violet-600, got %v", output.Record.ThemeColor)
	}
}

// TestCLIList tests the list command.
func TestCLIList(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	for _, username := range []string{"ada", "grace", "edsger"} {
		_, err := ops.Add(context.Background(), database, ops.AddInput{Username: username})
		if err != nil {
			t.Fatalf("failed to add test record: %v", err)
		}
	}

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, "list")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	var output ops.ListOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if len(output.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(output.Items))
	}
	if output.Pagination.Total != 3 {
		t.Errorf("expected total=3, got %d", output.Pagination.Total)
	}
}

// TestCLIDelete tests the delete command.
func TestCLIDelete(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	addOut, err := ops.Add(context.Background(), database, ops.AddInput{Username: "ada"})
	if err != nil {
		t.Fatalf("failed to add test record: %v", err)
	}

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, "delete", "--username=ada")
	if err != nil {
		t.Fatalf("delete command failed: %v", err)
	}

	var output ops.DeleteOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if !output.Deleted {
		t.Error("expected deleted=true")
	}
	if output.ID != addOut.Record.ID {
		t.Errorf("expected ID=%s, got %s", addOut.Record.ID, output.ID)
	}
}

// TestCLIBackfill tests the backfill command.
func TestCLIBackfill(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	legacy := palette.DeprecatedTheme
	seedLegacyRow(t, database, "01CLIBF1", "ada", &legacy)
	seedLegacyRow(t, database, "01CLIBF2", "grace", nil)

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, "backfill", "--json")
	if err != nil {
		t.Fatalf("backfill command failed: %v", err)
	}

	var output ops.BackfillOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}

	if output.Updated != 2 {
		t.Errorf("expected updated=2, got %d", output.Updated)
	}
	if len(output.Records) != 2 {
		t.Errorf("expected 2 records in listing, got %d", len(output.Records))
	}
	for _, v := range output.Records {
		if v.ThemeColor == nil || *v.ThemeColor != palette.DefaultTheme {
			t.Errorf("record %s: expected theme_color=%s, got %v", v.Username, palette.DefaultTheme, v.ThemeColor)
		}
	}
}

// TestCLIBackfillReport tests the human-readable backfill report.
func TestCLIBackfillReport(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	seedLegacyRow(t, database, "01CLIBF3", "ada", nil)

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, "backfill")
	if err != nil {
		t.Fatalf("backfill command failed: %v", err)
	}

	// Banner, count, and listing all go to stdout
	if !bytes.Contains([]byte(out), []byte("Updating theme colors")) {
		t.Errorf("report missing banner:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte("Backfilled 1 record")) {
		t.Errorf("report missing count line:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte("ada")) {
		t.Errorf("report missing record listing:\n%s", out)
	}
}

// TestCLIVerify tests the verify command.
func TestCLIVerify(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	seedLegacyRow(t, database, "01CLIVF1", "ada", nil)

	app := newCLIApp(database, testConfig())

	out, err := runApp(t, app, "verify")
	if err != nil {
		t.Fatalf("verify command failed: %v", err)
	}

	var output ops.VerifyOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}

	if output.Clean {
		t.Error("expected clean=false")
	}
	if output.Absent != 1 {
		t.Errorf("expected absent=1, got %d", output.Absent)
	}
}

// TestCLIExportImport tests the export and import commands.
func TestCLIExportImport(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	for _, username := range []string{"ada", "grace"} {
		_, err := ops.Add(context.Background(), database, ops.AddInput{Username: username})
		if err != nil {
			t.Fatalf("failed to add test record: %v", err)
		}
	}

	exportDir := t.TempDir()
	cfg := testConfig()
	cfg.AllowedPaths = []string{exportDir}

	app := newCLIApp(database, cfg)
	exportPath := filepath.Join(exportDir, "export.jsonl")

	t.Run("export", func(t *testing.T) {
		out, err := runApp(t, app, "export", "--path="+exportPath)
		if err != nil {
			t.Fatalf("export command failed: %v", err)
		}

		var output ops.ExportOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if output.Count != 2 {
			t.Errorf("expected count=2, got %d", output.Count)
		}
		if output.Path != exportPath {
			t.Errorf("expected path=%s, got %s", exportPath, output.Path)
		}
	})

	// Create new database for import test
	database2, cleanup2 := setupTestDB(t)
	defer cleanup2()
	app2 := newCLIApp(database2, cfg)

	t.Run("import", func(t *testing.T) {
		out, err := runApp(t, app2, "import", "--path="+exportPath)
		if err != nil {
			t.Fatalf("import command failed: %v", err)
		}

		var output ops.ImportOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}

		if output.Imported != 2 {
			t.Errorf("expected imported=2, got %d", output.Imported)
		}
	})
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	app := newCLIApp(database, testConfig())

	t.Run("get not found returns error", func(t *testing.T) {
		_, err := runApp(t, app, "get", "--username=nonexistent")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("add without username returns error", func(t *testing.T) {
		_, err := runApp(t, app, "add")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("set without colors returns error", func(t *testing.T) {
		_, err := runApp(t, app, "set", "--username=nonexistent")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("invalid token returns error", func(t *testing.T) {
		_, err := runApp(t, app, "add", "--theme=chartreuse", "ada")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"swatch"},
			expected: false,
		},
		{
			name:     "add command",
			args:     []string{"swatch", "add"},
			expected: true,
		},
		{
			name:     "backfill command",
			args:     []string{"swatch", "backfill"},
			expected: true,
		},
		{
			name:     "help flag",
			args:     []string{"swatch", "--help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"swatch", "--version"},
			expected: true,
		},
		{
			name:     "unknown arg defaults to MCP",
			args:     []string{"swatch", "--unknown"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save and restore os.Args
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isCLIMode()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"swatch"},
			expected: false,
		},
		{
			name:     "help flag",
			args:     []string{"swatch", "--help"},
			expected: true,
		},
		{
			name:     "help subcommand",
			args:     []string{"swatch", "help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"swatch", "--version"},
			expected: true,
		},
		{
			name:     "add command is not help",
			args:     []string{"swatch", "add"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isHelpOrVersion()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}
