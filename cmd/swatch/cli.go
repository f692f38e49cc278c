package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pcavett/swatch/internal/config"
	"github.com/pcavett/swatch/internal/errors"
	"github.com/pcavett/swatch/internal/ops"
	"github.com/pcavett/swatch/internal/palette"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "swatch",
		Usage:   "Local user color preference store",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db),
			getCmd(db),
			setCmd(db),
			deleteCmd(db),
			listCmd(db),
			backfillCmd(db),
			verifyCmd(db),
			exportCmd(db, cfg),
			importCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a user preference record",
		ArgsUsage: "<username>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "Theme color token (default: " + palette.DefaultTheme + ")"},
			&cli.StringFlag{Name: "surface", Aliases: []string{"s"}, Usage: "Surface color token (default: " + palette.DefaultSurface + ")"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("username is required"))
			}
			if err := rejectExtraArgs(c); err != nil {
				return err
			}

			input := ops.AddInput{Username: c.Args().First()}
			if theme := c.String("theme"); theme != "" {
				input.ThemeColor = &theme
			}
			if surface := c.String("surface"); surface != "" {
				input.SurfaceColor = &surface
			}

			output, err := ops.Add(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// getCmd creates the get command.
func getCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Get a record by ID or username",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Look up by username"},
		},
		Action: func(c *cli.Context) error {
			if err := rejectExtraArgs(c); err != nil {
				return err
			}

			input := ops.GetInput{}

			// Check for positional ID argument
			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Username = c.String("username")
			}

			output, err := ops.Get(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// setCmd creates the set command.
func setCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Update a record's color choices",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Look up by username"},
			&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "New theme color token"},
			&cli.StringFlag{Name: "surface", Aliases: []string{"s"}, Usage: "New surface color token"},
		},
		Action: func(c *cli.Context) error {
			if err := rejectExtraArgs(c); err != nil {
				return err
			}

			input := ops.SetInput{}

			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Username = c.String("username")
			}

			if theme := c.String("theme"); theme != "" {
				input.ThemeColor = &theme
			}
			if surface := c.String("surface"); surface != "" {
				input.SurfaceColor = &surface
			}

			output, err := ops.Set(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a record",
		ArgsUsage: "[id]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Look up by username"},
		},
		Action: func(c *cli.Context) error {
			if err := rejectExtraArgs(c); err != nil {
				return err
			}

			input := ops.DeleteInput{}

			if c.NArg() > 0 {
				input.ID = c.Args().First()
			} else {
				input.Username = c.String("username")
			}

			output, err := ops.Delete(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List records ordered by username",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ListInput{
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			}

			output, err := ops.List(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// backfillCmd creates the backfill command.
func backfillCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "backfill",
		Usage: "Rewrite missing or deprecated theme colors to the canonical default",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Emit JSON instead of the human-readable report"},
		},
		Action: func(c *cli.Context) error {
			jsonOut := c.Bool("json")
			if !jsonOut {
				fmt.Printf("Updating theme colors to %q...\n", palette.DefaultTheme)
			}

			output, err := ops.Backfill(c.Context, db, ops.BackfillInput{})
			if err != nil {
				return outputError(err)
			}

			if jsonOut {
				return outputJSON(output)
			}

			printBackfillReport(output)
			return nil
		},
	}
}

// printBackfillReport renders the backfill result as a human-readable report:
// the affected count followed by a listing of every record's final state.
func printBackfillReport(output *ops.BackfillOutput) {
	fmt.Println(output.Message)
	if len(output.Records) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%-28s %-24s %-12s %s\n", "ID", "USERNAME", "THEME", "SURFACE")
	for _, v := range output.Records {
		fmt.Printf("%-28s %-24s %-12s %s\n", v.ID, v.Username, tokenOrDash(v.ThemeColor), tokenOrDash(v.SurfaceColor))
	}
}

func tokenOrDash(token *string) string {
	if token == nil {
		return "-"
	}
	return *token
}

// verifyCmd creates the verify command.
func verifyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Report records whose theme color is missing, deprecated, or unknown",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "records", Usage: "Include the offending records in the output"},
		},
		Action: func(c *cli.Context) error {
			input := ops.VerifyInput{
				IncludeRecords: c.Bool("records"),
			}

			output, err := ops.Verify(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export records to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.swatch/exports/users-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path: c.String("path"),
			}

			output, err := ops.Export(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import records from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			}

			output, err := ops.Import(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// rejectExtraArgs fails when more than one positional argument is present.
// Flag parsing stops at the first positional argument, so a flag placed
// after it would otherwise be silently ignored instead of applied.
func rejectExtraArgs(c *cli.Context) error {
	if c.NArg() > 1 {
		return outputError(errors.NewInvalidRequest(
			fmt.Sprintf("unexpected argument %q; flags must come before positional arguments", c.Args().Get(1))))
	}
	return nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if swatchErr, ok := err.(*errors.SwatchError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", swatchErr.Code, swatchErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
