package main

import (
	"fmt"

	"github.com/spf13/cobra"

	gosyncpack "github.com/albertocavalcante/go-syncpack"
	"github.com/albertocavalcante/go-syncpack/internal/config"
	"github.com/albertocavalcante/go-syncpack/internal/report"
)

// newLintCommand creates the `syncpack lint` command.
func newLintCommand(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Fail when dependencies are out of sync",
		Long: `Check every dependency of the workspace and exit with status 1 when any
instance is fixable, unfixable or conflicting. With --strict, suspect
instances such as a package without a valid version also fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := app.outputFormat()
			if err != nil {
				return err
			}
			opts, err := app.options(cmd, func(c *config.Config) {
				if cmd.Flags().Changed("strict") {
					c.Strict = strict
				}
			})
			if err != nil {
				return err
			}

			r, err := gosyncpack.Check(cmd.Context(), app.cwd, opts...)
			if err != nil {
				return err
			}
			if err := render(cmd, format, r, report.Options{}); err != nil {
				return err
			}

			if r.HasIssues() {
				cmd.SilenceErrors = true
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "count suspect instances as issues")
	return cmd
}

// render writes a report in the selected format to the command's stdout.
func render(cmd *cobra.Command, format report.Format, r *gosyncpack.Report, opts report.Options) error {
	w := cmd.OutOrStdout()
	switch format {
	case report.FormatJSON:
		return report.JSON(w, r)
	case report.FormatText:
		return report.Text(w, r, opts)
	}
	return fmt.Errorf("unsupported format %q", format)
}
