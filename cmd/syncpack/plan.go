package main

import (
	"github.com/spf13/cobra"

	gosyncpack "github.com/albertocavalcante/go-syncpack"
	"github.com/albertocavalcante/go-syncpack/internal/report"
)

// newPlanCommand creates the `syncpack plan` command.
func newPlanCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show the changes that would fix every fixable instance",
		Long: `Show the package.json edits that would make every fixable instance valid.
No file is written. Fixes for versions read through a pnpm catalog are
listed separately since they belong in pnpm-workspace.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := app.outputFormat()
			if err != nil {
				return err
			}
			opts, err := app.options(cmd, nil)
			if err != nil {
				return err
			}
			r, err := gosyncpack.Check(cmd.Context(), app.cwd, opts...)
			if err != nil {
				return err
			}
			return renderPlan(cmd, format, gosyncpack.NewPlan(r))
		},
	}
}

func renderPlan(cmd *cobra.Command, format report.Format, p *gosyncpack.Plan) error {
	if format == report.FormatJSON {
		return report.JSON(cmd.OutOrStdout(), p)
	}
	return report.PlanText(cmd.OutOrStdout(), p)
}
