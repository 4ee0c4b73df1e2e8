package main

import (
	"github.com/spf13/cobra"

	gosyncpack "github.com/albertocavalcante/go-syncpack"
	"github.com/albertocavalcante/go-syncpack/internal/report"
)

// newListCommand creates the `syncpack list` command.
func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every dependency and the state of each instance",
		Args:  cobra.NoArgs,
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
			return render(cmd, format, r, report.Options{All: true})
		},
	}
}
