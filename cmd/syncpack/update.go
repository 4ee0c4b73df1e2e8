package main

import (
	"time"

	"github.com/spf13/cobra"

	gosyncpack "github.com/albertocavalcante/go-syncpack"
	"github.com/albertocavalcante/go-syncpack/internal/config"
)

// newUpdateCommand creates the `syncpack update` command.
func newUpdateCommand(app *App) *cobra.Command {
	var (
		target      string
		registries  []string
		concurrency int
		prerelease  bool
		cacheDir    string
		cacheMaxAge time.Duration
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Plan upgrades to the newest versions published on the registry",
		Long: `Fetch the published versions of every dependency that prefers the highest
semver and show the changes that would move the workspace onto them.
Registry failures are reported and leave the dependency on the versions
already in use.

Examples:
  syncpack update                          Any newer version
  syncpack update --target minor           Stay on the current major
  syncpack update --registry file:///srv/npm-mirror`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := app.outputFormat()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			opts, err := app.options(cmd, func(c *config.Config) {
				if flags.Changed("target") {
					c.Update.Target = target
				}
				if flags.Changed("registry") {
					c.Registries = registries
				}
				if flags.Changed("concurrency") {
					c.Update.Concurrency = concurrency
				}
				if flags.Changed("prerelease") {
					c.Update.AllowPrerelease = prerelease
				}
			})
			if err != nil {
				return err
			}
			if cacheDir != "" {
				cache, err := gosyncpack.NewDirCache(cacheDir, cacheMaxAge)
				if err != nil {
					return err
				}
				opts = append(opts, gosyncpack.WithCache(cache))
			}

			r, err := gosyncpack.Update(cmd.Context(), app.cwd, opts...)
			if err != nil {
				return err
			}
			return renderPlan(cmd, format, gosyncpack.NewPlan(r))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&target, "target", string(gosyncpack.TargetLatest), "how far to move: latest, minor or patch")
	flags.StringArrayVar(&registries, "registry", nil, "registry URL, in priority order (repeatable; file:// for a local mirror)")
	flags.IntVar(&concurrency, "concurrency", gosyncpack.DefaultConcurrency, "parallel registry requests")
	flags.BoolVar(&prerelease, "prerelease", false, "allow pre-release versions")
	flags.StringVar(&cacheDir, "cache-dir", "", "keep fetched packuments in this directory between runs")
	flags.DurationVar(&cacheMaxAge, "cache-max-age", time.Hour, "refetch cached packuments older than this (0 keeps them forever)")
	return cmd
}
