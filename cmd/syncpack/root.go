package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	gosyncpack "github.com/albertocavalcante/go-syncpack"
	"github.com/albertocavalcante/go-syncpack/internal/config"
	"github.com/albertocavalcante/go-syncpack/internal/report"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// App holds the global flags shared by every command.
type App struct {
	cwd             string
	configFile      string
	sources         []string
	dependencies    []string
	dependencyTypes []string
	specifierTypes  []string
	verbose         bool
	logLevel        string
	format          string
}

func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "syncpack",
		Short: "Consistent dependency versions across a monorepo",
		Long: TitleStyle.Render("syncpack") + SubtitleStyle.Render(" - Consistent dependency versions across a monorepo") + `

syncpack reads every package.json of a workspace, groups the dependency
occurrences by name and checks them against the configured version and
semver groups.

Configuration is read from .syncpackrc (JSON or YAML), .syncpackrc.json,
.syncpackrc.yaml, .syncpackrc.yml or the "syncpack" key of the root
package.json. SYNCPACK_* environment variables override it.

` + SubtitleStyle.Render("Examples:") + `
  syncpack lint                 Fail when any dependency is out of sync
  syncpack list --format json   Show every dependency and its state
  syncpack plan                 Show the changes that would fix the workspace
  syncpack update --target minor  Check the registry for newer versions`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&app.cwd, "cwd", "C", ".", "workspace root")
	flags.StringVar(&app.configFile, "config", "", "config file (default is .syncpackrc in the workspace root)")
	flags.StringArrayVar(&app.sources, "source", nil, "package.json glob, replacing workspace discovery (repeatable)")
	flags.StringSliceVar(&app.dependencies, "dependencies", nil, "only check dependencies matching these globs; prefix with ! to exclude")
	flags.StringSliceVar(&app.dependencyTypes, "dependency-types", nil, "only check these dependency types, e.g. prod,dev or !peer")
	flags.StringSliceVar(&app.specifierTypes, "specifier-types", nil, "only check these specifier kinds, e.g. exact,range")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&app.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVarP(&app.format, "format", "f", string(report.FormatText), "output format (text, json)")

	rootCmd.AddCommand(newLintCommand(app))
	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newPlanCommand(app))
	rootCmd.AddCommand(newUpdateCommand(app))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

func execute() {
	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(&App{}),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// logger returns a slog logger backed by charmbracelet/log on w.
func (a *App) logger(w io.Writer) (*slog.Logger, error) {
	level := log.WarnLevel
	if a.logLevel != "" {
		l, err := log.ParseLevel(a.logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		level = l
	}
	if a.verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{Prefix: "syncpack", Level: level})
	return slog.New(handler), nil
}

// options loads the workspace configuration, applies flag overrides and
// returns the options for gosyncpack.Check and gosyncpack.Update. Commands
// may adjust the configuration through override before it is converted.
func (a *App) options(cmd *cobra.Command, override func(*config.Config)) ([]gosyncpack.Option, error) {
	logger, err := a.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	cfg, source, err := config.Load(cmd.Context(), config.LoadOptions{Dir: a.cwd, File: a.configFile})
	if err != nil {
		return nil, err
	}
	if source != "" {
		logger.Debug("loaded configuration", "source", source)
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = a.sources
	}
	if flags.Changed("dependencies") {
		cfg.Filter = a.dependencies
	}
	if flags.Changed("dependency-types") {
		cfg.DependencyTypes = a.dependencyTypes
	}
	if flags.Changed("specifier-types") {
		cfg.SpecifierTypes = a.specifierTypes
	}
	if override != nil {
		override(cfg)
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return append(opts, gosyncpack.WithLogger(logger)), nil
}

// outputFormat validates the --format flag.
func (a *App) outputFormat() (report.Format, error) {
	return report.ParseFormat(a.format)
}
