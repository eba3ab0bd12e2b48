// Package cli implements the ui-lab command-line interface.
//
// Commands share an App that carries the project directory, the component
// registry and the styled output. Step logging goes through a
// charmbracelet/log logger attached to the command context; --debug lowers
// its level.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/company/ui-lab/internal/config"
	"github.com/company/ui-lab/internal/exitcodes"
	"github.com/company/ui-lab/internal/installer"
	"github.com/company/ui-lab/internal/pkgmanager"
	"github.com/company/ui-lab/internal/registry"
	"github.com/company/ui-lab/internal/ui"
)

// App is the dependency container for all CLI commands.
type App struct {
	rootCmd *cobra.Command
	version string
	commit  string
	date    string

	output   *ui.Output
	logOut   io.Writer
	registry *registry.Registry
	config   *config.ProjectConfig

	projectDir   string
	registryPath string
	debug        bool
	noColor      bool

	// packages replaces the subprocess package service when set.
	packages installer.PackageService
	// interactive reports whether prompts may be shown.
	interactive func() bool
	// confirm asks a yes/no question.
	confirm func(title string) (bool, error)
}

// NewApp creates the root command and registers all subcommands.
func NewApp(version, commit, date string) *App {
	app := &App{
		version:     version,
		commit:      commit,
		date:        date,
		output:      ui.NewOutput(),
		logOut:      os.Stderr,
		interactive: ui.IsInteractive,
		confirm:     ui.Confirm,
	}

	root := &cobra.Command{
		Use:   "ui-lab",
		Short: "Install ui-lab components into your project",
		Long: "Bootstraps a project for ui-lab (theme, config, utilities) and installs components\n" +
			"together with their component and npm dependencies.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envDir := os.Getenv("UI_LAB_DIR"); envDir != "" && !cmd.Flags().Changed("dir") {
				app.projectDir = envDir
			}
			if envRegistry := os.Getenv("UI_LAB_REGISTRY"); envRegistry != "" && app.registryPath == "" {
				app.registryPath = envRegistry
			}
			if isSet(os.Getenv("UI_LAB_DEBUG")) {
				app.debug = true
			}
			if app.noColor || os.Getenv("NO_COLOR") != "" {
				app.output.SetNoColor(true)
			}

			level := log.InfoLevel
			if app.debug {
				level = log.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(app.logOut, level)))

			if err := app.LoadProjectConfig(); err != nil {
				loggerFromContext(cmd.Context()).Debug("Ignoring unreadable project config", "file", config.FileName, "err", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.projectDir, "dir", ".", "project directory (overrides UI_LAB_DIR)")
	root.PersistentFlags().StringVar(&app.registryPath, "registry", "", "component catalog file (overrides UI_LAB_REGISTRY)")
	root.PersistentFlags().BoolVar(&app.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&app.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		app.newInitCmd(),
		app.newInstallCmd(),
		app.newListCmd(),
		app.newSearchCmd(),
		app.newInfoCmd(),
		app.newDoctorCmd(),
		app.newVersionCmd(),
	)

	app.rootCmd = root
	return app
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func (a *App) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.rootCmd.ExecuteContext(ctx)
}

// LoadProjectConfig reads ui-lab.config.json if present. A missing config is
// not an error.
func (a *App) LoadProjectConfig() error {
	a.config = nil
	c, err := config.NewManager(a.projectDir).Read()
	if errors.Is(err, config.ErrNotInitialized) {
		return nil
	}
	if err != nil {
		return err
	}
	a.config = c
	return nil
}

// Registry returns the component registry, loading it on first use.
func (a *App) Registry() (*registry.Registry, error) {
	if a.registry != nil {
		return a.registry, nil
	}

	var (
		reg *registry.Registry
		err error
	)
	if a.registryPath != "" {
		reg, err = registry.LoadFile(a.registryPath)
	} else {
		reg, err = registry.Bundled()
	}
	if err != nil {
		return nil, &ExitError{Code: exitcodes.ConfigError, Message: fmt.Sprintf("loading component registry: %v", err)}
	}
	a.registry = reg
	return reg, nil
}

// newInstaller builds an installer for the project directory.
func (a *App) newInstaller(ctx context.Context, timeout time.Duration) (*installer.Installer, error) {
	reg, err := a.Registry()
	if err != nil {
		return nil, err
	}

	return installer.New(a.projectDir, reg,
		installer.WithLogger(loggerFromContext(ctx)),
		installer.WithPackageService(a.packageService(timeout)),
	), nil
}

// packageService returns the host package manager for the project.
func (a *App) packageService(timeout time.Duration) installer.PackageService {
	if a.packages != nil {
		return a.packages
	}
	return pkgmanager.NewService(a.projectDir,
		pkgmanager.WithTimeout(timeout),
		pkgmanager.WithProgress(ui.WithSpinner),
	)
}

// installerError converts an installer failure into an ExitError.
func installerError(err error) error {
	var ie *installer.Error
	if !errors.As(err, &ie) {
		return err
	}
	msg := ie.Error()
	if details := ie.Details(); len(details) > 0 {
		msg += "\n  " + strings.Join(details, "\n  ")
	}
	return &ExitError{Code: exitcodes.ForKind(ie.Kind), Message: msg}
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			a.output.Info("ui-lab %s (commit: %s, built: %s)", a.version, a.commit, a.date)
		},
	}
}

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// debugf prints a debug message if debug mode is enabled.
func (a *App) debugf(format string, args ...any) {
	if a.debug {
		a.output.Debug(format, args...)
	}
}

func isSet(v string) bool {
	return v != "" && v != "0" && v != "false"
}
