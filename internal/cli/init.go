package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/company/ui-lab/internal/config"
	"github.com/company/ui-lab/internal/detect"
	"github.com/company/ui-lab/internal/exitcodes"
	"github.com/company/ui-lab/internal/installer"
	"github.com/company/ui-lab/internal/pkgmanager"
	"github.com/company/ui-lab/internal/theme"
	"github.com/company/ui-lab/internal/ui"
)

type initFlags struct {
	preset       string
	mode         string
	typescript   bool
	noTypeScript bool
	headless     bool
	prePackaged  bool
	dryRun       bool
	force        bool
	timeout      time.Duration
}

func (a *App) newInitCmd() *cobra.Command {
	var f initFlags
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up ui-lab in this project",
		Long: "Writes the theme stylesheet block, creates " + config.FileName + " and either scaffolds the\n" +
			"class-name helper (headless) or installs the component package (pre-packaged).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.preset, "preset", "", "theme preset (default "+config.DefaultPreset+")")
	cmd.Flags().StringVar(&f.mode, "mode", "", "colour mode: light or dark (default light)")
	cmd.Flags().BoolVar(&f.typescript, "typescript", false, "write TypeScript sources (default: detected from tsconfig.json)")
	cmd.Flags().BoolVar(&f.noTypeScript, "no-typescript", false, "write JavaScript sources")
	cmd.Flags().BoolVar(&f.headless, "headless", false, "copy component sources into the project (default)")
	cmd.Flags().BoolVar(&f.prePackaged, "pre-packaged", false, "depend on the published component package")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "show what would be done without writing anything")
	cmd.Flags().BoolVar(&f.force, "force", false, "re-initialize an existing project, keeping installed components")
	cmd.Flags().DurationVar(&f.timeout, "timeout", pkgmanager.DefaultTimeout, "package manager timeout")
	cmd.MarkFlagsMutuallyExclusive("headless", "pre-packaged")
	cmd.MarkFlagsMutuallyExclusive("typescript", "no-typescript")

	return cmd
}

func (a *App) runInit(cmd *cobra.Command, f initFlags) error {
	ctx := cmd.Context()

	opts, err := a.initOptions(cmd, f)
	if err != nil {
		return err
	}
	a.debugf("init options: %+v", opts)

	if a.config != nil && opts.Force {
		a.output.Warning("Existing %s found, re-initializing", config.FileName)
	}

	inst, err := a.newInstaller(ctx, f.timeout)
	if err != nil {
		return err
	}

	res, err := inst.Init(ctx, opts)
	if err != nil {
		return installerError(err)
	}

	a.printInit(res)
	return nil
}

// initOptions builds the installer options from flags, detection, and
// prompts when running interactively without any choice flags.
func (a *App) initOptions(cmd *cobra.Command, f initFlags) (installer.InitOptions, error) {
	project := detect.DetectProject(a.projectDir)

	opts := installer.InitOptions{
		Preset:           f.preset,
		Mode:             config.Mode(strings.ToLower(f.mode)),
		TypeScript:       project.TypeScript,
		InstallationType: config.Headless,
		Force:            f.force,
		DryRun:           f.dryRun,
	}
	switch {
	case f.typescript:
		opts.TypeScript = true
	case f.noTypeScript:
		opts.TypeScript = false
	}
	if f.prePackaged {
		opts.InstallationType = config.PrePackaged
	}

	if opts.Mode != "" && !opts.Mode.Valid() {
		return opts, &ExitError{Code: exitcodes.UsageError, Message: fmt.Sprintf("invalid --mode %q (want light or dark)", f.mode)}
	}

	if !a.shouldPromptInit(cmd) {
		return opts, nil
	}

	defaults := ui.InitChoices{
		Preset:           config.DefaultPreset,
		Mode:             string(config.Light),
		InstallationType: string(opts.InstallationType),
		TypeScript:       opts.TypeScript,
	}
	choices, err := ui.PromptInit(theme.Bundled().Names(), defaults)
	if err != nil {
		return opts, &ExitError{Code: exitcodes.Interrupted, Message: "init cancelled"}
	}
	opts.Preset = choices.Preset
	opts.Mode = config.Mode(choices.Mode)
	opts.InstallationType = config.InstallationType(choices.InstallationType)
	opts.TypeScript = choices.TypeScript
	return opts, nil
}

func (a *App) shouldPromptInit(cmd *cobra.Command) bool {
	if a.interactive == nil || !a.interactive() {
		return false
	}
	for _, name := range []string{"preset", "mode", "typescript", "no-typescript", "headless", "pre-packaged", "dry-run"} {
		if cmd.Flags().Changed(name) {
			return false
		}
	}
	return true
}

func (a *App) printInit(res *installer.InitResult) {
	verb := "Created"
	if res.DryRun {
		verb = "Would create"
		a.output.Warning("Dry run: nothing was written")
	}
	for _, path := range res.FilesCreated {
		a.output.Info("  %s %s", a.output.Dim(verb), path)
	}
	for _, spec := range res.PackagesInstalled {
		if res.DryRun {
			a.output.Info("  %s %s", a.output.Dim("Would install"), spec)
		} else {
			a.output.Info("  %s %s", a.output.Dim("Installed"), spec)
		}
	}

	cfg := res.Config
	a.output.Success("Initialized ui-lab (%s, preset %s, %s mode)",
		cfg.InstallationType, a.output.Highlight(cfg.Theme.Preset), cfg.Theme.Mode)
	a.output.Markdown(nextStepsMarkdown(res.NextSteps))
}

func nextStepsMarkdown(steps []string) string {
	if len(steps) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Next steps\n\n")
	for i, s := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}
