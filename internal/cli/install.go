package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/company/ui-lab/internal/exitcodes"
	"github.com/company/ui-lab/internal/installer"
	"github.com/company/ui-lab/internal/pkgmanager"
	"github.com/company/ui-lab/internal/ui"
)

func (a *App) newInstallCmd() *cobra.Command {
	var (
		dryRun  bool
		yes     bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:     "install [component...]",
		Aliases: []string{"add"},
		Short:   "Install components and their dependencies",
		Long: "Resolves the requested components together with the components and npm packages they\n" +
			"depend on, writes the component sources (headless) and records them in the project config.\n" +
			"Without arguments an interactive picker is shown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInstall(cmd, args, dryRun, yes, timeout)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be done without writing anything")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite locally modified files without asking")
	cmd.Flags().DurationVar(&timeout, "timeout", pkgmanager.DefaultTimeout, "package manager timeout")
	return cmd
}

func (a *App) runInstall(cmd *cobra.Command, ids []string, dryRun, yes bool, timeout time.Duration) error {
	ctx := cmd.Context()
	interactive := a.interactive != nil && a.interactive()

	if len(ids) == 0 && interactive {
		selected, err := a.pickComponents()
		if err != nil {
			return err
		}
		ids = selected
	}
	a.debugf("install requested: %v", ids)

	inst, err := a.newInstaller(ctx, timeout)
	if err != nil {
		return err
	}

	opts := installer.Options{DryRun: dryRun}
	if interactive && !yes && a.confirm != nil {
		opts.ConfirmOverwrite = a.confirmOverwrite
	}

	res, err := inst.InstallComponents(ctx, ids, opts)
	if err != nil {
		return installerError(err)
	}

	a.printInstall(res)
	return nil
}

func (a *App) confirmOverwrite(paths []string) bool {
	for _, path := range paths {
		a.output.Warning("%s has local changes", path)
	}
	ok, err := a.confirm(fmt.Sprintf("Overwrite %d modified file(s)?", len(paths)))
	return err == nil && ok
}

func (a *App) pickComponents() ([]string, error) {
	reg, err := a.Registry()
	if err != nil {
		return nil, err
	}

	options := make([]ui.ComponentOption, 0, reg.Len())
	for _, id := range reg.IDs() {
		e, _ := reg.Lookup(id)
		options = append(options, ui.ComponentOption{
			ID:          id,
			Description: e.Description,
			Category:    e.Category,
			Installed:   a.config != nil && a.config.InstalledComponents.Has(id),
		})
	}

	selected, err := ui.SelectComponents(options)
	if err != nil {
		return nil, &ExitError{Code: exitcodes.Interrupted, Message: "install cancelled"}
	}
	return selected, nil
}

func (a *App) printInstall(res *installer.InstallResult) {
	if res.DryRun {
		a.output.Warning("Dry run: nothing was written")
	}

	created, overwrote, installed := "Created", "Overwrote", "Installed"
	if res.DryRun {
		created, overwrote, installed = "Would create", "Would overwrite", "Would install"
	}
	for _, path := range res.FilesCreated {
		a.output.Info("  %s %s", a.output.Dim(created), path)
	}
	for _, path := range res.FilesOverwritten {
		a.output.Warning("%s locally modified %s", overwrote, path)
	}
	if n := len(res.FilesUnchanged); n > 0 {
		a.output.Info("  %s %d unchanged file(s)", a.output.Dim("Skipped"), n)
	}
	for _, spec := range res.PackagesInstalled {
		a.output.Info("  %s %s", a.output.Dim(installed), spec)
	}

	a.output.Success("%d component(s) ready: %s", len(res.Components), strings.Join(res.Components, ", "))

	if len(res.Imports) > 0 {
		a.output.Markdown("```tsx\n" + strings.Join(res.Imports, "\n") + "\n```\n")
	}
	a.output.Markdown(nextStepsMarkdown(res.NextSteps))
}
