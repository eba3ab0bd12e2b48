package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/company/ui-lab/internal/config"
	"github.com/company/ui-lab/internal/filemanager"
	"github.com/company/ui-lab/internal/resolver"
)

// Options control a single operation.
type Options struct {
	// DryRun performs validation and resolution but no writes or installs.
	DryRun bool
	// ConfirmOverwrite is asked before locally modified files are replaced.
	// Returning false cancels the install before anything is written. Nil
	// overwrites without asking.
	ConfirmOverwrite func(paths []string) bool
}

// InstallResult is the outcome of InstallComponents.
type InstallResult struct {
	Success bool
	DryRun  bool
	// Components is the resolved closure in dependency order, or the
	// requested ids for pre-packaged projects.
	Components []string
	// FilesCreated lists project-relative files written (or that would be).
	FilesCreated []string
	// FilesOverwritten lists existing files whose local edits were replaced
	// (or would be).
	FilesOverwritten []string
	// FilesUnchanged lists files already matching the registry.
	FilesUnchanged []string
	// PackagesInstalled lists name@range specs installed (or that would be).
	PackagesInstalled []string
	Imports           []string
	NextSteps         []string
}

// InstallComponents validates ids, resolves their dependencies, writes the
// component files, installs missing packages and records the components in
// the project config, in that order. Config is persisted only after every
// earlier step succeeded. On failure the returned error is an *Error.
func (i *Installer) InstallComponents(ctx context.Context, ids []string, opts Options) (res *InstallResult, err error) {
	res = &InstallResult{DryRun: opts.DryRun}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			err = i.fail(newError(KindInternal, "unexpected failure: %v", r))
		}
	}()

	cfg, readErr := i.config.Read()
	if readErr != nil {
		return res, i.fail(wrapError(KindNotInitialized, readErr, "project is not initialized"))
	}

	valid, invalid := i.registry.Partition(ids)
	if len(invalid) > 0 {
		e := newError(KindInvalidComponents, "unknown components: %v", invalid)
		e.Components = invalid
		e.Suggestions = make(map[string][]string, len(invalid))
		for _, id := range invalid {
			e.Suggestions[id] = i.registry.Suggest(id, 3)
		}
		return res, i.fail(e)
	}
	if len(valid) == 0 {
		return res, i.fail(newError(KindNoComponentsSpecified, "no components specified"))
	}

	if cfg.InstallationType == config.PrePackaged {
		return i.installPrePackaged(*cfg, valid, opts, res)
	}
	return i.installHeadless(ctx, *cfg, valid, opts, res)
}

// installPrePackaged only records ids; the components ship in the package.
func (i *Installer) installPrePackaged(cfg config.ProjectConfig, ids []string, opts Options, res *InstallResult) (*InstallResult, error) {
	i.logger.Info("Recording pre-packaged components", "components", ids)

	pkg := i.registry.PackageName()
	if !i.packages.IsInstalled(pkg) {
		i.logger.Warn("Component package is not declared in package.json", "package", pkg)
	}

	next := cfg.WithInstalled(ids...)
	if !opts.DryRun {
		if err := i.config.Write(&next); err != nil {
			return res, i.fail(wrapError(KindConfigWriteFailure, err, "could not update %s", config.FileName))
		}
	}

	res.Success = true
	res.Components = ids
	for _, id := range ids {
		res.Imports = append(res.Imports, i.importStatement(id, pkg))
	}
	res.NextSteps = []string{
		fmt.Sprintf("Import the components from `%s` as shown above.", pkg),
		"Run `ui-lab install <component>` again whenever you start using another component.",
	}
	return res, nil
}

func (i *Installer) installHeadless(ctx context.Context, cfg config.ProjectConfig, ids []string, opts Options, res *InstallResult) (*InstallResult, error) {
	i.logger.Info("Resolving dependencies", "requested", ids)

	resolution, err := resolver.NewResolver(i.registry).Resolve(ids)
	if err != nil {
		return res, i.fail(wrapError(KindInternal, err, "dependency resolution failed"))
	}
	if resolution.HasConflicts() {
		e := newError(KindDependencyConflict, "conflicting version ranges for %s", plural(len(resolution.Conflicts), "package"))
		e.Conflicts = resolution.Conflicts
		return res, i.fail(e)
	}
	res.Components = resolution.Components
	i.logger.Debug("Resolved components", "order", resolution.Components, "packages", len(resolution.Packages))

	// component files
	files := i.Files(cfg)
	plan, err := files.Plan(resolution.Components)
	if err != nil {
		return res, i.fail(wrapError(KindFileWriteFailure, err, "could not prepare component files"))
	}
	for _, f := range plan {
		switch f.Action {
		case filemanager.Unchanged:
			res.FilesUnchanged = append(res.FilesUnchanged, f.Path)
		case filemanager.Overwrite:
			res.FilesOverwritten = append(res.FilesOverwritten, f.Path)
		}
	}
	if len(res.FilesOverwritten) > 0 {
		i.logger.Warn("Locally modified files will be replaced", "files", res.FilesOverwritten)
		if !opts.DryRun && opts.ConfirmOverwrite != nil && !opts.ConfirmOverwrite(res.FilesOverwritten) {
			return res, i.fail(newError(KindCancelled, "not overwriting %s", plural(len(res.FilesOverwritten), "modified file")))
		}
	}
	if opts.DryRun {
		for _, f := range plan {
			if f.Action == filemanager.Create {
				res.FilesCreated = append(res.FilesCreated, f.Path)
			}
		}
	} else {
		written, err := files.Apply(ctx, plan)
		for _, f := range written {
			if f.Action == filemanager.Create {
				res.FilesCreated = append(res.FilesCreated, f.Path)
			}
		}
		if err != nil {
			return res, i.fail(wrapError(KindFileWriteFailure, err, "could not write component files"))
		}
	}
	i.logger.Info("Component files ready", "written", len(res.FilesCreated), "unchanged", len(res.FilesUnchanged))

	// external packages
	missing := i.packages.Missing(resolution.Packages)
	if len(missing) > 0 && !opts.DryRun {
		i.logger.Info("Installing packages", "count", len(missing))
		if err := i.packages.Install(ctx, missing); err != nil {
			if errors.Is(err, context.Canceled) {
				return res, i.fail(wrapError(KindCancelled, err, "package installation interrupted"))
			}
			return res, i.fail(wrapError(KindPackageInstallFailure, err, "package installation failed"))
		}
	}
	for _, p := range missing {
		res.PackagesInstalled = append(res.PackagesInstalled, p.Spec())
	}

	if err := ctx.Err(); err != nil {
		return res, i.fail(wrapError(KindCancelled, err, "installation interrupted before the config was updated"))
	}

	// config, only after everything above succeeded
	next := cfg.WithInstalled(resolution.Components...)
	if !opts.DryRun {
		if err := i.config.Write(&next); err != nil {
			return res, i.fail(wrapError(KindConfigWriteFailure, err, "could not update %s", config.FileName))
		}
	}

	res.Success = true
	for _, id := range ids {
		res.Imports = append(res.Imports, i.importStatement(id, i.moduleImport(cfg, id)))
	}
	res.NextSteps = []string{
		fmt.Sprintf("Components live in `%s` and are yours to edit.", files.ComponentDir()),
		"Re-running install for a component restores the registry version of its files.",
	}
	if len(res.PackagesInstalled) > 0 {
		res.NextSteps = append(res.NextSteps, fmt.Sprintf("Added %s to package.json.", plural(len(res.PackagesInstalled), "package")))
	}
	return res, nil
}

func (i *Installer) importStatement(id, from string) string {
	entry, _ := i.registry.Lookup(id)
	return fmt.Sprintf("import { %s } from %q", entry.ExportName, from)
}

// moduleImport is the import specifier of a copied component.
func (i *Installer) moduleImport(cfg config.ProjectConfig, id string) string {
	entry, _ := i.registry.Lookup(id)
	return cfg.ImportPath(entry.Module())
}
