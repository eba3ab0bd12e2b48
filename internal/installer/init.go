package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/company/ui-lab/internal/config"
	"github.com/company/ui-lab/internal/detect"
	"github.com/company/ui-lab/internal/injector"
	"github.com/company/ui-lab/internal/registry"
)

// InitOptions are the choices made at project bootstrap.
type InitOptions struct {
	Preset           string
	Mode             config.Mode
	TypeScript       bool
	InstallationType config.InstallationType
	// Force skips the already-initialized check and merges into the
	// existing config.
	Force  bool
	DryRun bool
}

// InitResult is the outcome of Init.
type InitResult struct {
	Success bool
	DryRun  bool
	Config  config.ProjectConfig
	// ThemePath is the stylesheet holding the theme block.
	ThemePath         string
	FilesCreated      []string
	PackagesInstalled []string
	NextSteps         []string
}

// Init bootstraps a project: theme stylesheet, config file, and either the
// class-name helper (headless) or the component package (pre-packaged).
// On failure the returned error is an *Error.
func (i *Installer) Init(ctx context.Context, opts InitOptions) (res *InitResult, err error) {
	res = &InitResult{DryRun: opts.DryRun}
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			err = i.fail(newError(KindInternal, "unexpected failure: %v", r))
		}
	}()

	if !opts.Force && i.config.IsInitialized() {
		return res, i.fail(newError(KindAlreadyInitialized, "project already initialized (%s exists)", config.FileName))
	}

	if !i.packages.HasPackageJSON() {
		return res, i.fail(newError(KindNoPackageManifest, "no package.json found in %s", i.root))
	}

	if opts.Preset == "" {
		opts.Preset = config.DefaultPreset
	}
	if !i.themes.Known(opts.Preset) {
		return res, i.fail(newError(KindUnknownPreset, "unknown theme preset %q (available: %s)",
			opts.Preset, strings.Join(i.themes.Names(), ", ")))
	}
	if opts.Mode == "" {
		opts.Mode = config.Light
	}
	if opts.InstallationType == "" {
		opts.InstallationType = config.Headless
	}
	if !opts.Mode.Valid() || !opts.InstallationType.Valid() {
		return res, i.fail(newError(KindInvalidOptions, "invalid mode %q or installation type %q", opts.Mode, opts.InstallationType))
	}

	cfg := i.mergeConfig(opts)
	res.Config = cfg

	// theme stylesheet
	css, cssErr := i.themes.GenerateCSS(cfg.Theme.Preset, string(cfg.Theme.Mode))
	if cssErr != nil {
		return res, i.fail(wrapError(KindInternal, cssErr, "could not generate theme"))
	}
	if opts.DryRun {
		res.ThemePath, _ = injector.StylesheetPaths(cfg.UseSrc)
	} else {
		path, err := injector.WriteTheme(i.root, cfg.UseSrc, css)
		if err != nil {
			return res, i.fail(wrapError(KindFileWriteFailure, err, "could not write theme stylesheet"))
		}
		res.ThemePath = path
	}
	res.ThemePath = filepath.ToSlash(res.ThemePath)
	res.FilesCreated = append(res.FilesCreated, res.ThemePath)
	i.logger.Info("Theme written", "preset", cfg.Theme.Preset, "mode", cfg.Theme.Mode, "path", res.ThemePath)

	// config
	if !opts.DryRun {
		if err := i.config.Write(&cfg); err != nil {
			return res, i.fail(wrapError(KindConfigWriteFailure, err, "could not write %s", config.FileName))
		}
	}
	res.FilesCreated = append(res.FilesCreated, config.FileName)
	i.logger.Info("Config written", "path", config.FileName, "installationType", cfg.InstallationType)

	switch cfg.InstallationType {
	case config.PrePackaged:
		if err := i.installPackage(ctx, opts, res); err != nil {
			return res, err
		}
	default:
		if err := i.scaffoldUtils(ctx, cfg, opts, res); err != nil {
			return res, err
		}
	}

	res.Success = true
	res.NextSteps = i.initNextSteps(cfg, res.ThemePath)
	return res, nil
}

// mergeConfig keeps path conventions and installed components from an
// existing config and applies the new choices on top.
func (i *Installer) mergeConfig(opts InitOptions) config.ProjectConfig {
	if existing, err := i.config.Read(); err == nil {
		cfg := *existing
		cfg.Theme = config.Theme{Preset: opts.Preset, Mode: opts.Mode}
		cfg.TypeScript = opts.TypeScript
		cfg.InstallationType = opts.InstallationType
		i.logger.Debug("Merging with existing config", "componentDir", cfg.ComponentDir)
		return cfg
	}

	cfg := config.CreateDefaultConfig(opts.Preset, opts.Mode, opts.TypeScript, opts.InstallationType)
	cfg.UseSrc = detect.DetectProject(i.root).UseSrc
	return cfg
}

func (i *Installer) installPackage(ctx context.Context, opts InitOptions, res *InitResult) error {
	spec := i.registry.PackageSpec()
	if i.packages.IsInstalled(spec.Name) {
		i.logger.Info("Component package already declared", "package", spec.Name)
		return nil
	}
	if !opts.DryRun {
		if err := i.packages.Install(ctx, []registry.Package{spec}); err != nil {
			return i.fail(wrapError(KindPackageInstallFailure, err, "could not install %s", spec.Name))
		}
	}
	res.PackagesInstalled = append(res.PackagesInstalled, spec.Spec())
	return nil
}

func (i *Installer) scaffoldUtils(ctx context.Context, cfg config.ProjectConfig, opts InitOptions, res *InitResult) error {
	files := i.Files(cfg)

	var (
		f   = files.UtilsPath()
		err error
	)
	if opts.DryRun {
		_, err = files.PlanUtils()
	} else {
		_, err = files.WriteUtils(ctx)
	}
	if err != nil {
		return i.fail(wrapError(KindFileWriteFailure, err, "could not write %s", f))
	}
	res.FilesCreated = append(res.FilesCreated, f)
	i.logger.Info("Utilities scaffolded", "path", f)
	return nil
}

func (i *Installer) initNextSteps(cfg config.ProjectConfig, themePath string) []string {
	steps := []string{
		fmt.Sprintf("Import `%s` once in your root layout so the theme variables apply.", themePath),
	}
	if cfg.InstallationType == config.PrePackaged {
		return append(steps,
			fmt.Sprintf("Add components with `ui-lab install button card`; they are imported from `%s`.", i.registry.PackageName()),
		)
	}
	return append(steps,
		fmt.Sprintf("Add components with `ui-lab install button card`; sources are copied into `%s`.", cfg.ComponentDir),
		fmt.Sprintf("Make sure the `%s` alias resolves in your bundler and tsconfig paths.", cfg.PathAlias),
	)
}
