// Package installer composes the registry, resolver, config, file writer,
// theme and package manager into the init and install operations.
package installer

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/company/ui-lab/internal/config"
	"github.com/company/ui-lab/internal/filemanager"
	"github.com/company/ui-lab/internal/pkgmanager"
	"github.com/company/ui-lab/internal/registry"
	"github.com/company/ui-lab/internal/theme"
)

// PackageService is the host package manager as seen by the installer.
type PackageService interface {
	HasPackageJSON() bool
	IsInstalled(name string) bool
	// Missing filters pkgs down to those not yet declared.
	Missing(pkgs []registry.Package) []registry.Package
	Install(ctx context.Context, pkgs []registry.Package) error
}

// Installer runs init and install against one project root. It holds no
// state between calls beyond its collaborators.
type Installer struct {
	root     string
	registry *registry.Registry
	themes   *theme.Catalog
	config   *config.Manager
	packages PackageService
	logger   *log.Logger
}

// Option configures an Installer.
type Option func(*Installer)

// WithPackageService replaces the subprocess-backed package service.
func WithPackageService(s PackageService) Option {
	return func(i *Installer) { i.packages = s }
}

// WithLogger sets the step logger.
func WithLogger(l *log.Logger) Option {
	return func(i *Installer) { i.logger = l }
}

// WithThemes replaces the bundled theme presets.
func WithThemes(c *theme.Catalog) Option {
	return func(i *Installer) { i.themes = c }
}

// New creates an installer for root over reg.
func New(root string, reg *registry.Registry, opts ...Option) *Installer {
	i := &Installer{
		root:     root,
		registry: reg,
		config:   config.NewManager(root),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.packages == nil {
		i.packages = pkgmanager.NewService(root)
	}
	if i.themes == nil {
		i.themes = theme.Bundled()
	}
	return i
}

// Config exposes the project's config manager.
func (i *Installer) Config() *config.Manager {
	return i.config
}

// Files returns a file manager laid out according to cfg.
func (i *Installer) Files(cfg config.ProjectConfig) *filemanager.Manager {
	return filemanager.NewManager(i.registry, i.root, filemanager.Layout{
		ComponentDir: cfg.ComponentDir,
		PathAlias:    cfg.PathAlias,
		TypeScript:   cfg.TypeScript,
		UseSrc:       cfg.UseSrc,
	})
}

func (i *Installer) fail(err *Error) error {
	i.logger.Error(err.Message, "kind", err.Kind)
	return err
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
