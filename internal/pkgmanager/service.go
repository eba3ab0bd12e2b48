package pkgmanager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/company/ui-lab/internal/detect"
	"github.com/company/ui-lab/internal/registry"
)

// DefaultTimeout bounds a single install invocation.
const DefaultTimeout = 5 * time.Minute

// Service adapts the host package manager of one project root.
type Service struct {
	root     string
	manager  detect.PackageManager
	runner   Runner
	timeout  time.Duration
	progress Progress
}

// Progress wraps a long-running install, e.g. in a spinner. It must pass
// its context to action and return action's error.
type Progress func(ctx context.Context, title string, action func(context.Context) error) error

// Option configures a Service.
type Option func(*Service)

// WithRunner replaces the subprocess runner.
func WithRunner(r Runner) Option {
	return func(s *Service) { s.runner = r }
}

// WithManager overrides lockfile detection.
func WithManager(m detect.PackageManager) Option {
	return func(s *Service) { s.manager = m }
}

// WithTimeout bounds each install; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithProgress wraps each install.
func WithProgress(fn Progress) Option {
	return func(s *Service) { s.progress = fn }
}

// NewService returns a service for root, detecting the manager from lockfiles.
func NewService(root string, opts ...Option) *Service {
	s := &Service{
		root:    root,
		manager: detect.DetectPackageManager(root),
		runner:  ExecRunner{},
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasPackageJSON reports whether the root has a package manifest.
func (s *Service) HasPackageJSON() bool {
	_, err := detect.ReadPackageJSON(s.root)
	return !errors.Is(err, detect.ErrNoPackageJSON)
}

// IsInstalled reports whether name is declared in the project's package.json.
func (s *Service) IsInstalled(name string) bool {
	pkg, err := detect.ReadPackageJSON(s.root)
	if err != nil {
		return false
	}
	_, ok := pkg.Declared(name)
	return ok
}

// Missing filters pkgs down to those not yet declared.
func (s *Service) Missing(pkgs []registry.Package) []registry.Package {
	pkg, err := detect.ReadPackageJSON(s.root)
	if err != nil {
		return pkgs
	}
	var out []registry.Package
	for _, p := range pkgs {
		if _, ok := pkg.Declared(p.Name); !ok {
			out = append(out, p)
		}
	}
	return out
}

// InstallArgs returns the command line that adds specs to the project.
func (s *Service) InstallArgs(specs []string) (string, []string) {
	switch s.manager {
	case detect.PNPM, detect.Yarn, detect.Bun:
		return string(s.manager), append([]string{"add"}, specs...)
	default:
		return "npm", append([]string{"install"}, specs...)
	}
}

// Install adds pkgs to the project through the package manager. A failed or
// timed out run is returned as a *CommandError.
func (s *Service) Install(ctx context.Context, pkgs []registry.Package) error {
	if len(pkgs) == 0 {
		return nil
	}

	specs := make([]string, len(pkgs))
	for i, p := range pkgs {
		specs[i] = p.Spec()
	}
	name, args := s.InstallArgs(specs)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	run := func(ctx context.Context) error {
		return s.runner.Run(ctx, s.root, name, args...)
	}

	var err error
	if s.progress != nil {
		err = s.progress(ctx, fmt.Sprintf("Installing %d package(s) with %s...", len(pkgs), name), run)
	} else {
		err = run(ctx)
	}
	if err == nil {
		return nil
	}

	var cerr *CommandError
	if !errors.As(err, &cerr) {
		cerr = &CommandError{Command: name + " " + args[0], Err: err}
	}
	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		cerr.Err = fmt.Errorf("timed out after %s: %w", s.timeout, context.DeadlineExceeded)
	case ctxErr != nil && !errors.Is(cerr, context.Canceled):
		cerr.Err = fmt.Errorf("interrupted: %w", ctxErr)
	}
	return cerr
}
