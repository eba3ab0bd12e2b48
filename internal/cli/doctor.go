package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/company/ui-lab/internal/config"
	"github.com/company/ui-lab/internal/detect"
	"github.com/company/ui-lab/internal/exitcodes"
	"github.com/company/ui-lab/internal/injector"
	"github.com/company/ui-lab/internal/installer"
	"github.com/company/ui-lab/internal/pkgmanager"
	"github.com/company/ui-lab/internal/resolver"
)

func (a *App) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose common issues",
		Long: "Checks the project config, package.json, theme stylesheet, installed component files and\n" +
			"the npm packages they need.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDoctor()
		},
	}
}

func (a *App) runDoctor() error {
	problems := 0
	fail := func(format string, args ...any) {
		a.output.Error(format, args...)
		problems++
	}

	// 1. Config file
	m := config.NewManager(a.projectDir)
	cfg, err := m.Read()
	switch {
	case err == nil:
		a.output.Success("%s found (%s)", config.FileName, cfg.InstallationType)
	case errors.Is(err, config.ErrNotInitialized):
		fail("%s not found, run: ui-lab init", config.FileName)
		return a.doctorResult(problems)
	default:
		fail("%s invalid: %v", config.FileName, err)
		return a.doctorResult(problems)
	}

	// 2. package.json and package manager
	if _, err := detect.ReadPackageJSON(a.projectDir); err != nil {
		fail("package.json: %v", err)
	} else {
		a.output.Success("package.json found (package manager: %s)", detect.DetectPackageManager(a.projectDir))
	}

	// 3. Theme block
	if r, ok := injector.FindTheme(a.projectDir, cfg.UseSrc); ok {
		a.output.Success("%s has the theme block", r.Path)
	} else {
		fail("theme block not found in %s, run: ui-lab init --force", r.Path)
	}

	reg, err := a.Registry()
	if err != nil {
		return err
	}
	installed := cfg.InstalledComponents.Sorted()
	valid, unknown := reg.Partition(installed)
	for _, id := range unknown {
		a.output.Warning("%s is recorded as installed but is not in the registry", id)
	}
	if len(valid) == 0 {
		a.output.Info("No components installed yet")
		return a.doctorResult(problems)
	}

	packages := a.packageService(pkgmanager.DefaultTimeout)

	// 4. Component files
	if cfg.InstallationType == config.PrePackaged {
		if name := reg.PackageName(); packages.IsInstalled(name) {
			a.output.Success("%s is declared in package.json", name)
		} else {
			fail("%s is not declared in package.json, run: ui-lab init --force --pre-packaged", name)
		}
		return a.doctorResult(problems)
	}

	inst := installer.New(a.projectDir, reg, installer.WithPackageService(packages))
	results, err := inst.Files(*cfg).VerifyAll(valid)
	if err != nil {
		return err
	}
	filesOK := true
	for _, r := range results {
		if r.OK {
			continue
		}
		filesOK = false
		if len(r.Missing) > 0 {
			fail("%s: missing %s", r.Component, strings.Join(r.Missing, ", "))
		}
		if len(r.Modified) > 0 {
			a.output.Warning("%s: locally modified %s", r.Component, strings.Join(r.Modified, ", "))
		}
	}
	if filesOK {
		a.output.Success("All %d component(s) match the registry", len(results))
	}

	// 5. npm packages
	res, err := resolver.NewResolver(reg).Resolve(valid)
	if err != nil {
		return err
	}
	var missing []string
	for _, p := range packages.Missing(res.Packages) {
		missing = append(missing, p.Spec())
	}
	if len(missing) > 0 {
		fail("missing packages: %s, run: ui-lab install %s", strings.Join(missing, ", "), strings.Join(valid, " "))
	} else {
		a.output.Success("All %d required package(s) declared", len(res.Packages))
	}

	return a.doctorResult(problems)
}

func (a *App) doctorResult(problems int) error {
	if problems == 0 {
		a.output.Println("")
		a.output.Success("Everything looks good!")
		return nil
	}
	return &ExitError{Code: exitcodes.ConfigError, Message: fmt.Sprintf("doctor found %d problem(s)", problems)}
}
