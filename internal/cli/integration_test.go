package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/company/ui-lab/internal/config"
	"github.com/company/ui-lab/internal/exitcodes"
	"github.com/company/ui-lab/internal/injector"
	"github.com/company/ui-lab/internal/registry"
	"github.com/company/ui-lab/internal/ui"
)

type fakePackages struct {
	installed map[string]bool
	installs  [][]string
}

func (f *fakePackages) HasPackageJSON() bool { return true }

func (f *fakePackages) IsInstalled(name string) bool { return f.installed[name] }

func (f *fakePackages) Install(_ context.Context, pkgs []registry.Package) error {
	var specs []string
	for _, p := range pkgs {
		specs = append(specs, p.Spec())
		f.installed[p.Name] = true
	}
	f.installs = append(f.installs, specs)
	return nil
}

func (f *fakePackages) Missing(pkgs []registry.Package) []registry.Package {
	var missing []registry.Package
	for _, p := range pkgs {
		if !f.installed[p.Name] {
			missing = append(missing, p)
		}
	}
	return missing
}

func newFakePackages() *fakePackages {
	return &fakePackages{installed: make(map[string]bool)}
}

// setupProject creates a TypeScript project with a package.json.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"package.json":  `{"name": "web", "dependencies": {"react": "^18.3.0"}}`,
		"tsconfig.json": `{"compilerOptions": {}}`,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// run executes the CLI against dir with a fresh App.
func run(t *testing.T, dir string, pkgs *fakePackages, args ...string) (string, error) {
	t.Helper()
	return runWith(t, dir, pkgs, nil, args...)
}

// runWith is run with a hook to adjust the App before the command executes.
func runWith(t *testing.T, dir string, pkgs *fakePackages, setup func(*App), args ...string) (string, error) {
	t.Helper()
	t.Setenv("UI_LAB_DIR", "")
	t.Setenv("UI_LAB_REGISTRY", "")

	var out bytes.Buffer
	app := NewApp("1.2.3", "abc123", "2026-01-01")
	app.output = ui.NewOutputTo(&out, &out)
	app.logOut = io.Discard
	app.interactive = func() bool { return false }
	if pkgs != nil {
		app.packages = pkgs
	}
	if setup != nil {
		setup(app)
	}

	app.rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	app.rootCmd.SetOut(&out)
	app.rootCmd.SetErr(&out)
	err := app.rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	return exitErr.Code
}

func TestFullInitInstallDoctorFlow(t *testing.T) {
	dir := setupProject(t)
	pkgs := newFakePackages()

	// === Step 1: init ===
	out, err := run(t, dir, pkgs, "init", "--preset", "slate", "--mode", "dark")
	if err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Next steps") {
		t.Errorf("init output missing next steps:\n%s", out)
	}

	cfg, err := config.NewManager(dir).Read()
	if err != nil {
		t.Fatalf("reading config: %v", err)
	}
	if cfg.Theme.Preset != "slate" || cfg.Theme.Mode != config.Dark {
		t.Errorf("theme = %+v", cfg.Theme)
	}
	if !cfg.TypeScript {
		t.Error("expected TypeScript to be detected from tsconfig.json")
	}
	if r := injector.Verify(filepath.Join(dir, "app", "globals.css")); !r.HasBlock {
		t.Error("app/globals.css has no theme block")
	}
	if _, err := os.Stat(filepath.Join(dir, "lib", "utils.ts")); err != nil {
		t.Errorf("lib/utils.ts not scaffolded: %v", err)
	}

	// === Step 2: install ===
	out, err = run(t, dir, pkgs, "install", "dialog")
	if err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}
	for _, f := range []string{"dialog.tsx", "button.tsx"} {
		if _, err := os.Stat(filepath.Join(dir, "components", "ui", f)); err != nil {
			t.Errorf("components/ui/%s not written: %v", f, err)
		}
	}
	if !strings.Contains(out, `import { Dialog } from "@/components/ui/dialog"`) {
		t.Errorf("install output missing import statement:\n%s", out)
	}
	if len(pkgs.installs) != 1 {
		t.Fatalf("expected one package install, got %v", pkgs.installs)
	}

	cfg, err = config.NewManager(dir).Read()
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"button", "dialog"} {
		if !cfg.InstalledComponents.Has(id) {
			t.Errorf("%s not recorded in config", id)
		}
	}

	// === Step 3: install again via alias is a no-op for packages ===
	out, err = run(t, dir, pkgs, "add", "dialog")
	if err != nil {
		t.Fatalf("second install: %v\n%s", err, out)
	}
	if len(pkgs.installs) != 1 {
		t.Errorf("packages reinstalled: %v", pkgs.installs)
	}

	// === Step 4: doctor ===
	out, err = run(t, dir, pkgs, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Everything looks good!") {
		t.Errorf("doctor output:\n%s", out)
	}

	// === Step 5: list marks installed components ===
	out, err = run(t, dir, pkgs, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "* dialog") || !strings.Contains(out, "* button") {
		t.Errorf("list does not mark installed components:\n%s", out)
	}
	if !strings.Contains(out, "* = installed (2/") {
		t.Errorf("list summary wrong:\n%s", out)
	}
}

func TestInstallOverwriteWarningsAndConfirm(t *testing.T) {
	dir := setupProject(t)
	pkgs := newFakePackages()
	if out, err := run(t, dir, pkgs, "init"); err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	if out, err := run(t, dir, pkgs, "install", "button"); err != nil {
		t.Fatalf("install: %v\n%s", err, out)
	}

	button := filepath.Join(dir, "components", "ui", "button.tsx")
	edit := func(t *testing.T) {
		t.Helper()
		if err := os.WriteFile(button, []byte("// edited\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	readButton := func(t *testing.T) string {
		t.Helper()
		data, err := os.ReadFile(button)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	t.Run("declined", func(t *testing.T) {
		edit(t)
		var asked int
		_, err := runWith(t, dir, pkgs, func(a *App) {
			a.interactive = func() bool { return true }
			a.confirm = func(string) (bool, error) { asked++; return false, nil }
		}, "install", "button")
		if code := exitCode(t, err); code != exitcodes.Interrupted {
			t.Errorf("exit code = %d, want %d", code, exitcodes.Interrupted)
		}
		if asked != 1 {
			t.Errorf("confirm asked %d times, want 1", asked)
		}
		if got := readButton(t); got != "// edited\n" {
			t.Errorf("button.tsx was overwritten after declining: %q", got)
		}
	})

	t.Run("yes skips the prompt", func(t *testing.T) {
		edit(t)
		out, err := runWith(t, dir, pkgs, func(a *App) {
			a.interactive = func() bool { return true }
			a.confirm = func(string) (bool, error) {
				t.Error("confirm called despite --yes")
				return false, nil
			}
		}, "install", "--yes", "button")
		if err != nil {
			t.Fatalf("install --yes: %v\n%s", err, out)
		}
		if !strings.Contains(out, "Overwrote locally modified components/ui/button.tsx") {
			t.Errorf("missing overwrite warning:\n%s", out)
		}
	})

	t.Run("non-interactive warns", func(t *testing.T) {
		edit(t)
		out, err := run(t, dir, pkgs, "install", "--dry-run", "button")
		if err != nil {
			t.Fatalf("dry run: %v\n%s", err, out)
		}
		if !strings.Contains(out, "Would overwrite locally modified components/ui/button.tsx") {
			t.Errorf("missing dry-run overwrite warning:\n%s", out)
		}

		out, err = run(t, dir, pkgs, "install", "button")
		if err != nil {
			t.Fatalf("install: %v\n%s", err, out)
		}
		if !strings.Contains(out, "Overwrote locally modified components/ui/button.tsx") {
			t.Errorf("missing overwrite warning:\n%s", out)
		}
		if got := readButton(t); got == "// edited\n" {
			t.Error("button.tsx still holds the local edit")
		}
	})
}

func TestUnreadableConfigIsLoggedAtDebug(t *testing.T) {
	dir := setupProject(t)
	if err := os.WriteFile(filepath.Join(dir, config.FileName), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	var logs bytes.Buffer
	out, err := runWith(t, dir, nil, func(a *App) { a.logOut = &logs }, "--debug", "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	if !strings.Contains(logs.String(), "Ignoring unreadable project config") {
		t.Errorf("debug log does not mention the config:\n%s", logs.String())
	}

	logs.Reset()
	if _, err := runWith(t, dir, nil, func(a *App) { a.logOut = &logs }, "list"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(logs.String(), "Ignoring unreadable project config") {
		t.Errorf("config message logged without --debug:\n%s", logs.String())
	}
}

func TestDoctorDetectsMissingFile(t *testing.T) {
	dir := setupProject(t)
	pkgs := newFakePackages()
	if _, err := run(t, dir, pkgs, "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, dir, pkgs, "install", "badge"); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(dir, "components", "ui", "badge.tsx")); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, dir, pkgs, "doctor")
	if code := exitCode(t, err); code != exitcodes.ConfigError {
		t.Errorf("exit code = %d, want %d", code, exitcodes.ConfigError)
	}
	if !strings.Contains(out, "badge: missing components/ui/badge.tsx") {
		t.Errorf("doctor output:\n%s", out)
	}
}

func TestDoctorWithoutConfig(t *testing.T) {
	dir := setupProject(t)
	out, err := run(t, dir, newFakePackages(), "doctor")
	if code := exitCode(t, err); code != exitcodes.ConfigError {
		t.Errorf("exit code = %d, want %d", code, exitcodes.ConfigError)
	}
	if !strings.Contains(out, "ui-lab init") {
		t.Errorf("doctor should point at init:\n%s", out)
	}
}

func TestInstallExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		init     bool
		args     []string
		wantCode int
		wantMsg  string
	}{
		{"not initialized", false, []string{"install", "button"}, exitcodes.ConfigError, "not initialized"},
		{"unknown component", true, []string{"install", "buton"}, exitcodes.NotFound, "did you mean button"},
		{"no components", true, []string{"install"}, exitcodes.UsageError, "no components"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupProject(t)
			pkgs := newFakePackages()
			if tt.init {
				if _, err := run(t, dir, pkgs, "init"); err != nil {
					t.Fatal(err)
				}
			}

			_, err := run(t, dir, pkgs, tt.args...)
			if code := exitCode(t, err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestInitTwiceFailsWithoutForce(t *testing.T) {
	dir := setupProject(t)
	pkgs := newFakePackages()
	if _, err := run(t, dir, pkgs, "init"); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, dir, pkgs, "init")
	if code := exitCode(t, err); code != exitcodes.ConfigError {
		t.Errorf("exit code = %d, want %d", code, exitcodes.ConfigError)
	}

	if out, err := run(t, dir, pkgs, "init", "--force", "--preset", "rose"); err != nil {
		t.Fatalf("init --force: %v\n%s", err, out)
	}
	cfg, err := config.NewManager(dir).Read()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme.Preset != "rose" {
		t.Errorf("preset = %q, want rose", cfg.Theme.Preset)
	}
}

func TestInitFlagValidation(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{"invalid mode", []string{"init", "--mode", "sepia"}, exitcodes.UsageError},
		{"unknown preset", []string{"init", "--preset", "nope"}, exitcodes.UsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupProject(t)
			_, err := run(t, dir, newFakePackages(), tt.args...)
			if code := exitCode(t, err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if config.NewManager(dir).IsInitialized() {
				t.Error("config written despite invalid flags")
			}
		})
	}

	t.Run("mutually exclusive", func(t *testing.T) {
		dir := setupProject(t)
		if _, err := run(t, dir, newFakePackages(), "init", "--headless", "--pre-packaged"); err == nil {
			t.Error("expected error for --headless with --pre-packaged")
		}
	})
}

func TestInitDryRunWritesNothing(t *testing.T) {
	dir := setupProject(t)
	out, err := run(t, dir, newFakePackages(), "init", "--dry-run", "--no-typescript")
	if err != nil {
		t.Fatalf("init --dry-run: %v", err)
	}
	if !strings.Contains(out, "Would create") || !strings.Contains(out, "lib/utils.js") {
		t.Errorf("dry run output:\n%s", out)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dry run changed the project: %v", names)
	}
}

func TestInitPrePackagedInstallsPackage(t *testing.T) {
	dir := setupProject(t)
	pkgs := newFakePackages()
	out, err := run(t, dir, pkgs, "init", "--pre-packaged")
	if err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	if len(pkgs.installs) != 1 || !strings.HasPrefix(pkgs.installs[0][0], "@ui-lab/components@") {
		t.Errorf("installs = %v", pkgs.installs)
	}

	out, err = run(t, dir, pkgs, "install", "card")
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if !strings.Contains(out, `from "@ui-lab/components"`) {
		t.Errorf("expected package import:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "components")); !os.IsNotExist(err) {
		t.Error("pre-packaged install must not copy sources")
	}
}

func TestSearchAndInfo(t *testing.T) {
	dir := setupProject(t)

	out, err := run(t, dir, nil, "search", "dialog")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "alert-dialog") || !strings.Contains(out, "COMPONENT") {
		t.Errorf("search output:\n%s", out)
	}

	out, err = run(t, dir, nil, "search", "zzzqqq")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "No components matching") {
		t.Errorf("search output:\n%s", out)
	}

	out, err = run(t, dir, nil, "info", "date-picker")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if !strings.Contains(out, "Installs:   button -> calendar -> date-picker") {
		t.Errorf("info output:\n%s", out)
	}

	_, err = run(t, dir, nil, "info", "buton")
	if code := exitCode(t, err); code != exitcodes.NotFound {
		t.Errorf("exit code = %d, want %d", code, exitcodes.NotFound)
	}
}

func TestRegistryFlag(t *testing.T) {
	dir := setupProject(t)
	catalog := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `version: 1
package: "@acme/ui"
packageVersion: "^1.0.0"
components:
  - id: widget
    export: Widget
    category: custom
    description: In-house widget
    files:
      - path: widget.tsx
        template: |
          export function Widget() { return null }
`
	if err := os.WriteFile(catalog, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, dir, nil, "--registry", catalog, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "widget") || !strings.Contains(out, "1 components available") {
		t.Errorf("list output:\n%s", out)
	}

	_, err = run(t, dir, nil, "--registry", filepath.Join(dir, "missing.yaml"), "list")
	if code := exitCode(t, err); code != exitcodes.ConfigError {
		t.Errorf("exit code = %d, want %d", code, exitcodes.ConfigError)
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), nil, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ui-lab 1.2.3 (commit: abc123") {
		t.Errorf("version output: %q", out)
	}
}
