package ui

import (
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// IsCI returns true if running in a CI environment.
// gitlab-ci-local sets GITLAB_CI=false, which should not be treated as CI.
func IsCI() bool {
	return isTruthy(os.Getenv("CI")) ||
		isTruthy(os.Getenv("UI_LAB_CI")) ||
		isTruthy(os.Getenv("GITHUB_ACTIONS")) ||
		isTruthy(os.Getenv("GITLAB_CI"))
}

func isTruthy(v string) bool {
	return v != "" && v != "false" && v != "0"
}

// IsInteractive reports whether prompts can be shown.
func IsInteractive() bool {
	return !IsCI() && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// ComponentOption represents a selectable component.
type ComponentOption struct {
	ID          string
	Description string
	Category    string
	Installed   bool
}

// SelectComponents prompts for components, grouped by category. Installed
// components are marked but still selectable.
func SelectComponents(components []ComponentOption) ([]string, error) {
	categories := make(map[string][]ComponentOption)
	for _, c := range components {
		categories[c.Category] = append(categories[c.Category], c)
	}

	catNames := make([]string, 0, len(categories))
	for c := range categories {
		catNames = append(catNames, c)
	}
	sort.Strings(catNames)

	var options []huh.Option[string]
	for _, cat := range catNames {
		for _, c := range categories[cat] {
			label := c.ID
			if c.Description != "" {
				label += ": " + c.Description
			}
			if c.Installed {
				label += " (installed)"
			}
			options = append(options, huh.NewOption(titleCase(cat)+" / "+label, c.ID))
		}
	}

	var selected []string
	err := huh.NewMultiSelect[string]().
		Title("Which components do you want to install?").
		Options(options...).
		Value(&selected).
		Run()
	return selected, err
}

// InitChoices are the answers collected by PromptInit.
type InitChoices struct {
	Preset           string
	Mode             string
	InstallationType string
	TypeScript       bool
}

// PromptInit asks for the init options, starting from defaults.
func PromptInit(presets []string, defaults InitChoices) (InitChoices, error) {
	choices := defaults

	presetOptions := make([]huh.Option[string], len(presets))
	for i, p := range presets {
		presetOptions[i] = huh.NewOption(titleCase(p), p)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme preset").
				Options(presetOptions...).
				Value(&choices.Preset),
			huh.NewSelect[string]().
				Title("Colour mode").
				Options(huh.NewOption("Light", "light"), huh.NewOption("Dark", "dark")).
				Value(&choices.Mode),
			huh.NewSelect[string]().
				Title("How should components be installed?").
				Options(
					huh.NewOption("Headless: copy component sources into the project", "headless"),
					huh.NewOption("Pre-packaged: depend on the published package", "pre-packaged"),
				).
				Value(&choices.InstallationType),
			huh.NewConfirm().
				Title("Use TypeScript?").
				Value(&choices.TypeScript),
		),
	)
	err := form.Run()
	return choices, err
}

// Confirm prompts the user for a yes/no confirmation.
func Confirm(title string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	return confirmed, err
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
