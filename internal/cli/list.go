package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/company/ui-lab/internal/registry"
)

func (a *App) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all components in the registry",
		Long:  "Shows all registry components grouped by category. Installed components are marked with *.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runList()
		},
	}
}

func (a *App) runList() error {
	reg, err := a.Registry()
	if err != nil {
		return err
	}

	categories := make(map[string][]registry.Entry)
	for _, id := range reg.IDs() {
		e, _ := reg.Lookup(id)
		categories[e.Category] = append(categories[e.Category], e)
	}

	catNames := make([]string, 0, len(categories))
	for c := range categories {
		catNames = append(catNames, c)
	}
	sort.Strings(catNames)

	installedCount := 0
	for _, cat := range catNames {
		label := cat
		if label == "" {
			label = "other"
		}
		a.output.Println("%s:", strings.ToUpper(label[:1])+label[1:])

		for _, e := range categories[cat] {
			status := "  "
			if a.isInstalled(e.ID) {
				status = "* "
				installedCount++
			}
			deps := ""
			if len(e.Dependencies) > 0 {
				deps = " (depends: " + strings.Join(e.Dependencies, ", ") + ")"
			}
			a.output.Println("  %s%-14s %s%s", status, e.ID, e.Description, deps)
		}
		a.output.Println("")
	}

	if installedCount > 0 {
		a.output.Println("* = installed (%d/%d)", installedCount, reg.Len())
	} else {
		a.output.Println("%d components available", reg.Len())
	}
	return nil
}

func (a *App) isInstalled(id string) bool {
	return a.config != nil && a.config.InstalledComponents.Has(id)
}
