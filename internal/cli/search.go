package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func (a *App) newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search components in the registry",
		Long:  "Fuzzy-matches the term against component ids, export names, categories and descriptions.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSearch(args[0])
		},
	}
}

func (a *App) runSearch(term string) error {
	reg, err := a.Registry()
	if err != nil {
		return err
	}

	matches := reg.Search(strings.ToLower(term))
	if len(matches) == 0 {
		a.output.Info("No components matching %q", term)
		return nil
	}

	rows := make([][]string, 0, len(matches))
	for _, e := range matches {
		id := e.ID
		if a.isInstalled(e.ID) {
			id += " *"
		}
		rows = append(rows, []string{id, e.Category, e.Description})
	}

	a.output.Println("Components matching %q:\n", term)
	a.output.Table([]string{"COMPONENT", "CATEGORY", "DESCRIPTION"}, rows)
	return nil
}
