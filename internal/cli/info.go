package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/company/ui-lab/internal/exitcodes"
	"github.com/company/ui-lab/internal/resolver"
)

func (a *App) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <component>",
		Short: "Show details and the resolved dependencies of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfo(args[0])
		},
	}
}

func (a *App) runInfo(id string) error {
	reg, err := a.Registry()
	if err != nil {
		return err
	}

	e, ok := reg.Lookup(strings.TrimSpace(id))
	if !ok {
		msg := fmt.Sprintf("component %q not found in registry", id)
		if s := reg.Suggest(id, 3); len(s) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(s, ", "))
		}
		return &ExitError{Code: exitcodes.NotFound, Message: msg}
	}

	a.output.Println("%s", a.output.Highlight(e.ID))
	if e.Description != "" {
		a.output.Println("  %s", e.Description)
	}
	a.output.Println("")
	a.output.Println("  Export:     %s", e.ExportName)
	a.output.Println("  Category:   %s", e.Category)
	a.output.Println("  Depends on: %s", listOrNone(e.Dependencies))

	specs := make([]string, 0, len(e.Packages))
	for _, p := range e.Packages {
		specs = append(specs, p.Spec())
	}
	a.output.Println("  Packages:   %s", listOrNone(specs))

	paths := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		paths = append(paths, f.Path)
	}
	a.output.Println("  Files:      %s", listOrNone(paths))

	res, err := resolver.NewResolver(reg).Resolve([]string{e.ID})
	if err != nil {
		return err
	}
	all := make([]string, 0, len(res.Packages))
	for _, p := range res.Packages {
		all = append(all, p.Spec())
	}
	a.output.Println("")
	a.output.Println("  Installs:   %s", strings.Join(res.Components, " -> "))
	a.output.Println("  npm:        %s", listOrNone(all))
	for _, c := range res.Conflicts {
		a.output.Warning("%s", c.String())
	}

	if a.isInstalled(e.ID) {
		a.output.Success("Installed in this project")
	}
	return nil
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
