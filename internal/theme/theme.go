// Package theme turns a named preset into the CSS variables the installed
// components read.
package theme

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed presets.toml
var presetsTOML []byte

// Tokens lists every variable a preset must define, in output order.
var Tokens = []string{
	"background", "foreground",
	"card", "card-foreground",
	"primary", "primary-foreground",
	"secondary", "secondary-foreground",
	"muted", "muted-foreground",
	"accent", "accent-foreground",
	"destructive", "destructive-foreground",
	"border", "input", "ring",
}

// Preset is one named palette with light and dark variants.
type Preset struct {
	Name   string            `toml:"name"`
	Label  string            `toml:"label"`
	Radius string            `toml:"radius"`
	Light  map[string]string `toml:"light"`
	Dark   map[string]string `toml:"dark"`
}

// Catalog holds the known presets keyed by name.
type Catalog struct {
	presets map[string]Preset
}

// Load parses preset definitions and checks that each defines every token.
func Load(data []byte) (*Catalog, error) {
	var file struct {
		Preset []Preset `toml:"preset"`
	}
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}

	c := &Catalog{presets: make(map[string]Preset, len(file.Preset))}
	for _, p := range file.Preset {
		if p.Name == "" {
			return nil, fmt.Errorf("preset without a name")
		}
		if _, dup := c.presets[p.Name]; dup {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		for _, tok := range Tokens {
			if p.Light[tok] == "" || p.Dark[tok] == "" {
				return nil, fmt.Errorf("preset %q is missing token %q", p.Name, tok)
			}
		}
		c.presets[p.Name] = p
	}
	return c, nil
}

// Bundled returns the presets compiled into the binary.
func Bundled() *Catalog {
	c, err := Load(presetsTOML)
	if err != nil {
		panic(fmt.Sprintf("bundled presets are invalid: %v", err))
	}
	return c
}

// Known reports whether name is a registered preset.
func (c *Catalog) Known(name string) bool {
	_, ok := c.presets[name]
	return ok
}

// Names returns preset names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.presets))
	for n := range c.presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the named preset.
func (c *Catalog) Get(name string) (Preset, bool) {
	p, ok := c.presets[name]
	return p, ok
}

// GenerateCSS renders preset as CSS custom properties. The requested mode
// becomes the :root palette; the other one is scoped under its class.
func (c *Catalog) GenerateCSS(name, mode string) (string, error) {
	p, ok := c.presets[name]
	if !ok {
		return "", fmt.Errorf("unknown theme preset %q", name)
	}

	primary, secondary, secondaryClass := p.Light, p.Dark, ".dark"
	switch mode {
	case "light", "":
	case "dark":
		primary, secondary, secondaryClass = p.Dark, p.Light, ".light"
	default:
		return "", fmt.Errorf("unknown theme mode %q", mode)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@layer base {\n")
	writeBlock(&b, ":root", primary, p.Radius)
	b.WriteString("\n")
	writeBlock(&b, secondaryClass, secondary, "")
	b.WriteString("}\n")
	return b.String(), nil
}

func writeBlock(b *strings.Builder, selector string, vars map[string]string, radius string) {
	fmt.Fprintf(b, "  %s {\n", selector)
	for _, tok := range Tokens {
		fmt.Fprintf(b, "    --%s: %s;\n", tok, vars[tok])
	}
	if radius != "" {
		fmt.Fprintf(b, "    --radius: %s;\n", radius)
	}
	b.WriteString("  }\n")
}
