// Package templates provides the starter boards offered when creating a new
// menu. Each template is an embedded TOML document.
package templates

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/models"
)

//go:embed boards/*.toml
var files embed.FS

// Sample is the demo board seeded for new owners
const Sample = "sample"

type document struct {
	Label string       `toml:"label"`
	Board models.Board `toml:"board"`
}

// Info describes an available template
type Info struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// List returns the selectable templates sorted by name. The sample board is
// not offered as a template.
func List() ([]Info, error) {
	entries, err := files.ReadDir("boards")
	if err != nil {
		return nil, err
	}
	var out []Info
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".toml")
		if name == Sample {
			continue
		}
		doc, err := load(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Info{Name: name, Label: doc.Label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Load returns a fresh, migrated board built from the named template. Every
// call generates new IDs.
func Load(name string) (*models.Board, error) {
	doc, err := load(name)
	if err != nil {
		return nil, err
	}
	b := doc.Board
	menu.Migrate(&b)
	return &b, nil
}

func load(name string) (*document, error) {
	if name == "" || strings.ContainsAny(name, "/\\.") {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	data, err := files.ReadFile(path.Join("boards", name+".toml"))
	if err != nil {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	return &doc, nil
}
