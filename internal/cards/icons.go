// internal/cards/icons.go
package cards

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// IconTable maps generation model identifiers to icon asset paths and records
// which icons already carry their own background treatment. Lookups are
// case-insensitive. An IconTable is immutable once built.
type IconTable struct {
	icons       map[string]string
	transparent map[string]struct{}
}

var defaultIcons = map[string]string{
	"sora_2":                "/icons/dark-mode-icon.png",
	"sora2pro":              "/icons/dark-mode-icon.png",
	"veo3.1":                "/icons/veo.png",
	"kling":                 "/icons/kling.png",
	"kling-start-end-frame": "/icons/kling.png",
	"hailuo2.3":             "/icons/hailuo.jpeg",
	"hunyuan":               "/icons/hunyuan.png",
	"seedance":              "/icons/seedance.png",
	"ltx":                   "/icons/ltx.png",
	"longcat":               "/icons/longcat.png",
	"cosmos-predict-2b":     "/icons/cosmos.png",
	"wan_2.5":               "/icons/wan.png",
	"wan2.1-14b":            "/icons/wan.png",
	"wan2.2-14b":            "/icons/wan.png",
	"chronoedit":            "/icons/chrono.png",
}

var defaultTransparent = []string{
	"veo3.1",
	"kling",
	"kling-start-end-frame",
	"longcat",
	"ltx",
	"wan_2.5",
	"wan2.1-14b",
	"wan2.2-14b",
}

// NewIconTable builds a table from the given mapping and transparent set.
// Inputs are copied.
func NewIconTable(icons map[string]string, transparent []string) IconTable {
	t := IconTable{
		icons:       make(map[string]string, len(icons)),
		transparent: make(map[string]struct{}, len(transparent)),
	}
	for model, icon := range icons {
		t.icons[strings.ToLower(model)] = icon
	}
	for _, model := range transparent {
		t.transparent[strings.ToLower(model)] = struct{}{}
	}
	return t
}

// DefaultIconTable returns the built-in icon table.
func DefaultIconTable() IconTable {
	return NewIconTable(defaultIcons, defaultTransparent)
}

// With returns a new table holding t's entries overridden by the given ones.
func (t IconTable) With(icons map[string]string, transparent []string) IconTable {
	merged := make(map[string]string, len(t.icons)+len(icons))
	for k, v := range t.icons {
		merged[k] = v
	}
	for k, v := range icons {
		merged[strings.ToLower(k)] = v
	}
	set := make([]string, 0, len(t.transparent)+len(transparent))
	for k := range t.transparent {
		set = append(set, k)
	}
	set = append(set, transparent...)
	return NewIconTable(merged, set)
}

// Icon returns the icon path for model, or "" when none is registered.
func (t IconTable) Icon(model string) string {
	if model == "" {
		return ""
	}
	return t.icons[strings.ToLower(model)]
}

// Transparent reports whether the model's icon should be drawn without a
// background ring.
func (t IconTable) Transparent(model string) bool {
	if model == "" {
		return false
	}
	_, ok := t.transparent[strings.ToLower(model)]
	return ok
}

// Len returns the number of registered icons.
func (t IconTable) Len() int { return len(t.icons) }

type iconFile struct {
	Icons       map[string]string `yaml:"icons"`
	Transparent []string          `yaml:"transparent"`
}

// LoadIconTable reads a YAML icon file and layers it over the built-in table.
// An empty path returns the built-in table.
//
//	icons:
//	  my_model: /icons/mine.png
//	transparent:
//	  - my_model
func LoadIconTable(path string) (IconTable, error) {
	base := DefaultIconTable()
	if strings.TrimSpace(path) == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return IconTable{}, fmt.Errorf("read icon table %s: %w", path, err)
	}
	var f iconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return IconTable{}, fmt.Errorf("parse icon table %s: %w", path, err)
	}
	return base.With(f.Icons, f.Transparent), nil
}
