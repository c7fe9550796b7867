// Package routing assigns a report to a department with an ordered keyword rule table.
// Rules are evaluated first-match: an earlier rule wins even when a later rule matches
// more keywords. When nothing matches, the report category decides
package routing

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.json
var embedded []byte

// Rule is one immutable entry of the routing table
type Rule struct {
	Name         string   `json:"name" yaml:"name"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
	DepartmentID string   `json:"department" yaml:"department"`
	Priority     string   `json:"priority" yaml:"priority"`
}

// Table is the ordered rule list plus the category fallback mapping
type Table struct {
	Version    int               `json:"version" yaml:"version"`
	Rules      []Rule            `json:"rules" yaml:"rules"`
	Categories map[string]string `json:"categories" yaml:"categories"`
	Fallback   string            `json:"fallback" yaml:"fallback"`
}

// LoadTable returns the embedded table with keywords lowercased
func LoadTable() (Table, error) {
	var t Table
	if err := json.Unmarshal(embedded, &t); err != nil {
		return Table{}, fmt.Errorf("routing: parse rules.json: %w", err)
	}
	return t.normalized(), nil
}

// LoadTableFile reads a replacement table from a yaml or json file, picked by extension
func LoadTableFile(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("routing: read %s: %w", path, err)
	}
	var t Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &t)
	default:
		err = json.Unmarshal(raw, &t)
	}
	if err != nil {
		return Table{}, fmt.Errorf("routing: parse %s: %w", path, err)
	}
	if len(t.Rules) == 0 {
		return Table{}, fmt.Errorf("routing: %s has no rules", path)
	}
	return t.normalized(), nil
}

// normalized deep copies the table and lowercases keywords so matching stays case-insensitive
func (t Table) normalized() Table {
	out := Table{
		Version:    t.Version,
		Rules:      make([]Rule, len(t.Rules)),
		Categories: make(map[string]string, len(t.Categories)),
		Fallback:   strings.TrimSpace(t.Fallback),
	}
	for i, r := range t.Rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kws = append(kws, k)
			}
		}
		out.Rules[i] = Rule{Name: r.Name, Keywords: kws, DepartmentID: r.DepartmentID, Priority: r.Priority}
	}
	for k, v := range t.Categories {
		out.Categories[k] = v
	}
	return out
}

// departments returns every department id the table can resolve to
func (t Table) departments() []string {
	out := make([]string, 0, len(t.Rules)+len(t.Categories)+1)
	for _, r := range t.Rules {
		out = append(out, r.DepartmentID)
	}
	for _, v := range t.Categories {
		out = append(out, v)
	}
	return append(out, t.Fallback)
}
