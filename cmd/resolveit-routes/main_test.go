package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resolveit/internal/core/routing"

	"gopkg.in/yaml.v3"
)

func TestRun_Classify(t *testing.T) {
	var out, errb bytes.Buffer
	code := run([]string{"--category", "other", "water", "leak", "on", "Main", "Street"}, &out, &errb)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	var got routing.Result
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	// water rules come before road rules
	if got.DepartmentID != "water-supply" || got.Reason != "Matched keywords: water, leak" {
		t.Fatalf("result = %+v", got)
	}
}

func TestRun_TableDumpYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "table.yaml")
	var out, errb bytes.Buffer
	if code := run([]string{"--format", "yaml", "-o", path}, &out, &errb); code != 0 {
		t.Fatalf("exit %d: %s", code, errb.String())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got report
	if err := yaml.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Departments) != 5 || got.Table.Fallback != "general" || len(got.Table.Rules) == 0 {
		t.Fatalf("dump = %+v", got)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	lonely := filepath.Join(dir, "departments.yaml")
	if err := os.WriteFile(lonely, []byte("- id: general\n  name: General\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"bad flag", []string{"--nope"}, 2, "unknown flag"},
		{"bad format", []string{"--format", "xml"}, 1, "unknown format"},
		{"missing departments", []string{"--departments", filepath.Join(dir, "nope.json")}, 1, "registry: read"},
		{"table names unknown department", []string{"--departments", lonely}, 1, "unknown department"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out, errb bytes.Buffer
			if code := run(tc.args, &out, &errb); code != tc.code {
				t.Fatalf("exit = %d want %d", code, tc.code)
			}
			if !strings.Contains(errb.String(), tc.msg) {
				t.Fatalf("stderr = %q", errb.String())
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	var out, errb bytes.Buffer
	if code := run([]string{"--help"}, &out, &errb); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(errb.String(), "--departments") || out.Len() != 0 {
		t.Fatalf("usage = %q", errb.String())
	}
}
