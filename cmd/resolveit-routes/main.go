// Command resolveit-routes checks a department registry against a routing table.
// Without arguments it prints the effective table; with text it prints the routing decision
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"resolveit/internal/core/registry"
	"resolveit/internal/core/routing"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// report is what the table dump prints
type report struct {
	Departments []string      `json:"departments" yaml:"departments"`
	Table       routing.Table `json:"table" yaml:"table"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("resolveit-routes", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		deptFile = fs.String("departments", os.Getenv("CORE_DEPARTMENTS_FILE"), "YAML or JSON department file, embedded set when empty")
		rules    = fs.String("rules", os.Getenv("CORE_ROUTING_FILE"), "YAML or JSON routing table, embedded table when empty")
		category = fs.String("category", "other", "report category used when no keyword matches")
		format   = fs.String("format", "json", "output format: json or yaml")
		out      = fs.StringP("out", "o", "-", "output path or '-' for stdout")
		verbose  = fs.BoolP("verbose", "v", false, "verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	fail := func(err error) int {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	reg, err := loadRegistry(*deptFile)
	if err != nil {
		return fail(err)
	}
	tbl, err := loadTable(*rules)
	if err != nil {
		return fail(err)
	}
	rt, err := routing.New(tbl, reg)
	if err != nil {
		return fail(err)
	}
	if *verbose {
		_, _ = fmt.Fprintf(stderr, "%d departments, %d rules\n", reg.Len(), len(tbl.Rules))
	}

	var v any = report{Departments: reg.IDs(), Table: rt.Table()}
	if text := strings.Join(fs.Args(), " "); text != "" {
		v = rt.Classify(routing.Input{Title: text, Category: *category})
	}

	enc, err := encode(v, *format)
	if err != nil {
		return fail(err)
	}
	if *out == "-" {
		if _, err := stdout.Write(enc); err != nil {
			return fail(err)
		}
		return 0
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fail(err)
	}
	if err := os.WriteFile(*out, enc, 0o644); err != nil {
		return fail(err)
	}
	if *verbose {
		_, _ = fmt.Fprintf(stderr, "wrote %s (%d bytes)\n", *out, len(enc))
	}
	return 0
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Load()
	}
	return registry.LoadFile(path)
}

func loadTable(path string) (routing.Table, error) {
	if path == "" {
		return routing.LoadTable()
	}
	return routing.LoadTableFile(path)
}

func encode(v any, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.Marshal(v)
	case "json":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
