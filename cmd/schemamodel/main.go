package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/schemamodel"
	"github.com/reoring/schemamodel/model"
	"github.com/reoring/schemamodel/schema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "compile":
		return compileCmd(args[1:], stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "schemamodel CLI\n\nUsage:\n  schemamodel compile -f schema.json|schema.yaml [-format auto|json|yaml] [-o out.json] [-v]\n\nNotes:\n  - Prints the compiled model graph as a snapshot: models keyed by id, children referenced by id.")
}

func compileCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var in, out, format string
	var verbose bool
	fs.StringVar(&in, "f", "", "schema file to compile")
	fs.StringVar(&format, "format", "auto", "input format: auto, json or yaml")
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	fs.BoolVar(&verbose, "v", false, "enable verbose logs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if in == "" {
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	data, err := os.ReadFile(in)
	if err != nil {
		logger.Error("reading schema", "file", in, "error", err)
		return 1
	}
	if format == "auto" {
		format = detectFormat(in)
	}

	var def *schema.Schema
	switch format {
	case "json":
		def, err = schema.Parse(data)
	case "yaml":
		def, err = schema.ParseYAML(data)
	default:
		logger.Error("unknown format", "format", format)
		return 2
	}
	if err != nil {
		logger.Error("loading schema", "file", in, "error", err)
		return 1
	}

	c := schemamodel.NewCompiler(schemamodel.Options{Logger: logger})
	m, err := c.Build(def)
	if err != nil {
		if iss, ok := schemamodel.AsIssues(err); ok {
			for _, it := range iss {
				logger.Error("compile failed", "code", it.Code, "path", it.Path, "message", it.Message)
			}
		} else {
			logger.Error("compile failed", "error", err)
		}
		return 1
	}
	st := c.Stats()
	logger.Info("compiled", "file", in, "nodes", st.Nodes, "models", st.Models)

	b, err := json.MarshalIndent(model.NewSnapshot(m), "", "  ")
	if err != nil {
		logger.Error("encoding snapshot", "error", err)
		return 1
	}
	b = append(b, '\n')
	if out == "" {
		if _, err := stdout.Write(b); err != nil {
			return 1
		}
		return 0
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("creating output dir", "error", err)
			return 1
		}
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		logger.Error("writing output", "error", err)
		return 1
	}
	return 0
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}
