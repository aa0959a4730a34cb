// Command sqllint verifies that every SQL string constant in the tree starts
// with a "--sql <uuid>" audit marker, matching what the runtime SQLRunner
// enforces. Run it over internal/ in CI so an unmarked query fails the build
// instead of the first request.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	sqlKeywordPattern = regexp.MustCompile(`(?i)\b(select|insert|update|delete|with)\b`)
	auditMarkerLine   = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
)

type finding struct {
	file string
	name string
	line int
}

func main() {
	flag.Parse()
	targets := flag.Args()
	if len(targets) == 0 {
		targets = []string{"internal"}
	}

	var findings []finding
	for _, target := range targets {
		found, err := collect(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sqllint: %v\n", err)
			os.Exit(1)
		}
		findings = append(findings, found...)
	}

	if len(findings) > 0 {
		fmt.Fprintf(os.Stderr, "sqllint: %d unmarked SQL constant(s)\n", len(findings))
		for _, f := range findings {
			fmt.Fprintf(os.Stderr, "  %s:%d %s\n", f.file, f.line, f.name)
		}
		os.Exit(1)
	}
}

func collect(target string) ([]finding, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return lintFile(target)
	}

	var findings []finding
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
				name == "vendor" || name == "testdata" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		found, err := lintFile(path)
		if err != nil {
			return err
		}
		findings = append(findings, found...)
		return nil
	})
	return findings, err
}

func lintFile(path string) ([]finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	var findings []finding
	ast.Inspect(file, func(n ast.Node) bool {
		spec, ok := n.(*ast.ValueSpec)
		if !ok {
			return true
		}
		for _, value := range spec.Values {
			lit, ok := value.(*ast.BasicLit)
			if !ok || lit.Kind != token.STRING {
				continue
			}
			raw, err := unquote(lit.Value)
			if err != nil || !looksLikeSQL(raw) {
				continue
			}
			if !auditMarkerLine.MatchString(firstLine(raw)) {
				findings = append(findings, finding{
					file: path,
					name: specName(spec),
					line: fset.Position(lit.Pos()).Line,
				})
			}
		}
		return true
	})
	return findings, nil
}

// looksLikeSQL keeps the lint focused on statements, not every string that
// happens to contain a keyword inside a URL or message.
func looksLikeSQL(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	if !strings.Contains(trimmed, "\n") && len(trimmed) < 24 {
		return false
	}
	return sqlKeywordPattern.MatchString(trimmed)
}

func firstLine(s string) string {
	s = strings.TrimLeft(s, "\n\r \t")
	if idx := strings.IndexAny(s, "\n\r"); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return strings.TrimSpace(s)
}

func unquote(v string) (string, error) {
	if len(v) == 0 {
		return v, nil
	}
	if v[0] == '`' {
		return v[1 : len(v)-1], nil
	}
	return strconv.Unquote(v)
}

func specName(spec *ast.ValueSpec) string {
	parts := make([]string, 0, len(spec.Names))
	for _, ident := range spec.Names {
		if ident != nil {
			parts = append(parts, ident.Name)
		}
	}
	return strings.Join(parts, ",")
}
