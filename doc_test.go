package schemamodel_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A "Package x" comment only documents x when it sits directly above the
// package clause.
func TestPackageComments_AttachToClause(t *testing.T) {
	documented := map[string]bool{}
	fset := token.NewFileSet()
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return err
		}
		prefix := "Package " + f.Name.Name + " "
		for _, cg := range f.Comments {
			if !strings.HasPrefix(cg.Text(), prefix) {
				continue
			}
			assert.Same(t, f.Doc, cg, "%s: package comment is detached from the package clause", path)
			documented[f.Name.Name] = true
		}
		return nil
	})
	require.NoError(t, err)
	for _, pkg := range []string{"schemamodel", "model", "schema", "jsonptr"} {
		assert.True(t, documented[pkg], "package %s has no package comment", pkg)
	}
}
