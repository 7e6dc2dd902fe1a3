package core

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

// Production code logs through the Logger interface, or through the stdlib
// log package on bootstrap paths where no logger exists yet. Raw stdout
// writes bypass both and are forbidden.
func TestNoForbiddenStdOutputCallsInProductionCode(t *testing.T) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to resolve test file path")
	}

	// internal/core -> repo root
	repoRoot := filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", ".."))
	fset := token.NewFileSet()
	var violations []string

	walkErr := filepath.WalkDir(repoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		file, parseErr := parser.ParseFile(fset, path, nil, 0)
		if parseErr != nil {
			return parseErr
		}

		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}

			switch fn := call.Fun.(type) {
			case *ast.Ident:
				if fn.Name == "println" || fn.Name == "print" {
					pos := fset.Position(fn.Pos())
					violations = append(violations, pos.String()+" uses "+fn.Name)
				}
			case *ast.SelectorExpr:
				pkg, pkgOK := fn.X.(*ast.Ident)
				if !pkgOK {
					return true
				}

				if pkg.Name == "fmt" && (fn.Sel.Name == "Println" || fn.Sel.Name == "Printf" || fn.Sel.Name == "Print") {
					pos := fset.Position(fn.Pos())
					violations = append(violations, pos.String()+" uses fmt."+fn.Sel.Name)
				}
			}

			return true
		})

		return nil
	})

	if walkErr != nil {
		t.Fatalf("failed to scan repository: %v", walkErr)
	}

	if len(violations) > 0 {
		slices.Sort(violations)
		t.Fatalf("found forbidden output calls in production code:\n%s", strings.Join(violations, "\n"))
	}
}
