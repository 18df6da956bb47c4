package architecture_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulesPrefix = "dpwrk/internal/modules/"

type sourceImport struct {
	file   string
	module string
	layer  string
	path   string
}

// walkModuleImports visits every import of every non-test source file below
// internal/modules that sits in a recognised layer.
func walkModuleImports(t *testing.T, visit func(sourceImport)) {
	t.Helper()
	fset := token.NewFileSet()
	root := filepath.Join("..", "modules")
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		slash := filepath.ToSlash(path)
		module := moduleName(slash)
		layer := detectLayer(slash)
		if module == "" || layer == "" {
			return nil
		}
		node, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			return parseErr
		}
		for _, imp := range node.Imports {
			visit(sourceImport{file: slash, module: module, layer: layer, path: strings.Trim(imp.Path.Value, `"`)})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk modules: %v", err)
	}
}

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	walkModuleImports(t, func(imp sourceImport) {
		if !strings.HasPrefix(imp.path, modulesPrefix) {
			return
		}
		if violatesLayerRule(imp.module, imp.layer, imp.path) {
			t.Fatalf("forbidden import in %s (%s): %s", imp.file, imp.layer, imp.path)
		}
	})
}

// Domain packages hold the countdown arithmetic and preference rules; they
// stay on the standard library so every adapter can share them.
func TestDomainImportsStandardLibraryOnly(t *testing.T) {
	t.Parallel()
	walkModuleImports(t, func(imp sourceImport) {
		if imp.layer != "domain" {
			return
		}
		first := strings.SplitN(imp.path, "/", 2)[0]
		if strings.Contains(first, ".") || strings.HasPrefix(imp.path, "dpwrk/") {
			t.Fatalf("domain file %s imports %s", imp.file, imp.path)
		}
	})
}

func moduleName(path string) string {
	parts := strings.Split(path, "/")
	for i := 0; i < len(parts)-1; i++ {
		if parts[i] == "modules" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func detectLayer(path string) string {
	for _, layer := range []string{"adapter/in", "adapter/out", "usecase", "service", "domain", "port/in", "port/out", "dto"} {
		if strings.Contains(path, "/"+layer+"/") {
			return layer
		}
	}
	return ""
}

func isPortIn(path string) bool {
	return strings.Contains(path, "/port/in/") || strings.HasSuffix(path, "/port/in")
}

func isDTO(path string) bool {
	return strings.Contains(path, "/dto/") || strings.HasSuffix(path, "/dto")
}

func violatesLayerRule(module, layer, importPath string) bool {
	sameModule := strings.Contains(importPath, "/internal/modules/"+module+"/")
	if !sameModule {
		if strings.Contains(importPath, "/service/") || strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") {
			return true
		}
		if isPortIn(importPath) || isDTO(importPath) {
			return false
		}
	}

	switch layer {
	case "adapter/in":
		return !isPortIn(importPath) && !isDTO(importPath)
	case "usecase":
		return strings.Contains(importPath, "/adapter/")
	case "service":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/")
	case "domain":
		return strings.Contains(importPath, "/adapter/") || strings.Contains(importPath, "/usecase/") || strings.Contains(importPath, "/service/")
	default:
		return false
	}
}
