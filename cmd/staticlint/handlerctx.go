package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
)

// NoHandlerBackgroundContext запрещает context.Background() и context.TODO() в пакетах
// HTTP слоя: контекст обработчика должен наследоваться от контекста запроса.
// nolint:gochecknoglobals
var NoHandlerBackgroundContext = &analysis.Analyzer{
	Name: "nohandlerbgctx",
	Doc:  "check for context.Background and context.TODO calls in http handler packages",
	Run:  runHandlerCtx,
}

// handlerPackageSuffixes пакеты HTTP слоя.
var handlerPackageSuffixes = []string{"/controllers", "/controllers/middlewares"} //nolint:gochecknoglobals

func runHandlerCtx(pass *analysis.Pass) (interface{}, error) {
	if !isHandlerPackage(pass.Pkg.Path()) {
		return nil, nil //nolint:nilnil
	}
	for _, file := range pass.Files {
		if strings.HasSuffix(pass.Fset.Position(file.Pos()).Filename, "_test.go") {
			continue
		}
		ast.Inspect(file, func(n ast.Node) bool {
			callExpr, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			selExpr, ok := callExpr.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			ident, ok := selExpr.X.(*ast.Ident)
			if !ok {
				return true
			}
			pkgName, ok := pass.TypesInfo.Uses[ident].(*types.PkgName)
			if !ok || pkgName.Imported().Path() != "context" {
				return true
			}
			if name := selExpr.Sel.Name; name == "Background" || name == "TODO" {
				pass.Reportf(callExpr.Pos(), "context.%s in http handler package, derive from the request context", name)
			}
			return true
		})
	}
	return nil, nil //nolint:nilnil
}

func isHandlerPackage(path string) bool {
	for _, suffix := range handlerPackageSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
