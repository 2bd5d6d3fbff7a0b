package main

import (
	"go/ast"
	"go/types"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/types/typeutil"
)

// NoExitInMain запрещает в функции main вызовы, завершающие процесс в обход defer:
// os.Exit, log.Fatal* и Fatal* логгеров zap. Отложенные logger.Sync и сброс
// буфера sentry при таком выходе не выполняются.
// nolint:gochecknoglobals
var NoExitInMain = &analysis.Analyzer{
	Name: "noexitinmain",
	Doc:  "check for os.Exit, log.Fatal and zap Fatal calls in main function",
	Run:  runExitCheck,
}

// exitFuncs полные имена функций, которые вызывают os.Exit.
var exitFuncs = map[string]bool{ //nolint:gochecknoglobals
	"os.Exit":                                  true,
	"log.Fatal":                                true,
	"log.Fatalf":                               true,
	"log.Fatalln":                              true,
	"(*log.Logger).Fatal":                      true,
	"(*log.Logger).Fatalf":                     true,
	"(*log.Logger).Fatalln":                    true,
	"(*go.uber.org/zap.Logger).Fatal":          true,
	"(*go.uber.org/zap.SugaredLogger).Fatal":   true,
	"(*go.uber.org/zap.SugaredLogger).Fatalf":  true,
	"(*go.uber.org/zap.SugaredLogger).Fatalw":  true,
	"(*go.uber.org/zap.SugaredLogger).Fatalln": true,
}

func runExitCheck(pass *analysis.Pass) (interface{}, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil //nolint:nilnil
	}
	for _, file := range pass.Files {
		// сгенерированные тестовые main из кэша сборки
		if strings.Contains(pass.Fset.Position(file.Pos()).Filename, "go-build") {
			continue
		}
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv != nil || fn.Name.Name != "main" || fn.Body == nil {
				continue
			}
			ast.Inspect(fn.Body, func(n ast.Node) bool {
				// вызовы внутри замыканий выполняются не обязательно в main
				if _, isLit := n.(*ast.FuncLit); isLit {
					return false
				}
				call, isCall := n.(*ast.CallExpr)
				if !isCall {
					return true
				}
				if callee, isFunc := typeutil.Callee(pass.TypesInfo, call).(*types.Func); isFunc && exitFuncs[callee.FullName()] {
					pass.Reportf(call.Pos(), "%s in main skips deferred calls, return an error from run instead", callee.Name())
				}
				return true
			})
		}
	}
	return nil, nil //nolint:nilnil
}
