// Package queuedrawcheck flags work that must not run inside a tview
// QueueUpdateDraw callback.
package queuedrawcheck

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports two mistakes inside QueueUpdateDraw callbacks: a nested
// QueueUpdateDraw, which deadlocks tview, and a blocking page controller
// call (Refresh, Bulk, Apply), which freezes the dashboard for a whole
// backend round trip.
var Analyzer = &analysis.Analyzer{
	Name: "queuedrawcheck",
	Doc:  "reports nested QueueUpdateDraw calls and blocking controller calls inside QueueUpdateDraw callbacks",
	Run:  run,
}

// blockingMethods are the controller methods that wait on the backend.
var blockingMethods = map[string]bool{
	"Refresh": true,
	"Bulk":    true,
	"Apply":   true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			outer, ok := n.(*ast.CallExpr)
			if !ok || methodName(outer) != "QueueUpdateDraw" || len(outer.Args) == 0 {
				return true
			}

			fnLit, ok := outer.Args[0].(*ast.FuncLit)
			if !ok {
				return true
			}

			checkCallback(pass, fnLit.Body)

			return true
		})
	}

	return nil, nil
}

func checkCallback(pass *analysis.Pass, body *ast.BlockStmt) {
	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.FuncLit:
			// Closures run elsewhere, e.g. in a goroutine.
			return false
		case *ast.GoStmt:
			return false
		case *ast.CallExpr:
			name := methodName(n)

			switch {
			case name == "QueueUpdateDraw":
				pass.Reportf(n.Pos(), "nested QueueUpdateDraw inside QueueUpdateDraw callback can deadlock tview")
				return false
			case blockingMethods[name] && hasContextArg(n):
				pass.Reportf(n.Pos(), "%s blocks on the backend; call it from a goroutine, not a QueueUpdateDraw callback", name)
				return false
			}
		}

		return true
	})
}

func methodName(call *ast.CallExpr) string {
	selector, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || selector.Sel == nil {
		return ""
	}

	return selector.Sel.Name
}

// hasContextArg reports whether the first argument looks like a context,
// which separates controller.Apply(ctx, ...) from unrelated Apply methods.
func hasContextArg(call *ast.CallExpr) bool {
	if len(call.Args) == 0 {
		return false
	}

	switch arg := call.Args[0].(type) {
	case *ast.Ident:
		return arg.Name == "ctx"
	case *ast.SelectorExpr:
		return arg.Sel.Name == "ctx"
	case *ast.CallExpr:
		sel, ok := arg.Fun.(*ast.SelectorExpr)
		if !ok {
			return false
		}
		pkg, ok := sel.X.(*ast.Ident)
		return ok && pkg.Name == "context"
	default:
		return false
	}
}
