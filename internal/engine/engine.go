// Package engine orchestrates one file's analysis end to end: parse
// with Tree-sitter, hand the resulting CST to the Rule Runtime (which
// builds the Scope Manager and Code-Path Analyzer alongside rule
// dispatch), and assemble the diagnostic.FileResult the CLI and store
// both consume.
package engine

import (
	"context"
	"fmt"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	javascript "github.com/smacker/go-tree-sitter/javascript"

	"jslint.dev/engine/internal/config"
	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/rule"
)

// Engine wires a rule.Registry and a config.Config into a runnable
// analyzer, one Runtime built per Config (listener compilation only
// happens once per distinct rule configuration, not once per file).
type Engine struct {
	registry *rule.Registry
	lang     *sitter.Language
}

// New returns an Engine dispatching against reg, over the JavaScript
// grammar.
func New(reg *rule.Registry) *Engine {
	return &Engine{registry: reg, lang: javascript.GetLanguage()}
}

// NewRuntime compiles cfg's rules into a rule.Runtime, reusable across
// every file in a run.
func (e *Engine) NewRuntime(cfg *config.Config) (*rule.Runtime, error) {
	return rule.NewRuntime(e.registry, e.lang, cfg.Rules)
}

// AnalyzeFile parses source and runs rt's rules over it. A parse
// failure or a timeout produces a FileResult whose Kind reports why,
// never a Go error — per-file failures are diagnostics, not fatal run
// errors. timeout <= 0 disables the per-file wall-clock budget.
func (e *Engine) AnalyzeFile(ctx context.Context, path string, source []byte, cfg *config.Config, rt *rule.Runtime, timeout time.Duration) *diagnostic.FileResult {
	select {
	case <-ctx.Done():
		return &diagnostic.FileResult{File: path, Kind: diagnostic.ResultTimeout, Error: ctx.Err().Error()}
	default:
	}

	type parseOutcome struct {
		tree *sitter.Tree
	}
	done := make(chan parseOutcome, 1)
	go func() {
		parser := sitter.NewParser()
		parser.SetLanguage(e.lang)
		tree := parser.Parse(nil, source)
		done <- parseOutcome{tree: tree}
	}()

	var tree *sitter.Tree
	if timeout > 0 {
		select {
		case out := <-done:
			tree = out.tree
		case <-time.After(timeout):
			return &diagnostic.FileResult{File: path, Kind: diagnostic.ResultTimeout, Error: fmt.Sprintf("parsing %s exceeded %s", path, timeout)}
		}
	} else {
		tree = (<-done).tree
	}
	if tree == nil {
		return &diagnostic.FileResult{File: path, Kind: diagnostic.ResultParseErr, Error: fmt.Sprintf("parsing %s: tree-sitter returned no tree", path)}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.HasError() {
		return &diagnostic.FileResult{File: path, Kind: diagnostic.ResultParseErr, Error: fmt.Sprintf("parsing %s: syntax error", path)}
	}

	runDone := make(chan *diagnostic.FileResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				runDone <- &diagnostic.FileResult{File: path, Kind: diagnostic.ResultRuleError, Error: fmt.Sprintf("analyzing %s: %v", path, r)}
			}
		}()
		res := rt.AnalyzeFile(root, source, cfg.SourceType, cfg.GlobalNames())
		res.File = path
		runDone <- res
	}()

	if timeout > 0 {
		select {
		case res := <-runDone:
			return res
		case <-time.After(timeout):
			return &diagnostic.FileResult{File: path, Kind: diagnostic.ResultTimeout, Error: fmt.Sprintf("analyzing %s exceeded %s", path, timeout)}
		}
	}
	return <-runDone
}
