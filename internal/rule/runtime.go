package rule

import (
	"fmt"
	"sort"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/codepath"
	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/errs"
	"jslint.dev/engine/internal/query"
	"jslint.dev/engine/internal/scope"
)

// Registry holds every Descriptor the engine knows about, keyed by
// name, guarded by a single RWMutex with an explicit conflict check on
// registration rather than a silent overwrite.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]*Descriptor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]*Descriptor)}
}

// Register adds d to the registry. Registering two rules under the
// same name is a configuration error.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil || d.Name == "" {
		return errs.New(errs.InvalidRule, "rule descriptor must have a non-empty name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rules[d.Name]; exists {
		return errs.New(errs.InvalidRule, fmt.Sprintf("rule %q already registered", d.Name))
	}
	r.rules[d.Name] = d
	return nil
}

// Lookup returns the named rule, or nil if it isn't registered.
func (r *Registry) Lookup(name string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[name]
}

// All returns every registered Descriptor, in no particular order.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.rules))
	for _, d := range r.rules {
		out = append(out, d)
	}
	return out
}

// RuleConfig is one rule's resolved configuration for a run: its
// severity plus whatever options map the rule's own PerConfig parses.
type RuleConfig struct {
	Severity diagnostic.Severity
	Options  map[string]any
}

// compiledListener pairs a Listener with its compiled selector and
// (for query listeners) the active rule binding it fires against.
type compiledListener struct {
	rule     string
	listener Listener
	selector *query.Selector
}

// activeRule is one rule's live state for the current run: its
// descriptor, resolved config, and the per-config state its
// StateInit.PerConfig produced.
type activeRule struct {
	descriptor *Descriptor
	config     RuleConfig
	perConfig  any
}

// Runtime drives a single shared depth-first traversal: for each node
// it is handed, it fires every matching Enter
// listener before descending and every matching Exit listener after
// the node's subtree. The Code-Path Analyzer's builder is driven within
// that same walk; the Scope Manager is built by a separate pass over
// the tree before the walk starts.
type Runtime struct {
	lang      *sitter.Language
	active    []*activeRule
	listeners []*compiledListener

	kindEnter map[string][]*compiledListener
	kindExit  map[string][]*compiledListener
	queries   []*compiledListener
}

// NewRuntime resolves ruleConfigs against reg and compiles every
// listener's selector, failing fast (before any file is analyzed) on
// an unknown rule name or a malformed tree query: configuration errors
// are fatal at startup, never discovered mid-run.
func NewRuntime(reg *Registry, lang *sitter.Language, ruleConfigs map[string]RuleConfig) (*Runtime, error) {
	rt := &Runtime{
		lang:      lang,
		kindEnter: make(map[string][]*compiledListener),
		kindExit:  make(map[string][]*compiledListener),
	}
	names := make([]string, 0, len(ruleConfigs))
	for name := range ruleConfigs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cfg := ruleConfigs[name]
		d := reg.Lookup(name)
		if d == nil {
			return nil, errs.New(errs.InvalidRule, fmt.Sprintf("unknown rule %q", name))
		}
		if cfg.Severity == diagnostic.SeverityOff {
			continue
		}
		var perConfig any
		if d.State.PerConfig != nil {
			pc, err := d.State.PerConfig(cfg.Options)
			if err != nil {
				return nil, errs.Wrap(errs.InvalidConfig, fmt.Sprintf("rule %q options", name), err)
			}
			perConfig = pc
		}
		rt.active = append(rt.active, &activeRule{descriptor: d, config: cfg, perConfig: perConfig})

		for _, l := range d.Listeners {
			cl := &compiledListener{rule: name, listener: l}
			sel, err := query.Compile(l.Pattern, lang)
			if err != nil {
				return nil, errs.Wrap(errs.InvalidQuery, fmt.Sprintf("rule %q listener %q", name, l.Pattern), err)
			}
			cl.selector = sel
			if sel.IsQuery() {
				rt.queries = append(rt.queries, cl)
				continue
			}
			kind, exit := sel.Kind()
			if exit {
				rt.kindExit[kind] = append(rt.kindExit[kind], cl)
			} else {
				rt.kindEnter[kind] = append(rt.kindEnter[kind], cl)
			}
		}
	}
	return rt, nil
}

// Close releases every compiled query selector. Call once the Runtime
// is no longer needed.
func (rt *Runtime) Close() {
	for _, cl := range rt.queries {
		cl.selector.Close()
	}
}

// queryMatch pins a compiled query's matched target node to the
// compiledListener that produced it, so the traversal can fire the
// listener exactly when it reaches that node.
type queryMatch struct {
	cl       *compiledListener
	target   *sitter.Node
	captures Captures
}

// AnalyzeFile runs every active rule's listeners over root in one
// depth-first traversal, building the Code-Path Analyzer alongside rule
// dispatch; the Scope Manager is built by scope.Analyze before that
// traversal. sourceType and globals configure the Scope Manager for
// this file.
func (rt *Runtime) AnalyzeFile(root *sitter.Node, source []byte, sourceType string, globals []string) *diagnostic.FileResult {
	result := &diagnostic.FileResult{Kind: diagnostic.ResultOK}

	scopeMgr := scope.Analyze(root, source, scope.Options{SourceType: sourceType, Globals: globals})
	cpBuilder := codepath.NewBuilder(source)
	tokens := ast.NewTokens(root)

	byTargetByte := rt.precomputeQueryMatches(root, source)

	perFileRun := make(map[string]any, len(rt.active))
	for _, ar := range rt.active {
		if ar.descriptor.State.PerFileRun != nil {
			perFileRun[ar.descriptor.Name] = ar.descriptor.State.PerFileRun(ar.perConfig)
		}
	}

	var violations []diagnostic.Violation

	ctxFor := func(ar *activeRule, node *sitter.Node) *Context {
		cpPath, cpSeg, hasCP := cpBuilder.CurrentSegment()
		return &Context{
			ruleName:   ar.descriptor.Name,
			node:       node,
			source:     source,
			tokens:     tokens,
			scopeMgr:   scopeMgr,
			cpMgr:      cpBuilder.Finish(),
			cpPath:     cpPath,
			cpSeg:      cpSeg,
			hasCP:      hasCP,
			perConfig:  ar.perConfig,
			perFileRun: perFileRun[ar.descriptor.Name],
			violations: &violations,
			severity:   ar.config.Severity,
			messages:   ar.descriptor.Messages,
		}
	}

	fire := func(listeners []*compiledListener, node *sitter.Node, captures Captures) {
		for _, cl := range listeners {
			ar := rt.ruleOf(cl.rule)
			if ar == nil {
				continue
			}
			rt.safeCall(cl, ctxFor(ar, node), captures, &violations)
		}
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		kind := ast.KindOf(n)

		cpBuilder.Enter(n)
		fire(rt.kindEnter[kind], n, nil)
		if qms, ok := byTargetByte[n.StartByte()]; ok {
			for _, qm := range qms {
				if !qm.cl.listener.Exit && ast.Same(qm.target, n) {
					ar := rt.ruleOf(qm.cl.rule)
					if ar != nil {
						rt.safeCall(qm.cl, ctxFor(ar, n), qm.captures, &violations)
					}
				}
			}
		}

		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i))
		}

		if qms, ok := byTargetByte[n.StartByte()]; ok {
			for _, qm := range qms {
				if qm.cl.listener.Exit && ast.Same(qm.target, n) {
					ar := rt.ruleOf(qm.cl.rule)
					if ar != nil {
						rt.safeCall(qm.cl, ctxFor(ar, n), qm.captures, &violations)
					}
				}
			}
		}
		fire(rt.kindExit[kind], n, nil)
		cpBuilder.Exit(n)
	}
	walk(root)

	diagnostic.SortStable(violations)
	result.Violations = violations
	return result
}

// precomputeQueryMatches runs every compiled tree-query listener over
// the whole tree up front, keyed by the byte offset of its `@target`
// capture (falling back to the match's first capture when none is
// named "target"), so the main traversal can fire a query listener at
// the exact moment it reaches the matched node without re-querying at
// every step.
func (rt *Runtime) precomputeQueryMatches(root *sitter.Node, source []byte) map[int][]queryMatch {
	out := make(map[int][]queryMatch)
	for _, cl := range rt.queries {
		cursor := query.NewCursor(cl.selector, root, source)
		for _, m := range cursor.All() {
			target, ok := m.Captures["target"]
			if !ok {
				for _, n := range m.Captures {
					target = n
					ok = true
					break
				}
			}
			if !ok {
				continue
			}
			caps := make(Captures, len(m.Captures))
			for name, n := range m.Captures {
				caps[name] = n
			}
			key := int(target.StartByte())
			out[key] = append(out[key], queryMatch{cl: cl, target: target, captures: caps})
		}
		cursor.Close()
	}
	return out
}

func (rt *Runtime) ruleOf(name string) *activeRule {
	for _, ar := range rt.active {
		if ar.descriptor.Name == name {
			return ar
		}
	}
	return nil
}

// safeCall invokes a listener, recovering a panic into a RuleInternal
// synthetic violation rather than aborting the whole file's analysis.
func (rt *Runtime) safeCall(cl *compiledListener, ctx *Context, captures Captures, violations *[]diagnostic.Violation) {
	defer func() {
		if r := recover(); r != nil {
			*violations = append(*violations, diagnostic.Violation{
				Rule:      cl.rule,
				Severity:  diagnostic.SeverityError,
				MessageID: errs.RuleInternal,
				Message:   fmt.Sprintf("rule %q panicked: %v", cl.rule, r),
				Range:     ast.RangeOf(ctx.node),
			})
		}
	}()
	cl.listener.Handle(ctx, captures)
}
