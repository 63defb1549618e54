package lint

import (
	"context"

	"fortio.org/safecast"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/source"
)

// RuleContext is what a rule sees of one parsed file. One is created per
// rule invocation; rules of the same pass share its node index.
//
// The context.Context lives in Ctx so that Rule needs only one method.
type RuleContext struct {
	Ctx        context.Context
	Source     *ast.ParsedSource // read-only
	Root       *ast.Node         // Source.Root
	Config     *config.Config
	RuleConfig *config.RuleConfig // nil when the rule has no entry
	Registry   *Registry          // resolves rule names; may be nil

	nodeCache *NodeCache
}

func NewRuleContext(
	ctx context.Context,
	src *ast.ParsedSource,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	rc := &RuleContext{
		Ctx:        ctx,
		Source:     src,
		Config:     cfg,
		RuleConfig: ruleCfg,
		nodeCache:  newNodeCache(),
	}
	if src != nil {
		rc.Root = src.Root
	}
	return rc
}

// forRule returns a copy of rc for the next rule, sharing the node cache.
func (rc *RuleContext) forRule(ruleCfg *config.RuleConfig) *RuleContext {
	next := *rc
	next.RuleConfig = ruleCfg
	return &next
}

func (rc *RuleContext) Cancelled() bool {
	return rc.Ctx.Err() != nil
}

func (rc *RuleContext) Buffer() *source.Buffer {
	if rc.Source == nil {
		return nil
	}
	return rc.Source.Buffer
}

func (rc *RuleContext) Path() string {
	if rc.Source == nil {
		return ""
	}
	return rc.Source.Path
}

func (rc *RuleContext) Parents() *ast.Parents {
	return rc.Source.Parents()
}

// Parent returns the parent of n, or nil for the root.
func (rc *RuleContext) Parent(n *ast.Node) *ast.Node {
	return rc.Source.Parents().Parent(n)
}

// Nodes returns the nodes of the given kinds in pre-order. For a single
// kind the slice is shared between rules and must not be modified.
func (rc *RuleContext) Nodes(kinds ...ast.NodeKind) []*ast.Node {
	rc.nodeCache.build(rc.Root)
	if len(kinds) == 1 {
		return rc.nodeCache.ByKind(kinds[0])
	}

	var nodes []*ast.Node
	for _, node := range rc.nodeCache.All() {
		if node.Is(kinds...) {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// Diagnostic starts a diagnostic in this file. The rule name is filled in
// from the registry when one is attached.
func (rc *RuleContext) Diagnostic(ruleID string, r source.Range, message string) *DiagnosticBuilder {
	builder := NewDiagnostic(ruleID, r, message)
	if rc.Registry != nil {
		if rule, ok := rc.Registry.ByID(ruleID); ok {
			builder.diag.RuleName = rule.Name()
		}
	}
	if builder.diag.FilePath == "" {
		builder.diag.FilePath = rc.Path()
	}
	return builder
}

// Option returns the raw value of a rule option, or defaultValue.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if rc.RuleConfig == nil {
		return defaultValue
	}
	if v, ok := rc.RuleConfig.Options[key]; ok {
		return v
	}
	return defaultValue
}

// optionAs returns the option when it holds a T.
func optionAs[T any](rc *RuleContext, key string, defaultValue T) T {
	if v, ok := rc.Option(key, defaultValue).(T); ok {
		return v
	}
	return defaultValue
}

// OptionInt accepts whatever integer type the config decoder produced:
// int from YAML, int64 from TOML, float64 from JSON. Values that do not
// fit an int exactly give defaultValue.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	var (
		n   int
		err error
	)
	switch v := rc.Option(key, defaultValue).(type) {
	case int:
		return v
	case int64:
		n, err = safecast.Conv[int](v)
	case uint64:
		n, err = safecast.Conv[int](v)
	case float64:
		n, err = safecast.Convert[int](v)
	default:
		return defaultValue
	}
	if err != nil {
		return defaultValue
	}
	return n
}

func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	return optionAs(rc, key, defaultValue)
}

func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	return optionAs(rc, key, defaultValue)
}

// OptionStringSlice also accepts the []any that decoders produce for
// sequences, keeping only the string items.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	switch v := rc.Option(key, defaultValue).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
