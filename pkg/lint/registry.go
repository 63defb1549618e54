package lint

import (
	"slices"
	"strings"
	"sync"
)

// Registry indexes rules by ID. Names and aliases resolve to IDs, so a
// rule can be selected by any of the three.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
	keys  map[string]string // name or alias -> ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
		keys:  make(map[string]string),
	}
}

// Register adds rule, replacing any rule with the same ID.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
	r.keys[rule.Name()] = rule.ID()
}

// RegisterAlias makes alias resolve to the rule with the given ID, such as
// a legacy ID from before a rule changed department.
func (r *Registry) RegisterAlias(alias, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[alias] = id
}

// ByID returns the rule registered under id.
func (r *Registry) ByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// Lookup resolves key as a rule ID, then as a rule name or alias.
func (r *Registry) Lookup(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rule, ok := r.rules[key]; ok {
		return rule, true
	}
	rule, ok := r.rules[r.keys[key]]
	return rule, ok
}

// Select returns the rules a selector names: the single rule it resolves
// to via Lookup, or every rule of the department it names.
func (r *Registry) Select(selector string) []Rule {
	if rule, ok := r.Lookup(selector); ok {
		return []Rule{rule}
	}
	return r.Department(selector)
}

// Rules returns every rule sorted by ID.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]Rule, 0, len(r.rules))
	for _, id := range r.sortedIDs() {
		rules = append(rules, r.rules[id])
	}
	return rules
}

// IDs returns every rule ID in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedIDs()
}

func (r *Registry) sortedIDs() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Department returns the rules whose ID starts with "dept/", sorted by ID.
func (r *Registry) Department(dept string) []Rule {
	var rules []Rule
	for _, rule := range r.Rules() {
		if Department(rule.ID()) == dept {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Departments returns the distinct departments in sorted order.
func (r *Registry) Departments() []string {
	var depts []string
	for _, id := range r.IDs() {
		if dept := Department(id); dept != "" && !slices.Contains(depts, dept) {
			depts = append(depts, dept)
		}
	}
	return depts
}

// Department returns the department part of a rule ID, or "" when the ID
// has none.
func Department(id string) string {
	dept, _, ok := strings.Cut(id, "/")
	if !ok {
		return ""
	}
	return dept
}

// DefaultRegistry holds the built-in rules, which register themselves
// from init.
//
//nolint:gochecknoglobals // rules self-register
var DefaultRegistry = NewRegistry()
