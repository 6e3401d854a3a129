package woql

import (
	"maps"
	"slices"
	"strings"
)

// Localize scopes a sub-query using the default generator.
// See VarGen.Localize.
func Localize(spec map[string]any) (func(*Builder) *Builder, map[string]Var) {
	return defaultVarGen.Localize(spec)
}

// Localize scopes a sub-query using the generator set by WithVarGen.
func (b *Builder) Localize(spec map[string]any) (func(*Builder) *Builder, map[string]Var) {
	return b.vars.Localize(spec)
}

// Localize prepares a scope for a sub-query. Every key of spec gets a
// fresh internal variable, returned in the map for use inside the query.
//
// A nil value marks a local variable that never leaves the scope. A
// "v:Name" string or a Var binds the internal variable to that outer
// variable: the wrapped query unifies the two with Eq before running the
// inner query under Select([""]), so only the outer names are visible
// afterwards.
func (g *VarGen) Localize(spec map[string]any) (func(*Builder) *Builder, map[string]Var) {
	keys := slices.Sorted(maps.Keys(spec))
	internal := make(map[string]Var, len(keys))
	type link struct{ inner, outer Var }
	var links []link
	var bad []*Error

	for _, k := range keys {
		v := g.Unique(k)
		internal[k] = v
		switch outer := spec[k].(type) {
		case nil:
			// local to the scope
		case Var:
			links = append(links, link{v, outer})
		case string:
			name, ok := strings.CutPrefix(outer, varPrefix)
			if name == "" {
				ok = false
			}
			if !ok {
				bad = append(bad, newError(CodeParameterError, "Localize", "%s: %q is not a variable", k, outer))
				continue
			}
			links = append(links, link{v, Var{Name: name}})
		default:
			bad = append(bad, newError(CodeParameterError, "Localize", "%s: cannot bind to %T", k, outer))
		}
	}

	wrap := func(inner *Builder) *Builder {
		scoped := New().Select([]string{""}, inner)
		scoped.errs = append(slices.Clone(bad), scoped.errs...)
		if len(links) == 0 {
			return scoped
		}
		subs := make([]*Builder, 0, 2*len(links)+1)
		for _, l := range links {
			subs = append(subs, New().Eq(l.outer, l.outer), New().Eq(l.inner, l.outer))
		}
		return New().And(append(subs, scoped)...)
	}
	return wrap, internal
}
