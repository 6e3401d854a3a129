package woql

import (
	"fmt"
	"sync"
)

// VarGen hands out variable names that do not collide with each other.
// It is safe for concurrent use.
type VarGen struct {
	mu     sync.Mutex
	n      int
	issued map[string]bool
}

// NewVarGen creates a generator whose counter starts at zero.
func NewVarGen() *VarGen {
	return &VarGen{issued: make(map[string]bool)}
}

var defaultVarGen = NewVarGen()

// DefaultVarGen returns the process-wide generator used by builders that
// were not given one with WithVarGen.
func DefaultVarGen() *VarGen {
	return defaultVarGen
}

// Reset sets the counter so the next suffix is n+1 and forgets every name
// issued by Fresh.
func (g *VarGen) Reset(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = n
	g.issued = make(map[string]bool)
}

// Unique returns base_<k> with a suffix no earlier call has used.
func (g *VarGen) Unique(base string) Var {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.next(stripVarPrefix(base))
}

func (g *VarGen) next(base string) Var {
	g.n++
	name := fmt.Sprintf("%s_%d", base, g.n)
	g.issued[name] = true
	return Var{Name: name}
}

// Fresh returns base itself the first time it is asked for and a
// suffixed name afterwards.
func (g *VarGen) Fresh(base string) Var {
	g.mu.Lock()
	defer g.mu.Unlock()
	base = stripVarPrefix(base)
	if !g.issued[base] {
		g.issued[base] = true
		return Var{Name: base}
	}
	return g.next(base)
}

// Stable returns a site that names each base once and then repeats that
// name, so one call site gets the same variable on every evaluation.
func (g *VarGen) Stable() *VarSite {
	return &VarSite{gen: g, names: make(map[string]Var)}
}

// VarSite memoizes names for one call site.
type VarSite struct {
	mu    sync.Mutex
	gen   *VarGen
	names map[string]Var
}

// Var returns the name this site uses for base.
func (s *VarSite) Var(base string) Var {
	s.mu.Lock()
	defer s.mu.Unlock()
	base = stripVarPrefix(base)
	if v, ok := s.names[base]; ok {
		return v
	}
	v := s.gen.Fresh(base)
	s.names[base] = v
	return v
}

// Vars returns one variable per name, as written.
func Vars(names ...string) []Var {
	vars := make([]Var, len(names))
	for i, n := range names {
		vars[i] = Var{Name: stripVarPrefix(n)}
	}
	return vars
}

// VarsUnique returns one fresh suffixed variable per name from the default
// generator.
func VarsUnique(names ...string) []Var {
	vars := make([]Var, len(names))
	for i, n := range names {
		vars[i] = defaultVarGen.Unique(n)
	}
	return vars
}

// ResetUniqueVars resets the default generator.
func ResetUniqueVars(n int) {
	defaultVarGen.Reset(n)
}
