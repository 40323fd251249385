// Package symtab implements the three scoped namespaces from spec.md
// §3 and §4.B, grounded in the teacher's symtab.Symtab[T] (push/pop
// scope over a stack of per-scope maps) and ir.CountingSymtab (the
// indexed-temp-allocation pattern, adapted here into Namespace.Temp).
package symtab

import (
	"fmt"

	"github.com/rnshah9/mayhem-lacc/types"
)

// SymType is the declaration state of a Symbol, ranked for the file
// scope merge rule in spec.md §4.B (Definition > Tentative >
// Declaration).
type SymType int

const (
	Typedef SymType = iota
	Declaration
	Tentative
	Definition
	Enum
)

var rank = map[SymType]int{
	Declaration: 1,
	Tentative:   2,
	Definition:  3,
}

// Linkage is spec.md's three-valued linkage attribute.
type Linkage int

const (
	LinkageNone Linkage = iota
	LinkageInternal
	LinkageExternal
)

// Symbol is the spec.md §3 Symbol record. EnumBodySeen is an explicit
// field rather than overloading EnumValue as a sentinel, resolving the
// Open Question in spec.md §9 in favor of the cleaner alternative the
// spec itself names.
type Symbol struct {
	Name         string
	Type         *types.Type
	SymType      SymType
	Linkage      Linkage
	Depth        int
	EnumValue    int64
	EnumBodySeen bool
}

// Domain selects the redeclaration policy a Namespace enforces.
type Domain int

const (
	DomainIdent Domain = iota
	DomainLabel
	DomainTag
)

// Namespace is one of the three scoping domains from spec.md §3: a
// stack of per-scope symbol maps plus the full ordered insertion
// history (needed by the top-level driver's end-of-input sweep over
// every file-scope symbol, including ones whose block scope already
// closed).
type Namespace struct {
	domain    Domain
	scopes    []map[string]*Symbol
	all       []*Symbol
	tempCount int
}

func newNamespace(d Domain) *Namespace {
	return &Namespace{domain: d, scopes: []map[string]*Symbol{{}}}
}

func NewIdentNamespace() *Namespace { return newNamespace(DomainIdent) }
func NewLabelNamespace() *Namespace { return newNamespace(DomainLabel) }
func NewTagNamespace() *Namespace   { return newNamespace(DomainTag) }

// CurrentDepth is 0 at file scope, matching spec.md §4.B.
func (n *Namespace) CurrentDepth() int {
	return len(n.scopes) - 1
}

// PushScope opens a new nested scope.
func (n *Namespace) PushScope() {
	n.scopes = append(n.scopes, map[string]*Symbol{})
}

// PopScope discards every symbol introduced in the innermost scope.
func (n *Namespace) PopScope() {
	if len(n.scopes) == 1 {
		panic("cannot pop file scope")
	}
	n.scopes = n.scopes[:len(n.scopes)-1]
}

// Lookup returns the innermost binding for name, or (nil, false).
func (n *Namespace) Lookup(name string) (*Symbol, bool) {
	for i := len(n.scopes) - 1; i >= 0; i-- {
		if sym, ok := n.scopes[i][name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupCurrentScope returns a binding only if it was introduced in the
// innermost scope, used to enforce "redeclaration at the same depth".
func (n *Namespace) LookupCurrentScope(name string) (*Symbol, bool) {
	sym, ok := n.scopes[len(n.scopes)-1][name]
	return sym, ok
}

// All returns every symbol ever inserted, in insertion order,
// regardless of whether its scope has since been popped.
func (n *Namespace) All() []*Symbol {
	return n.all
}

// Add inserts proto at the current depth, applying the redeclaration
// rules from spec.md §4.B. On the identifier namespace a later
// Declaration/Tentative for an existing Tentative/Declaration of equal
// type merges (more-defined SymType wins); a second Definition is a
// fatal error; at block scope any same-name redeclaration at the same
// depth is a fatal error. Labels and tags use the simple "no duplicate
// at this depth" rule.
func (n *Namespace) Add(proto *Symbol) (*Symbol, error) {
	proto.Depth = n.CurrentDepth()
	existing, found := n.LookupCurrentScope(proto.Name)
	if !found {
		n.scopes[len(n.scopes)-1][proto.Name] = proto
		n.all = append(n.all, proto)
		return proto, nil
	}
	if n.domain != DomainIdent {
		return nil, fmt.Errorf("redeclaration of '%s'", proto.Name)
	}
	if proto.Depth != 0 {
		return nil, fmt.Errorf("redeclaration of '%s'", proto.Name)
	}
	return n.mergeFileScope(existing, proto)
}

func (n *Namespace) mergeFileScope(existing, proto *Symbol) (*Symbol, error) {
	if !types.Equal(existing.Type, proto.Type) {
		return nil, fmt.Errorf("conflicting types for '%s'", proto.Name)
	}
	if existing.SymType == Definition && proto.SymType == Definition {
		return nil, fmt.Errorf("redefinition of '%s'", proto.Name)
	}
	winner := existing
	if rank[proto.SymType] > rank[existing.SymType] {
		winner = proto
	}
	winner.Depth = existing.Depth
	n.scopes[0][proto.Name] = winner
	for i, s := range n.all {
		if s == existing {
			n.all[i] = winner
			break
		}
	}
	return winner, nil
}

// Temp allocates a fresh, uniquely-named symbol at the current depth
// for compiler-generated temporaries (spec.md §4.B), mirroring the
// counting-index scheme in the teacher's ir.CountingSymtab.
func (n *Namespace) Temp(t *types.Type) *Symbol {
	name := fmt.Sprintf("__t%d", n.tempCount)
	n.tempCount++
	sym := &Symbol{Name: name, Type: t, SymType: Definition, Linkage: LinkageNone}
	sym.Depth = n.CurrentDepth()
	n.scopes[len(n.scopes)-1][name] = sym
	n.all = append(n.all, sym)
	return sym
}
