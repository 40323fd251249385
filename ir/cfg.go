package ir

import (
	"fmt"

	"github.com/rnshah9/mayhem-lacc/symtab"
)

// Decl is the per-fragment arena from spec.md §3: it owns every block
// allocated while parsing one external declaration, plus that
// declaration's symbol metadata. Blocks are never freed individually
// before the fragment is finalized — unreachable ("orphan") blocks
// produced after return/break/continue are retained because a
// subsequent label could make them reachable (spec.md §4.C).
type Decl struct {
	Head   *Block
	Body   *Block
	Locals []*symtab.Symbol
	Params []*symtab.Symbol
	Fun    *symtab.Symbol

	blocks    []*Block
	finalized bool
}

// CFGCreate starts a fresh fragment with its head block already
// allocated, matching spec.md §4.C's cfg_create.
func CFGCreate() *Decl {
	head := &Block{Label: "head"}
	return &Decl{Head: head, blocks: []*Block{head}}
}

// BlockInit allocates and returns a new empty block owned by this
// fragment (spec.md §4.C's cfg_block_init).
func (d *Decl) BlockInit() *Block {
	b := &Block{Label: fmt.Sprintf("L%d", len(d.blocks))}
	d.blocks = append(d.blocks, b)
	return b
}

// Finalize marks the fragment ready for consumption by the back end
// (spec.md §4.C's cfg_finalize).
func (d *Decl) Finalize() {
	d.finalized = true
}

func (d *Decl) Finalized() bool {
	return d.finalized
}

// Blocks returns every block allocated for this fragment, including
// orphans, in allocation order. The entry point is always d.Body (or
// d.Head alone for a fragment with no function body).
func (d *Decl) Blocks() []*Block {
	return d.blocks
}

func (d *Decl) AddLocal(sym *symtab.Symbol) {
	d.Locals = append(d.Locals, sym)
}

func (d *Decl) AddParam(sym *symtab.Symbol) {
	d.Params = append(d.Params, sym)
}
