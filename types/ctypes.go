// Package types implements the type registry described in spec.md
// §3 and §4.A: a tagged-variant Type tree with restricted in-place
// completion, grounded in the teacher's typesystem/ctypes.go (Ctype
// interface over BuiltinCtype/PointerCtype/StructCtype/ArrayCtype/
// FunctionPtrCtype) but collapsed into a single tagged struct, which is
// the representation spec.md §3 itself specifies ("a tagged variant
// over {None, Integer, Real, Pointer, Array, Function, Object}").
package types

// Kind tags a Type.
type Kind int

const (
	None Kind = iota
	Integer
	Real
	Pointer
	Array
	Function
	Object
)

func (k Kind) String() string {
	switch k {
	case None:
		return "void"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case Pointer:
		return "pointer"
	case Array:
		return "array"
	case Function:
		return "function"
	case Object:
		return "object"
	}
	return "unknown"
}

// Member is one (name, type, offset) triple of an Object's field list
// or a Function's parameter list (offset is unused for parameters).
type Member struct {
	Name   string
	Type   *Type
	Offset int
}

// Type is the tagged variant from spec.md §3. Size 0 on an Array or
// Object means incomplete. Next is the pointee/element/return type.
// Tag carries the struct/union/enum tag name when this Object type was
// named (used so the tag namespace and the registry share one object
// by identity, per the "same type object, not a copy" property).
type Type struct {
	Kind       Kind
	Size       int
	IsConst    bool
	IsVolatile bool
	IsUnsigned bool
	Next       *Type
	Members    []Member
	IsVararg   bool
	Tag        string
	IsUnion    bool

	arrayLength int
}

// --- constructors ---

func NewInteger(size int, unsigned bool) *Type {
	return &Type{Kind: Integer, Size: size, IsUnsigned: unsigned}
}

func NewReal(size int) *Type {
	return &Type{Kind: Real, Size: size}
}

func NewVoid() *Type {
	return &Type{Kind: None, Size: 0}
}

// NewPointer builds a pointer-to-to type of the given target-machine
// pointer width (types.Config.PointerSize), satisfying spec.md §3's "a
// pointer-to-X has size equal to the target pointer width" invariant —
// callers thread their *Config's PointerSize through rather than this
// package guessing a width.
func NewPointer(to *Type, size int) *Type {
	return &Type{Kind: Pointer, Size: size, Next: to}
}

// NewArray builds an array of the given element type and length. A
// length of 0 means incomplete (spec.md §4.A), in which case Size is
// left at 0 until Complete fills it in.
func NewArray(elem *Type, length int) *Type {
	t := &Type{Kind: Array, Next: elem}
	if length > 0 && elem != nil && elem.Size > 0 {
		t.Size = elem.Size * length
	}
	t.arrayLength = length
	return t
}

func NewFunction(ret *Type) *Type {
	return &Type{Kind: Function, Next: ret, Size: 0}
}

// NewObject creates an empty, incomplete struct/union shell; members
// are appended with AddMember and offsets computed once by
// AlignStructMembers at the closing brace.
func NewObject(tag string) *Type {
	return &Type{Kind: Object, Size: 0, Tag: tag}
}

// --- restricted mutators: the only permitted in-place updates ---

// AddMember appends a field to an Object (or a parameter to a
// Function's Members list); offsets for Object members are filled in
// later by AlignStructMembers.
func (t *Type) AddMember(name string, mt *Type) {
	t.Members = append(t.Members, Member{Name: name, Type: mt})
}

// AddParam appends a parameter to a Function type's Members list.
func (t *Type) AddParam(name string, pt *Type) {
	t.Members = append(t.Members, Member{Name: name, Type: pt})
}

// alignmentOf returns the natural alignment of a type: its size rounded
// up to a power of two no greater than 8, matching spec.md §4.A.
func alignmentOf(t *Type) int {
	size := t.Size
	if size <= 0 {
		size = 1
	}
	align := 1
	for align < size && align < 8 {
		align *= 2
	}
	return align
}

// AlignStructMembers computes each member's offset using natural
// alignment and sets obj.Size to the final offset rounded up to the
// maximum member alignment, grounded in the teacher's NewStruct
// (typesystem/ctypes.go) which performs the same padding computation
// eagerly at construction time rather than as a later mutation.
func AlignStructMembers(obj *Type) {
	offset := 0
	maxAlign := 1
	for i := range obj.Members {
		m := &obj.Members[i]
		align := alignmentOf(m.Type)
		if align > maxAlign {
			maxAlign = align
		}
		if rem := offset % align; rem != 0 {
			offset += align - rem
		}
		m.Offset = offset
		offset += m.Type.Size
	}
	if rem := offset % maxAlign; rem != 0 {
		offset += maxAlign - rem
	}
	obj.Size = offset
}

// AlignUnionMembers lays out a union: every member starts at offset 0
// and the union's Size is the largest member's size, rounded up to the
// widest member alignment. Grounded in the same struct-layout pass as
// AlignStructMembers, specialized for the overlapping-storage case
// spec.md's Object kind folds unions into (see DESIGN.md).
func AlignUnionMembers(obj *Type) {
	size := 0
	maxAlign := 1
	for i := range obj.Members {
		m := &obj.Members[i]
		m.Offset = 0
		if m.Type.Size > size {
			size = m.Type.Size
		}
		if align := alignmentOf(m.Type); align > maxAlign {
			maxAlign = align
		}
	}
	if rem := size % maxAlign; rem != 0 {
		size += maxAlign - rem
	}
	obj.Size = size
}

// Complete back-fills an incomplete Array's element count and Size from
// an initializer's element count — the one permitted post-hoc mutation
// for arrays, per spec.md §3 and §4.A's `complete`.
func Complete(incomplete *Type, length int) {
	if incomplete.Kind != Array {
		panic("Complete called on non-array type")
	}
	incomplete.arrayLength = length
	if incomplete.Next != nil {
		incomplete.Size = incomplete.Next.Size * length
	}
}

// ArrayLength returns the element count of an Array type (0 if still
// incomplete).
func (t *Type) ArrayLength() int {
	return t.arrayLength
}

// IsIncomplete reports whether sizeof or a definition of this type
// would be invalid: an Array with no element count, or an Object whose
// body hasn't been seen yet.
func IsIncomplete(t *Type) bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case Array:
		return t.Size == 0
	case Object:
		return t.Size == 0
	}
	return false
}

// MaybeField looks up a named field on an Object type.
func (t *Type) MaybeField(name string) (*Member, bool) {
	for i := range t.Members {
		if t.Members[i].Name == name {
			return &t.Members[i], true
		}
	}
	return nil, false
}

// Equal implements spec.md §3's type-equality invariant: two types are
// equal iff kind, qualifiers, size, members pairwise, and Next are
// equal.
func Equal(a, b *Type) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind || a.Size != b.Size || a.IsConst != b.IsConst ||
		a.IsVolatile != b.IsVolatile || a.IsUnsigned != b.IsUnsigned ||
		a.IsVararg != b.IsVararg || len(a.Members) != len(b.Members) {
		return false
	}
	for i := range a.Members {
		if a.Members[i].Name != b.Members[i].Name ||
			a.Members[i].Offset != b.Members[i].Offset ||
			!Equal(a.Members[i].Type, b.Members[i].Type) {
			return false
		}
	}
	return Equal(a.Next, b.Next)
}
