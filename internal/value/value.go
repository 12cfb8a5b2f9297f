package value

import (
	"errors"
	"fmt"
	"strings"
)

type Kind uint8

const (
	NoneKind Kind = iota
	IntKind
	FloatKind
	TupleKind
	StringKind
	ListKind
	DictKind
	SetKind
	FrozenSetKind
	BoolKind
)

var kindNames = [...]string{
	NoneKind:      "NoneType",
	IntKind:       "int",
	FloatKind:     "float",
	TupleKind:     "tuple",
	StringKind:    "str",
	ListKind:      "list",
	DictKind:      "dict",
	SetKind:       "set",
	FrozenSetKind: "frozenset",
	BoolKind:      "bool",
}

// String returns the scripting-level type name of the kind ("int", "str", ...).
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return NoneKind, false
}

// Epsilon is the absolute tolerance used by every float comparison in the runtime.
const Epsilon = 1e-9

var (
	ErrDoubleFree      = errors.New("value: container released twice")
	ErrUseAfterFree    = errors.New("value: container used after release")
	ErrDictFull        = errors.New("dictionary is full")
	ErrNoneKey         = errors.New("dictionary key must not be None")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotIndexable    = errors.New("object is not indexable")
)

// store is the heap storage owned by a container Value. Struct copies of a Value
// alias the same store; only Copy produces an independent one.
type store struct {
	items []Value
	vals  []Value // dict values, parallel to items (the keys)
	freed bool
}

// Value is the single dynamic runtime datum. The zero Value is None.
type Value struct {
	kind Kind
	i    int32
	f    float64
	s    string
	c    *store
}

// None is the absence-of-value sentinel and the empty dict slot marker. It has no
// backing allocation.
var None = Value{}

func NewInt(i int32) Value        { return Value{kind: IntKind, i: i} }
func NewFloat(f float64) Value    { return Value{kind: FloatKind, f: f} }
func NewString(s string) Value    { return Value{kind: StringKind, s: strings.Clone(s)} }
func NewTuple(size int) Value     { return newContainer(TupleKind, size) }
func NewList(size int) Value      { return newContainer(ListKind, size) }
func NewSet(size int) Value       { return newContainer(SetKind, size) }
func NewFrozenSet(size int) Value { return newContainer(FrozenSetKind, size) }

func NewBool(b bool) Value {
	v := Value{kind: BoolKind}
	if b {
		v.i = 1
	}
	return v
}

// NewDict returns a slot-table dict with a fixed capacity. Every slot starts with a
// None key and is filled by DictSet.
func NewDict(size int) Value {
	v := newContainer(DictKind, size)
	v.c.vals = make([]Value, clampSize(size))
	return v
}

func newContainer(kind Kind, size int) Value {
	return Value{kind: kind, c: &store{items: make([]Value, clampSize(size))}}
}

func clampSize(size int) int {
	if size < 0 {
		return 0
	}
	return size
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNone() bool   { return v.kind == NoneKind }
func (v Value) IsNumber() bool { return v.kind == IntKind || v.kind == FloatKind }

// IsContainer reports whether v owns a store (tuple, list, dict, set, frozenset).
func (v Value) IsContainer() bool {
	switch v.kind {
	case TupleKind, ListKind, DictKind, SetKind, FrozenSetKind:
		return true
	}
	return false
}

func (v Value) mustBe(k Kind, method string) {
	if v.kind != k {
		panic(fmt.Sprintf("value: %s called on %s", method, v.kind))
	}
}

func (v Value) Int() int32 {
	v.mustBe(IntKind, "Int")
	return v.i
}

func (v Value) Float() float64 {
	v.mustBe(FloatKind, "Float")
	return v.f
}

func (v Value) Bool() bool {
	v.mustBe(BoolKind, "Bool")
	return v.i != 0
}

// Str returns the bytes of a String value.
func (v Value) Str() string {
	v.mustBe(StringKind, "Str")
	return v.s
}

// AsFloat returns the numeric value of an Int or Float promoted to float64.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case IntKind:
		return float64(v.i), true
	case FloatKind:
		return v.f, true
	}
	return 0, false
}

func (v Value) live() *store {
	if v.c == nil {
		panic(fmt.Sprintf("value: %s has no storage", v.kind))
	}
	if v.c.freed {
		panic(ErrUseAfterFree)
	}
	return v.c
}

// Len returns the declared element count of a container or the byte length of a
// string. Other kinds report 0.
func (v Value) Len() int {
	switch {
	case v.kind == StringKind:
		return len(v.s)
	case v.IsContainer():
		return len(v.live().items)
	}
	return 0
}

// Items returns the element storage of a tuple, list, set or frozenset, or the key
// storage of a dict. The slice is borrowed: it stays owned by v.
func (v Value) Items() []Value {
	if !v.IsContainer() {
		return nil
	}
	return v.live().items
}

// Keys returns the borrowed key slots of a dict.
func (v Value) Keys() []Value {
	v.mustBe(DictKind, "Keys")
	return v.live().items
}

// Values returns the borrowed value slots of a dict.
func (v Value) Values() []Value {
	v.mustBe(DictKind, "Values")
	return v.live().vals
}

func (v Value) sequence() ([]Value, error) {
	switch v.kind {
	case TupleKind, ListKind, SetKind, FrozenSetKind:
		return v.live().items, nil
	}
	return nil, fmt.Errorf("'%s' %w", v.kind, ErrNotIndexable)
}

// Index returns the element at i, counting from the end for negative indexes. The
// element stays owned by v.
func (v Value) Index(i int) (Value, error) {
	items, err := v.sequence()
	if err != nil {
		return None, err
	}
	if i < 0 {
		i += len(items)
	}
	if i < 0 || i >= len(items) {
		return None, fmt.Errorf("%s %w", v.kind, ErrIndexOutOfRange)
	}
	return items[i], nil
}

// SetIndex stores x at i. The container takes ownership of x and releases the element
// it replaces.
func (v Value) SetIndex(i int, x Value) error {
	items, err := v.sequence()
	if err != nil {
		return err
	}
	if i < 0 {
		i += len(items)
	}
	if i < 0 || i >= len(items) {
		return fmt.Errorf("%s assignment %w", v.kind, ErrIndexOutOfRange)
	}
	old := items[i]
	items[i] = x
	Free(&old)
	return nil
}

// DictSet fills the first slot whose key is None. Capacity never grows: once every
// slot holds a key, ErrDictFull is returned. The dict takes ownership of key and val.
func (v Value) DictSet(key, val Value) error {
	v.mustBe(DictKind, "DictSet")
	if key.IsNone() {
		return ErrNoneKey
	}
	st := v.live()
	for i := range st.items {
		if st.items[i].IsNone() {
			Free(&st.vals[i])
			st.items[i] = key
			st.vals[i] = val
			return nil
		}
	}
	return ErrDictFull
}

// Filled counts the occupied slots of a dict.
func (v Value) Filled() int {
	n := 0
	for _, k := range v.Keys() {
		if !k.IsNone() {
			n++
		}
	}
	return n
}

// Copy returns a deep copy of v. Releasing the copy never affects v and vice versa.
func Copy(v Value) Value {
	switch v.kind {
	case NoneKind, IntKind, FloatKind, BoolKind:
		return v
	case StringKind:
		return Value{kind: StringKind, s: strings.Clone(v.s)}
	}
	src := v.live()
	dst := &store{items: copyAll(src.items)}
	if v.kind == DictKind {
		dst.vals = copyAll(src.vals)
	}
	return Value{kind: v.kind, c: dst}
}

func copyAll(src []Value) []Value {
	out := make([]Value, len(src))
	for i, item := range src {
		out[i] = Copy(item)
	}
	return out
}

// Free releases everything v owns, bottom-up, and resets v to None. It must be called
// at most once per independently owned Value: releasing a container a second time
// through any alias panics with ErrDoubleFree.
func Free(v *Value) {
	if v.IsContainer() && v.c != nil {
		st := v.c
		if st.freed {
			panic(ErrDoubleFree)
		}
		st.freed = true
		for i := range st.items {
			Free(&st.items[i])
		}
		for i := range st.vals {
			Free(&st.vals[i])
		}
		st.items = nil
		st.vals = nil
	}
	*v = None
}

// Released reports whether the storage behind v has been freed through some alias.
func Released(v Value) bool {
	return v.c != nil && v.c.freed
}

// ListOf builds a list that takes ownership of items.
func ListOf(items ...Value) Value { return containerOf(ListKind, items) }

// TupleOf builds a tuple that takes ownership of items.
func TupleOf(items ...Value) Value { return containerOf(TupleKind, items) }

// SetOf builds a set that takes ownership of items. No deduplication happens here.
func SetOf(items ...Value) Value { return containerOf(SetKind, items) }

// FrozenSetOf builds a frozenset that takes ownership of items.
func FrozenSetOf(items ...Value) Value { return containerOf(FrozenSetKind, items) }

func containerOf(kind Kind, items []Value) Value {
	owned := make([]Value, len(items))
	copy(owned, items)
	return Value{kind: kind, c: &store{items: owned}}
}

// DictOf builds a dict whose capacity is len(keys), filled slot by slot. The dict
// takes ownership of every key and value; a None key leaves its slot empty and the
// value paired with it is released.
func DictOf(keys, vals []Value) (Value, error) {
	if len(keys) != len(vals) {
		return None, fmt.Errorf("dict needs as many values as keys, got %d keys and %d values", len(keys), len(vals))
	}
	st := &store{items: make([]Value, len(keys)), vals: make([]Value, len(vals))}
	copy(st.items, keys)
	for i, val := range vals {
		if keys[i].IsNone() {
			Free(&val)
		}
		st.vals[i] = val
	}
	return Value{kind: DictKind, c: st}, nil
}
