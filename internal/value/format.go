package value

import (
	"math"
	"strconv"
	"strings"
)

// String renders the to_string form of v: canonical text for scalars, the bytes
// themselves for strings and a placeholder tag for containers.
func (v Value) String() string {
	switch v.kind {
	case NoneKind:
		return "None"
	case IntKind:
		return strconv.FormatInt(int64(v.i), 10)
	case FloatKind:
		return FormatFloat(v.f)
	case BoolKind:
		if v.i != 0 {
			return "True"
		}
		return "False"
	case StringKind:
		return v.s
	}
	return "<" + v.kind.String() + " object>"
}

// Inspect renders v structurally, the way the console prints it. Strings nested in
// containers are quoted; empty dict slots are skipped.
func (v Value) Inspect() string {
	var b strings.Builder
	v.inspect(&b, false)
	return b.String()
}

func (v Value) inspect(b *strings.Builder, nested bool) {
	switch v.kind {
	case StringKind:
		if nested {
			b.WriteByte('\'')
			b.WriteString(strings.ReplaceAll(v.s, "'", `\'`))
			b.WriteByte('\'')
			return
		}
		b.WriteString(v.s)
	case TupleKind:
		items := v.Items()
		b.WriteByte('(')
		writeItems(b, items)
		if len(items) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case ListKind:
		b.WriteByte('[')
		writeItems(b, v.Items())
		b.WriteByte(']')
	case SetKind, FrozenSetKind:
		items := v.Items()
		if len(items) == 0 {
			b.WriteString(v.kind.String())
			b.WriteString("()")
			return
		}
		if v.kind == FrozenSetKind {
			b.WriteString("frozenset(")
		}
		b.WriteByte('{')
		writeItems(b, items)
		b.WriteByte('}')
		if v.kind == FrozenSetKind {
			b.WriteByte(')')
		}
	case DictKind:
		b.WriteByte('{')
		first := true
		vals := v.Values()
		for i, k := range v.Keys() {
			if k.IsNone() {
				continue
			}
			if !first {
				b.WriteString(", ")
			}
			first = false
			k.inspect(b, true)
			b.WriteString(": ")
			vals[i].inspect(b, true)
		}
		b.WriteByte('}')
	default:
		b.WriteString(v.String())
	}
}

func writeItems(b *strings.Builder, items []Value) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		item.inspect(b, true)
	}
}

// FormatFloat renders f the way the scripting language prints floats: integral
// values keep a trailing ".0", very large or very small magnitudes use exponent form.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// Truthy is the generalized truthiness of v. Kinds without a falsy state are true.
func (v Value) Truthy() bool {
	switch v.kind {
	case NoneKind:
		return false
	case IntKind, BoolKind:
		return v.i != 0
	case FloatKind:
		return math.IsNaN(v.f) || math.Abs(v.f) >= Epsilon
	case StringKind:
		return v.s != ""
	case TupleKind, ListKind, DictKind, SetKind, FrozenSetKind:
		return v.Len() != 0
	}
	return true
}

// Equal reports structural equality. Values of different kinds are never equal;
// floats are equal within Epsilon.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case NoneKind:
		return true
	case IntKind, BoolKind:
		return a.i == b.i
	case FloatKind:
		return math.Abs(a.f-b.f) < Epsilon
	case StringKind:
		return a.s == b.s
	case DictKind:
		return equalDict(a, b)
	case SetKind, FrozenSetKind:
		return equalUnordered(a.Items(), b.Items())
	}
	return equalAll(a.Items(), b.Items())
}

// equalUnordered matches every element of a with a distinct equal element of b.
func equalUnordered(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, x := range a {
		found := false
		for j, y := range b {
			if !used[j] && Equal(x, y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// equalDict compares the filled key/value pairs of two dicts, whatever slots they
// occupy. Capacity is not compared.
func equalDict(a, b Value) bool {
	if a.Filled() != b.Filled() {
		return false
	}
	bKeys, bVals := b.Keys(), b.Values()
	aVals := a.Values()
	for i, k := range a.Keys() {
		if k.IsNone() {
			continue
		}
		found := false
		for j, bk := range bKeys {
			if !bk.IsNone() && Equal(k, bk) {
				found = Equal(aVals[i], bVals[j])
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func equalAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
