// Package builtins is the conversion and introspection library: the functions a
// translated script calls by name (str, int, len, range, sorted, ...).
package builtins

import (
	"math"

	"pyrt/internal/exc"
	"pyrt/internal/value"
)

// Str returns the to_string form of v as a String. Strings are returned unchanged.
func Str(v value.Value) value.Value {
	if v.Kind() == value.StringKind {
		return v
	}
	return value.NewString(v.String())
}

// ToInt parses the leading integer of a String (0 when there is none) and returns
// Ints unchanged.
func ToInt(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.IntKind:
		return v, nil
	case value.StringKind:
		return value.NewInt(leadingInt(v.Str())), nil
	}
	return value.None, exc.TypeErrorf("cannot convert '%s' to int", v.Kind())
}

// leadingInt reads optional whitespace, an optional sign and decimal digits,
// saturating at the int32 bounds.
func leadingInt(s string) int32 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	var n int64
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int64(s[i]-'0')
		if n > math.MaxInt32+1 {
			n = math.MaxInt32 + 1
		}
	}
	if neg {
		n = -n
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return int32(n)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Len is the length of a string in bytes, the declared count of a container, 0 for
// None and the number of decimal digits of an Int.
func Len(v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.StringKind, value.TupleKind, value.ListKind, value.DictKind, value.SetKind, value.FrozenSetKind:
		return value.NewInt(int32(v.Len())), nil
	case value.NoneKind:
		return value.NewInt(0), nil
	case value.IntKind:
		n := int64(v.Int())
		if n < 0 {
			n = -n
		}
		digits := int32(1)
		for n >= 10 {
			n /= 10
			digits++
		}
		return value.NewInt(digits), nil
	}
	return value.None, exc.TypeErrorf("object of type '%s' has no len()", v.Kind())
}

// Bool is the truthiness of v as a Bool.
func Bool(v value.Value) value.Value {
	return value.NewBool(v.Truthy())
}

func Ord(v value.Value) (value.Value, error) {
	if v.Kind() != value.StringKind {
		return value.None, exc.TypeErrorf("ord() expected string of length 1, but %s found", v.Kind())
	}
	if v.Len() != 1 {
		return value.None, exc.TypeErrorf("ord() expected a character, but string of length %d found", v.Len())
	}
	return value.NewInt(int32(v.Str()[0])), nil
}

func Chr(v value.Value) (value.Value, error) {
	if v.Kind() != value.IntKind {
		return value.None, exc.TypeErrorf("an integer is required (got type %s)", v.Kind())
	}
	n := v.Int()
	if n < 0 || n > 255 {
		return value.None, exc.ValueErrorf("chr() arg not in range(256)")
	}
	return value.NewString(string([]byte{byte(n)})), nil
}

func Upper(v value.Value) (value.Value, error) {
	return mapASCII(v, "upper", 'a', 'z', 'A'-'a')
}

func Lower(v value.Value) (value.Value, error) {
	return mapASCII(v, "lower", 'A', 'Z', 'a'-'A')
}

func mapASCII(v value.Value, name string, lo, hi byte, delta int) (value.Value, error) {
	if v.Kind() != value.StringKind {
		return value.None, exc.TypeErrorf("%s() expects a string, got '%s'", name, v.Kind())
	}
	buf := []byte(v.Str())
	for i, c := range buf {
		if c >= lo && c <= hi {
			buf[i] = byte(int(c) + delta)
		}
	}
	return value.NewString(string(buf)), nil
}

// IsInstance reports whether v has the given kind.
func IsInstance(v value.Value, kind value.Kind) value.Value {
	return value.NewBool(v.Kind() == kind)
}

func IsNone(v value.Value) bool {
	return v.IsNone()
}

func TypeName(v value.Value) string {
	return v.Kind().String()
}
