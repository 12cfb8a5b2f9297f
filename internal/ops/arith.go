// Package ops dispatches the binary and unary operators of the runtime on the kinds
// of their operands.
package ops

import (
	"math"
	"strings"

	"pyrt/internal/exc"
	"pyrt/internal/value"
)

func unsupported(op string, a, b value.Value) (value.Value, error) {
	return value.None, exc.TypeErrorf("unsupported operand type(s) for %s: '%s' and '%s'", op, a.Kind(), b.Kind())
}

// floats promotes a numeric pair to float64.
func floats(a, b value.Value) (float64, float64, bool) {
	x, ok := a.AsFloat()
	if !ok {
		return 0, 0, false
	}
	y, ok := b.AsFloat()
	return x, y, ok
}

func bothInt(a, b value.Value) bool {
	return a.Kind() == value.IntKind && b.Kind() == value.IntKind
}

func nearZero(f float64) bool {
	return math.Abs(f) < value.Epsilon
}

func Add(a, b value.Value) (value.Value, error) {
	switch {
	case bothInt(a, b):
		return value.NewInt(a.Int() + b.Int()), nil
	case a.Kind() == value.StringKind && b.Kind() == value.StringKind:
		return value.NewString(a.Str() + b.Str()), nil
	case a.Kind() == b.Kind() && (a.Kind() == value.ListKind || a.Kind() == value.TupleKind):
		return concat(a, b), nil
	}
	if x, y, ok := floats(a, b); ok {
		return value.NewFloat(x + y), nil
	}
	return unsupported("+", a, b)
}

func Sub(a, b value.Value) (value.Value, error) {
	if bothInt(a, b) {
		return value.NewInt(a.Int() - b.Int()), nil
	}
	if x, y, ok := floats(a, b); ok {
		return value.NewFloat(x - y), nil
	}
	return unsupported("-", a, b)
}

func Mul(a, b value.Value) (value.Value, error) {
	if bothInt(a, b) {
		return value.NewInt(a.Int() * b.Int()), nil
	}
	if isSequence(a) && b.Kind() == value.IntKind {
		return repeat(a, b.Int()), nil
	}
	if a.Kind() == value.IntKind && isSequence(b) {
		return repeat(b, a.Int()), nil
	}
	if x, y, ok := floats(a, b); ok {
		return value.NewFloat(x * y), nil
	}
	return unsupported("*", a, b)
}

// Div is true division: both operands are promoted to float.
func Div(a, b value.Value) (value.Value, error) {
	x, y, ok := floats(a, b)
	if !ok {
		return unsupported("/", a, b)
	}
	if nearZero(y) {
		return value.None, exc.Errorf(exc.ZeroDivisionError, "division by zero")
	}
	return value.NewFloat(x / y), nil
}

func FloorDiv(a, b value.Value) (value.Value, error) {
	x, y, ok := floats(a, b)
	if !ok {
		return unsupported("//", a, b)
	}
	if nearZero(y) {
		return value.None, exc.Errorf(exc.ZeroDivisionError, "floor division by zero")
	}
	return value.NewFloat(math.Floor(x / y)), nil
}

// Mod is the floored modulo: a non-zero result takes the sign of the divisor.
func Mod(a, b value.Value) (value.Value, error) {
	x, y, ok := floats(a, b)
	if !ok {
		return unsupported("%", a, b)
	}
	if nearZero(y) {
		return value.None, exc.Errorf(exc.ZeroDivisionError, "modulo by zero")
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return value.NewFloat(r), nil
}

func Pow(a, b value.Value) (value.Value, error) {
	x, y, ok := floats(a, b)
	if !ok {
		return unsupported("**", a, b)
	}
	if x == 0 && y < 0 {
		return value.None, exc.Errorf(exc.ZeroDivisionError, "0.0 cannot be raised to a negative power")
	}
	r := math.Pow(x, y)
	if math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) {
		return value.None, exc.ValueErrorf("negative number cannot be raised to a fractional power")
	}
	return value.NewFloat(r), nil
}

func isSequence(v value.Value) bool {
	switch v.Kind() {
	case value.StringKind, value.ListKind, value.TupleKind:
		return true
	}
	return false
}

// concat returns a new container of a's kind holding deep copies of the elements of
// a followed by those of b.
func concat(a, b value.Value) value.Value {
	left, right := a.Items(), b.Items()
	out := newLike(a.Kind(), len(left)+len(right))
	items := out.Items()
	for i, item := range left {
		items[i] = value.Copy(item)
	}
	for i, item := range right {
		items[len(left)+i] = value.Copy(item)
	}
	return out
}

// repeat repeats a string or sequence n times; n <= 0 yields an empty result.
func repeat(seq value.Value, n int32) value.Value {
	if seq.Kind() == value.StringKind {
		if n <= 0 {
			return value.NewString("")
		}
		return value.NewString(strings.Repeat(seq.Str(), int(n)))
	}
	if n <= 0 {
		return newLike(seq.Kind(), 0)
	}
	src := seq.Items()
	out := newLike(seq.Kind(), len(src)*int(n))
	items := out.Items()
	for r := 0; r < int(n); r++ {
		for i, item := range src {
			items[r*len(src)+i] = value.Copy(item)
		}
	}
	return out
}

func newLike(kind value.Kind, size int) value.Value {
	if kind == value.TupleKind {
		return value.NewTuple(size)
	}
	return value.NewList(size)
}

// JoinStrings concatenates String values.
func JoinStrings(vals ...value.Value) (value.Value, error) {
	var b strings.Builder
	for i, v := range vals {
		if v.Kind() != value.StringKind {
			return value.None, exc.TypeErrorf("join_strings: argument %d is not a valid string", i)
		}
		b.WriteString(v.Str())
	}
	return value.NewString(b.String()), nil
}
