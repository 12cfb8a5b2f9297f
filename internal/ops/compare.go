package ops

import (
	"math"
	"strings"

	"pyrt/internal/value"
)

// Eq compares values of the same kind; values of different kinds are never equal.
func Eq(a, b value.Value) value.Value {
	return value.NewBool(value.Equal(a, b))
}

func Ne(a, b value.Value) value.Value {
	return value.NewBool(!value.Equal(a, b))
}

type ordering int

const (
	lt ordering = iota
	le
	gt
	ge
)

func Lt(a, b value.Value) value.Value { return value.NewBool(ordered(a, b, lt)) }
func Le(a, b value.Value) value.Value { return value.NewBool(ordered(a, b, le)) }
func Gt(a, b value.Value) value.Value { return value.NewBool(ordered(a, b, gt)) }
func Ge(a, b value.Value) value.Value { return value.NewBool(ordered(a, b, ge)) }

func ordered(a, b value.Value, op ordering) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case value.IntKind:
		return compareInts(int(a.Int()), int(b.Int()), op)
	case value.BoolKind:
		return compareInts(boolInt(a.Bool()), boolInt(b.Bool()), op)
	case value.StringKind:
		return compareInts(strings.Compare(a.Str(), b.Str()), 0, op)
	case value.FloatKind:
		return compareFloats(a.Float(), b.Float(), op)
	}
	return false
}

func compareInts(x, y int, op ordering) bool {
	switch op {
	case lt:
		return x < y
	case le:
		return x <= y
	case gt:
		return x > y
	}
	return x >= y
}

// compareFloats shifts the threshold by Epsilon instead of testing a symmetric band,
// so for x within Epsilon of y Lt and Gt are false while Le and Ge are true.
func compareFloats(x, y float64, op ordering) bool {
	if math.IsNaN(x) || math.IsNaN(y) {
		return false
	}
	switch op {
	case lt:
		return x < y-value.Epsilon
	case le:
		return x <= y+value.Epsilon
	case gt:
		return x > y+value.Epsilon
	}
	return x >= y-value.Epsilon
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
