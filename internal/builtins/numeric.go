package builtins

import (
	"pyrt/internal/exc"
	"pyrt/internal/value"
)

func Abs(v value.Value) (value.Value, error) {
	if v.Kind() != value.IntKind {
		return value.None, exc.TypeErrorf("bad operand type for abs(): '%s'", v.Kind())
	}
	n := v.Int()
	if n < 0 {
		n = -n
	}
	return value.NewInt(n), nil
}

// ints extracts the elements of a sequence that must hold only Ints.
func ints(name string, v value.Value) ([]int32, error) {
	switch v.Kind() {
	case value.ListKind, value.TupleKind, value.SetKind, value.FrozenSetKind:
	default:
		return nil, exc.TypeErrorf("%s() expects a list, got '%s'", name, v.Kind())
	}
	items := v.Items()
	out := make([]int32, len(items))
	for i, item := range items {
		if item.Kind() != value.IntKind {
			return nil, exc.TypeErrorf("%s() supports only ints, got '%s'", name, item.Kind())
		}
		out[i] = item.Int()
	}
	return out, nil
}

func Max(list value.Value) (value.Value, error) {
	return extreme("max", list, func(a, b int32) bool { return a > b })
}

func Min(list value.Value) (value.Value, error) {
	return extreme("min", list, func(a, b int32) bool { return a < b })
}

func extreme(name string, list value.Value, better func(a, b int32) bool) (value.Value, error) {
	nums, err := ints(name, list)
	if err != nil {
		return value.None, err
	}
	if len(nums) == 0 {
		return value.None, exc.ValueErrorf("%s() arg is an empty sequence", name)
	}
	best := nums[0]
	for _, n := range nums[1:] {
		if better(n, best) {
			best = n
		}
	}
	return value.NewInt(best), nil
}

func Sum(list value.Value) (value.Value, error) {
	nums, err := ints("sum", list)
	if err != nil {
		return value.None, err
	}
	var total int32
	for _, n := range nums {
		total += n
	}
	return value.NewInt(total), nil
}
