package builtins

import (
	"slices"

	"pyrt/internal/exc"
	"pyrt/internal/value"
)

func intArg(v value.Value) (int64, error) {
	if v.Kind() != value.IntKind {
		return 0, exc.TypeErrorf("'%s' object cannot be interpreted as an integer", v.Kind())
	}
	return int64(v.Int()), nil
}

// Range builds the List of Ints from start (inclusive) to stop (exclusive) by step.
// A step that points away from stop yields an empty list.
func Range(start, stop, step value.Value) (value.Value, error) {
	from, err := intArg(start)
	if err != nil {
		return value.None, err
	}
	to, err := intArg(stop)
	if err != nil {
		return value.None, err
	}
	by, err := intArg(step)
	if err != nil {
		return value.None, err
	}
	if by == 0 {
		return value.None, exc.ValueErrorf("range() arg 3 must not be zero")
	}

	var count int64
	switch {
	case by > 0 && from < to:
		count = (to - from + by - 1) / by
	case by < 0 && from > to:
		count = (from - to - by - 1) / -by
	}

	out := value.NewList(int(count))
	items := out.Items()
	for i := range items {
		items[i] = value.NewInt(int32(from + int64(i)*by))
	}
	return out, nil
}

// RangeStop is range(stop).
func RangeStop(stop value.Value) (value.Value, error) {
	return Range(value.NewInt(0), stop, value.NewInt(1))
}

// RangeStartStop is range(start, stop).
func RangeStartStop(start, stop value.Value) (value.Value, error) {
	return Range(start, stop, value.NewInt(1))
}

// Reversed returns a new List holding deep copies of the elements of v in reverse
// order, so the result never shares storage with v.
func Reversed(v value.Value) (value.Value, error) {
	if v.Kind() != value.ListKind && v.Kind() != value.TupleKind {
		return value.None, exc.TypeErrorf("'%s' object is not reversible", v.Kind())
	}
	src := v.Items()
	out := value.NewList(len(src))
	items := out.Items()
	for i, item := range src {
		items[len(src)-1-i] = value.Copy(item)
	}
	return out, nil
}

// Sorted returns a new ascending List from a sequence of Ints.
func Sorted(v value.Value) (value.Value, error) {
	nums, err := ints("sorted", v)
	if err != nil {
		return value.None, err
	}
	slices.Sort(nums)
	out := value.NewList(len(nums))
	items := out.Items()
	for i, n := range nums {
		items[i] = value.NewInt(n)
	}
	return out, nil
}

// Set deduplicates the elements of a sequence by structural equality, keeping the
// first occurrence of each. Elements are deep-copied.
func Set(v value.Value) (value.Value, error) {
	items, err := unique("set", v)
	if err != nil {
		return value.None, err
	}
	return value.SetOf(items...), nil
}

func FrozenSet(v value.Value) (value.Value, error) {
	items, err := unique("frozenset", v)
	if err != nil {
		return value.None, err
	}
	return value.FrozenSetOf(items...), nil
}

func unique(name string, v value.Value) ([]value.Value, error) {
	switch v.Kind() {
	case value.ListKind, value.TupleKind, value.SetKind, value.FrozenSetKind:
	default:
		return nil, exc.TypeErrorf("%s() expects a list, got '%s'", name, v.Kind())
	}
	var out []value.Value
	for _, item := range v.Items() {
		seen := false
		for _, u := range out {
			if value.Equal(u, item) {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, value.Copy(item))
		}
	}
	return out, nil
}

// MakeList builds a List that takes ownership of items.
func MakeList(items []value.Value) value.Value {
	return value.ListOf(items...)
}

// MakeTuple builds a Tuple that takes ownership of items.
func MakeTuple(items []value.Value) value.Value {
	return value.TupleOf(items...)
}

// MakeDict builds a Dict of capacity len(keys) that takes ownership of keys and vals.
func MakeDict(keys, vals []value.Value) (value.Value, error) {
	d, err := value.DictOf(keys, vals)
	if err != nil {
		return value.None, exc.ValueErrorf("%s", err)
	}
	return d, nil
}
