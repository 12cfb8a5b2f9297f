package ops

import (
	"errors"
	"testing"

	"pyrt/internal/exc"
	"pyrt/internal/value"
)

var (
	i     = value.NewInt
	f     = value.NewFloat
	s     = value.NewString
	list  = value.ListOf
	tuple = value.TupleOf
)

func TestArithmetic(t *testing.T) {
	cases := []struct {
		name string
		op   func(a, b value.Value) (value.Value, error)
		a, b value.Value
		want value.Value
	}{
		{"int + int", Add, i(2), i(3), i(5)},
		{"int + float", Add, i(2), f(3.0), f(5.0)},
		{"str + str", Add, s("a"), s("b"), s("ab")},
		{"list + list", Add, list(i(1)), list(i(2), i(3)), list(i(1), i(2), i(3))},
		{"tuple + tuple", Add, tuple(s("x")), tuple(), tuple(s("x"))},
		{"int - int", Sub, i(2), i(5), i(-3)},
		{"float - int", Sub, f(2.5), i(1), f(1.5)},
		{"int * int", Mul, i(6), i(7), i(42)},
		{"str * int", Mul, s("ab"), i(3), s("ababab")},
		{"int * str", Mul, i(2), s("ab"), s("abab")},
		{"str * negative", Mul, s("ab"), i(-1), s("")},
		{"list * int", Mul, list(i(1), i(2)), i(2), list(i(1), i(2), i(1), i(2))},
		{"int * list zero", Mul, i(0), list(i(1)), list()},
		{"int / int", Div, i(7), i(2), f(3.5)},
		{"float / float", Div, f(1.0), f(0.5), f(2.0)},
		{"int // int", FloorDiv, i(-7), i(2), f(-4)},
		{"int % int", Mod, i(-7), i(3), f(2)},
		{"float % negative", Mod, f(7), f(-3), f(-2)},
		{"int ** int", Pow, i(2), i(10), f(1024)},
		{"int ** negative", Pow, i(2), i(-1), f(0.5)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.op(c.a, c.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !value.Equal(got, c.want) {
				t.Fatalf("got %s %s, want %s %s", got.Kind(), got.Inspect(), c.want.Kind(), c.want.Inspect())
			}
		})
	}
}

func TestIntAdditionWraps(t *testing.T) {
	got, _ := Add(i(2147483647), i(1))
	if got.Int() != -2147483648 {
		t.Fatalf("got %d", got.Int())
	}
}

func TestDivisionByNearZero(t *testing.T) {
	cases := []struct {
		name string
		op   func(a, b value.Value) (value.Value, error)
		a, b value.Value
	}{
		{"div tiny float", Div, f(1.0), f(1e-12)},
		{"div int zero", Div, i(1), i(0)},
		{"floordiv", FloorDiv, f(3), f(-1e-10)},
		{"mod", Mod, i(3), i(0)},
		{"pow zero negative", Pow, f(0), i(-2)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.op(c.a, c.b)
			if !errors.Is(err, exc.ErrZeroDivision) {
				t.Fatalf("got %v, want ZeroDivisionError", err)
			}
		})
	}
}

func TestUnsupportedOperands(t *testing.T) {
	cases := []struct {
		name string
		op   func(a, b value.Value) (value.Value, error)
		a, b value.Value
		want string
	}{
		{"str + int", Add, s("a"), i(1), "TypeError: unsupported operand type(s) for +: 'str' and 'int'"},
		{"list - list", Sub, list(), list(), "TypeError: unsupported operand type(s) for -: 'list' and 'list'"},
		{"list + tuple", Add, list(), tuple(), "TypeError: unsupported operand type(s) for +: 'list' and 'tuple'"},
		{"bool * int", Mul, value.NewBool(true), i(2), "TypeError: unsupported operand type(s) for *: 'bool' and 'int'"},
		{"none / int", Div, value.None, i(2), "TypeError: unsupported operand type(s) for /: 'NoneType' and 'int'"},
		{"str ** int", Pow, s("a"), i(2), "TypeError: unsupported operand type(s) for **: 'str' and 'int'"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.op(c.a, c.b)
			if err == nil || err.Error() != c.want {
				t.Fatalf("got %v, want %q", err, c.want)
			}
		})
	}
}

func TestConcatCopiesElements(t *testing.T) {
	inner := list(i(1))
	a := list(inner)
	sum, _ := Add(a, list())
	value.Free(&a)
	first, _ := sum.Index(0)
	if value.Released(first) {
		t.Fatalf("concatenation aliased an element of its operand")
	}
	if first.Inspect() != "[1]" {
		t.Fatalf("got %s", first.Inspect())
	}
}

// dictOf maps each key to its length.
func dictOf(keys ...string) value.Value {
	d := value.NewDict(len(keys))
	for _, k := range keys {
		_ = d.DictSet(s(k), i(int32(len(k))))
	}
	return d
}

func TestPowTinyBase(t *testing.T) {
	got, err := Pow(f(1e-10), i(-1))
	if err != nil {
		t.Fatalf("a tiny non-zero base must not raise: %v", err)
	}
	if got.Float() < 9.99e9 || got.Float() > 1.001e10 {
		t.Fatalf("got %s", got.Inspect())
	}
}

func TestComparisons(t *testing.T) {
	cases := []struct {
		name string
		op   func(a, b value.Value) value.Value
		a, b value.Value
		want bool
	}{
		{"int eq", Eq, i(3), i(3), true},
		{"int float eq", Eq, i(3), f(3), false},
		{"int float ne", Ne, i(3), f(3), true},
		{"float eq within epsilon", Eq, f(1), f(1 + 1e-10), true},
		{"str lt", Lt, s("abc"), s("abd"), true},
		{"str ge", Ge, s("b"), s("a"), true},
		{"int le", Le, i(2), i(2), true},
		{"int gt", Gt, i(1), i(2), false},
		{"bool lt", Lt, value.NewBool(false), value.NewBool(true), true},
		{"cross kind lt", Lt, i(1), s("2"), false},
		{"list eq", Eq, list(i(1), s("a")), list(i(1), s("a")), true},
		{"list lt", Lt, list(i(1)), list(i(2)), false},
		{"none eq", Eq, value.None, value.None, true},
		{"float lt", Lt, f(1), f(2), true},
		{"float lt within epsilon", Lt, f(1), f(1 + 1e-10), false},
		{"float le within epsilon", Le, f(1 + 1e-10), f(1), true},
		{"float gt within epsilon", Gt, f(1 + 1e-10), f(1), false},
		{"float ge within epsilon", Ge, f(1), f(1 + 1e-10), true},
		{"set eq any order", Eq, value.SetOf(i(1), i(2)), value.SetOf(i(2), i(1)), true},
		{"set ne any order", Ne, value.SetOf(i(1), i(2)), value.SetOf(i(2), i(1)), false},
		{"dict eq any slot", Eq, dictOf("a", "b"), dictOf("b", "a"), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.op(c.a, c.b)
			if got.Kind() != value.BoolKind || got.Bool() != c.want {
				t.Fatalf("got %s, want %v", got.Inspect(), c.want)
			}
		})
	}
}

func TestUnary(t *testing.T) {
	if v, _ := Neg(i(5)); v.Int() != -5 {
		t.Errorf("Neg(5) = %s", v)
	}
	if v, _ := Neg(f(1.5)); v.Float() != -1.5 {
		t.Errorf("Neg(1.5) = %s", v)
	}
	if v, _ := Pos(f(2)); v.Float() != 2 {
		t.Errorf("Pos(2.0) = %s", v)
	}
	if _, err := Neg(s("x")); !errors.Is(err, exc.ErrType) {
		t.Errorf("Neg(str) err = %v", err)
	}
	if _, err := Pos(list()); !errors.Is(err, exc.ErrType) {
		t.Errorf("Pos(list) err = %v", err)
	}

	nots := []struct {
		v    value.Value
		want bool
	}{
		{value.NewBool(true), false},
		{i(0), true},
		{f(1e-12), true},
		{f(0.1), false},
		{s(""), true},
		{s("x"), false},
	}
	for _, c := range nots {
		got, err := Not(c.v)
		if err != nil || got.Bool() != c.want {
			t.Errorf("Not(%s) = %s, %v", c.v.Inspect(), got.Inspect(), err)
		}
	}
	if _, err := Not(value.None); !errors.Is(err, exc.ErrType) {
		t.Errorf("Not(None) err = %v", err)
	}
}

func TestAssert(t *testing.T) {
	if err := Assert(value.NewBool(true), s("unused")); err != nil {
		t.Fatalf("true assertion failed: %v", err)
	}
	err := Assert(value.NewBool(false), s("x must be positive"))
	if err == nil || err.Error() != "AssertionError: x must be positive" {
		t.Fatalf("got %v", err)
	}
	if err := Assert(i(0), value.None); err == nil || err.Error() != "AssertionError" {
		t.Fatalf("got %v", err)
	}
}

func TestJoinStrings(t *testing.T) {
	got, err := JoinStrings(s("a"), s("b"), s("c"))
	if err != nil || got.Str() != "abc" {
		t.Fatalf("got %s, %v", got, err)
	}
	if empty, _ := JoinStrings(); empty.Str() != "" {
		t.Fatalf("empty join = %q", empty.Str())
	}
	if _, err := JoinStrings(s("a"), i(1)); !errors.Is(err, exc.ErrType) {
		t.Fatalf("got %v", err)
	}
}
