package ops

import (
	"pyrt/internal/exc"
	"pyrt/internal/value"
)

func badOperand(op string, a value.Value) (value.Value, error) {
	return value.None, exc.TypeErrorf("bad operand type for unary %s: '%s'", op, a.Kind())
}

func Neg(a value.Value) (value.Value, error) {
	switch a.Kind() {
	case value.IntKind:
		return value.NewInt(-a.Int()), nil
	case value.FloatKind:
		return value.NewFloat(-a.Float()), nil
	}
	return badOperand("-", a)
}

func Pos(a value.Value) (value.Value, error) {
	if a.IsNumber() {
		return a, nil
	}
	return badOperand("+", a)
}

// Not negates the truthiness of a Bool, Int, Float or String.
func Not(a value.Value) (value.Value, error) {
	switch a.Kind() {
	case value.BoolKind, value.IntKind, value.FloatKind, value.StringKind:
		return value.NewBool(!a.Truthy()), nil
	}
	return badOperand("not", a)
}

// Assert fails with an AssertionError carrying message when condition is falsy.
func Assert(condition, message value.Value) error {
	if condition.Truthy() {
		return nil
	}
	if message.IsNone() {
		return &exc.Error{Kind: exc.AssertionError.Str()}
	}
	return exc.Errorf(exc.AssertionError, "%s", message)
}
