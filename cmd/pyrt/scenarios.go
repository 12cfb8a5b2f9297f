package main

import (
	"os"

	"pyrt/internal/builtins"
	"pyrt/internal/console"
	"pyrt/internal/exc"
	"pyrt/internal/ops"
	"pyrt/internal/trycatch"
	"pyrt/internal/value"
)

func show(ctx *exc.Context, items ...value.Value) {
	ctx.Check(console.Println(os.Stdout, items...))
}

func init() {
	trycatch.Register("copy-free", func(ctx *exc.Context, args []value.Value) {
		orig := value.ListOf(value.NewInt(1), value.ListOf(value.NewString("x")))
		dup := value.Copy(orig)
		value.Free(&orig)
		show(ctx, value.NewString("copy survives free:"), dup)
		value.Free(&dup)
	})

	trycatch.Register("coercion", func(ctx *exc.Context, args []value.Value) {
		show(ctx,
			ctx.Must(ops.Add(value.NewInt(2), value.NewInt(3))),
			ctx.Must(ops.Add(value.NewInt(2), value.NewFloat(0.5))),
			ctx.Must(ops.Div(value.NewInt(7), value.NewInt(2))),
			ctx.Must(ops.FloorDiv(value.NewInt(7), value.NewInt(2))),
			ctx.Must(ops.Mod(value.NewInt(-7), value.NewInt(3))),
			ctx.Must(ops.Pow(value.NewInt(2), value.NewInt(10))),
		)
	})

	trycatch.Register("divide-by-zero", func(ctx *exc.Context, args []value.Value) {
		show(ctx, ctx.Must(ops.Div(value.NewInt(1), value.NewInt(0))))
	})

	trycatch.Register("near-zero", func(ctx *exc.Context, args []value.Value) {
		show(ctx, ctx.Must(ops.Div(value.NewFloat(1), value.NewFloat(1e-10))))
	})

	trycatch.Register("dict-full", func(ctx *exc.Context, args []value.Value) {
		d := value.NewDict(1)
		ctx.Check(d.DictSet(value.NewString("a"), value.NewInt(1)))
		ctx.Check(d.DictSet(value.NewString("b"), value.NewInt(2)))
	})

	trycatch.Register("range", func(ctx *exc.Context, args []value.Value) {
		show(ctx,
			ctx.Must(builtins.Range(value.NewInt(5), value.NewInt(0), value.NewInt(-1))),
			ctx.Must(builtins.Range(value.NewInt(0), value.NewInt(0), value.NewInt(1))),
		)
	})

	trycatch.Register("range-zero-step", func(ctx *exc.Context, args []value.Value) {
		ctx.Must(builtins.Range(value.NewInt(0), value.NewInt(5), value.NewInt(0)))
	})

	trycatch.Register("index", func(ctx *exc.Context, args []value.Value) {
		l := value.ListOf(value.NewInt(1))
		ctx.Must(l.Index(3))
	})

	trycatch.Register("type-error", func(ctx *exc.Context, args []value.Value) {
		ctx.Must(ops.Add(value.NewString("a"), value.NewInt(1)))
	})

	trycatch.Register("assert", func(ctx *exc.Context, args []value.Value) {
		ok := ops.Eq(value.NewFloat(0.1+0.2), value.NewFloat(0.3))
		ctx.Check(ops.Assert(ok, value.NewString("0.1 + 0.2 == 0.3")))
		ctx.Check(ops.Assert(value.NewBool(false), value.NewString("always fails")))
	})

	trycatch.Register("nested", func(ctx *exc.Context, args []value.Value) {
		inner := ctx.Bind(ctx.Unit())
		if trycatch.Try(inner, "divide-by-zero") {
			exc.RaiseWithContext(ctx, exc.RuntimeError, "cleanup failed", inner)
		}
	})
}
