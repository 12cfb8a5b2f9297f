package console

import (
	"bytes"
	"strings"
	"testing"

	"pyrt/internal/value"
)

func TestPrint(t *testing.T) {
	items := func() []value.Value {
		return []value.Value{
			value.NewString("total"),
			value.NewInt(3),
			value.ListOf(value.NewString("a"), value.NewFloat(1)),
		}
	}
	cases := []struct {
		name     string
		sep, end value.Value
		want     string
	}{
		{"defaults", value.None, value.None, "total 3 ['a', 1.0]\n"},
		{"custom", value.NewString(", "), value.NewString("!"), "total, 3, ['a', 1.0]!"},
		{"non-string falls back", value.NewInt(1), value.NewBool(true), "total 3 ['a', 1.0]\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Print(&buf, items(), c.sep, c.end); err != nil {
				t.Fatal(err)
			}
			if buf.String() != c.want {
				t.Fatalf("got %q, want %q", buf.String(), c.want)
			}
		})
	}
}

func TestPrintKeepsOwnership(t *testing.T) {
	l := value.ListOf(value.NewInt(1))
	var buf bytes.Buffer
	if err := Println(&buf, l); err != nil {
		t.Fatal(err)
	}
	if value.Released(l) || l.Len() != 1 {
		t.Fatalf("Print released its argument")
	}
	if buf.String() != "[1]\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestInput(t *testing.T) {
	var out bytes.Buffer
	r := NewBufferedReader(strings.NewReader("alice\r\nbob\nlast"), &out)

	want := []string{"alice", "bob", "last", "", ""}
	for i, w := range want {
		got, err := Input(r, value.NewString("name? "))
		if err != nil {
			t.Fatal(err)
		}
		if got.Kind() != value.StringKind || got.Str() != w {
			t.Fatalf("line %d = %s, want %q", i, got.Inspect(), w)
		}
	}
	if out.String() != strings.Repeat("name? ", len(want)) {
		t.Fatalf("prompts = %q", out.String())
	}

	out.Reset()
	if _, err := Input(r, value.None); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("None prompt printed %q", out.String())
	}
}
