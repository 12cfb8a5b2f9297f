package value

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// wireValue is the tagged JSON form used to copy Values across a process boundary.
// String bytes travel base64-encoded so that non-UTF-8 content survives.
type wireValue struct {
	Type  string  `json:"t"`
	Int   int32   `json:"i,omitempty"`
	Float string  `json:"f,omitempty"`
	Str   []byte  `json:"s,omitempty"`
	Items []Value `json:"items,omitempty"`
	Vals  []Value `json:"vals,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	w := wireValue{Type: v.kind.String()}
	switch v.kind {
	case IntKind, BoolKind:
		w.Int = v.i
	case FloatKind:
		w.Float = strconv.FormatFloat(v.f, 'g', -1, 64)
	case StringKind:
		w.Str = []byte(v.s)
	case DictKind:
		w.Items = v.Keys()
		w.Vals = v.Values()
	case TupleKind, ListKind, SetKind, FrozenSetKind:
		w.Items = v.Items()
	}
	return json.Marshal(w)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, ok := ParseKind(w.Type)
	if !ok {
		return fmt.Errorf("value: unknown kind %q", w.Type)
	}
	switch kind {
	case NoneKind:
		*v = None
	case IntKind:
		*v = NewInt(w.Int)
	case BoolKind:
		*v = NewBool(w.Int != 0)
	case FloatKind:
		f, err := strconv.ParseFloat(w.Float, 64)
		if err != nil {
			return fmt.Errorf("value: bad float %q: %w", w.Float, err)
		}
		*v = NewFloat(f)
	case StringKind:
		*v = Value{kind: StringKind, s: string(w.Str)}
	case DictKind:
		if len(w.Items) != len(w.Vals) {
			return fmt.Errorf("value: dict has %d keys and %d values", len(w.Items), len(w.Vals))
		}
		*v = Value{kind: DictKind, c: &store{items: nonNil(w.Items), vals: nonNil(w.Vals)}}
	default:
		*v = Value{kind: kind, c: &store{items: nonNil(w.Items)}}
	}
	return nil
}

func nonNil(items []Value) []Value {
	if items == nil {
		return []Value{}
	}
	return items
}
