// Package pyobj provides tolerant navigation over object graphs produced by
// unpickling serialized Python data.
//
// Docstore companions are written by foreign code across many library
// versions, so every accessor here degrades to a "not present" result instead
// of failing on an unexpected shape.
package pyobj

import (
	"math/big"

	"github.com/nlpodyssey/gopickle/types"
)

// Class is a generic stand-in for any Python class encountered in a pickle.
// It satisfies the unpickler's construction hooks and records, rather than
// executes, whatever the pickle asks for.
type Class struct {
	Module string
	Name   string
}

// PyNew implements types.PyNewable for NEWOBJ opcodes.
func (c *Class) PyNew(args ...any) (any, error) {
	return &Object{Class: c, Args: args}, nil
}

// Call implements types.Callable for REDUCE opcodes.
func (c *Class) Call(args ...any) (any, error) {
	return &Object{Class: c, Args: args}, nil
}

// Object is an instance of a foreign Python class reconstructed from a pickle.
type Object struct {
	Class *Class
	Args  []any
	State any
}

// PySetState implements types.PyStateSettable for BUILD opcodes.
func (o *Object) PySetState(state any) error {
	o.State = state
	return nil
}

// PyDictSet implements types.PyDictSettable so that dict-state BUILDs applied
// entry-by-entry also land in State.
func (o *Object) PyDictSet(key, value any) error {
	d, ok := o.State.(*types.Dict)
	if !ok {
		d = types.NewDict()
		o.State = d
	}
	d.Set(key, value)
	return nil
}

// Attr returns the named attribute of the object.
//
// Plain classes keep their attributes directly in the state dict;
// pydantic-style models nest them under a "__dict__" key.
func (o *Object) Attr(name string) (any, bool) {
	if o == nil || o.State == nil {
		return nil, false
	}
	if inner, ok := DictGet(o.State, "__dict__"); ok {
		if v, ok := DictGet(inner, name); ok {
			return v, true
		}
	}
	return DictGet(o.State, name)
}

// DictGet looks up key in a dict-like value.
func DictGet(v any, key any) (any, bool) {
	switch d := v.(type) {
	case *types.Dict:
		return d.Get(key)
	case map[any]any:
		val, ok := d[key]
		return val, ok
	case map[string]any:
		s, ok := key.(string)
		if !ok {
			return nil, false
		}
		val, ok := d[s]
		return val, ok
	default:
		return nil, false
	}
}

// Entries flattens a dict-like value into key/value pairs.
func Entries(v any) ([][2]any, bool) {
	switch d := v.(type) {
	case *types.Dict:
		out := make([][2]any, 0, d.Len())
		for _, e := range *d {
			out = append(out, [2]any{e.Key, e.Value})
		}
		return out, true
	case map[any]any:
		out := make([][2]any, 0, len(d))
		for k, val := range d {
			out = append(out, [2]any{k, val})
		}
		return out, true
	case map[string]any:
		out := make([][2]any, 0, len(d))
		for k, val := range d {
			out = append(out, [2]any{k, val})
		}
		return out, true
	default:
		return nil, false
	}
}

// AsTuple returns the elements of a tuple-like value.
func AsTuple(v any) ([]any, bool) {
	switch t := v.(type) {
	case types.Tuple:
		return []any(t), true
	case *types.Tuple:
		return []any(*t), true
	case []any:
		return t, true
	default:
		return nil, false
	}
}

// AsList returns the elements of a list-like value.
func AsList(v any) ([]any, bool) {
	switch l := v.(type) {
	case *types.List:
		return []any(*l), true
	case types.List:
		return []any(l), true
	case []any:
		return l, true
	default:
		return nil, false
	}
}

// AsString returns the string form of a text-like value.
func AsString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

// AsInt returns the integer form of a number-like value.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case *big.Int:
		if n.IsInt64() {
			return int(n.Int64()), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// IntKeyedStrings converts a dict-like value with integer keys and string
// values into a map. Entries of any other shape are skipped.
func IntKeyedStrings(v any) map[int]string {
	entries, ok := Entries(v)
	if !ok {
		return nil
	}
	out := make(map[int]string, len(entries))
	for _, e := range entries {
		k, ok := AsInt(e[0])
		if !ok {
			continue
		}
		s, ok := AsString(e[1])
		if !ok {
			continue
		}
		out[k] = s
	}
	return out
}

// StringMap deep-converts a dict-like value with string keys into a
// JSON-encodable map. Non-string keys and unconvertible values are skipped.
func StringMap(v any) (map[string]any, bool) {
	entries, ok := Entries(v)
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		k, ok := AsString(e[0])
		if !ok {
			continue
		}
		out[k] = ToAny(e[1])
	}
	return out, true
}

// ToAny deep-converts an unpickled value into plain Go values suitable for
// JSON encoding. Values with no JSON analogue collapse to nil.
func ToAny(v any) any {
	switch x := v.(type) {
	case nil, bool, int, int64, uint64, float32, float64, string:
		return x
	case []byte:
		return string(x)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		return x.String()
	}
	if elems, ok := AsTuple(v); ok {
		out := make([]any, len(elems))
		for i := range elems {
			out[i] = ToAny(elems[i])
		}
		return out
	}
	if elems, ok := AsList(v); ok {
		out := make([]any, len(elems))
		for i := range elems {
			out[i] = ToAny(elems[i])
		}
		return out
	}
	if m, ok := StringMap(v); ok {
		return m
	}
	return nil
}
