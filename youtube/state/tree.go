package state

import (
	"github.com/tidwall/gjson"
)

// Tree is a parsed, schema-less JSON value. Navigation never fails loudly: a
// missing key, an out of range index, a type mismatch or a JSON null all make
// Get report false.
type Tree struct {
	r gjson.Result
}

func FromJSON(raw string) Tree {
	return Tree{r: gjson.Parse(raw)}
}

// Get walks path one step at a time. A string step selects an object member,
// an int step selects an array element; negative indices count from the end.
func (t Tree) Get(path ...any) (Tree, bool) {
	cur := t.r
	for _, step := range path {
		var ok bool
		switch s := step.(type) {
		case string:
			cur, ok = member(cur, s)
		case int:
			cur, ok = element(cur, s)
		default:
			panic("unsupported tree path step type")
		}
		if !ok {
			return Tree{}, false
		}
	}

	out := Tree{r: cur}

	return out, out.Exists()
}

// Str resolves path to a string value.
func (t Tree) Str(path ...any) (string, bool) {
	v, ok := t.Get(path...)
	if !ok || v.r.Type != gjson.String {
		return "", false
	}

	return v.r.Str, true
}

// Bool resolves path to a boolean value.
func (t Tree) Bool(path ...any) (bool, bool) {
	v, ok := t.Get(path...)
	if !ok || (v.r.Type != gjson.True && v.r.Type != gjson.False) {
		return false, false
	}

	return v.r.Bool(), true
}

// Has reports whether path resolves to a non-null value.
func (t Tree) Has(path ...any) bool {
	_, ok := t.Get(path...)
	return ok
}

// Array resolves path to an array. Non-array values report false.
func (t Tree) Array(path ...any) ([]Tree, bool) {
	v, ok := t.Get(path...)
	if !ok || !v.r.IsArray() {
		return nil, false
	}

	items := v.r.Array()
	out := make([]Tree, len(items))
	for i, item := range items {
		out[i] = Tree{r: item}
	}

	return out, true
}

func (t Tree) Exists() bool {
	return t.r.Exists() && t.r.Type != gjson.Null
}

func (t Tree) IsObject() bool {
	return t.r.IsObject()
}

func member(r gjson.Result, key string) (gjson.Result, bool) {
	if !r.IsObject() {
		return gjson.Result{}, false
	}

	var (
		out   gjson.Result
		found bool
	)
	r.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			out, found = v, true
			return false
		}
		return true
	})

	return out, found && out.Type != gjson.Null
}

func element(r gjson.Result, i int) (gjson.Result, bool) {
	if !r.IsArray() {
		return gjson.Result{}, false
	}

	items := r.Array()
	if i < 0 {
		i += len(items)
	}
	if i < 0 || i >= len(items) {
		return gjson.Result{}, false
	}

	out := items[i]

	return out, out.Type != gjson.Null
}
