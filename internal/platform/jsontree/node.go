// Package jsontree models provider payloads as a tagged tree of objects,
// arrays, and scalars. Object member order follows the source document, which
// matters downstream: flattened keys merge last-write-wins.
package jsontree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindObject
	KindArray
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Member is one key-value pair of an object node.
type Member struct {
	Key   string
	Value Node
}

// Node is one vertex of the tree. The zero value is JSON null.
type Node struct {
	kind    Kind
	members []Member
	elems   []Node
	str     string
	num     float64
	boolean bool
}

func Null() Node { return Node{} }

func Object(members ...Member) Node {
	return Node{kind: KindObject, members: members}
}

func Array(elems ...Node) Node {
	return Node{kind: KindArray, elems: elems}
}

func String(v string) Node { return Node{kind: KindString, str: v} }

func Number(v float64) Node { return Node{kind: KindNumber, num: v} }

func Bool(v bool) Node { return Node{kind: KindBool, boolean: v} }

func (n Node) Kind() Kind { return n.kind }

func (n Node) IsNull() bool { return n.kind == KindNull }

// IsScalar reports whether the node is a leaf (string, number, bool, or null).
func (n Node) IsScalar() bool {
	switch n.kind {
	case KindObject, KindArray:
		return false
	default:
		return true
	}
}

// Members returns the object members in source order, or nil for non-objects.
func (n Node) Members() []Member {
	if n.kind != KindObject {
		return nil
	}
	return n.members
}

// Elems returns the array elements, or nil for non-arrays.
func (n Node) Elems() []Node {
	if n.kind != KindArray {
		return nil
	}
	return n.elems
}

func (n Node) Len() int {
	switch n.kind {
	case KindObject:
		return len(n.members)
	case KindArray:
		return len(n.elems)
	default:
		return 0
	}
}

// Scalar returns the leaf value as string, float64, bool, or nil.
// Objects and arrays yield nil.
func (n Node) Scalar() any {
	switch n.kind {
	case KindString:
		return n.str
	case KindNumber:
		return n.num
	case KindBool:
		return n.boolean
	default:
		return nil
	}
}

// Field looks up one object member by key.
func (n Node) Field(key string) (Node, bool) {
	if n.kind != KindObject {
		return Node{}, false
	}
	for _, m := range n.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Node{}, false
}

// Index returns the i-th array element.
func (n Node) Index(i int) (Node, bool) {
	if n.kind != KindArray || i < 0 || i >= len(n.elems) {
		return Node{}, false
	}
	return n.elems[i], true
}

// Get walks the tree by path segments (string keys for objects, int indices
// for arrays). A missing segment, a wrong-variant node, or an unsupported
// segment type yields ok=false; it never fails loudly since absent optional
// subtrees are the common case in provider payloads.
func (n Node) Get(path ...any) (Node, bool) {
	cur := n
	for _, seg := range path {
		var (
			next Node
			ok   bool
		)
		switch s := seg.(type) {
		case string:
			next, ok = cur.Field(s)
		case int:
			next, ok = cur.Index(s)
		default:
			return Node{}, false
		}
		if !ok {
			return Node{}, false
		}
		cur = next
	}
	return cur, true
}

// StringAt returns the string at path, or def when absent or not a string.
func (n Node) StringAt(def string, path ...any) string {
	node, ok := n.Get(path...)
	if !ok || node.kind != KindString {
		return def
	}
	return node.str
}

// FloatAt returns the number at path, or def.
func (n Node) FloatAt(def float64, path ...any) float64 {
	node, ok := n.Get(path...)
	if !ok || node.kind != KindNumber {
		return def
	}
	return node.num
}

// Int64At returns the number at path truncated to int64, or def.
func (n Node) Int64At(def int64, path ...any) int64 {
	node, ok := n.Get(path...)
	if !ok || node.kind != KindNumber {
		return def
	}
	return int64(node.num)
}

// BoolAt returns the bool at path, or def.
func (n Node) BoolAt(def bool, path ...any) bool {
	node, ok := n.Get(path...)
	if !ok || node.kind != KindBool {
		return def
	}
	return node.boolean
}

// ScalarAt returns the scalar at path, or nil when the path is absent or the
// node is not a leaf.
func (n Node) ScalarAt(path ...any) any {
	node, ok := n.Get(path...)
	if !ok || !node.IsScalar() {
		return nil
	}
	return node.Scalar()
}

// Parse decodes a JSON document into a Node, preserving object member order.
//
// The hot-path codec elsewhere is sonic, but sonic's map-based decode cannot
// retain member order; here the order is load-bearing, so the tree is built
// from the stdlib token stream instead.
func Parse(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	node, err := parseValue(dec)
	if err != nil {
		return Node{}, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return Node{}, fmt.Errorf("trailing data after JSON document")
	}
	return node, nil
}

func parseValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return Node{}, fmt.Errorf("read token: %w", err)
	}
	return parseFromToken(dec, tok)
}

func parseFromToken(dec *json.Decoder, tok json.Token) (Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return Node{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Node{}, fmt.Errorf("parse number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Node{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (Node, error) {
	members := make([]Member, 0, 8)
	for {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, fmt.Errorf("read object token: %w", err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return Object(members...), nil
		}

		key, ok := tok.(string)
		if !ok {
			return Node{}, fmt.Errorf("object key must be string, got %v", tok)
		}
		value, err := parseValue(dec)
		if err != nil {
			return Node{}, err
		}
		members = append(members, Member{Key: key, Value: value})
	}
}

func parseArray(dec *json.Decoder) (Node, error) {
	elems := make([]Node, 0, 8)
	for {
		tok, err := dec.Token()
		if err != nil {
			return Node{}, fmt.Errorf("read array token: %w", err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return Array(elems...), nil
		}

		value, err := parseFromToken(dec, tok)
		if err != nil {
			return Node{}, err
		}
		elems = append(elems, value)
	}
}

// FormatScalar renders a scalar value the way it appeared in the source
// document: integers without a decimal point, null as empty.
func FormatScalar(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
