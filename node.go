package toon

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind is an enum for the TOON value types.
type Kind uint8

// Kinds to compare nodes of a tree with. The zero value signals invalid.
const (
	Invalid Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

// String returns the name of a Kind.
func (k Kind) String() string {
	switch k {
	case Null:
		return "Null"
	case Bool:
		return "Bool"
	case Number:
		return "Number"
	case String:
		return "String"
	case Array:
		return "Array"
	case Object:
		return "Object"
	default:
		return "Invalid"
	}
}

// ErrNotArrayOrObject signals that a Node is a standalone value rather
// than an array or object. AddChildren panics with an error wrapping it.
var ErrNotArrayOrObject = errors.New("not array or object")

// Node is one node of a TOON value tree.
// Depending on its kind it holds a different value:
//
//	Kind     ValueType
//	Invalid  nil
//	Null     nil
//	Bool     bool
//	Number   int64, uint64 or float64
//	String   string
//	Array    []Node
//	Object   []Member
//
// Object members iterate in insertion order; that order is significant
// and survives an encode/decode round trip.
type Node struct {
	kind  Kind
	value interface{}
}

// Member is one key/value entry of an Object node.
type Member struct {
	Key string
	Node
}

// Constructors for the scalar and compound kinds.

func NullNode() *Node               { return &Node{kind: Null} }
func BoolNode(b bool) *Node         { return &Node{kind: Bool, value: b} }
func IntNode(i int64) *Node         { return &Node{kind: Number, value: i} }
func UintNode(u uint64) *Node       { return &Node{kind: Number, value: u} }
func FloatNode(f float64) *Node     { return &Node{kind: Number, value: f} }
func StringNode(s string) *Node     { return &Node{kind: String, value: s} }
func ArrayNode(nn ...Node) *Node    { return &Node{kind: Array, value: append([]Node(nil), nn...)} }
func ObjectNode(mm ...Member) *Node { return &Node{kind: Object, value: append([]Member(nil), mm...)} }

// Type returns the Kind of a node.
func (n *Node) Type() Kind {
	if n == nil {
		return Invalid
	}
	return n.kind
}

// Value creates the Go representation of a node.
// Like encoding/json the possible underlying types of the first return
// parameter are:
//
//	Object    map[string]interface{} (iteration order is not preserved)
//	Array     []interface{}
//	String    string
//	Number    int64, uint64 or float64
//	Bool      bool
//	Null      nil (with the error being nil too)
func (n *Node) Value() (interface{}, error) {
	if !assertNodeType(n) {
		return nil, errors.Errorf("internal type mismatch; want %s, got %T",
			n.kind, n.value)
	}
	switch n.kind {
	default:
		return n.value, nil
	case Object:
		m := make(map[string]interface{}, n.Len())
		for _, f := range n.value.([]Member) {
			itf, err := f.Value()
			if err != nil {
				return nil, err
			}
			m[f.Key] = itf
		}
		return m, nil
	case Array:
		s := make([]interface{}, 0, n.Len())
		for _, f := range n.value.([]Node) {
			itf, err := f.Value()
			if err != nil {
				return nil, err
			}
			s = append(s, itf)
		}
		return s, nil
	}
}

// Int64 reports the numeric value as an int64 if it can be represented
// without loss.
func (n *Node) Int64() (int64, bool) {
	switch v := n.value.(type) {
	case int64:
		return v, true
	case uint64:
		if v <= 1<<63-1 {
			return int64(v), true
		}
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

// Uint64 reports the numeric value as a uint64 if it can be represented
// without loss.
func (n *Node) Uint64() (uint64, bool) {
	switch v := n.value.(type) {
	case int64:
		if v >= 0 {
			return uint64(v), true
		}
	case uint64:
		return v, true
	case float64:
		if v >= 0 && v == float64(uint64(v)) {
			return uint64(v), true
		}
	}
	return 0, false
}

// Float64 reports the numeric value as a float64.
func (n *Node) Float64() (float64, bool) {
	switch v := n.value.(type) {
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// EqNode compares the nodes and all their children. Object member order
// is significant.
func EqNode(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.kind != b.kind {
		return false
	}
	switch a.kind {
	case Array:
		an, bn := a.value.([]Node), b.value.([]Node)
		if len(an) != len(bn) {
			return false
		}
		for i := range an {
			if !EqNode(&an[i], &bn[i]) {
				return false
			}
		}
		return true
	case Object:
		am, bm := a.value.([]Member), b.value.([]Member)
		if len(am) != len(bm) {
			return false
		}
		for i := range am {
			if am[i].Key != bm[i].Key || !EqNode(&am[i].Node, &bm[i].Node) {
				return false
			}
		}
		return true
	case Number:
		// 1 and 1.0 compare equal; the integral/float split only
		// matters for rendering.
		af, _ := a.Float64()
		bf, _ := b.Float64()
		if af == bf {
			return true
		}
		return a.value == b.value
	default:
		return a.value == b.value
	}
}

func assertNodeType(n *Node) bool {
	switch n.value.(type) {
	case nil:
		return n.kind == Null || n.kind == Invalid
	case bool:
		return n.kind == Bool
	case int64, uint64, float64:
		return n.kind == Number
	case string:
		return n.kind == String
	case []Node:
		return n.kind == Array
	case []Member:
		return n.kind == Object
	default:
		return false
	}
}

// AddChildren appends mm members to the Array or Object n.
// It panics if n is not of the two mentioned types or if appended values
// in an object don't have keys.
func (n *Node) AddChildren(mm ...Member) {
	if n.kind == Object {
		for _, m := range mm {
			if m.Key == "" {
				panic("empty key for object member")
			}
		}
		n.value = append(n.value.([]Member), mm...)
	} else if n.kind == Array {
		for _, m := range mm {
			n.value = append(n.value.([]Node), m.Node)
		}
	} else {
		panic(errors.Wrapf(ErrNotArrayOrObject, "n is %s", n.kind))
	}
}

// GetChild returns the node specified by name, a dot-separated path of
// object keys and array indices. The key "" always returns the node
// itself.
func (n *Node) GetChild(name string) (*Node, bool) {
	keys := strings.Split(name, ".")
	if len(keys) == 1 && keys[0] == "" {
		return n, true
	}
	switch n.Type() {
	case Object:
		for i, c := range n.value.([]Member) {
			if c.Key == keys[0] {
				return n.value.([]Member)[i].GetChild(strings.Join(keys[1:], "."))
			}
		}
		return nil, false
	case Array:
		i, err := strconv.Atoi(keys[0])
		if err != nil {
			return nil, false
		}
		nn := n.value.([]Node)
		if i < 0 || i >= len(nn) {
			return nil, false
		}
		return nn[i].GetChild(strings.Join(keys[1:], "."))
	default:
		return nil, false
	}
}

// Members returns the ordered members of an Object node, nil otherwise.
func (n *Node) Members() []Member {
	if n.Type() != Object {
		return nil
	}
	return n.value.([]Member)
}

// Elems returns the elements of an Array node, nil otherwise.
func (n *Node) Elems() []Node {
	if n.Type() != Array {
		return nil
	}
	return n.value.([]Node)
}

// Len gives the length of an array or the number of members in an
// object.
func (n *Node) Len() int {
	switch n.Type() {
	case Array:
		return len(n.value.([]Node))
	case Object:
		return len(n.value.([]Member))
	case Invalid:
		return 0
	default:
		return 1
	}
}

// Total returns the number of nodes held by n, including n itself.
func (n *Node) Total() int {
	switch n.Type() {
	case Array:
		i := 1
		for _, c := range n.value.([]Node) {
			i += c.Total()
		}
		return i
	case Object:
		i := 1
		for _, c := range n.value.([]Member) {
			i += c.Total()
		}
		return i
	default:
		return 1
	}
}
