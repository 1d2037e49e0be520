package toon

import (
	"math"
	"strconv"
	"strings"
)

// encoder walks a Node tree and appends canonical TOON to a single
// monotonically growing buffer, the way writeJSON does for JSON output.
type encoder struct {
	buf  []byte
	opts EncoderOptions
}

func encodeNode(n *Node, opts EncoderOptions) ([]byte, error) {
	if opts.Indent <= 0 {
		return nil, newError(Custom, "indent must be positive, got %d", opts.Indent)
	}
	if n.Type() == Invalid {
		return nil, newError(Custom, "cannot encode an invalid node")
	}
	e := &encoder{opts: opts}
	var err error
	switch n.Type() {
	case Object:
		err = e.members(n.Members(), 0)
	case Array:
		err = e.array("", n.Elems(), 0)
	default:
		e.nl()
		err = e.scalar(n)
	}
	if err != nil {
		return nil, err
	}
	return e.buf, nil
}

// nl starts a fresh line. The first line of the document gets no
// terminator before it and the last line none after it.
func (e *encoder) nl() {
	if len(e.buf) > 0 {
		e.buf = append(e.buf, '\n')
	}
}

func (e *encoder) indent(depth int) {
	e.buf = append(e.buf, strings.Repeat(" ", depth*e.opts.Indent)...)
}

// members emits one field line per member at the given depth, folding
// single-child object chains into dotted keys when enabled.
func (e *encoder) members(mm []Member, depth int) error {
	for i := range mm {
		for j := i + 1; j < len(mm); j++ {
			if mm[i].Key == mm[j].Key {
				return newError(Custom, "duplicate key %q in object", mm[i].Key)
			}
		}
	}
	for i := range mm {
		key, val := e.foldMember(mm, i)
		if err := e.member(key, val, depth); err != nil {
			return err
		}
	}
	return nil
}

// foldMember returns the rendered key and value for member i, collapsing
// a chain of single-child objects into a dotted key when KeyFolding is
// Safe. Folding stops at quoting-unsafe segments, at branching, at the
// flatten depth and at dotted keys that would collide with a sibling.
func (e *encoder) foldMember(mm []Member, i int) (string, *Node) {
	m := &mm[i]
	if e.opts.KeyFolding != FoldSafe || e.opts.FlattenDepth < 2 || keyNeedsQuote(m.Key) {
		return renderKey(m.Key), &m.Node
	}
	segs := []string{m.Key}
	cur := &m.Node
	for cur.Type() == Object && cur.Len() == 1 && len(segs) < e.opts.FlattenDepth {
		child := &cur.value.([]Member)[0]
		if keyNeedsQuote(child.Key) {
			break
		}
		segs = append(segs, child.Key)
		cur = &child.Node
	}
	if len(segs) == 1 {
		return renderKey(m.Key), &m.Node
	}
	folded := strings.Join(segs, ".")
	for j := range mm {
		if j != i && mm[j].Key == folded {
			return renderKey(m.Key), &m.Node
		}
	}
	return folded, cur
}

func (e *encoder) member(key string, n *Node, depth int) error {
	switch n.Type() {
	case Null, Bool, Number, String:
		e.nl()
		e.indent(depth)
		e.buf = append(e.buf, key...)
		e.buf = append(e.buf, ": "...)
		return e.scalar(n)
	case Object:
		e.nl()
		e.indent(depth)
		e.buf = append(e.buf, key...)
		e.buf = append(e.buf, ':')
		return e.members(n.Members(), depth+1)
	case Array:
		return e.array(key, n.Elems(), depth)
	default:
		return newError(Custom, "cannot encode an invalid node")
	}
}

// array picks the rendered form: inline for all-scalar elements,
// tabular for uniform objects, block otherwise.
func (e *encoder) array(key string, elems []Node, depth int) error {
	e.nl()
	e.indent(depth)
	e.buf = append(e.buf, key...)

	if fields, ok := tabularFields(elems); ok {
		e.header(len(elems), fields)
		for i := range elems {
			e.nl()
			e.indent(depth + 1)
			mm := elems[i].Members()
			for j := range mm {
				if j > 0 {
					e.buf = append(e.buf, e.opts.Delimiter.byte())
				}
				if err := e.scalar(&mm[j].Node); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if allScalars(elems) {
		e.header(len(elems), nil)
		if len(elems) == 0 {
			return nil
		}
		e.buf = append(e.buf, ' ')
		for i := range elems {
			if i > 0 {
				e.buf = append(e.buf, e.opts.Delimiter.byte())
			}
			if err := e.scalar(&elems[i]); err != nil {
				return err
			}
		}
		return nil
	}

	e.header(len(elems), nil)
	prevObj, prevEmptyObj := false, false
	for i := range elems {
		el := &elems[i]
		switch el.Type() {
		case Object:
			if prevObj && !prevEmptyObj {
				e.nl()
				e.indent(depth + 1)
				e.buf = append(e.buf, "---"...)
			}
			if el.Len() == 0 {
				// an empty object element is a bare separator line
				e.nl()
				e.indent(depth + 1)
				e.buf = append(e.buf, "---"...)
				prevObj, prevEmptyObj = true, true
			} else {
				if err := e.members(el.Members(), depth+1); err != nil {
					return err
				}
				prevObj, prevEmptyObj = true, false
			}
		case Array:
			if err := e.array("", el.Elems(), depth+1); err != nil {
				return err
			}
			prevObj, prevEmptyObj = false, false
		default:
			e.nl()
			e.indent(depth + 1)
			if err := e.scalar(el); err != nil {
				return err
			}
			prevObj, prevEmptyObj = false, false
		}
	}
	return nil
}

// header writes [N], the optional field list and the delimiter marker.
func (e *encoder) header(n int, fields []string) {
	e.buf = append(e.buf, '[')
	e.buf = strconv.AppendInt(e.buf, int64(n), 10)
	for i, f := range fields {
		if i == 0 {
			e.buf = append(e.buf, ' ')
		} else {
			e.buf = append(e.buf, e.opts.Delimiter.byte())
		}
		e.buf = append(e.buf, renderKey(f)...)
	}
	e.buf = append(e.buf, ']')
	e.buf = append(e.buf, e.opts.Delimiter.marker()...)
	e.buf = append(e.buf, ':')
}

func (e *encoder) scalar(n *Node) error {
	switch n.Type() {
	case Null:
		e.buf = append(e.buf, "null"...)
	case Bool:
		if n.value.(bool) {
			e.buf = append(e.buf, "true"...)
		} else {
			e.buf = append(e.buf, "false"...)
		}
	case Number:
		e.buf = append(e.buf, formatNumber(n)...)
	case String:
		s := n.value.(string)
		if needsQuote(s) {
			e.buf = append(e.buf, '"')
			e.buf = append(e.buf, escapeString(s)...)
			e.buf = append(e.buf, '"')
		} else {
			e.buf = append(e.buf, s...)
		}
	default:
		return newError(Custom, "cannot encode %s as a scalar", n.Type())
	}
	return nil
}

// formatNumber renders the canonical numeric form: integral values
// without a decimal point, negative zero as 0, NaN and infinities as
// null.
func formatNumber(n *Node) string {
	switch v := n.value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "null"
		}
		if v == 0 {
			return "0"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func renderKey(key string) string {
	if keyNeedsQuote(key) {
		return `"` + escapeString(key) + `"`
	}
	return key
}

func allScalars(elems []Node) bool {
	for i := range elems {
		switch elems[i].Type() {
		case Null, Bool, Number, String:
		default:
			return false
		}
	}
	return true
}

// tabularFields reports the shared field list when every element is an
// object with the same keys in the same order and only scalar values.
func tabularFields(elems []Node) ([]string, bool) {
	if len(elems) == 0 || elems[0].Type() != Object || elems[0].Len() == 0 {
		return nil, false
	}
	first := elems[0].Members()
	fields := make([]string, len(first))
	for i := range first {
		fields[i] = first[i].Key
	}
	for i := range elems {
		if elems[i].Type() != Object {
			return nil, false
		}
		mm := elems[i].Members()
		if len(mm) != len(fields) {
			return nil, false
		}
		for j := range mm {
			if mm[j].Key != fields[j] {
				return nil, false
			}
			switch mm[j].Node.Type() {
			case Null, Bool, Number, String:
			default:
				return nil, false
			}
		}
	}
	return fields, true
}
