package toon

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
)

// NewJSONNode parses JSON data into a Node tree. Unlike unmarshalling
// into a map this keeps the object key order of the source.
func NewJSONNode(data []byte) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := readJSONValue(dec)
	if err != nil {
		return nil, customError(err, "decoding JSON")
	}
	if dec.More() {
		return nil, newError(Custom, "unexpected content after JSON document")
	}
	return n, nil
}

func readJSONValue(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return jsonValue(dec, tok)
}

func jsonValue(dec *json.Decoder, tok json.Token) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		if t == '{' {
			var mm []Member
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := ktok.(string)
				if !ok {
					return nil, newError(Custom, "object key is not a string: %v", ktok)
				}
				for _, m := range mm {
					if m.Key == key {
						return nil, newError(Custom, "duplicate key %q in JSON object", key)
					}
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				mm = append(mm, Member{Key: key, Node: *val})
			}
			if _, err := dec.Token(); err != nil { // closing '}'
				return nil, err
			}
			return ObjectNode(mm...), nil
		}
		var nn []Node
		for dec.More() {
			val, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			nn = append(nn, *val)
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return nil, err
		}
		return ArrayNode(nn...), nil
	case bool:
		return BoolNode(t), nil
	case string:
		return StringNode(t), nil
	case json.Number:
		if n, ok := parseNumber(t.String()); ok {
			return n, nil
		}
		return StringNode(t.String()), nil
	case nil:
		return NullNode(), nil
	default:
		return nil, newError(Custom, "unexpected JSON token %v", tok)
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface for Node.
func (n *Node) UnmarshalJSON(data []byte) error {
	m, err := NewJSONNode(data)
	if err != nil {
		return err
	}
	*n = *m
	return nil
}

// MarshalJSON implements the json.Marshaler interface for Node. Object
// members are written in insertion order.
func (n *Node) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := writeJSON(buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n *Node) error {
	switch n.Type() {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(n.value.(bool)))
	case Number:
		switch v := n.value.(type) {
		case int64:
			buf.WriteString(strconv.FormatInt(v, 10))
		case uint64:
			buf.WriteString(strconv.FormatUint(v, 10))
		case float64:
			b, err := json.Marshal(v)
			if err != nil {
				return customError(err, "encoding JSON number")
			}
			buf.Write(b)
		}
	case String:
		b, err := json.Marshal(n.value.(string))
		if err != nil {
			return customError(err, "encoding JSON string")
		}
		buf.Write(b)
	case Array:
		buf.WriteByte('[')
		for i, c := range n.Elems() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, &c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, m := range n.Members() {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := json.Marshal(m.Key)
			if err != nil {
				return customError(err, "encoding JSON key")
			}
			buf.Write(b)
			buf.WriteByte(':')
			if err := writeJSON(buf, &m.Node); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return newError(Custom, "cannot encode %s as JSON", n.Type())
	}
	return nil
}
