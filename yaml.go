package toon

import (
	"fmt"
	"sort"

	yaml "gopkg.in/yaml.v2"
)

// NewYAMLNode parses YAML data into a Node tree. Mapping key order is
// preserved for documents with a mapping root; other roots fall back to
// the generic decoder, which sorts nested mapping keys.
func NewYAMLNode(data []byte) (*Node, error) {
	var ms yaml.MapSlice
	if err := yaml.Unmarshal(data, &ms); err == nil {
		return yamlToNode(ms)
	}
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, customError(err, "decoding YAML")
	}
	return yamlToNode(v)
}

// MarshalYAML implements the yaml.Marshaler interface for Node, keeping
// object member order.
func (n *Node) MarshalYAML() (interface{}, error) {
	return nodeToYAML(n)
}

func yamlToNode(v interface{}) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return NullNode(), nil
	case bool:
		return BoolNode(t), nil
	case int:
		return IntNode(int64(t)), nil
	case int64:
		return IntNode(t), nil
	case uint64:
		return UintNode(t), nil
	case float64:
		return FloatNode(t), nil
	case string:
		return StringNode(t), nil
	case []interface{}:
		nn := make([]Node, 0, len(t))
		for _, e := range t {
			n, err := yamlToNode(e)
			if err != nil {
				return nil, err
			}
			nn = append(nn, *n)
		}
		return ArrayNode(nn...), nil
	case yaml.MapSlice:
		mm := make([]Member, 0, len(t))
		for _, item := range t {
			n, err := yamlToNode(item.Value)
			if err != nil {
				return nil, err
			}
			mm = append(mm, Member{Key: yamlKey(item.Key), Node: *n})
		}
		return ObjectNode(mm...), nil
	case map[interface{}]interface{}:
		keys := make([]string, 0, len(t))
		byKey := make(map[string]interface{}, len(t))
		for k, val := range t {
			s := yamlKey(k)
			keys = append(keys, s)
			byKey[s] = val
		}
		sort.Strings(keys)
		mm := make([]Member, 0, len(keys))
		for _, k := range keys {
			n, err := yamlToNode(byKey[k])
			if err != nil {
				return nil, err
			}
			mm = append(mm, Member{Key: k, Node: *n})
		}
		return ObjectNode(mm...), nil
	default:
		return nil, newError(Custom, "unsupported YAML value of type %T", v)
	}
}

func yamlKey(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func nodeToYAML(n *Node) (interface{}, error) {
	switch n.Type() {
	case Null:
		return nil, nil
	case Bool, Number, String:
		return n.value, nil
	case Array:
		out := make([]interface{}, 0, n.Len())
		for _, c := range n.Elems() {
			v, err := nodeToYAML(&c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case Object:
		out := make(yaml.MapSlice, 0, n.Len())
		for _, m := range n.Members() {
			v, err := nodeToYAML(&m.Node)
			if err != nil {
				return nil, err
			}
			out = append(out, yaml.MapItem{Key: m.Key, Value: v})
		}
		return out, nil
	default:
		return nil, newError(Custom, "cannot encode %s as YAML", n.Type())
	}
}
