package toon

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NewTOONGo reads in a Go value and generates a Node tree that can be
// encoded. Struct fields honor `toon:"name,omitempty"` tags; `toon:"-"`
// skips a field. Map keys are sorted so the output stays deterministic.
func NewTOONGo(val interface{}) (*Node, error) {
	if val == nil {
		return NullNode(), nil
	}
	if n, ok := val.(*Node); ok {
		return n, nil
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return BoolNode(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IntNode(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return UintNode(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return FloatNode(v.Float()), nil
	case reflect.String:
		return StringNode(v.String()), nil
	case reflect.Slice:
		if v.IsNil() {
			return NullNode(), nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return StringNode(string(v.Bytes())), nil
		}
		fallthrough
	case reflect.Array:
		nn := make([]Node, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			n, err := NewTOONGo(v.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			nn = append(nn, *n)
		}
		return ArrayNode(nn...), nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map keys must be strings, got %s", v.Type().Key())
		}
		keys := make([]string, 0, v.Len())
		for _, k := range v.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		mm := make([]Member, 0, len(keys))
		for _, k := range keys {
			n, err := NewTOONGo(v.MapIndex(reflect.ValueOf(k)).Interface())
			if err != nil {
				return nil, err
			}
			mm = append(mm, Member{Key: k, Node: *n})
		}
		return ObjectNode(mm...), nil
	case reflect.Struct:
		mm := []Member(nil)
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			ft := t.Field(i)
			if r, _ := utf8.DecodeRuneInString(ft.Name); !unicode.IsUpper(r) {
				continue
			}
			tags := strings.Split(ft.Tag.Get("toon"), ",")
			if tags[0] == "-" && len(tags) == 1 {
				continue
			}
			if hasTagOption(tags, "omitempty") && v.Field(i).IsZero() {
				continue
			}
			n, err := NewTOONGo(v.Field(i).Interface())
			if err != nil {
				return nil, err
			}
			key := tags[0]
			if key == "" {
				key = ft.Name
			}
			mm = append(mm, Member{Key: key, Node: *n})
		}
		return ObjectNode(mm...), nil
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return NullNode(), nil
		}
		return NewTOONGo(v.Elem().Interface())
	default:
		return nil, fmt.Errorf("invalid type %s", v.Kind())
	}
}

func hasTagOption(tags []string, opt string) bool {
	for _, t := range tags[1:] {
		if t == opt {
			return true
		}
	}
	return false
}

// TOON2Go reads contents from n and writes them into val.
// val has to be a pointer value.
func (n *Node) TOON2Go(val interface{}) error {
	return node2Go(n, val, false)
}

func node2Go(n *Node, val interface{}, stringify bool) error {
	v := reflect.ValueOf(val)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("v %v not a non-nil pointer", v)
	}
	inner := v.Elem()

	if n.Type() == Null {
		inner.Set(reflect.Zero(inner.Type()))
		return nil
	}
	if inner.Kind() == reflect.Ptr {
		if inner.IsNil() {
			inner.Set(reflect.New(inner.Type().Elem()))
		}
		return node2Go(n, inner.Interface(), stringify)
	}

	switch inner.Kind() {
	case reflect.Interface:
		itf, err := n.Value()
		if err != nil {
			return err
		}
		if itf == nil {
			inner.Set(reflect.Zero(inner.Type()))
			return nil
		}
		inner.Set(reflect.ValueOf(itf))
		return nil
	case reflect.Bool:
		if stringify && n.Type() == String {
			b, err := strconv.ParseBool(n.value.(string))
			if err != nil {
				return fmt.Errorf("cannot parse %q as bool", n.value)
			}
			inner.SetBool(b)
			return nil
		}
		if n.Type() != Bool {
			return fmt.Errorf("mismatched type: want Bool, got %s", n.Type())
		}
		inner.SetBool(n.value.(bool))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if stringify && n.Type() == String {
			i, err := strconv.ParseInt(n.value.(string), 10, 64)
			if err != nil {
				return fmt.Errorf("cannot parse %q as integer", n.value)
			}
			if inner.OverflowInt(i) {
				return fmt.Errorf("number %d overflows %s", i, inner.Type())
			}
			inner.SetInt(i)
			return nil
		}
		i, ok := n.Int64()
		if !ok {
			return fmt.Errorf("mismatched type: want Number, got %s", n.Type())
		}
		if inner.OverflowInt(i) {
			return fmt.Errorf("number %d overflows %s", i, inner.Type())
		}
		inner.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if stringify && n.Type() == String {
			u, err := strconv.ParseUint(n.value.(string), 10, 64)
			if err != nil {
				return fmt.Errorf("cannot parse %q as unsigned integer", n.value)
			}
			if inner.OverflowUint(u) {
				return fmt.Errorf("number %d overflows %s", u, inner.Type())
			}
			inner.SetUint(u)
			return nil
		}
		u, ok := n.Uint64()
		if !ok {
			return fmt.Errorf("mismatched type: want Number, got %s", n.Type())
		}
		if inner.OverflowUint(u) {
			return fmt.Errorf("number %d overflows %s", u, inner.Type())
		}
		inner.SetUint(u)
		return nil
	case reflect.Float32, reflect.Float64:
		if stringify && n.Type() == String {
			f, err := strconv.ParseFloat(n.value.(string), 64)
			if err != nil {
				return fmt.Errorf("cannot parse %q as float", n.value)
			}
			inner.SetFloat(f)
			return nil
		}
		f, ok := n.Float64()
		if !ok {
			return fmt.Errorf("mismatched type: want Number, got %s", n.Type())
		}
		inner.SetFloat(f)
		return nil
	case reflect.String:
		if !stringify {
			if n.Type() != String {
				return fmt.Errorf("mismatched type: want String, got %s", n.Type())
			}
			inner.SetString(n.value.(string))
			return nil
		}
		switch n.Type() {
		case Bool:
			inner.SetString(strconv.FormatBool(n.value.(bool)))
		case Number:
			inner.SetString(formatNumber(n))
		case String:
			inner.SetString(n.value.(string))
		default:
			return fmt.Errorf("mismatched type: cannot convert %s to string", n.Type())
		}
		return nil
	case reflect.Slice:
		if n.Type() != Array {
			return fmt.Errorf("mismatched type: want Array, got %s", n.Type())
		}
		elems := n.Elems()
		out := reflect.MakeSlice(inner.Type(), len(elems), len(elems))
		for i := range elems {
			if err := node2Go(&elems[i], out.Index(i).Addr().Interface(), stringify); err != nil {
				return err
			}
		}
		inner.Set(out)
		return nil
	case reflect.Map:
		if n.Type() != Object {
			return fmt.Errorf("mismatched type: want Object, got %s", n.Type())
		}
		t := inner.Type()
		if t.Key().Kind() != reflect.String {
			return fmt.Errorf("map keys must be strings, got %s", t.Key())
		}
		out := reflect.MakeMapWithSize(t, n.Len())
		for _, m := range n.Members() {
			ev := reflect.New(t.Elem())
			if err := node2Go(&m.Node, ev.Interface(), stringify); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(m.Key), ev.Elem())
		}
		inner.Set(out)
		return nil
	case reflect.Struct:
		if n.Type() != Object {
			return fmt.Errorf("mismatched type: want Object, got %s", n.Type())
		}
		t := inner.Type()
		for i := 0; i < t.NumField(); i++ {
			ft := t.Field(i)
			if r, _ := utf8.DecodeRuneInString(ft.Name); !unicode.IsUpper(r) {
				continue
			}
			tags := strings.Split(ft.Tag.Get("toon"), ",")
			if tags[0] == "-" && len(tags) == 1 {
				continue
			}
			key := tags[0]
			if key == "" {
				key = ft.Name
			}
			elm, ok := n.GetChild(key)
			if !ok {
				if hasTagOption(tags, "omitempty") {
					continue
				}
				return fmt.Errorf("key %q missing in input", key)
			}
			err := node2Go(elm, inner.Field(i).Addr().Interface(), hasTagOption(tags, "string"))
			if err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid type %s supplied", inner.Kind())
	}
}
