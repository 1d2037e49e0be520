package toon_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"

	"github.com/d1ced/toon"
)

func TestJSONToTOON(t *testing.T) {
	jsonInput := `{"user":{"id":123,"name":"Ada"},"items":["a","b"]}`
	n, err := toon.NewJSONNode([]byte(jsonInput))
	require.NoError(t, err)

	out, err := toon.Encode(n)
	require.NoError(t, err)

	want := "user:\n  id: 123\n  name: Ada\nitems[2]: a,b"
	if string(out) != want {
		t.Errorf("output mismatch:\n%s", diff.LineDiff(want, string(out)))
	}
}

func TestTOONToJSON(t *testing.T) {
	input := "count: 2\nusers[2 id,name,email]:\n  1,Alice,alice@example.com\n  2,Bob,bob@example.com"
	n, err := toon.Decode([]byte(input))
	require.NoError(t, err)

	out, err := n.MarshalJSON()
	require.NoError(t, err)

	want := `{"count":2,"users":[` +
		`{"id":1,"name":"Alice","email":"alice@example.com"},` +
		`{"id":2,"name":"Bob","email":"bob@example.com"}]}`
	if string(out) != want {
		t.Errorf("output mismatch:\n%s", diff.LineDiff(want, string(out)))
	}
}

func TestJSONRoundTrip(t *testing.T) {
	inputs := []string{
		`{"users":[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}],"count":2}`,
		`{"data":{"items":[{"id":1,"value":"a"}],"metadata":{"version":"1.0"}}}`,
		`{"message":"Hello\nWorld","path":"C:\\Users\\test","quote":"say \"hello\""}`,
		`[1,2,3,4,5]`,
		`{"empty":{},"none":[],"null":null}`,
		`"just a string"`,
	}
	for _, input := range inputs {
		n, err := toon.NewJSONNode([]byte(input))
		require.NoError(t, err, input)

		enc, err := toon.Encode(n)
		require.NoError(t, err, input)

		back, err := toon.Decode(enc)
		require.NoError(t, err, "decode of %q", enc)

		assert.True(t, toon.EqNode(n, back), "round trip of %q via %q", input, enc)

		again, err := toon.Encode(back)
		require.NoError(t, err)
		assert.Equal(t, string(enc), string(again), "canonical idempotence for %q", input)
	}
}

func TestYAMLAdapter(t *testing.T) {
	n, err := toon.NewYAMLNode([]byte("name: Ada\nage: 42\ntags:\n  - go\n  - parser\n"))
	require.NoError(t, err)

	out, err := toon.Encode(n)
	require.NoError(t, err)
	assert.Equal(t, "name: Ada\nage: 42\ntags[2]: go,parser", string(out))

	// member order survives through MarshalYAML
	back, err := toon.Decode([]byte("z: 1\na: 2"))
	require.NoError(t, err)
	ydata, err := yaml.Marshal(back)
	require.NoError(t, err)
	assert.Equal(t, "z: 1\na: 2\n", string(ydata))
}

func TestMarshalStruct(t *testing.T) {
	type User struct {
		ID    int    `toon:"id"`
		Name  string `toon:"name"`
		Email string `toon:"email,omitempty"`
	}
	type Doc struct {
		Count int    `toon:"count"`
		Users []User `toon:"users"`
	}

	doc := Doc{
		Count: 2,
		Users: []User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}},
	}
	out, err := toon.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, "count: 2\nusers[2 id,name]:\n  1,Alice\n  2,Bob", string(out))

	var back Doc
	require.NoError(t, toon.Unmarshal(out, &back))
	assert.Equal(t, doc, back)
}

func TestUnmarshalTypes(t *testing.T) {
	var m map[string]int
	require.NoError(t, toon.Unmarshal([]byte("a: 1\nb: 2"), &m))
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, m)

	var s []string
	require.NoError(t, toon.Unmarshal([]byte("[2]: x,y"), &s))
	assert.Equal(t, []string{"x", "y"}, s)

	var f float64
	require.NoError(t, toon.Unmarshal([]byte("2.5"), &f))
	assert.Equal(t, 2.5, f)

	var itf interface{}
	require.NoError(t, toon.Unmarshal([]byte("a: 1"), &itf))

	var wrong int
	err := toon.Unmarshal([]byte("nope"), &wrong)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want Number")
}

func TestMarshalTagOptions(t *testing.T) {
	type Rec struct {
		Keep   string `toon:"keep"`
		Skip   string `toon:"-"`
		AsText int    `toon:"n,string"`
	}
	out, err := toon.Marshal(Rec{Keep: "v", Skip: "x", AsText: 7})
	require.NoError(t, err)
	assert.Equal(t, "keep: v\nn: 7", string(out))

	var back Rec
	require.NoError(t, toon.Unmarshal([]byte(`keep: v`+"\n"+`n: "7"`), &back))
	assert.Equal(t, Rec{Keep: "v", AsText: 7}, back)
}

func TestReaderWriter(t *testing.T) {
	n, err := toon.NewTOON(strings.NewReader("a: 1\nb[2]: x,y"))
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = n.WriteTOON(&buf)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb[2]: x,y", buf.String())
}

func TestGetChildAndTotal(t *testing.T) {
	n, err := toon.Decode([]byte("users[2 name,age]:\n  Ada,42\n  Bob,35\ncount: 2"))
	require.NoError(t, err)

	m, ok := n.GetChild("users.1.name")
	require.True(t, ok)
	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "Bob", v)

	if _, ok := n.GetChild("users.7"); ok {
		t.Error("out-of-range index resolved")
	}

	// root + users + 2 rows + 4 cells + count = 9 nodes
	assert.Equal(t, 9, n.Total())
}
