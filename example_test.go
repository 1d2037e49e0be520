package toon_test

import (
	"fmt"

	"github.com/d1ced/toon"
)

func ExampleDecode() {
	data := []byte("tags[3]: rust,serde,parser")
	root, err := toon.Decode(data)
	if err != nil {
		return
	}
	v, _ := root.Value()
	fmt.Println(v)
	// Output: map[tags:[rust serde parser]]
}

func ExampleEncode() {
	root := toon.ObjectNode(
		toon.Member{Key: "user", Node: *toon.ObjectNode(
			toon.Member{Key: "id", Node: *toon.IntNode(123)},
			toon.Member{Key: "name", Node: *toon.StringNode("Ada")},
		)},
	)
	data, _ := toon.Encode(root)
	fmt.Printf("%s", data)
	// Output:
	// user:
	//   id: 123
	//   name: Ada
}

func ExampleMarshal() {
	type User struct {
		ID   int    `toon:"id"`
		Name string `toon:"name"`
	}
	data, _ := toon.Marshal(User{ID: 42, Name: "Ada"})
	fmt.Printf("%s", data)
	// Output:
	// id: 42
	// name: Ada
}

func ExampleUnmarshal() {
	type User struct {
		Name string `toon:"name"`
		Age  int    `toon:"age"`
	}
	var users struct {
		Users []User `toon:"users"`
	}
	data := []byte("users[2 name,age]:\n  Ada,42\n  Bob,35")
	if err := toon.Unmarshal(data, &users); err != nil {
		return
	}
	fmt.Println(users.Users)
	// Output: [{Ada 42} {Bob 35}]
}

func ExampleNode_MarshalJSON() {
	root, err := toon.Decode([]byte("count: 2\nitems[2]: a,b"))
	if err != nil {
		return
	}
	data, _ := root.MarshalJSON()
	fmt.Printf("%s", data)
	// Output: {"count":2,"items":["a","b"]}
}
