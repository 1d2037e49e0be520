/*
Package toon encodes and decodes TOON (Token-Oriented Object Notation).

TOON is a line-oriented, indentation-structured encoding of the JSON data
model. Objects use indentation instead of braces, arrays declare their
length in a header and strings are quoted only when the grammar would
otherwise be ambiguous:

	user:
	  id: 123
	  name: Ada
	items[2]: a,b

Like encoding/json the package is centered around a tree model: Decode
builds a Node tree from TOON text, Encode renders a Node tree back to
canonical TOON. Marshal and Unmarshal map Go values onto that tree with
reflection. Node also fulfills the json.Marshaler/Unmarshaler interfaces,
preserving object key order in both directions.
*/
package toon // import "github.com/d1ced/toon"
