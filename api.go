package toon

import (
	"io"

	"github.com/pkg/errors"
)

// Decode parses a TOON document with the default options.
func Decode(data []byte) (*Node, error) {
	return DecodeWith(data, DefaultDecoderOptions())
}

// DecodeWith parses a TOON document.
func DecodeWith(data []byte, opts DecoderOptions) (*Node, error) {
	return decodeString(string(data), opts)
}

// Encode renders a Node tree as canonical TOON with the default
// options.
func Encode(n *Node) ([]byte, error) {
	return EncodeWith(n, DefaultEncoderOptions())
}

// EncodeWith renders a Node tree as canonical TOON.
func EncodeWith(n *Node, opts EncoderOptions) ([]byte, error) {
	return encodeNode(n, opts)
}

// NewTOON reads all of r and decodes it.
func NewTOON(r io.Reader) (*Node, error) {
	return NewTOONWith(r, DefaultDecoderOptions())
}

// NewTOONWith reads all of r and decodes it.
func NewTOONWith(r io.Reader, opts DecoderOptions) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, customError(err, "reading input")
	}
	return DecodeWith(data, opts)
}

// WriteTOON writes the tree held by n to w with the same representation
// as Encode.
func (n *Node) WriteTOON(w io.Writer) (int, error) {
	return n.WriteTOONWith(w, DefaultEncoderOptions())
}

// WriteTOONWith writes the tree held by n to w.
func (n *Node) WriteTOONWith(w io.Writer, opts EncoderOptions) (int, error) {
	data, err := EncodeWith(n, opts)
	if err != nil {
		return 0, err
	}
	return w.Write(data)
}

// Valid reports whether data is a valid TOON encoding.
func Valid(data []byte) bool {
	_, err := Decode(data)
	return err == nil
}

// Marshal encodes a Go value as TOON.
func Marshal(v interface{}) ([]byte, error) {
	return MarshalWith(v, DefaultEncoderOptions())
}

// MarshalWith encodes a Go value as TOON.
func MarshalWith(v interface{}, opts EncoderOptions) ([]byte, error) {
	n, err := NewTOONGo(v)
	if err != nil {
		return nil, err
	}
	return EncodeWith(n, opts)
}

// Unmarshal decodes TOON data into the Go value pointed to by v.
func Unmarshal(data []byte, v interface{}) error {
	return UnmarshalWith(data, v, DefaultDecoderOptions())
}

// UnmarshalWith decodes TOON data into the Go value pointed to by v.
func UnmarshalWith(data []byte, v interface{}, opts DecoderOptions) error {
	n, err := DecodeWith(data, opts)
	if err != nil {
		return err
	}
	if err := n.TOON2Go(v); err != nil {
		return errors.Wrap(err, "toon: unmarshal")
	}
	return nil
}
