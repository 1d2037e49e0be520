package toon

import "math"

// Delimiter separates the elements of one array. The delimiter declared
// in an array header applies to that array only; nested arrays choose
// their own.
type Delimiter uint8

const (
	// Comma delimiter: items[3]: a,b,c
	Comma Delimiter = iota
	// Tab delimiter: items[3]<TAB>: a<TAB>b<TAB>c
	Tab
	// Pipe delimiter: items[3]|: a|b|c
	Pipe
)

func (d Delimiter) byte() byte {
	switch d {
	case Tab:
		return '\t'
	case Pipe:
		return '|'
	default:
		return ','
	}
}

// marker is the delimiter mark between "]" and ":" in an array header.
// Comma, the default, has none.
func (d Delimiter) marker() string {
	switch d {
	case Tab:
		return "\t"
	case Pipe:
		return "|"
	default:
		return ""
	}
}

func (d Delimiter) String() string {
	switch d {
	case Tab:
		return "tab"
	case Pipe:
		return "pipe"
	default:
		return "comma"
	}
}

// KeyFolding controls whether the encoder collapses single-child object
// chains into dotted keys.
type KeyFolding uint8

const (
	// FoldOff never folds (default).
	FoldOff KeyFolding = iota
	// FoldSafe folds chains whose every segment is a bare-safe
	// identifier and whose dotted form collides with no sibling key.
	FoldSafe
)

// PathExpansion controls whether the decoder expands dotted keys into
// nested objects.
type PathExpansion uint8

const (
	// ExpandOff keeps dotted keys literal (default).
	ExpandOff PathExpansion = iota
	// ExpandSafe expands unquoted dotted identifier keys and reports
	// ExpansionConflict when the expansion would collide.
	ExpandSafe
)

// EncoderOptions controls Encode. The zero value is not useful; start
// from DefaultEncoderOptions.
type EncoderOptions struct {
	// Indent is the number of spaces per nesting level.
	Indent int
	// Delimiter is used for every array the encoder emits.
	Delimiter Delimiter
	// KeyFolding selects dotted-key compression of object chains.
	KeyFolding KeyFolding
	// FlattenDepth caps how many nesting levels a folded key may
	// collapse. 0 disables folding entirely.
	FlattenDepth int
}

// DefaultEncoderOptions returns the documented defaults: two-space
// indent, comma delimiter, folding off, unlimited flatten depth.
func DefaultEncoderOptions() EncoderOptions {
	return EncoderOptions{
		Indent:       2,
		Delimiter:    Comma,
		KeyFolding:   FoldOff,
		FlattenDepth: math.MaxInt,
	}
}

// DecoderOptions controls Decode.
type DecoderOptions struct {
	// Indent is the expected number of spaces per nesting level. Leading
	// whitespace must be an exact multiple of it.
	Indent int
	// Strict rejects syntactically tolerable but non-canonical input:
	// comment lines, blank lines in the document body, whitespace around
	// delimiters, trailing delimiters and redundant quoting.
	Strict bool
	// ExpandPaths selects dotted-key expansion.
	ExpandPaths PathExpansion
}

// DefaultDecoderOptions returns the documented defaults: two-space
// indent, lenient mode, expansion off.
func DefaultDecoderOptions() DecoderOptions {
	return DecoderOptions{Indent: 2}
}
