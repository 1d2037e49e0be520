package toon

import (
	"strings"
	"unicode/utf8"
)

// lineKind classifies one logical line of input.
type lineKind uint8

const (
	blankLine lineKind = iota
	commentLine
	separatorLine
	payloadLine
)

// String generates a readable form of a lineKind meant for debugging.
func (k lineKind) String() string {
	switch k {
	case blankLine:
		return "blank"
	case commentLine:
		return "comment"
	case separatorLine:
		return "'---'"
	case payloadLine:
		return "payload"
	default:
		return "unknown"
	}
}

// line is one scanned input line with its indent level measured in
// units of the configured indent.
type line struct {
	kind  lineKind
	depth int
	text  string // content with the leading indent stripped
	num   int    // 1-based source line
}

// scan splits input into classified lines. It accepts LF or CRLF
// terminators, forbids tabs in leading position and requires the
// leading-space count of every non-blank line to be an exact multiple
// of the indent unit.
func scan(input string, opts DecoderOptions) ([]line, error) {
	if !utf8.ValidString(input) {
		return nil, newError(InvalidSyntax, "input is not valid UTF-8")
	}
	if strings.HasPrefix(input, "\ufeff") {
		return nil, newError(InvalidSyntax, "input carries a byte order mark").at(1, 1)
	}

	var lines []line
	for num, raw := 1, input; raw != ""; num++ {
		s := raw
		if i := strings.IndexByte(raw, '\n'); i >= 0 {
			s, raw = raw[:i], raw[i+1:]
		} else {
			raw = ""
		}
		s = strings.TrimSuffix(s, "\r")

		spaces := 0
		for spaces < len(s) && s[spaces] == ' ' {
			spaces++
		}
		rest := s[spaces:]
		if rest == "" {
			lines = append(lines, line{kind: blankLine, num: num})
			continue
		}
		if rest[0] == '\t' {
			return nil, newError(IndentationError, "tab in indentation").at(num, spaces+1)
		}
		if spaces%opts.Indent != 0 {
			return nil, newError(IndentationError,
				"indent of %d is not a multiple of %d", spaces, opts.Indent).at(num, 1)
		}

		l := line{kind: payloadLine, depth: spaces / opts.Indent, text: rest, num: num}
		switch {
		case rest[0] == '#':
			l.kind = commentLine
		case rest == "---":
			l.kind = separatorLine
		}
		lines = append(lines, l)
	}
	return lines, nil
}
