package toon

import (
	"math"
	"strconv"
	"strings"
)

// parser is a recursive-descent driver over scanned lines. Every parse
// function leaves the cursor on the first line it did not consume.
type parser struct {
	lines []line
	cur   int
	opts  DecoderOptions
}

// arrayHeader is the parsed left-hand side of an array line:
// key[N]:, key[N f1,f2]:, with an optional delimiter marker between
// "]" and ":" and an optional inline payload after the colon.
type arrayHeader struct {
	key         string
	hasKey      bool
	quotedKey   bool
	length      int
	delim       Delimiter
	fields      []string
	fieldQuoted []bool
	inline      string
	num         int
}

func decodeString(input string, opts DecoderOptions) (*Node, error) {
	if opts.Indent <= 0 {
		return nil, newError(Custom, "indent must be positive, got %d", opts.Indent)
	}
	scanned, err := scan(input, opts)
	if err != nil {
		return nil, err
	}
	var lines []line
	for _, l := range scanned {
		if l.kind == commentLine {
			if opts.Strict {
				return nil, newError(InvalidSyntax, "comment line").at(l.num, 1)
			}
			continue
		}
		lines = append(lines, l)
	}
	p := &parser{lines: lines, opts: opts}
	return p.parseDocument()
}

func (p *parser) parseDocument() (*Node, error) {
	if err := p.skipBlanks(); err != nil {
		return nil, err
	}
	if p.cur >= len(p.lines) {
		return ObjectNode(), nil
	}
	first := p.lines[p.cur]
	if first.depth != 0 {
		return nil, newError(IndentationError, "first line must not be indented").at(first.num, 1)
	}
	if first.kind == separatorLine {
		return nil, newError(InvalidSyntax, "unexpected '---'").at(first.num, 1)
	}

	h, isHeader, err := p.parseArrayHeader(first)
	if err != nil {
		return nil, err
	}
	var root *Node
	switch {
	case isHeader && !h.hasKey:
		p.cur++
		root, err = p.parseArrayValue(h, 0)
	case isHeader || indexUnquoted(first.text, ':', 0) >= 0:
		root, err = p.parseObjectAt(0)
	default:
		root, err = p.parsePrimitive(first.text, first.num)
		p.cur++
	}
	if err != nil {
		return nil, err
	}
	if err := p.skipBlanks(); err != nil {
		return nil, err
	}
	if p.cur < len(p.lines) {
		l := p.lines[p.cur]
		return nil, newError(InvalidSyntax, "unexpected content after document root").at(l.num, 1)
	}
	return root, nil
}

// skipBlanks skips blank lines in object and root scope. In strict mode
// a blank line followed by further content is rejected.
func (p *parser) skipBlanks() error {
	for p.cur < len(p.lines) && p.lines[p.cur].kind == blankLine {
		if p.opts.Strict {
			for j := p.cur + 1; j < len(p.lines); j++ {
				if p.lines[j].kind != blankLine {
					return newError(InvalidSyntax, "blank line in document body").at(p.lines[p.cur].num, 1)
				}
			}
		}
		p.cur++
	}
	return nil
}

// skipArrayBlanks skips blanks while inside an array body. A blank line
// followed by more content at the array's item depth is an error in
// every mode; in strict mode a blank line followed by any further
// content is rejected.
func (p *parser) skipArrayBlanks(itemDepth int) error {
	for p.cur < len(p.lines) && p.lines[p.cur].kind == blankLine {
		bl := p.lines[p.cur]
		j := p.cur + 1
		for j < len(p.lines) && p.lines[j].kind == blankLine {
			j++
		}
		if j < len(p.lines) && p.lines[j].depth >= itemDepth {
			return newError(BlankLineInArray, "blank line inside array").at(bl.num, 1)
		}
		if j < len(p.lines) && p.opts.Strict {
			return newError(InvalidSyntax, "blank line in document body").at(bl.num, 1)
		}
		p.cur = j
	}
	return nil
}

// parseObjectAt consumes consecutive field lines at the given depth.
func (p *parser) parseObjectAt(depth int) (*Node, error) {
	var members []Member
	for {
		if err := p.skipBlanks(); err != nil {
			return nil, err
		}
		if p.cur >= len(p.lines) {
			break
		}
		l := p.lines[p.cur]
		if l.depth < depth || (l.depth == depth && l.kind == separatorLine) {
			break
		}
		if l.depth > depth {
			return nil, newError(IndentationError, "unexpected indent").at(l.num, l.depth*p.opts.Indent)
		}

		h, isHeader, err := p.parseArrayHeader(l)
		if err != nil {
			return nil, err
		}
		var key string
		var quoted bool
		var val *Node
		if isHeader {
			if !h.hasKey {
				return nil, newError(InvalidSyntax, "array header requires a key here").at(l.num, 1)
			}
			key, quoted = h.key, h.quotedKey
			p.cur++
			val, err = p.parseArrayValue(h, depth)
			if err != nil {
				return nil, err
			}
		} else {
			var raw string
			key, quoted, raw, err = p.parseKeyValue(l)
			if err != nil {
				return nil, err
			}
			p.cur++
			if raw == "" {
				val, err = p.parseBlockValue(depth, l.num)
			} else {
				val, err = p.parsePrimitive(raw, l.num)
			}
			if err != nil {
				return nil, err
			}
		}
		members, err = p.insertMember(members, key, quoted, *val, l.num)
		if err != nil {
			return nil, err
		}
	}
	return ObjectNode(members...), nil
}

// parseBlockValue handles a field written as "key:" with its value in
// the indented block below, which must be an object (arrays need an
// explicit header). No block at all yields the empty object.
func (p *parser) parseBlockValue(depth, num int) (*Node, error) {
	if err := p.skipBlanks(); err != nil {
		return nil, err
	}
	if p.cur >= len(p.lines) || p.lines[p.cur].depth <= depth {
		return ObjectNode(), nil
	}
	if p.lines[p.cur].depth != depth+1 {
		l := p.lines[p.cur]
		return nil, newError(IndentationError, "unexpected indent").at(l.num, l.depth*p.opts.Indent)
	}
	return p.parseObjectAt(depth + 1)
}

// parseArrayValue consumes the value of an already-parsed array header.
// The cursor stands on the line after the header.
func (p *parser) parseArrayValue(h *arrayHeader, headerDepth int) (*Node, error) {
	if h.inline != "" {
		if h.fields != nil {
			return nil, newError(InvalidHeader, "tabular array requires block rows").at(h.num, 1)
		}
		cells, err := p.splitDelimited(h.inline, h.delim, h.num)
		if err != nil {
			return nil, err
		}
		if len(cells) != h.length {
			return nil, newError(CountMismatch,
				"declared %d elements, found %d", h.length, len(cells)).at(h.num, 1)
		}
		elems := make([]Node, 0, len(cells))
		for _, c := range cells {
			n, err := p.parsePrimitive(c, h.num)
			if err != nil {
				return nil, err
			}
			elems = append(elems, *n)
		}
		return ArrayNode(elems...), nil
	}
	itemDepth := headerDepth + 1
	if h.fields != nil {
		return p.parseTabular(h, itemDepth)
	}
	return p.parseListArray(h, itemDepth)
}

// parseTabular consumes the rows of a field-list array. Every row is a
// delimited tuple of exactly the declared width.
func (p *parser) parseTabular(h *arrayHeader, itemDepth int) (*Node, error) {
	var rows []Node
	for {
		if err := p.skipArrayBlanks(itemDepth); err != nil {
			return nil, err
		}
		if p.cur >= len(p.lines) {
			break
		}
		l := p.lines[p.cur]
		if l.depth < itemDepth {
			break
		}
		if l.depth > itemDepth {
			return nil, newError(IndentationError, "unexpected indent").at(l.num, l.depth*p.opts.Indent)
		}
		if l.kind == separatorLine {
			return nil, newError(InvalidSyntax, "'---' inside tabular array").at(l.num, 1)
		}
		cells, err := p.splitDelimited(l.text, h.delim, l.num)
		if err != nil {
			return nil, err
		}
		if len(cells) != len(h.fields) {
			if len(cells) == 1 && len(h.fields) > 1 && containsOtherDelim(l.text, h.delim) {
				return nil, newError(DelimiterMismatch,
					"row does not use the %s delimiter", h.delim).at(l.num, 1)
			}
			return nil, newError(WidthMismatch,
				"expected %d fields, got %d", len(h.fields), len(cells)).at(l.num, 1)
		}
		var mm []Member
		for i, c := range cells {
			n, err := p.parsePrimitive(c, l.num)
			if err != nil {
				return nil, err
			}
			mm, err = p.insertMember(mm, h.fields[i], h.fieldQuoted[i], *n, l.num)
			if err != nil {
				return nil, err
			}
		}
		rows = append(rows, *ObjectNode(mm...))
		p.cur++
	}
	if len(rows) != h.length {
		return nil, newError(CountMismatch,
			"declared %d rows, found %d", h.length, len(rows)).at(h.num, 1)
	}
	return ArrayNode(rows...), nil
}

// parseListArray consumes block-form elements: scalars, keyless nested
// array headers, and objects built from consecutive field lines. A line
// of exactly "---" ends the current object element; standing alone it
// denotes an empty object element.
func (p *parser) parseListArray(h *arrayHeader, itemDepth int) (*Node, error) {
	var items []Node
	var cur []Member
	objOpen := false
	closeObj := func() {
		if objOpen {
			items = append(items, *ObjectNode(cur...))
			cur, objOpen = nil, false
		}
	}
	for {
		if err := p.skipArrayBlanks(itemDepth); err != nil {
			return nil, err
		}
		if p.cur >= len(p.lines) {
			break
		}
		l := p.lines[p.cur]
		if l.depth < itemDepth {
			break
		}
		if l.depth > itemDepth {
			return nil, newError(IndentationError, "unexpected indent").at(l.num, l.depth*p.opts.Indent)
		}
		if l.kind == separatorLine {
			if objOpen {
				closeObj()
			} else {
				items = append(items, *ObjectNode())
			}
			p.cur++
			continue
		}

		hh, isHeader, err := p.parseArrayHeader(l)
		if err != nil {
			return nil, err
		}
		if isHeader && !hh.hasKey {
			closeObj()
			p.cur++
			n, err := p.parseArrayValue(hh, itemDepth)
			if err != nil {
				return nil, err
			}
			items = append(items, *n)
			continue
		}
		if isHeader || indexUnquoted(l.text, ':', 0) >= 0 {
			if !objOpen {
				objOpen, cur = true, nil
			}
			var key string
			var quoted bool
			var val *Node
			if isHeader {
				key, quoted = hh.key, hh.quotedKey
				p.cur++
				val, err = p.parseArrayValue(hh, itemDepth)
			} else {
				var raw string
				key, quoted, raw, err = p.parseKeyValue(l)
				if err != nil {
					return nil, err
				}
				p.cur++
				if raw == "" {
					val, err = p.parseBlockValue(itemDepth, l.num)
				} else {
					val, err = p.parsePrimitive(raw, l.num)
				}
			}
			if err != nil {
				return nil, err
			}
			cur, err = p.insertMember(cur, key, quoted, *val, l.num)
			if err != nil {
				return nil, err
			}
			continue
		}

		closeObj()
		n, err := p.parsePrimitive(l.text, l.num)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
		p.cur++
	}
	closeObj()
	if len(items) != h.length {
		return nil, newError(CountMismatch,
			"declared %d elements, found %d", h.length, len(items)).at(h.num, 1)
	}
	return ArrayNode(items...), nil
}

// parseKeyValue splits a field line at its first unquoted colon.
func (p *parser) parseKeyValue(l line) (key string, quoted bool, value string, err error) {
	co := indexUnquoted(l.text, ':', 0)
	if co < 0 {
		return "", false, "", newError(MissingColon, "missing colon after key").at(l.num, 1)
	}
	rawKey := strings.TrimSpace(l.text[:co])
	if rawKey == "" {
		return "", false, "", newError(InvalidSyntax, "empty key").at(l.num, 1)
	}
	key, quoted, err = p.unquoteCell(rawKey, l.num)
	if err != nil {
		return "", false, "", err
	}
	if quoted && p.opts.Strict && !keyNeedsQuote(key) {
		return "", false, "", newError(InvalidSyntax, "redundant quoting of key %q", key).at(l.num, 1)
	}
	return key, quoted, strings.TrimSpace(l.text[co+1:]), nil
}

// parseArrayHeader reports whether l is an array line and parses its
// header. A header exists when the first unquoted '[' comes before the
// first unquoted ':'.
func (p *parser) parseArrayHeader(l line) (*arrayHeader, bool, error) {
	text := l.text
	br := indexUnquoted(text, '[', 0)
	if br < 0 {
		return nil, false, nil
	}
	if co := indexUnquoted(text, ':', 0); co >= 0 && co < br {
		return nil, false, nil
	}
	cb := indexUnquoted(text, ']', br+1)
	if cb < 0 {
		return nil, false, newError(InvalidHeader, "missing ']' in array header").at(l.num, br+1)
	}

	h := &arrayHeader{num: l.num}
	rest := text[cb+1:]
	switch {
	case strings.HasPrefix(rest, "|"):
		h.delim = Pipe
		rest = rest[1:]
	case strings.HasPrefix(rest, "\t"):
		h.delim = Tab
		rest = rest[1:]
	}
	if !strings.HasPrefix(rest, ":") {
		return nil, false, newError(InvalidHeader, "expected ':' after array header").at(l.num, cb+2)
	}
	h.inline = strings.TrimSpace(rest[1:])

	if br > 0 {
		rawKey := strings.TrimSpace(text[:br])
		key, quoted, err := p.unquoteCell(rawKey, l.num)
		if err != nil {
			return nil, false, err
		}
		if quoted && p.opts.Strict && !keyNeedsQuote(key) {
			return nil, false, newError(InvalidSyntax, "redundant quoting of key %q", key).at(l.num, 1)
		}
		h.key, h.quotedKey, h.hasKey = key, quoted, true
	}

	content := text[br+1 : cb]
	numPart, fieldsPart := content, ""
	if sp := strings.IndexByte(content, ' '); sp >= 0 {
		numPart, fieldsPart = content[:sp], content[sp+1:]
	}
	length, err := strconv.Atoi(numPart)
	if err != nil || length < 0 {
		return nil, false, newError(InvalidHeader, "invalid array length %q", numPart).at(l.num, br+2)
	}
	h.length = length

	if fieldsPart != "" {
		cells, err := p.splitDelimited(fieldsPart, h.delim, l.num)
		if err != nil {
			return nil, false, err
		}
		for _, c := range cells {
			if c == "" {
				return nil, false, newError(InvalidHeader, "empty field name").at(l.num, br+2)
			}
			field, quoted, err := p.unquoteCell(c, l.num)
			if err != nil {
				return nil, false, err
			}
			if quoted && p.opts.Strict && !keyNeedsQuote(field) {
				return nil, false, newError(InvalidSyntax, "redundant quoting of field %q", field).at(l.num, 1)
			}
			for _, seen := range h.fields {
				if seen == field {
					return nil, false, newError(InvalidHeader, "duplicate field %q", field).at(l.num, br+2)
				}
			}
			h.fields = append(h.fields, field)
			h.fieldQuoted = append(h.fieldQuoted, quoted)
		}
	}
	return h, true, nil
}

// unquoteCell undoes one optional level of double quoting. The closing
// quote must terminate the cell.
func (p *parser) unquoteCell(cell string, num int) (string, bool, error) {
	if cell == "" || cell[0] != '"' {
		return cell, false, nil
	}
	esc := false
	for i := 1; i < len(cell); i++ {
		c := cell[i]
		if esc {
			esc = false
			continue
		}
		if c == '\\' {
			esc = true
			continue
		}
		if c == '"' {
			if i != len(cell)-1 {
				return "", false, newError(InvalidSyntax,
					"unexpected content after closing quote").at(num, 1)
			}
			s, err := unescapeString(cell[1:i], num, 1)
			if err != nil {
				return "", false, err
			}
			return s, true, nil
		}
	}
	return "", false, newError(UnterminatedString, "unterminated string").at(num, 1)
}

// parsePrimitive evaluates cell text in the fixed scalar order: null,
// bool, quoted string, number, bare string.
func (p *parser) parsePrimitive(cell string, num int) (*Node, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return StringNode(""), nil
	}
	s, quoted, err := p.unquoteCell(cell, num)
	if err != nil {
		return nil, err
	}
	if quoted {
		if p.opts.Strict && !needsQuote(s) {
			return nil, newError(InvalidSyntax, "redundant quoting of %q", s).at(num, 1)
		}
		return StringNode(s), nil
	}
	switch s {
	case "null":
		return NullNode(), nil
	case "true":
		return BoolNode(true), nil
	case "false":
		return BoolNode(false), nil
	}
	if looksLikeNumber(s) && !hasLeadingZeros(s) {
		if n, ok := parseNumber(s); ok {
			return n, nil
		}
	}
	if p.opts.Strict && strings.ContainsAny(s, ",|\t") {
		return nil, newError(InvalidSyntax, "bare string %q requires quoting", s).at(num, 1)
	}
	return StringNode(s), nil
}

// parseNumber converts number-shaped text. Values outside the int64,
// uint64 and float64 ranges are not numbers; the caller falls back to a
// bare string.
func parseNumber(s string) (*Node, bool) {
	if !strings.ContainsAny(s, ".eE") {
		if s[0] == '-' {
			i, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, false
			}
			return IntNode(i), true
		}
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, false
		}
		if u <= math.MaxInt64 {
			return IntNode(int64(u)), true
		}
		return UintNode(u), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return nil, false
	}
	return FloatNode(f), true
}

// splitDelimited splits on unquoted occurrences of the active delimiter
// and trims the cells. Strict mode rejects whitespace around the
// delimiter and a trailing delimiter.
func (p *parser) splitDelimited(s string, delim Delimiter, num int) ([]string, error) {
	d := delim.byte()
	var cells []string
	start := 0
	inQuotes, esc := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if esc {
			esc = false
			continue
		}
		if c == '\\' && inQuotes {
			esc = true
			continue
		}
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if c == d && !inQuotes {
			cells = append(cells, s[start:i])
			start = i + 1
		}
	}
	if inQuotes {
		return nil, newError(UnterminatedString, "unterminated string").at(num, start+1)
	}
	cells = append(cells, s[start:])
	for i, c := range cells {
		t := c
		if delim != Tab {
			t = strings.TrimSpace(c)
		} else {
			t = strings.Trim(c, " ")
		}
		if p.opts.Strict && t != c {
			return nil, newError(InvalidSyntax, "whitespace around delimiter").at(num, 1)
		}
		cells[i] = t
	}
	if p.opts.Strict && len(cells) > 1 && cells[len(cells)-1] == "" {
		return nil, newError(InvalidSyntax, "trailing delimiter").at(num, len(s))
	}
	return cells, nil
}

// insertMember appends a decoded member, enforcing key uniqueness and
// applying safe path expansion when enabled. Quoted keys never expand.
func (p *parser) insertMember(members []Member, key string, quoted bool, n Node, num int) ([]Member, error) {
	if p.opts.ExpandPaths == ExpandSafe && !quoted && strings.Contains(key, ".") {
		segs := strings.Split(key, ".")
		expandable := true
		for _, s := range segs {
			if keyNeedsQuote(s) {
				expandable = false
				break
			}
		}
		if expandable {
			return p.mergePath(members, segs, n, num)
		}
	}
	for _, m := range members {
		if m.Key == key {
			return nil, newError(InvalidSyntax, "duplicate key %q", key).at(num, 1)
		}
	}
	return append(members, Member{Key: key, Node: n}), nil
}

func (p *parser) mergePath(members []Member, segs []string, n Node, num int) ([]Member, error) {
	if len(segs) == 1 {
		for _, m := range members {
			if m.Key == segs[0] {
				return nil, newError(ExpansionConflict,
					"path expansion collides at %q", segs[0]).at(num, 1)
			}
		}
		return append(members, Member{Key: segs[0], Node: n}), nil
	}
	for i := range members {
		if members[i].Key == segs[0] {
			if members[i].kind != Object {
				return nil, newError(ExpansionConflict,
					"path expansion collides at %q", segs[0]).at(num, 1)
			}
			inner, err := p.mergePath(members[i].value.([]Member), segs[1:], n, num)
			if err != nil {
				return nil, err
			}
			members[i].value = inner
			return members, nil
		}
	}
	inner, err := p.mergePath(nil, segs[1:], n, num)
	if err != nil {
		return nil, err
	}
	return append(members, Member{Key: segs[0], Node: Node{kind: Object, value: inner}}), nil
}

// indexUnquoted returns the index of the first unquoted occurrence of b
// at or after start, or -1.
func indexUnquoted(s string, b byte, start int) int {
	inQuotes, esc := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if esc {
			esc = false
			continue
		}
		if c == '\\' && inQuotes {
			esc = true
			continue
		}
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if i >= start && !inQuotes && c == b {
			return i
		}
	}
	return -1
}

func containsOtherDelim(s string, d Delimiter) bool {
	for _, c := range []byte{',', '|', '\t'} {
		if c == d.byte() {
			continue
		}
		if indexUnquoted(s, c, 0) >= 0 {
			return true
		}
	}
	return false
}
