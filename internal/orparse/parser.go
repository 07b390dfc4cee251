package orparse

import (
	"fmt"
	"strings"
)

// ParseError reports malformed input, with the byte offset of the construct
// that failed. It is scoped to a single record: callers skip the record and
// continue with the rest of the batch.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed input at byte %d: %s", e.Offset, e.Msg)
}

// maxDepth bounds recursive descent so adversarial nesting cannot exhaust the
// stack. Real records nest a handful of levels.
const maxDepth = 200

type parser struct {
	src string
	pos int
}

// Parse turns one raw field value into a generic tree. An empty or
// whitespace-only input yields an empty scalar.
func Parse(s string) (*Value, error) {
	p := &parser{src: s}
	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (p *parser) skipWS() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue(depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, &ParseError{Offset: p.pos, Msg: "nesting too deep"}
	}
	p.skipWS()
	if p.pos >= len(p.src) {
		return &Value{Kind: KindScalar}, nil
	}
	switch p.src[p.pos] {
	case '{':
		return p.parseMap(depth)
	case '[':
		return p.parseList(depth)
	default:
		return p.parseScalar(), nil
	}
}

func (p *parser) parseMap(depth int) (*Value, error) {
	open := p.pos
	p.pos++ // '{'
	v := &Value{Kind: KindMap}
	p.skipWS()
	if p.pos < len(p.src) && p.src[p.pos] == '}' {
		p.pos++
		return v, nil
	}
	for {
		p.skipWS()
		if p.pos >= len(p.src) {
			return nil, &ParseError{Offset: open, Msg: "unterminated map"}
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return v, nil
		}
		key := p.parseKey()
		p.skipWS()
		if p.pos >= len(p.src) {
			return nil, &ParseError{Offset: open, Msg: "unterminated map"}
		}
		switch p.src[p.pos] {
		case '=':
			p.pos++
			val, err := p.parseValue(depth + 1)
			if err != nil {
				return nil, err
			}
			v.Entries = append(v.Entries, Entry{Key: key, Value: val})
		case ';':
			// Stray separator, tolerated.
		case '}':
			// Key without a value, tolerated; closed on next iteration.
			continue
		default:
			return nil, &ParseError{Offset: p.pos, Msg: "expected '=' after map key"}
		}
		p.skipWS()
		if p.pos >= len(p.src) {
			return nil, &ParseError{Offset: open, Msg: "unterminated map"}
		}
		switch p.src[p.pos] {
		case ';':
			p.pos++
		case '}':
			p.pos++
			return v, nil
		default:
			return nil, &ParseError{Offset: p.pos, Msg: "expected ';' or '}' after map entry"}
		}
	}
}

func (p *parser) parseList(depth int) (*Value, error) {
	open := p.pos
	p.pos++ // '['
	v := &Value{Kind: KindList}
	p.skipWS()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
		return v, nil
	}
	for {
		item, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		v.Items = append(v.Items, item)
		p.skipWS()
		if p.pos >= len(p.src) {
			return nil, &ParseError{Offset: open, Msg: "unterminated list"}
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
			p.skipWS()
		case ']':
			p.pos++
			return v, nil
		default:
			return nil, &ParseError{Offset: p.pos, Msg: "expected ',' or ']' after list item"}
		}
	}
}

// parseKey reads an identifier up to '=', a separator, or a bracket.
func (p *parser) parseKey() string {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune("=;{}[]", rune(p.src[p.pos])) {
		p.pos++
	}
	return strings.TrimSpace(p.src[start:p.pos])
}

// parseScalar reads free text up to the enclosing terminator. Separators are
// ambiguous inside text ("Výroba, obchod"; "Praha 1; PSČ 11000"), so a
// candidate separator only terminates the scalar when bounded lookahead says
// the following tokens open the next structural element:
//
//   - ';' terminates only when followed by identifier '=' (next map entry)
//   - ',' terminates only when followed by '{', '[' or ']' (list boundary)
//
// Otherwise the character is folded back into the text. Brackets inside the
// text are depth-tracked so braces embedded in values do not end the scalar
// early. Leading/trailing whitespace is trimmed, interior whitespace kept.
func (p *parser) parseScalar() *Value {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			if depth > 0 {
				depth--
			} else {
				return &Value{Kind: KindScalar, Text: strings.TrimSpace(p.src[start:p.pos])}
			}
		case depth == 0 && c == ',':
			if p.listBoundaryFollows(p.pos + 1) {
				return &Value{Kind: KindScalar, Text: strings.TrimSpace(p.src[start:p.pos])}
			}
		case depth == 0 && c == ';':
			if p.mapEntryFollows(p.pos + 1) {
				return &Value{Kind: KindScalar, Text: strings.TrimSpace(p.src[start:p.pos])}
			}
		}
		p.pos++
	}
	return &Value{Kind: KindScalar, Text: strings.TrimSpace(p.src[start:p.pos])}
}

func (p *parser) listBoundaryFollows(i int) bool {
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	return i < len(p.src) && (p.src[i] == '{' || p.src[i] == '[' || p.src[i] == ']')
}

func (p *parser) mapEntryFollows(i int) bool {
	for i < len(p.src) && isSpace(p.src[i]) {
		i++
	}
	j := i
	for j < len(p.src) && isIdentChar(p.src[j]) {
		j++
	}
	return j > i && j < len(p.src) && p.src[j] == '='
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
