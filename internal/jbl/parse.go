package jbl

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseOptions controls the RFC8259 decoder's leniency.
type ParseOptions struct {
	// AllowBareIdent permits unquoted identifiers as object keys and as
	// bareword values (true/false/null aside), for use in query contexts
	// only — never for document JSON. See spec §6.
	AllowBareIdent bool
}

// Parse decodes a single JSON value from text into a Node tree.
func Parse(text string) (*Node, error) {
	return ParseWithOptions(text, ParseOptions{})
}

// ParseWithOptions decodes text under the given options.
func ParseWithOptions(text string, opts ParseOptions) (*Node, error) {
	p := &jsonParser{input: text, opts: opts, line: 1, column: 1}
	p.skipWS()
	n, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipWS()
	if p.pos != len(p.input) {
		return nil, p.errf(KindSyntax, "trailing data after JSON value")
	}
	return n, nil
}

type jsonParser struct {
	input  string
	pos    int
	line   int
	column int
	opts   ParseOptions
}

func (p *jsonParser) errf(kind ErrorKind, format string, args ...interface{}) error {
	e := newErr(kind, format, args...)
	e.Line = p.line
	e.Column = p.column
	return e
}

func (p *jsonParser) peekByte() (byte, bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *jsonParser) advance() {
	if p.pos >= len(p.input) {
		return
	}
	if p.input[p.pos] == '\n' {
		p.line++
		p.column = 1
	} else {
		p.column++
	}
	p.pos++
}

func (p *jsonParser) skipWS() {
	for {
		b, ok := p.peekByte()
		if !ok {
			return
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			p.advance()
			continue
		}
		return
	}
}

func (p *jsonParser) parseValue() (*Node, error) {
	b, ok := p.peekByte()
	if !ok {
		return nil, p.errf(KindSyntax, "unexpected end of input")
	}
	switch {
	case b == '{':
		return p.parseObject()
	case b == '[':
		return p.parseArray()
	case b == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return NewString(s), nil
	case b == '-' || (b >= '0' && b <= '9'):
		return p.parseNumber()
	case b == 't' || b == 'f' || b == 'n':
		return p.parseKeyword()
	case p.opts.AllowBareIdent && isIdentStart(b):
		return p.parseBareword()
	default:
		return nil, p.errf(KindSyntax, "unexpected character %q", b)
	}
}

func (p *jsonParser) parseObject() (*Node, error) {
	obj := NewObject()
	p.advance() // '{'
	p.skipWS()
	if b, ok := p.peekByte(); ok && b == '}' {
		p.advance()
		return obj, nil
	}
	for {
		p.skipWS()
		var key string
		var err error
		if b, ok := p.peekByte(); ok && b == '"' {
			key, err = p.parseString()
		} else if p.opts.AllowBareIdent {
			key, err = p.parseBarewordKey()
		} else {
			return nil, p.errf(KindSyntax, "expected string key")
		}
		if err != nil {
			return nil, err
		}
		p.skipWS()
		if b, ok := p.peekByte(); !ok || b != ':' {
			return nil, p.errf(KindSyntax, "expected ':' after object key")
		}
		p.advance()
		p.skipWS()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj.Set(key, val)
		p.skipWS()
		b, ok := p.peekByte()
		if !ok {
			return nil, p.errf(KindSyntax, "unterminated object")
		}
		if b == ',' {
			p.advance()
			continue
		}
		if b == '}' {
			p.advance()
			return obj, nil
		}
		return nil, p.errf(KindSyntax, "expected ',' or '}' in object")
	}
}

func (p *jsonParser) parseArray() (*Node, error) {
	arr := NewArray()
	p.advance() // '['
	p.skipWS()
	if b, ok := p.peekByte(); ok && b == ']' {
		p.advance()
		return arr, nil
	}
	for {
		p.skipWS()
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Append(val)
		p.skipWS()
		b, ok := p.peekByte()
		if !ok {
			return nil, p.errf(KindSyntax, "unterminated array")
		}
		if b == ',' {
			p.advance()
			continue
		}
		if b == ']' {
			p.advance()
			return arr, nil
		}
		return nil, p.errf(KindSyntax, "expected ',' or ']' in array")
	}
}

func (p *jsonParser) parseString() (string, error) {
	p.advance() // opening quote
	var sb strings.Builder
	for {
		b, ok := p.peekByte()
		if !ok {
			return "", p.errf(KindSyntax, "unterminated string")
		}
		if b == '"' {
			p.advance()
			return sb.String(), nil
		}
		if b == '\\' {
			p.advance()
			esc, ok := p.peekByte()
			if !ok {
				return "", p.errf(KindSyntax, "unterminated escape sequence")
			}
			switch esc {
			case '"', '\\', '/':
				sb.WriteByte(esc)
				p.advance()
			case 'n':
				sb.WriteByte('\n')
				p.advance()
			case 't':
				sb.WriteByte('\t')
				p.advance()
			case 'r':
				sb.WriteByte('\r')
				p.advance()
			case 'b':
				sb.WriteByte('\b')
				p.advance()
			case 'f':
				sb.WriteByte('\f')
				p.advance()
			case 'u':
				p.advance()
				r, err := p.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				sb.WriteRune(r)
			default:
				return "", p.errf(KindInvalidCodepoint, "invalid escape character %q", esc)
			}
			continue
		}
		if b < 0x20 {
			return "", p.errf(KindInvalidUTF8, "control character in string")
		}
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if r == utf8.RuneError && size <= 1 {
			return "", p.errf(KindInvalidUTF8, "invalid utf8 byte in string")
		}
		for i := 0; i < size; i++ {
			p.advance()
		}
		sb.WriteRune(r)
	}
}

func (p *jsonParser) parseUnicodeEscape() (rune, error) {
	hi, err := p.readHex4()
	if err != nil {
		return 0, err
	}
	if hi >= 0xD800 && hi <= 0xDBFF {
		if p.pos+1 < len(p.input) && p.input[p.pos] == '\\' && p.input[p.pos+1] == 'u' {
			p.advance()
			p.advance()
			lo, err := p.readHex4()
			if err != nil {
				return 0, err
			}
			if lo >= 0xDC00 && lo <= 0xDFFF {
				return ((hi - 0xD800) << 10) + (lo - 0xDC00) + 0x10000, nil
			}
			return 0, p.errf(KindInvalidCodepoint, "invalid low surrogate")
		}
		return 0, p.errf(KindInvalidCodepoint, "unpaired high surrogate")
	}
	return rune(hi), nil
}

func (p *jsonParser) readHex4() (rune, error) {
	if p.pos+4 > len(p.input) {
		return 0, p.errf(KindInvalidCodepoint, "truncated \\u escape")
	}
	v, err := strconv.ParseUint(p.input[p.pos:p.pos+4], 16, 32)
	if err != nil {
		return 0, p.errf(KindInvalidCodepoint, "invalid \\u escape")
	}
	for i := 0; i < 4; i++ {
		p.advance()
	}
	return rune(v), nil
}

func (p *jsonParser) parseNumber() (*Node, error) {
	start := p.pos
	isFloat := false
	if b, ok := p.peekByte(); ok && b == '-' {
		p.advance()
	}
	for {
		b, ok := p.peekByte()
		if !ok || b < '0' || b > '9' {
			break
		}
		p.advance()
	}
	if b, ok := p.peekByte(); ok && b == '.' {
		isFloat = true
		p.advance()
		for {
			b, ok := p.peekByte()
			if !ok || b < '0' || b > '9' {
				break
			}
			p.advance()
		}
	}
	if b, ok := p.peekByte(); ok && (b == 'e' || b == 'E') {
		isFloat = true
		p.advance()
		if b, ok := p.peekByte(); ok && (b == '+' || b == '-') {
			p.advance()
		}
		for {
			b, ok := p.peekByte()
			if !ok || b < '0' || b > '9' {
				break
			}
			p.advance()
		}
	}
	text := p.input[start:p.pos]
	if text == "" || text == "-" {
		return nil, p.errf(KindSyntax, "invalid number literal")
	}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errf(KindSyntax, "invalid number literal %q", text)
		}
		return NewFloat(f), nil
	}
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return nil, p.errf(KindSyntax, "invalid number literal %q", text)
		}
		return NewFloat(f), nil
	}
	return NewInt(i), nil
}

func (p *jsonParser) parseKeyword() (*Node, error) {
	if p.opts.AllowBareIdent {
		n, err := p.parseBareword()
		if err != nil {
			return nil, err
		}
		switch n.StringValue() {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		case "null":
			return NewNull(), nil
		}
		return n, nil
	}
	for _, kw := range []struct {
		text string
		node func() *Node
	}{
		{"true", func() *Node { return NewBool(true) }},
		{"false", func() *Node { return NewBool(false) }},
		{"null", func() *Node { return NewNull() }},
	} {
		if strings.HasPrefix(p.input[p.pos:], kw.text) {
			for range kw.text {
				p.advance()
			}
			return kw.node(), nil
		}
	}
	return nil, p.errf(KindSyntax, "invalid literal")
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9') || b == '-'
}

func (p *jsonParser) parseBarewordKey() (string, error) {
	start := p.pos
	if b, ok := p.peekByte(); !ok || !isIdentStart(b) {
		return "", p.errf(KindSyntax, "expected identifier")
	}
	p.advance()
	for {
		b, ok := p.peekByte()
		if !ok || !isIdentPart(b) {
			break
		}
		p.advance()
	}
	return p.input[start:p.pos], nil
}

// parseBareword handles unquoted value positions in query contexts: the
// identifier is returned as a bare string (a field name used as a literal);
// parseKeyword maps the words true, false and null to their JSON values.
func (p *jsonParser) parseBareword() (*Node, error) {
	s, err := p.parseBarewordKey()
	if err != nil {
		return nil, err
	}
	return NewString(s), nil
}
