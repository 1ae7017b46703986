package schema

import (
	"errors"
	"fmt"
	"strings"
)

var errNotList = errors.New("not a list literal")

// FormatList renders values the way the flight_dates column stores them:
// ['2025-06-01', '2025-07-10'].
func FormatList(values []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(v))
	}
	b.WriteByte(']')
	return b.String()
}

func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// ParseList reads a list literal of quoted strings, e.g. ['a', "b",].
func ParseList(s string) ([]string, error) {
	p := listParser{src: strings.TrimSpace(s)}
	return p.parse()
}

type listParser struct {
	src string
	pos int
}

func (p *listParser) parse() ([]string, error) {
	if !p.consume('[') {
		return nil, errNotList
	}

	values := []string{}
	for {
		p.skipSpace()
		if p.consume(']') {
			break
		}
		v, err := p.str()
		if err != nil {
			return nil, err
		}
		values = append(values, v)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			break
		}
		return nil, fmt.Errorf("unexpected character at %d", p.pos)
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing data at %d", p.pos)
	}
	return values, nil
}

func (p *listParser) str() (string, error) {
	if p.pos >= len(p.src) {
		return "", errNotList
	}
	q := p.src[p.pos]
	if q != '\'' && q != '"' {
		return "", fmt.Errorf("expected quoted string at %d", p.pos)
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case q:
			return b.String(), nil
		case '\\':
			if p.pos >= len(p.src) {
				return "", errNotList
			}
			e := p.src[p.pos]
			p.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("unterminated string")
}

func (p *listParser) skipSpace() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *listParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}
