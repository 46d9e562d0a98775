package plist

import "github.com/deadlytoah/heartbeat2/internal/faults"

type parser struct {
	toks []token
	pos  int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() (token, bool) {
	if p.atEnd() {
		return token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseValue() (Value, error) {
	tok, ok := p.peek()
	if !ok {
		return Value{}, faults.New(faults.ConfigFormat, "unexpected end of input")
	}
	switch tok.kind {
	case tokenOpen:
		p.pos++
		var items []Value
		for {
			next, ok := p.peek()
			if !ok {
				return Value{}, faults.New(faults.ConfigFormat, "unterminated list")
			}
			if next.kind == tokenClose {
				p.pos++
				return ListValue(items), nil
			}
			v, err := p.parseValue()
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
	case tokenClose:
		return Value{}, faults.New(faults.ConfigFormat, "unexpected ')'")
	default:
		p.pos++
		return atomFromToken(tok, tok.quoted), nil
	}
}

// Parse reads a complete property-list document: a single
// top-level list whose elements are the flattened contents of that
// list. The document must consist of exactly one s-expression and
// that expression must be a list.
func Parse(data []byte) ([]Value, error) {
	toks, err := tokenize(data)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, faults.New(faults.ConfigFormat, "trailing input after top-level form")
	}
	items, err := v.List()
	if err != nil {
		return nil, faults.New(faults.ConfigFormat, "unexpected configuration format")
	}
	return items, nil
}
