package lexer

// evalCondition evaluates a `#if` expression over define symbols.
// Grammar: or := and ('||' and)*; and := not ('&&' not)*;
// not := '!' not | atom; atom := ident | '(' or ')'.
func evalCondition(expr string, defines map[string]bool) (bool, bool) {
	p := condParser{src: trimSpace(expr), defines: defines, ok: true}
	if p.src == "" {
		return false, false
	}
	v := p.or()
	p.blank()
	if !p.ok || p.pos != len(p.src) {
		return false, false
	}
	return v, true
}

type condParser struct {
	src     string
	pos     int
	defines map[string]bool
	ok      bool
}

func (p *condParser) blank() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *condParser) eat(s string) bool {
	p.blank()
	if len(p.src)-p.pos >= len(s) && p.src[p.pos:p.pos+len(s)] == s {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *condParser) or() bool {
	v := p.and()
	for p.ok && p.eat("||") {
		r := p.and()
		v = v || r
	}
	return v
}

func (p *condParser) and() bool {
	v := p.not()
	for p.ok && p.eat("&&") {
		r := p.not()
		v = v && r
	}
	return v
}

func (p *condParser) not() bool {
	if p.eat("!") {
		return !p.not()
	}
	return p.atom()
}

func (p *condParser) atom() bool {
	if p.eat("(") {
		v := p.or()
		if !p.eat(")") {
			p.ok = false
		}
		return v
	}
	p.blank()
	start := p.pos
	for p.pos < len(p.src) && isIdentContinueByte(p.src[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		p.ok = false
		return false
	}
	return p.defines[p.src[start:p.pos]]
}
