package gocalc

// Grammar, lowest binding first:
//
//	sum     = product { ("+" | "-") product }
//	product = unary { ("*" | "/") unary }
//	unary   = ("-" | "+") unary | power
//	power   = primary [ "^" unary ]
//	primary = number | ident | ident "(" [ sum { "," sum } ] ")" | "(" sum ")"
//
// "^" binds tighter than unary minus and is right-associative through the
// unary on its right, so -2^2 is -(2^2) and 2^3^2 is 2^(3^2).

type parser struct {
	toks []Token
	pos  int
}

// Parse turns text into an expression tree. Blank input yields *Empty.
// Equations must go through ParseEquation (or RootForm) first.
func Parse(text string) (Node, error) {
	toks, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(toks) == 1 {
		return &Empty{}, nil
	}
	p := &parser{toks: toks}
	n, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	switch t := p.peek(); t.Kind {
	case TokEnd:
		return n, nil
	case TokRParen:
		return nil, posError(ParseError, t.Pos, "unmatched closing parenthesis")
	default:
		return nil, posError(ParseError, t.Pos, "unexpected %s", t)
	}
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(text string) Node {
	n, err := Parse(text)
	if err != nil {
		panic("gocalc: " + err.Error())
	}
	return n
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != TokEnd {
		p.pos++
	}
	return t
}

func (p *parser) isOperator(symbols ...string) bool {
	t := p.peek()
	if t.Kind != TokOperator {
		return false
	}
	for _, s := range symbols {
		if t.Text == s {
			return true
		}
	}
	return false
}

func (p *parser) parseSum() (Node, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.isOperator("+", "-") {
		op := binaryOpsBySymbol[p.advance().Text]
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseProduct() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOperator("*", "/") {
		op := binaryOpsBySymbol[p.advance().Text]
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	switch {
	case p.isOperator("-"):
		p.advance()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NegOf(x), nil
	case p.isOperator("+"):
		p.advance()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isOperator("^") {
		return base, nil
	}
	p.advance()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return PowOf(base, exp), nil
}

func (p *parser) parsePrimary() (Node, error) {
	t := p.advance()
	switch t.Kind {
	case TokNumber:
		return N(t.Value), nil

	case TokIdent:
		if p.peek().Kind == TokLParen {
			return p.parseCall(t)
		}
		return V(t.Text), nil

	case TokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if p.peek().Kind != TokRParen {
			return nil, posError(ParseError, t.Pos, "unmatched opening parenthesis")
		}
		p.advance()
		return inner, nil

	case TokEnd:
		return nil, posError(ParseError, t.Pos, "unexpected end of input, missing operand")
	case TokOperator, TokRParen:
		return nil, posError(ParseError, t.Pos, "missing operand before %q", t.Text)
	}
	return nil, posError(ParseError, t.Pos, "unexpected %s", t)
}

func (p *parser) parseCall(name Token) (Node, error) {
	open := p.advance()
	var args []Node
	if p.peek().Kind != TokRParen {
		for {
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().Kind != TokComma {
				break
			}
			p.advance()
		}
	}
	if p.peek().Kind != TokRParen {
		return nil, posError(ParseError, open.Pos, "unmatched opening parenthesis in call to %s", name.Text)
	}
	p.advance()
	if fn, ok := functions[name.Text]; ok && !fn.accepts(len(args)) {
		return nil, posError(ParseError, name.Pos, "%s expects %s, got %d", name.Text, fn.arityText(), len(args))
	}
	return CallOf(name.Text, args...), nil
}
