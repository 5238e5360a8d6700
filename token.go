package gocalc

import "fmt"

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokNumber TokenKind = iota
	TokIdent
	TokOperator
	TokLParen
	TokRParen
	TokComma
	TokEnd
)

var tokenKindNames = map[TokenKind]string{
	TokNumber:   "number",
	TokIdent:    "identifier",
	TokOperator: "operator",
	TokLParen:   "(",
	TokRParen:   ")",
	TokComma:    ",",
	TokEnd:      "end of input",
}

func (k TokenKind) String() string { return tokenKindNames[k] }

// Token is one lexical unit. Value is set for numbers only; Pos is the byte
// offset of the token in the normalized input.
type Token struct {
	Kind  TokenKind
	Text  string
	Value float64
	Pos   int
}

func (t Token) String() string {
	switch t.Kind {
	case TokEnd:
		return t.Kind.String()
	case TokNumber, TokIdent, TokOperator:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
	return fmt.Sprintf("%q", t.Text)
}
