package gocalc

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const eof rune = -1

type lexer struct {
	input      string
	offset     int // bytes of leading whitespace trimmed from the caller's text
	start, pos int
	width      int
}

// Tokenize scans text into tokens, always terminated by a TokEnd token.
// Surrounding whitespace is trimmed and decimal commas are normalized first,
// see normalizeDecimalCommas.
func Tokenize(text string) ([]Token, error) {
	trimmed := strings.TrimSpace(text)
	l := &lexer{
		input:  normalizeDecimalCommas(trimmed),
		offset: strings.Index(text, trimmed),
	}
	var toks []Token
	for {
		t, err := l.scan()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.Kind == TokEnd {
			return toks, nil
		}
	}
}

// normalizeDecimalCommas turns "3,5" into "3.5". Only commas between two
// digits at parenthesis depth zero are rewritten: inside parentheses the
// comma separates call arguments.
func normalizeDecimalCommas(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	b := []byte(s)
	depth := 0
	for i, c := range b {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 && i > 0 && i+1 < len(b) && isDigit(rune(b[i-1])) && isDigit(rune(b[i+1])) {
				b[i] = '.'
			}
		}
	}
	return string(b)
}

func (l *lexer) scan() (Token, error) {
	for unicode.IsSpace(l.peek()) {
		l.next()
	}
	l.ignore()

	ru := l.next()
	switch {
	case ru == eof:
		return Token{Kind: TokEnd, Pos: l.at(l.start)}, nil
	case isDigit(ru), ru == '.' && isDigit(l.peek()):
		l.backup()
		return l.scanNumber()
	case isIdentStart(ru):
		for isIdentPart(l.peek()) {
			l.next()
		}
		return l.emit(TokIdent), nil
	case strings.ContainsRune("+-*/^", ru):
		return l.emit(TokOperator), nil
	case ru == '(':
		return l.emit(TokLParen), nil
	case ru == ')':
		return l.emit(TokRParen), nil
	case ru == ',':
		return l.emit(TokComma), nil
	case ru == '=':
		return Token{}, posError(ParseError, l.at(l.start), "unexpected '=', equations must be rewritten to root form")
	}
	return Token{}, posError(LexError, l.at(l.start), "unexpected character %q", ru)
}

func (l *lexer) scanNumber() (Token, error) {
	l.acceptRun(isDigit)
	if l.accept(".") {
		l.acceptRun(isDigit)
	}
	// An exponent needs at least one digit, so "2e" stays a number followed
	// by the identifier e.
	if r := l.peek(); r == 'e' || r == 'E' {
		mark, width := l.pos, l.width
		l.next()
		l.accept("+-")
		if isDigit(l.peek()) {
			l.acceptRun(isDigit)
		} else {
			l.pos, l.width = mark, width
		}
	}
	t := l.emit(TokNumber)
	v, err := strconv.ParseFloat(t.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Token{}, posError(LexError, t.Pos, "bad number syntax %q", t.Text)
	}
	t.Value = v
	return t, nil
}

func (l *lexer) emit(kind TokenKind) Token {
	t := Token{Kind: kind, Text: l.input[l.start:l.pos], Pos: l.at(l.start)}
	l.ignore()
	return t
}

// at maps an offset in the trimmed input back to the caller's text.
func (l *lexer) at(p int) int { return l.offset + p }

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	var ru rune
	ru, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return ru
}

func (l *lexer) backup() { l.pos -= l.width }

func (l *lexer) peek() rune {
	ru := l.next()
	l.backup()
	return ru
}

func (l *lexer) ignore() { l.start = l.pos }

func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid func(rune) bool) {
	for valid(l.next()) {
	}
	l.backup()
}

func isDigit(r rune) bool      { return r >= '0' && r <= '9' }
func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return isIdentStart(r) || unicode.IsDigit(r) }
