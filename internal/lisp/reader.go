package lisp

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

type eofObject struct{}

func (eofObject) String() string { return "#<eof-object>" }

// EOF is returned by InPort.Read when the input is exhausted.
var EOF Value = eofObject{}

var quotes = map[string]Symbol{
	"'":  symQuote,
	"`":  symQuasiquote,
	",":  symUnquote,
	",@": symUnquoteSplicing,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokPunct
	tokString
	tokAtom
)

type token struct {
	kind tokenKind
	text string
}

// InPort reads expressions one at a time from a line-oriented stream.
// It never reads past the line holding the end of the current expression,
// so a blocking reader is only consulted when another token is needed.
type InPort struct {
	r    *bufio.Reader
	line string
	done bool
}

// NewInPort wraps r.
func NewInPort(r io.Reader) *InPort {
	return &InPort{r: bufio.NewReader(r)}
}

// Read returns the next expression, or EOF when the stream is exhausted.
// Malformed input yields a ParseError and the rest of the offending line is
// discarded, so reading resumes on the next line. Errors of the underlying
// reader are returned as is.
func (p *InPort) Read() (Value, error) {
	tok, err := p.next()
	if err != nil {
		return nil, p.fail(err)
	}
	if tok.kind == tokEOF {
		return EOF, nil
	}
	x, err := p.read(tok)
	if err != nil {
		return nil, p.fail(err)
	}
	return x, nil
}

func (p *InPort) fail(err error) error {
	var le *Error
	if errors.As(err, &le) && le.Kind == ParseError {
		p.line = ""
	}
	return err
}

func (p *InPort) read(tok token) (Value, error) {
	switch tok.kind {
	case tokEOF:
		return nil, Errorf(ParseError, "unexpected EOF")
	case tokString:
		return tok.text, nil
	case tokAtom:
		return atom(tok.text), nil
	}

	switch tok.text {
	case "(":
		list := []Value{}
		for {
			t, err := p.next()
			if err != nil {
				return nil, err
			}
			switch {
			case t.kind == tokEOF:
				return nil, Errorf(ParseError, "unexpected EOF in list")
			case t.kind == tokPunct && t.text == ")":
				return list, nil
			}
			x, err := p.read(t)
			if err != nil {
				return nil, err
			}
			list = append(list, x)
		}
	case ")":
		return nil, Errorf(ParseError, "unexpected )")
	}

	t, err := p.next()
	if err != nil {
		return nil, err
	}
	if t.kind == tokEOF {
		return nil, Errorf(ParseError, "unexpected EOF after %s", tok.text)
	}
	x, err := p.read(t)
	if err != nil {
		return nil, err
	}
	return []Value{quotes[tok.text], x}, nil
}

func (p *InPort) next() (token, error) {
	for {
		if p.line == "" {
			if p.done {
				return token{kind: tokEOF}, nil
			}
			line, err := p.r.ReadString('\n')
			if err != nil {
				if !errors.Is(err, io.EOF) {
					return token{}, err
				}
				p.done = true
			}
			p.line = line
		}
		p.line = strings.TrimLeft(p.line, " \t\r\n\f\v")
		if p.line == "" {
			continue
		}

		switch c := p.line[0]; {
		case strings.HasPrefix(p.line, ",@"):
			p.line = p.line[2:]
			return token{kind: tokPunct, text: ",@"}, nil
		case strings.IndexByte("()'`,", c) >= 0:
			p.line = p.line[1:]
			return token{kind: tokPunct, text: string(c)}, nil
		case c == ';':
			p.line = ""
		case c == '"':
			return p.stringToken()
		default:
			end := strings.IndexAny(p.line, " \t\r\n\f\v()'\"`,;")
			if end < 0 {
				end = len(p.line)
			}
			text := p.line[:end]
			p.line = p.line[end:]
			return token{kind: tokAtom, text: text}, nil
		}
	}
}

func (p *InPort) stringToken() (token, error) {
	for i := 1; i < len(p.line); i++ {
		switch p.line[i] {
		case '\\':
			i++
		case '"':
			lit := p.line[:i+1]
			p.line = p.line[i+1:]
			s, err := strconv.Unquote(lit)
			if err != nil {
				return token{}, Errorf(ParseError, "bad string literal %s", lit)
			}
			return token{kind: tokString, text: s}, nil
		}
	}
	lit := strings.TrimRight(p.line, "\r\n")
	p.line = ""
	return token{}, Errorf(ParseError, "unterminated string %s", lit)
}

func atom(text string) Value {
	switch text {
	case "#t":
		return true
	case "#f":
		return false
	}
	if looksNumeric(text) {
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return n
		}
	}
	return Symbol(text)
}

// looksNumeric keeps words like "inf" and "nan" symbols.
func looksNumeric(text string) bool {
	s := strings.TrimLeft(text, "+-")
	s = strings.TrimPrefix(s, ".")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// Parse reads exactly one expression from src.
func Parse(src string) (Value, error) {
	p := NewInPort(strings.NewReader(src))
	x, err := p.Read()
	if err != nil {
		return nil, err
	}
	if x == EOF {
		return nil, Errorf(ParseError, "no expression in input")
	}
	return x, nil
}
