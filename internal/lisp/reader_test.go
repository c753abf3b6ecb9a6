package lisp

import (
	"errors"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "integer", src: "42", want: "42"},
		{name: "float", src: "2.5", want: "2.5"},
		{name: "negative", src: "-3", want: "-3"},
		{name: "symbol", src: "find-elem", want: "find-elem"},
		{name: "inf stays a symbol", src: "inf", want: "inf"},
		{name: "booleans", src: "(#t #f)", want: "(#t #f)"},
		{name: "string with escapes", src: `"a\"b\n"`, want: `"a\"b\n"`},
		{name: "nested list", src: "(a (b c) ())", want: "(a (b c) ())"},
		{name: "quote", src: "'x", want: "(quote x)"},
		{name: "quasiquote family", src: "`(a ,b ,@c)", want: "(quasiquote (a (unquote b) (unquote-splicing c)))"},
		{name: "comment skipped", src: "; hello\n(+ 1 2) ; trailing", want: "(+ 1 2)"},
		{name: "multi-line", src: "(begin\n  1\n  2)", want: "(begin 1 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.src, err)
			}
			if String(got) != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.src, String(got), tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{name: "stray close", src: ")", wantMsg: "unexpected )"},
		{name: "unterminated list", src: "(a b", wantMsg: "unexpected EOF in list"},
		{name: "dangling quote", src: "'", wantMsg: "unexpected EOF after '"},
		{name: "unterminated string", src: `"abc`, wantMsg: "unterminated string"},
		{name: "empty input", src: "   ", wantMsg: "no expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", tt.src)
			}
			if KindOf(err) != string(ParseError) {
				t.Errorf("KindOf() = %q, want %q", KindOf(err), ParseError)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestInPort_ReadsOneExpressionAtATime(t *testing.T) {
	p := NewInPort(strings.NewReader("(a) b\n)\n\"c\""))

	first, err := p.Read()
	if err != nil || String(first) != "(a)" {
		t.Fatalf("first Read() = %v, %v; want (a)", first, err)
	}
	second, err := p.Read()
	if err != nil || second != Symbol("b") {
		t.Fatalf("second Read() = %v, %v; want b", second, err)
	}
	if _, err := p.Read(); err == nil {
		t.Fatal("third Read() expected a parse error")
	}
	fourth, err := p.Read()
	if err != nil || fourth != "c" {
		t.Fatalf("fourth Read() = %v, %v; want \"c\"", fourth, err)
	}
	end, err := p.Read()
	if err != nil || end != EOF {
		t.Fatalf("final Read() = %v, %v; want EOF", end, err)
	}
}

func TestInPort_ParseErrorDiscardsRestOfLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "bad escape", input: "(list \"a\\q\" zz)\n(+ 3 4)\n"},
		{name: "stray close paren", input: ") zz (\n(+ 3 4)\n"},
		{name: "error inside a multi-line list", input: "(list 1\n\"b\\q\" 2)\n(+ 3 4)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewInPort(strings.NewReader(tt.input))

			if _, err := p.Read(); KindOf(err) != string(ParseError) {
				t.Fatalf("first Read() error = %v, want a ParseError", err)
			}
			next, err := p.Read()
			if err != nil || String(next) != "(+ 3 4)" {
				t.Fatalf("second Read() = %v, %v; want (+ 3 4)", next, err)
			}
			end, err := p.Read()
			if err != nil || end != EOF {
				t.Fatalf("final Read() = %v, %v; want EOF", end, err)
			}
		})
	}
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestInPort_ReaderErrorIsNotAParseError(t *testing.T) {
	boom := errors.New("disk on fire")
	p := NewInPort(failingReader{err: boom})

	_, err := p.Read()
	if !errors.Is(err, boom) {
		t.Fatalf("Read() error = %v, want %v", err, boom)
	}
	if KindOf(err) == string(ParseError) {
		t.Error("reader failure should not be reported as a ParseError")
	}
}
