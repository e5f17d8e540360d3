// Package token turns raw command text into classified tokens.
//
// A Tokenizer is parameterized entirely by data (keyword table or
// lookup hook, extractor list) so one implementation serves every
// supported language. Tokenization is total: malformed input yields a
// best-effort token list, never an error.
package token

import "fmt"

// Kind classifies a token.
type Kind int

const (
	Keyword Kind = iota
	Identifier
	Selector
	Literal
)

func (k Kind) String() string {
	switch k {
	case Keyword:
		return "keyword"
	case Identifier:
		return "identifier"
	case Selector:
		return "selector"
	case Literal:
		return "literal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token is one classified span of input text.
type Token struct {
	Kind Kind
	Text string
	Pos  int // byte offset of Text within the original input
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %d}", t.Kind, t.Text, t.Pos)
}
