// Package token defines the lexical vocabulary the lexer emits and the
// parser consumes.
//
// Grounded in the teacher's frontend/lang.go keyword table and the token
// items produced by frontend/lexer.go's item type, generalized to BMinor's
// own keyword and operator set (spec §4.3, §6.2).
package token

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	EOF Kind = iota
	Illegal

	Ident
	IntLit
	FloatLit
	CharLit
	StringLit

	// Keywords.
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwReturn
	KwPrint
	KwFunction
	KwInteger
	KwBoolean
	KwFloat
	KwChar
	KwString
	KwVoid
	KwTrue
	KwFalse
	KwArray
	KwOf

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semi
	Colon

	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Caret
	Not
	Inc
	Dec

	Lt
	Le
	Gt
	Ge
	Eq
	Ne
	AndAnd
	OrOr
)

var keywords = map[string]Kind{
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"do":       KwDo,
	"for":      KwFor,
	"return":   KwReturn,
	"print":    KwPrint,
	"function": KwFunction,
	"integer":  KwInteger,
	"boolean":  KwBoolean,
	"float":    KwFloat,
	"char":     KwChar,
	"string":   KwString,
	"void":     KwVoid,
	"true":     KwTrue,
	"false":    KwFalse,
	"array":    KwArray,
	"of":       KwOf,
}

// Lookup returns the keyword Kind for s, or (Ident, false) if s is not a
// reserved word.
func Lookup(s string) (Kind, bool) {
	if k, ok := keywords[s]; ok {
		return k, true
	}
	return Ident, false
}

var names = map[Kind]string{
	EOF: "EOF", Illegal: "ILLEGAL",
	Ident: "IDENT", IntLit: "INTEGER", FloatLit: "FLOAT",
	CharLit: "CHAR", StringLit: "STRING",
	KwIf: "if", KwElse: "else", KwWhile: "while", KwDo: "do", KwFor: "for",
	KwReturn: "return", KwPrint: "print", KwFunction: "function",
	KwInteger: "integer", KwBoolean: "boolean", KwFloat: "float",
	KwChar: "char", KwString: "string", KwVoid: "void",
	KwTrue: "true", KwFalse: "false", KwArray: "array", KwOf: "of",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}",
	LBracket: "[", RBracket: "]", Comma: ",", Semi: ";", Colon: ":",
	Assign: "=", Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Caret: "^", Not: "!", Inc: "++", Dec: "--",
	Lt: "<", Le: "<=", Gt: ">", Ge: ">=", Eq: "==", Ne: "!=",
	AndAnd: "&&", OrOr: "||",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one lexical item: its kind, the exact source text it came from,
// and the line it started on (diagnostics are line-only, per spec §6.4).
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Line)
}
