// Package parser builds a BMinor AST from a token stream.
//
// The teacher generates its parser with goyacc from a .y grammar file
// (frontend/tree.go drives yyParse against the lexer). Reproducing that
// here would require running goyacc, which this project may not do, so
// the grammar in spec §4.4 is instead hand-written as a recursive-descent
// parser with a precedence-climbing expression core — the same token-pull
// protocol the teacher's generated parser uses against its lexer (one
// token of lookahead, pulled from the lexer on demand), just without the
// generated tables. See SPEC_FULL.md's DOMAIN STACK section.
package parser

import (
	"strconv"

	"bminor/internal/ast"
	"bminor/internal/diag"
	"bminor/internal/lexer"
	"bminor/internal/token"
	"bminor/internal/types"
)

// tokSource is anything that can hand out tokens one at a time; satisfied
// by *lexer.Lexer.
type tokSource interface {
	Next() token.Token
}

// Parser turns a token stream into a Program node. It keeps two tokens of
// lookahead: `tok` is current, `ahead` lets parseDeclaration tell a
// declaration (`ID ":"`) from a statement that merely starts with an
// identifier (`ID "="`, `ID "("`, `ID "["`) without backtracking.
type Parser struct {
	lex   tokSource
	bag   *diag.Bag
	tok   token.Token
	ahead token.Token
	pos   int // tokens consumed so far, used to detect lack of progress
}

// Parse scans and parses src in one call, reporting diagnostics to bag.
// The returned Program node is always non-nil, even when bag.Count() > 0,
// so that callers can print a partial tree for debugging.
func Parse(src string, bag *diag.Bag) *ast.Node {
	l := lexer.New(src, bag)
	l.Run()
	p := &Parser{lex: l, bag: bag}
	p.tok = p.lex.Next()
	p.ahead = p.lex.Next()
	return p.parseProgram()
}

func (p *Parser) advance() {
	p.tok = p.ahead
	p.ahead = p.lex.Next()
	p.pos++
}

func (p *Parser) at(k token.Kind) bool { return p.tok.Kind == k }

// atDecl reports whether the parser is sitting at `ID ":"`, the only
// two-token shape that introduces var_decl/array_decl/func_decl; anything
// else starting with an identifier is a statement.
func (p *Parser) atDecl() bool {
	return p.tok.Kind == token.Ident && p.ahead.Kind == token.Colon
}

// expect consumes the current token if it has kind k, else reports a
// syntax error once and continues without consuming, per spec §4.4's
// "report once... and continue; do not attempt sophisticated
// resynchronization".
func (p *Parser) expect(k token.Kind) token.Token {
	if p.tok.Kind != k {
		p.errorf("se esperaba %q pero se encontró %q", k, p.tok.Lexeme)
		return p.tok
	}
	t := p.tok
	p.advance()
	return t
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.bag.Report(p.tok.Line, format, args...)
}

// sync advances past the current token unconditionally. Used after a
// syntax error so the parser does not spin forever on the same token.
func (p *Parser) sync() {
	if !p.at(token.EOF) {
		p.advance()
	}
}

// ---- Program / declarations --------------------------------------------

// parseProgram implements `program → declaration+`.
func (p *Parser) parseProgram() *ast.Node {
	var decls []*ast.Node
	for !p.at(token.EOF) {
		before := p.pos
		d := p.parseDeclaration()
		if d != nil {
			decls = append(decls, d)
		}
		if p.pos == before {
			// No progress was made (a malformed declaration); force
			// forward motion so EOF is always eventually reached.
			p.sync()
		}
	}
	return ast.NewProgram(decls)
}

// parseDeclaration implements `declaration → var_decl | array_decl |
// func_decl | stmt`, the permissive top level spec §4.4 describes.
func (p *Parser) parseDeclaration() *ast.Node {
	if p.atDecl() {
		return p.parseNamedDecl()
	}
	return p.parseStatement()
}

// parseNamedDecl parses `ID ":" (type_decl | array_decl | func_decl)`.
func (p *Parser) parseNamedDecl() *ast.Node {
	name := p.tok.Lexeme
	line := p.tok.Line
	p.advance() // ID
	p.expect(token.Colon)

	switch {
	case p.at(token.KwFunction):
		return p.parseFuncDecl(name, line)
	case p.at(token.KwArray):
		return p.parseArrayDecl(name, line)
	default:
		return p.parseVarDecl(name, line)
	}
}

// parseVarDecl implements `var_decl → ID ":" type ("=" expr)? ";"`, with
// the `ID ":"` prefix already consumed.
func (p *Parser) parseVarDecl(name string, line int) *ast.Node {
	declType := p.parseType()
	var init *ast.Node
	if p.at(token.Assign) {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.Semi)
	return ast.NewVarDecl(name, declType, init, line)
}

// parseArrayDecl implements `array_decl → ID ":" "array" "[" expr "]" type
// ("=" "{" expr_list "}")? ";"`.
func (p *Parser) parseArrayDecl(name string, line int) *ast.Node {
	p.expect(token.KwArray)
	p.expect(token.LBracket)
	size := p.parseExpr()
	p.expect(token.RBracket)
	elemType := p.parseType()
	var init *ast.Node
	if p.at(token.Assign) {
		p.advance()
		p.expect(token.LBrace)
		elems := p.parseExprList(token.RBrace)
		p.expect(token.RBrace)
		init = ast.NewArrayLit(elems, line)
	}
	p.expect(token.Semi)
	return ast.NewArrayDecl(name, elemType, size, init, line)
}

// parseFuncDecl implements `func_decl → ID ":" "function" type "("
// param_list? ")" "=" "{" stmt_list "}"`.
func (p *Parser) parseFuncDecl(name string, line int) *ast.Node {
	p.expect(token.KwFunction)
	retType := p.parseType()
	p.expect(token.LParen)
	var params []*ast.Node
	if !p.at(token.RParen) {
		params = p.parseParamList()
	}
	p.expect(token.RParen)
	p.expect(token.Assign)
	p.expect(token.LBrace)
	stmts := p.parseStmtList(token.RBrace)
	p.expect(token.RBrace)
	body := ast.NewBlock(stmts, line)
	return ast.NewFuncDecl(name, retType, params, body, line)
}

func (p *Parser) parseParamList() []*ast.Node {
	var params []*ast.Node
	params = append(params, p.parseParam())
	for p.at(token.Comma) {
		p.advance()
		params = append(params, p.parseParam())
	}
	return params
}

// parseParam parses one `ID ":" type` or `ID ":" "array" "[" "]" type`
// parameter. Array parameters carry no fixed dimension (spec §4.7 treats
// parameters as addresses, not sized storage).
func (p *Parser) parseParam() *ast.Node {
	line := p.tok.Line
	name := p.expect(token.Ident).Lexeme
	p.expect(token.Colon)
	if p.at(token.KwArray) {
		p.advance()
		p.expect(token.LBracket)
		p.expect(token.RBracket)
		elemType := p.parseType()
		return ast.NewArrayParm(name, elemType, line)
	}
	t := p.parseType()
	return ast.NewVarParm(name, t, line)
}

// parseType consumes one of the primitive type keywords. Every BMinor
// type annotation is a grammar terminal, so there is never a need for an
// intermediate "type expression" node.
func (p *Parser) parseType() *types.Type {
	switch p.tok.Kind {
	case token.KwInteger:
		p.advance()
		return types.Int
	case token.KwFloat:
		p.advance()
		return types.Flt
	case token.KwBoolean:
		p.advance()
		return types.Bool
	case token.KwChar:
		p.advance()
		return types.Chr
	case token.KwString:
		p.advance()
		return types.Str
	case token.KwVoid:
		p.advance()
		return types.VoidTy
	default:
		p.errorf("se esperaba un tipo pero se encontró %q", p.tok.Lexeme)
		return nil
	}
}

// ---- Statements ---------------------------------------------------------

func (p *Parser) parseStmtList(end token.Kind) []*ast.Node {
	var stmts []*ast.Node
	for !p.at(end) && !p.at(token.EOF) {
		before := p.pos
		stmts = append(stmts, p.parseDeclaration())
		if p.pos == before {
			p.sync()
		}
	}
	return stmts
}

func (p *Parser) parseBlock() *ast.Node {
	line := p.tok.Line
	p.expect(token.LBrace)
	stmts := p.parseStmtList(token.RBrace)
	p.expect(token.RBrace)
	return ast.NewBlock(stmts, line)
}

// parseBody parses either a brace-delimited block or a single statement,
// normalizing either way to a Block (spec §4.4).
func (p *Parser) parseBody() *ast.Node {
	if p.at(token.LBrace) {
		return p.parseBlock()
	}
	return ast.AsBlock(p.parseStatement())
}

func (p *Parser) parseStatement() *ast.Node {
	line := p.tok.Line
	switch p.tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwDo:
		return p.parseDoWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwReturn:
		return p.parseReturn()
	case token.KwPrint:
		return p.parsePrint()
	case token.Semi:
		p.advance()
		return ast.NewBlock(nil, line)
	default:
		return p.parseSimpleStatement()
	}
}

// parseSimpleStatement parses an assignment or a bare expression
// statement, both terminated by ";".
func (p *Parser) parseSimpleStatement() *ast.Node {
	s := p.parseSimpleStatementNoSemi()
	p.expect(token.Semi)
	return s
}

// parseSimpleStatementNoSemi parses an assignment or bare expression
// without consuming a trailing ";" — used for a for-loop's init and
// update clauses, which in spec §4.4's grammar are "stmt" but sit next to
// the loop's own ";" and ")" delimiters rather than owning one.
func (p *Parser) parseSimpleStatementNoSemi() *ast.Node {
	line := p.tok.Line
	expr := p.parseExpr()
	if p.at(token.Assign) {
		p.advance()
		rhs := p.parseExpr()
		return ast.NewAssign(expr, rhs, line)
	}
	return ast.NewExprStmt(expr, line)
}

func (p *Parser) parseIf() *ast.Node {
	line := p.tok.Line
	p.expect(token.KwIf)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	then := p.parseBody()
	var els *ast.Node
	if p.at(token.KwElse) {
		p.advance()
		els = p.parseBody()
	}
	return ast.NewIf(cond, then, els, line)
}

func (p *Parser) parseWhile() *ast.Node {
	line := p.tok.Line
	p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	body := p.parseBody()
	return ast.NewWhile(cond, body, line)
}

func (p *Parser) parseDoWhile() *ast.Node {
	line := p.tok.Line
	p.expect(token.KwDo)
	body := p.parseBody()
	p.expect(token.KwWhile)
	p.expect(token.LParen)
	cond := p.parseExpr()
	p.expect(token.RParen)
	p.expect(token.Semi)
	return ast.NewDoWhile(body, cond, line)
}

// parseFor implements `for_stmt → "for" "(" stmt expr ";" stmt ")" stmt`,
// where the init clause may also be a variable declaration, and the
// `for (i in range(a,b)) { … }` sugar resolved in SPEC_FULL.md as a
// parser-level desugaring to the canonical `for(init;cond;update)` form.
// The range sugar is only accepted inside the loop's parentheses.
func (p *Parser) parseFor() *ast.Node {
	line := p.tok.Line
	p.expect(token.KwFor)
	p.expect(token.LParen)

	if p.at(token.Ident) && p.isRangeFor() {
		return p.parseRangeFor(line)
	}

	var init *ast.Node
	if p.atDecl() {
		// A declaration consumes its own ";", which ends the init clause.
		init = p.parseNamedDecl()
	} else {
		init = p.parseSimpleStatementNoSemi()
		p.expect(token.Semi)
	}
	cond := p.parseExpr()
	p.expect(token.Semi)
	update := p.parseSimpleStatementNoSemi()
	p.expect(token.RParen)
	body := p.parseBody()
	return ast.NewFor(init, cond, update, body, line)
}

// isRangeFor peeks for the `ID "in" ...` shape. BMinor has no "in"
// keyword for anything else, and this lexer emits "in" as a bare
// identifier (it is not in the reserved-word table), so the check is a
// lookahead on the second token's lexeme text rather than its Kind.
func (p *Parser) isRangeFor() bool {
	return p.ahead.Kind == token.Ident && p.ahead.Lexeme == "in"
}

// parseRangeFor parses `ID "in" "range" "(" expr "," expr ")" ")" body`
// (the loop's own "(" already consumed by parseFor) and desugars it to
// `for (i=a; i<b; ++i) body`.
func (p *Parser) parseRangeFor(line int) *ast.Node {
	name := p.tok.Lexeme
	varLine := p.tok.Line
	p.advance() // loop variable name

	if p.tok.Kind != token.Ident || p.tok.Lexeme != "in" {
		p.errorf("se esperaba 'in' en el for-range pero se encontró %q", p.tok.Lexeme)
	} else {
		p.advance()
	}
	if p.tok.Kind != token.Ident || p.tok.Lexeme != "range" {
		p.errorf("se esperaba 'range' en el for-range pero se encontró %q", p.tok.Lexeme)
	} else {
		p.advance()
	}
	p.expect(token.LParen)
	lo := p.parseExpr()
	p.expect(token.Comma)
	hi := p.parseExpr()
	p.expect(token.RParen)
	p.expect(token.RParen)
	body := p.parseBody()

	init := ast.NewAssign(ast.NewVarLoc(name, varLine), lo, varLine)
	cond := ast.NewBinOp("<", ast.NewVarLoc(name, varLine), hi, varLine)
	update := ast.NewExprStmt(ast.NewPreInc(ast.NewVarLoc(name, varLine), varLine), varLine)
	return ast.NewFor(init, cond, update, body, line)
}

func (p *Parser) parseReturn() *ast.Node {
	line := p.tok.Line
	p.expect(token.KwReturn)
	if p.at(token.Semi) {
		p.advance()
		return ast.NewReturn(nil, line)
	}
	expr := p.parseExpr()
	p.expect(token.Semi)
	return ast.NewReturn(expr, line)
}

func (p *Parser) parsePrint() *ast.Node {
	line := p.tok.Line
	p.expect(token.KwPrint)
	expr := p.parseExpr()
	p.expect(token.Semi)
	return ast.NewPrint(expr, line)
}

// ---- Expressions: precedence climbing -----------------------------------
//
// Lowest to highest, per spec §4.4: "=" (right) · "||" · "&&" · "== !=" ·
// "< <= > >=" · "+ -" · "* / %" · unary "! ++ --" (right) · postfix
// "++ --", call, index (left). Assignment is handled as a statement (see
// parseSimpleStatement), so the expression grammar here starts at "||".

type binding int

const (
	precLowest binding = iota
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
)

var binPrec = map[token.Kind]binding{
	token.OrOr:     precOr,
	token.AndAnd:   precAnd,
	token.Eq:       precEquality,
	token.Ne:       precEquality,
	token.Lt:       precRelational,
	token.Le:       precRelational,
	token.Gt:       precRelational,
	token.Ge:       precRelational,
	token.Plus:     precAdditive,
	token.Minus:    precAdditive,
	token.Star:     precMultiplicative,
	token.Slash:    precMultiplicative,
	token.Percent:  precMultiplicative,
}

func (p *Parser) parseExpr() *ast.Node {
	return p.parseBinary(precLowest)
}

func (p *Parser) parseExprList(end token.Kind) []*ast.Node {
	var exprs []*ast.Node
	if p.at(end) {
		return exprs
	}
	exprs = append(exprs, p.parseExpr())
	for p.at(token.Comma) {
		p.advance()
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}

func (p *Parser) parseBinary(min binding) *ast.Node {
	left := p.parseUnary()
	for {
		prec, ok := binPrec[p.tok.Kind]
		if !ok || prec <= min {
			return left
		}
		op := p.tok.Lexeme
		line := p.tok.Line
		p.advance()
		right := p.parseBinary(prec)
		left = ast.NewBinOp(op, left, right, line)
	}
}

// parseUnary handles right-associative prefix `! + - ++ --`.
func (p *Parser) parseUnary() *ast.Node {
	line := p.tok.Line
	switch p.tok.Kind {
	case token.Not, token.Plus, token.Minus, token.Caret:
		op := p.tok.Lexeme
		p.advance()
		x := p.parseUnary()
		return ast.NewUnaryOp(op, x, line)
	case token.Inc:
		p.advance()
		return ast.NewPreInc(p.parseUnary(), line)
	case token.Dec:
		p.advance()
		return ast.NewPreDec(p.parseUnary(), line)
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles left-associative postfix `++ --` at the grammar's
// tightest precedence. Calls and indexing are parsed by parseIdentExpr.
func (p *Parser) parsePostfix() *ast.Node {
	n := p.parsePrimary()
	for {
		line := p.tok.Line
		switch p.tok.Kind {
		case token.Inc:
			p.advance()
			n = ast.NewPostInc(n, line)
		case token.Dec:
			p.advance()
			n = ast.NewPostDec(n, line)
		default:
			return n
		}
	}
}

func (p *Parser) parsePrimary() *ast.Node {
	line := p.tok.Line
	switch p.tok.Kind {
	case token.IntLit:
		v, _ := strconv.ParseInt(p.tok.Lexeme, 10, 64)
		p.advance()
		return ast.NewIntLit(v, line)
	case token.FloatLit:
		v, _ := strconv.ParseFloat(p.tok.Lexeme, 64)
		p.advance()
		return ast.NewFloatLit(v, line)
	case token.CharLit:
		v := unescapeChar(p.tok.Lexeme)
		p.advance()
		return ast.NewCharLit(v, line)
	case token.StringLit:
		v := unescapeString(p.tok.Lexeme)
		p.advance()
		return ast.NewStringLit(v, line)
	case token.KwTrue:
		p.advance()
		return ast.NewBoolLit(true, line)
	case token.KwFalse:
		p.advance()
		return ast.NewBoolLit(false, line)
	case token.LParen:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RParen)
		return e
	case token.Ident:
		return p.parseIdentExpr()
	default:
		p.errorf("token inesperado %q", p.tok.Lexeme)
		tok := p.tok
		p.sync()
		return ast.NewIntLit(0, tok.Line)
	}
}

// parseIdentExpr disambiguates VarLoc, ArrayLoc and Call, all of which
// start with a bare identifier.
func (p *Parser) parseIdentExpr() *ast.Node {
	name := p.tok.Lexeme
	line := p.tok.Line
	p.advance()
	switch p.tok.Kind {
	case token.LParen:
		p.advance()
		args := p.parseExprList(token.RParen)
		p.expect(token.RParen)
		return ast.NewCall(name, args, line)
	case token.LBracket:
		var indices []*ast.Node
		for p.at(token.LBracket) {
			p.advance()
			indices = append(indices, p.parseExpr())
			p.expect(token.RBracket)
		}
		return ast.NewArrayLoc(name, indices, line)
	default:
		return ast.NewVarLoc(name, line)
	}
}

// ---- Literal un-escaping --------------------------------------------------

func unescapeString(lexeme string) string {
	// lexeme includes the surrounding quotes, as scanned by the lexer.
	if len(lexeme) >= 2 {
		lexeme = lexeme[1 : len(lexeme)-1]
	}
	return unescape(lexeme)
}

func unescapeChar(lexeme string) byte {
	if len(lexeme) >= 2 {
		lexeme = lexeme[1 : len(lexeme)-1]
	}
	s := unescape(lexeme)
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// unescape expands the fixed escape set spec §4.3 requires: \n \t \r \\ \' \".
func unescape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '\'':
				out = append(out, '\'')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, s[i])
			}
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
