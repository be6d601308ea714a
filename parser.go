package toylang

import (
	"strconv"
)

// Parser is a recursive-descent parser over a token slice with one token
// of lookahead in curr.
type Parser struct {
	tokens []Token
	pos    int
	curr   Token
}

func NewParser(tokens []Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens, Token{Kind: EOF, Line: line})
	}
	return &Parser{tokens: tokens, curr: tokens[0]}
}

// Parse tokenizes and parses src. It does not run the validator.
func Parse(src string) (*Program, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

func (p *Parser) Parse() (*Program, error) {
	prog := &Program{Pos: Pos(p.curr.Line)}
	for p.curr.Kind != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curr = p.tokens[p.pos]
}

func (p *Parser) peek(n int) Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) errorf(expected string) *Error {
	return newError(SyntaxError, p.curr.Line, "expected %s, found %s", expected, p.curr)
}

func (p *Parser) expect(kind TokenKind, lexeme string) (Token, error) {
	if !p.curr.is(kind, lexeme) {
		return Token{}, p.errorf("'" + lexeme + "'")
	}
	tok := p.curr
	p.nextToken()
	return tok, nil
}

func (p *Parser) expectIdent(what string) (Token, error) {
	if p.curr.Kind != IDENT {
		return Token{}, p.errorf(what)
	}
	tok := p.curr
	p.nextToken()
	return tok, nil
}

func (p *Parser) punct(lexeme string) bool {
	return p.curr.is(PUNCT, lexeme)
}

func (p *Parser) keyword(lexeme string) bool {
	return p.curr.is(KEYWORD, lexeme)
}

// terminator consumes the ';' ending a simple statement. It may be left
// out directly before '}' or at end of input.
func (p *Parser) terminator() error {
	if p.punct(";") {
		p.nextToken()
		return nil
	}
	if p.punct("}") || p.curr.Kind == EOF {
		return nil
	}
	return p.errorf("';'")
}

func (p *Parser) optionalSemicolon() {
	if p.punct(";") {
		p.nextToken()
	}
}

func (p *Parser) parseStatement() (Stmt, error) {
	if p.curr.Kind == KEYWORD {
		switch p.curr.Lexeme {
		case "let", "const":
			return p.simple(p.parseVarDecl)
		case "if":
			return p.compound(p.parseIf)
		case "while":
			return p.compound(p.parseWhile)
		case "repeat":
			return p.compound(p.parseRepeat)
		case "def":
			return p.compound(func() (Stmt, error) { return p.parseFunctionDecl(true) })
		case "struct":
			return p.compound(p.parseStruct)
		case "class":
			return p.compound(p.parseClass)
		case "return":
			return p.simple(p.parseReturn)
		case "print":
			return p.simple(p.parsePrint)
		}
	}
	if p.punct("{") {
		return p.compound(func() (Stmt, error) { return p.parseBlock() })
	}
	return p.simple(p.parseExprStmt)
}

func (p *Parser) simple(parse func() (Stmt, error)) (Stmt, error) {
	stmt, err := parse()
	if err != nil {
		return nil, err
	}
	if err := p.terminator(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) compound(parse func() (Stmt, error)) (Stmt, error) {
	stmt, err := parse()
	if err != nil {
		return nil, err
	}
	p.optionalSemicolon()
	return stmt, nil
}

func (p *Parser) parseBlock() (*BlockStmt, error) {
	open, err := p.expect(PUNCT, "{")
	if err != nil {
		return nil, err
	}
	block := &BlockStmt{Pos: Pos(open.Line)}
	for !p.punct("}") {
		if p.curr.Kind == EOF {
			return nil, p.errorf("'}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	p.nextToken()
	return block, nil
}

func (p *Parser) parseVarDecl() (Stmt, error) {
	kw := p.curr
	p.nextToken()
	name, err := p.expectIdent("variable name")
	if err != nil {
		return nil, err
	}
	decl := &VarDecl{Pos: Pos(kw.Line), Name: name.Lexeme, Mutable: kw.Lexeme == "let"}
	if !p.curr.is(OPERATOR, "=") {
		if !decl.Mutable {
			return nil, p.errorf("'=' after const " + name.Lexeme)
		}
		return decl, nil
	}
	p.nextToken()
	if decl.Init, err = p.parseExpression(); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	kw := p.curr
	p.nextToken()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Pos: Pos(kw.Line), Cond: cond, Then: then}
	if !p.keyword("else") {
		return stmt, nil
	}
	p.nextToken()
	if p.keyword("if") {
		if stmt.Else, err = p.parseIf(); err != nil {
			return nil, err
		}
		return stmt, nil
	}
	elseBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Else = elseBlock
	return stmt, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	kw := p.curr
	p.nextToken()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Pos: Pos(kw.Line), Cond: cond, Body: body}, nil
}

func (p *Parser) parseRepeat() (Stmt, error) {
	kw := p.curr
	p.nextToken()
	count, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(KEYWORD, "times"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &RepeatStmt{Pos: Pos(kw.Line), Count: count, Body: body}, nil
}

// parseFunctionDecl parses `def name(params) { ... }`. Methods inside a
// class body may omit the def.
func (p *Parser) parseFunctionDecl(requireDef bool) (*FunctionDecl, error) {
	line := p.curr.Line
	if p.keyword("def") {
		p.nextToken()
	} else if requireDef {
		return nil, p.errorf("'def'")
	}
	name, err := p.expectIdent("function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{Pos: Pos(line), Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) parseParams() ([]string, error) {
	if _, err := p.expect(PUNCT, "("); err != nil {
		return nil, err
	}
	params := []string{}
	for !p.punct(")") {
		name, err := p.expectIdent("parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, name.Lexeme)
		if !p.punct(",") {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(PUNCT, ")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseStruct() (Stmt, error) {
	kw := p.curr
	p.nextToken()
	name, err := p.expectIdent("struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(PUNCT, "{"); err != nil {
		return nil, err
	}
	decl := &StructDecl{Pos: Pos(kw.Line), Name: name.Lexeme, Fields: []string{}}
	for !p.punct("}") {
		field, err := p.expectIdent("field name")
		if err != nil {
			return nil, err
		}
		decl.Fields = append(decl.Fields, field.Lexeme)
		if !p.punct(",") {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(PUNCT, "}"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseClass() (Stmt, error) {
	kw := p.curr
	p.nextToken()
	name, err := p.expectIdent("class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(PUNCT, "{"); err != nil {
		return nil, err
	}
	decl := &ClassDecl{Pos: Pos(kw.Line), Name: name.Lexeme}
	for !p.punct("}") {
		if p.curr.Kind == EOF {
			return nil, p.errorf("'}'")
		}
		method, err := p.parseFunctionDecl(false)
		if err != nil {
			return nil, err
		}
		decl.Methods = append(decl.Methods, method)
		p.optionalSemicolon()
	}
	p.nextToken()
	return decl, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	kw := p.curr
	p.nextToken()
	stmt := &ReturnStmt{Pos: Pos(kw.Line)}
	if p.punct(";") || p.punct("}") || p.curr.Kind == EOF {
		return stmt, nil
	}
	var err error
	if stmt.Value, err = p.parseExpression(); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parsePrint() (Stmt, error) {
	kw := p.curr
	p.nextToken()
	if _, err := p.expect(PUNCT, "("); err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &PrintStmt{Pos: Pos(kw.Line), Args: args}, nil
}

func (p *Parser) parseExprStmt() (Stmt, error) {
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ExprStmt{Pos: Pos(x.Line()), X: x}, nil
}

// parseArgs parses a comma-separated argument list; the opening '(' has
// already been consumed.
func (p *Parser) parseArgs() ([]Expr, error) {
	args := []Expr{}
	for !p.punct(")") {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.punct(",") {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(PUNCT, ")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

// parseAssignment is right-associative: a = b = c assigns c to both.
func (p *Parser) parseAssignment() (Expr, error) {
	left, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if !p.curr.is(OPERATOR, "=") {
		return left, nil
	}
	eq := p.curr
	p.nextToken()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	switch target := left.(type) {
	case *Identifier:
		return &AssignExpr{Pos: target.Pos, Name: target.Name, Value: value}, nil
	case *IndexExpr:
		return &IndexAssign{Pos: target.Pos, Target: target.Target, Index: target.Index, Value: value}, nil
	case *MemberAccess:
		return &MemberAssign{Pos: target.Pos, Target: target.Target, Field: target.Field, Value: value}, nil
	}
	return nil, newError(SyntaxError, eq.Line, "invalid assignment target")
}

// parseBinary is precedence climbing over the table in token.go; every
// level is left-associative.
func (p *Parser) parseBinary(minPrec int) (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := getPrecedence(p.curr)
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		op := p.curr.Lexeme
		p.nextToken()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		pos := Pos(left.Line())
		if op == "and" || op == "or" {
			left = &LogicalExpr{Pos: pos, Op: op, Left: left, Right: right}
		} else {
			left = &BinaryExpr{Pos: pos, Op: op, Left: left, Right: right}
		}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	if p.keyword("not") || p.curr.is(OPERATOR, "-") {
		tok := p.curr
		p.nextToken()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Pos: Pos(tok.Line), Op: tok.Lexeme, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.punct("("):
			p.nextToken()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &CallExpr{Pos: Pos(expr.Line()), Callee: expr, Args: args}
		case p.punct("["):
			p.nextToken()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(PUNCT, "]"); err != nil {
				return nil, err
			}
			expr = &IndexExpr{Pos: Pos(expr.Line()), Target: expr, Index: index}
		case p.punct("."):
			p.nextToken()
			name, err := p.expectIdent("field name")
			if err != nil {
				return nil, err
			}
			if p.punct("(") {
				p.nextToken()
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				expr = &MemberCall{Pos: Pos(expr.Line()), Target: expr, Method: name.Lexeme, Args: args}
				continue
			}
			expr = &MemberAccess{Pos: Pos(expr.Line()), Target: expr, Field: name.Lexeme}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.curr
	pos := Pos(tok.Line)
	switch tok.Kind {
	case NUMBER:
		p.nextToken()
		n, err := parseNumber(tok.Lexeme)
		if err != nil {
			return nil, newError(SyntaxError, tok.Line, "invalid number literal %s", tok.Lexeme)
		}
		return &Literal{Pos: pos, Value: n}, nil
	case STRING:
		p.nextToken()
		return &Literal{Pos: pos, Value: StringValue(tok.Lexeme)}, nil
	case IDENT:
		if p.peek(1).is(OPERATOR, "=>") {
			return p.parseArrow()
		}
		p.nextToken()
		return &Identifier{Pos: pos, Name: tok.Lexeme}, nil
	case KEYWORD:
		switch tok.Lexeme {
		case "true", "false":
			p.nextToken()
			return &Literal{Pos: pos, Value: BoolValue(tok.Lexeme == "true")}, nil
		case "null":
			p.nextToken()
			return &Literal{Pos: pos, Value: Null}, nil
		case "new":
			return p.parseNew()
		case "input":
			return p.parseInput()
		case "parseInt":
			p.nextToken()
			if _, err := p.expect(PUNCT, "("); err != nil {
				return nil, err
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(PUNCT, ")"); err != nil {
				return nil, err
			}
			return &ParseIntExpr{Pos: pos, Arg: arg}, nil
		}
	case PUNCT:
		switch tok.Lexeme {
		case "(":
			if p.arrowAhead() {
				return p.parseArrow()
			}
			p.nextToken()
			inner, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(PUNCT, ")"); err != nil {
				return nil, err
			}
			return inner, nil
		case "[":
			return p.parseArrayLiteral()
		}
	}
	return nil, p.errorf("expression")
}

func parseNumber(text string) (NumberValue, error) {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NumberValue(i), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	return NumberValue(f), nil
}

// arrowAhead reports whether the '(' at curr opens an arrow parameter
// list: identifiers separated by commas, a ')' and then '=>'.
func (p *Parser) arrowAhead() bool {
	i := 1
	if p.peek(i).is(PUNCT, ")") {
		return p.peek(i + 1).is(OPERATOR, "=>")
	}
	for {
		if p.peek(i).Kind != IDENT {
			return false
		}
		i++
		switch next := p.peek(i); {
		case next.is(PUNCT, ","):
			i++
		case next.is(PUNCT, ")"):
			return p.peek(i + 1).is(OPERATOR, "=>")
		default:
			return false
		}
	}
}

func (p *Parser) parseArrow() (Expr, error) {
	pos := Pos(p.curr.Line)
	var params []string
	if p.curr.Kind == IDENT {
		params = []string{p.curr.Lexeme}
		p.nextToken()
	} else {
		var err error
		if params, err = p.parseParams(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(OPERATOR, "=>"); err != nil {
		return nil, err
	}
	if p.punct("{") {
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &FunctionLiteral{Pos: pos, Params: params, Body: body}, nil
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	ret := &ReturnStmt{Pos: Pos(value.Line()), Value: value}
	body := &BlockStmt{Pos: Pos(value.Line()), Statements: []Stmt{ret}}
	return &FunctionLiteral{Pos: pos, Params: params, Body: body, ExprBody: true}, nil
}

func (p *Parser) parseNew() (Expr, error) {
	kw := p.curr
	p.nextToken()
	name, err := p.expectIdent("class name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(PUNCT, "("); err != nil {
		return nil, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}
	return &NewExpr{Pos: Pos(kw.Line), Class: name.Lexeme, Args: args}, nil
}

func (p *Parser) parseInput() (Expr, error) {
	kw := p.curr
	p.nextToken()
	if _, err := p.expect(PUNCT, "("); err != nil {
		return nil, err
	}
	expr := &InputExpr{Pos: Pos(kw.Line)}
	if !p.punct(")") {
		prompt, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		expr.Prompt = prompt
	}
	if _, err := p.expect(PUNCT, ")"); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseArrayLiteral() (Expr, error) {
	open := p.curr
	p.nextToken()
	arr := &ArrayLiteral{Pos: Pos(open.Line), Elements: []Expr{}}
	for !p.punct("]") {
		el, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, el)
		if !p.punct(",") {
			break
		}
		p.nextToken()
	}
	if _, err := p.expect(PUNCT, "]"); err != nil {
		return nil, err
	}
	return arr, nil
}
