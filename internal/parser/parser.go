package parser

import (
	"fmt"
	"strconv"

	"mathlang/internal/ast"
	"mathlang/internal/lexer"
	"mathlang/internal/token"
	"mathlang/internal/util"
)

const (
	_           int = iota
	LOWEST          // statement level
	LAMBDA          // x -> body
	LOGICAL_OR      // ||
	LOGICAL_AND     // &&
	COMPARISON      // == != < <= > >=
	SUM             // + or -
	PRODUCT         // * / %
	PREFIX          // -x or !x
	POWER           // ^ (right associative)
	INDEX           // array[index]
)

var precedences = map[token.TokenType]int{
	token.ARROW:       LAMBDA,
	token.LOGICAL_OR:  LOGICAL_OR,
	token.LOGICAL_AND: LOGICAL_AND,
	token.EQ:          COMPARISON,
	token.NOT_EQ:      COMPARISON,
	token.LT:          COMPARISON,
	token.LT_EQ:       COMPARISON,
	token.GT:          COMPARISON,
	token.GT_EQ:       COMPARISON,
	token.PLUS:        SUM,
	token.MINUS:       SUM,
	token.ASTERISK:    PRODUCT,
	token.SLASH:       PRODUCT,
	token.PERCENT:     PRODUCT,
	token.CARET:       POWER,
	token.LBRACKET:    INDEX,
}

// SyntaxError is the parser's failure value. Line and Column are 1-based
// and point at the first offending token.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("[%3d:%2d] %s", e.Line, e.Column, e.Message)
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      *lexer.Lexer
	src    string
	errors []*SyntaxError

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(l *lexer.Lexer, source string) *Parser {
	p := &Parser{
		l:      l,
		src:    source,
		errors: []*SyntaxError{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.CALLABLE, p.parseCallExpression)
	p.registerPrefix(token.CONSTANT, p.parseConstantRef)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.COMPLEX, p.parseComplexLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedOrLambda)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.PERCENT, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.LT_EQ, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.GT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LOGICAL_AND, p.parseInfixExpression)
	p.registerInfix(token.LOGICAL_OR, p.parseInfixExpression)
	p.registerInfix(token.CARET, p.parsePowerExpression)
	p.registerInfix(token.ARROW, p.parseLambdaExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) addErrorAt(pos int, message string, args ...interface{}) {
	line, col := util.GetLineAndColumn(p.src, pos)
	p.errors = append(p.errors, &SyntaxError{
		Message: fmt.Sprintf(message, args...),
		Line:    line,
		Column:  col,
	})
}

func (p *Parser) addError(message string, args ...interface{}) {
	p.addErrorAt(p.curToken.Position, message, args...)
}

func (p *Parser) peekError(t token.TokenType) {
	p.addErrorAt(p.peekToken.Position, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	p.addError("unexpected token %s", t)
}

// Errors returns every syntax error collected during the parse. Parsing
// stops at the first statement that fails, so callers normally only look
// at the first entry.
func (p *Parser) Errors() []*SyntaxError {
	return p.errors
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if len(p.errors) > 0 {
			return program
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

func (p *Parser) parseStatement() ast.Statement {
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.ASSIGN) {
		return p.parseAssignment()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseAssignment() ast.Statement {
	stmt := &ast.Assignment{Token: p.curToken, Name: p.curToken.Literal}

	p.nextToken() // onto '='
	p.nextToken() // onto the value expression

	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	p.expectStatementEnd()
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	// function-definition sugar: `f(x, y) = body` becomes
	// `f = (x, y) -> body`
	if call, ok := expr.(*ast.Call); ok && p.peekTokenIs(token.ASSIGN) {
		params, ok := callParameters(call)
		if !ok {
			p.addErrorAt(call.Token.Position, "parameters of %s must be plain identifiers", call.Name)
			return nil
		}
		p.nextToken() // onto '='
		arrowTok := p.curToken
		p.nextToken() // onto the body
		body := p.parseExpression(LOWEST)
		if body == nil {
			return nil
		}
		p.expectStatementEnd()
		return &ast.Assignment{
			Token: call.Token,
			Name:  call.Name,
			Value: &ast.Lambda{Token: arrowTok, Parameters: params, Body: body},
		}
	}

	p.expectStatementEnd()
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// expectStatementEnd requires the expression to be followed by a newline,
// semicolon, or end of input.
func (p *Parser) expectStatementEnd() {
	switch p.peekToken.Type {
	case token.NEWLINE, token.SEMICOLON, token.EOF:
		return
	default:
		p.peekError(token.NEWLINE)
	}
}

func callParameters(call *ast.Call) ([]string, bool) {
	params := make([]string, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		ident, ok := arg.(*ast.Identifier)
		if !ok {
			return nil, false
		}
		params = append(params, ident.Value)
	}
	return params, true
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseConstantRef() ast.Expression {
	return &ast.ConstantRef{Token: p.curToken, Name: p.curToken.Literal}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	lit := p.curToken.Literal

	if len(lit) > 2 && (lit[1] == 'x' || lit[1] == 'X') {
		value, err := strconv.ParseInt(lit[2:], 16, 64)
		if err != nil {
			p.addError("could not parse %q as hex integer", lit)
			return nil
		}
		return &ast.IntegerLiteral{Token: p.curToken, Value: value}
	}

	if value, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return &ast.IntegerLiteral{Token: p.curToken, Value: value}
	}

	value, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.addError("could not parse %q as number", lit)
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseComplexLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("could not parse %q as complex number", p.curToken.Literal)
		return nil
	}
	return &ast.ComplexLiteral{Token: p.curToken, Value: complex(0, value)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.UnaryOp{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	if expr.Operand == nil {
		return nil
	}
	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryOp{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parsePowerExpression parses `^` with the right side bound one level
// looser, making the operator right associative: 2^3^4 is 2^(3^4).
func (p *Parser) parsePowerExpression(left ast.Expression) ast.Expression {
	expr := &ast.BinaryOp{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
	p.nextToken()
	expr.Right = p.parseExpression(POWER - 1)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseLambdaExpression handles `x -> body` where the parameter was already
// parsed as the left operand of the arrow.
func (p *Parser) parseLambdaExpression(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		p.addError("lambda parameter must be an identifier")
		return nil
	}
	lambda := &ast.Lambda{Token: p.curToken, Parameters: []string{ident.Value}}
	p.nextToken()
	lambda.Body = p.parseExpression(LAMBDA - 1)
	if lambda.Body == nil {
		return nil
	}
	return lambda
}

// parseGroupedOrLambda disambiguates `(expr)` from a parenthesized lambda
// parameter list such as `() -> body` or `(a, b) -> body`.
func (p *Parser) parseGroupedOrLambda() ast.Expression {
	// zero parameters: `() -> body`
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if !p.expectPeek(token.ARROW) {
			return nil
		}
		return p.parseLambdaBody(nil)
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	// a comma can only continue a parameter list
	if p.peekTokenIs(token.COMMA) {
		ident, ok := expr.(*ast.Identifier)
		if !ok {
			p.addError("lambda parameters must be plain identifiers")
			return nil
		}
		params := []string{ident.Value}
		for p.peekTokenIs(token.COMMA) {
			p.nextToken()
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			params = append(params, p.curToken.Literal)
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		if !p.expectPeek(token.ARROW) {
			return nil
		}
		return p.parseLambdaBody(params)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	// `(x) -> body` is a one-parameter lambda, not a grouped identifier
	if p.peekTokenIs(token.ARROW) {
		ident, ok := expr.(*ast.Identifier)
		if !ok {
			p.addError("lambda parameter must be an identifier")
			return nil
		}
		p.nextToken()
		return p.parseLambdaBody([]string{ident.Value})
	}

	return expr
}

// parseLambdaBody expects curToken to be the arrow and parses the body.
func (p *Parser) parseLambdaBody(params []string) ast.Expression {
	lambda := &ast.Lambda{Token: p.curToken, Parameters: params}
	p.nextToken()
	lambda.Body = p.parseExpression(LAMBDA - 1)
	if lambda.Body == nil {
		return nil
	}
	return lambda
}

func (p *Parser) parseCallExpression() ast.Expression {
	call := &ast.Call{Token: p.curToken, Name: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	call.Arguments = p.parseCallArguments()
	if call.Arguments == nil {
		return nil
	}
	return call
}

func (p *Parser) parseCallArguments() []ast.Expression {
	args := []ast.Expression{}

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	args = append(args, arg)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	return args
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.ArrayIndex{Token: p.curToken, Left: left}
	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return expr
}
