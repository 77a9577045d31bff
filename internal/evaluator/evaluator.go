package evaluator

import (
	"mathlang/internal/ast"
	"mathlang/internal/lexer"
	"mathlang/internal/object"
	"mathlang/internal/operation"
	"mathlang/internal/parser"
)

const DefaultMaxDepth = 1000

// Result is the outcome of one top-level statement.
type Result struct {
	Value        object.Object
	TypeName     string
	IsAssignment bool
	VariableName string
}

// Evaluator walks an AST against a session. It is a synchronous recursive
// tree-walk; one evaluator must not be used from multiple goroutines at
// once.
type Evaluator struct {
	registry *operation.Registry
	maxDepth int
	depth    int
}

func New(registry *operation.Registry) *Evaluator {
	return &Evaluator{registry: registry, maxDepth: DefaultMaxDepth}
}

func NewWithDepth(registry *operation.Registry, maxDepth int) *Evaluator {
	return &Evaluator{registry: registry, maxDepth: maxDepth}
}

// EvalScript parses and evaluates source, one result per statement.
// Evaluation stops at the first failing statement; bindings made by earlier
// statements stay in the session. The returned results cover the statements
// that succeeded before the failure.
func (e *Evaluator) EvalScript(source string, session *object.Session) ([]Result, *object.RuntimeError) {
	l := lexer.New(source)
	p := parser.New(l, source)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		first := errs[0]
		return nil, &object.RuntimeError{
			Kind:    object.SyntaxError,
			Message: first.Message,
			Line:    first.Line,
			Column:  first.Column,
		}
	}

	return e.EvalProgram(program, session)
}

func (e *Evaluator) EvalProgram(program *ast.Program, session *object.Session) ([]Result, *object.RuntimeError) {
	results := make([]Result, 0, len(program.Statements))
	for _, stmt := range program.Statements {
		e.depth = 0
		result := e.evalStatement(stmt, session)
		if err, ok := result.Value.(*object.RuntimeError); ok {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (e *Evaluator) evalStatement(stmt ast.Statement, session *object.Session) Result {
	switch stmt := stmt.(type) {
	case *ast.Assignment:
		value := e.evalExpression(stmt.Value, session)
		if object.IsError(value) {
			return Result{Value: value}
		}
		session.Set(stmt.Name, value)
		return Result{
			Value:        value,
			TypeName:     value.TypeName(),
			IsAssignment: true,
			VariableName: stmt.Name,
		}
	case *ast.ExpressionStatement:
		value := e.evalExpression(stmt.Expression, session)
		if object.IsError(value) {
			return Result{Value: value}
		}
		return Result{Value: value, TypeName: value.TypeName()}
	}
	return Result{Value: object.NewError(object.TypeError, "unknown statement type %T", stmt)}
}

func (e *Evaluator) evalExpression(expr ast.Expression, session *object.Session) object.Object {
	if e.depth >= e.maxDepth {
		return object.NewError(object.RecursionLimitExceeded,
			"maximum recursion depth %d exceeded", e.maxDepth)
	}
	e.depth++
	defer func() { e.depth-- }()

	switch expr := expr.(type) {
	case *ast.IntegerLiteral:
		return &object.Integer{Value: expr.Value}

	case *ast.FloatLiteral:
		return &object.Float{Value: expr.Value}

	case *ast.ComplexLiteral:
		return &object.Complex{Value: expr.Value}

	case *ast.StringLiteral:
		return &object.String{Value: expr.Value}

	case *ast.BooleanLiteral:
		return &object.Boolean{Value: expr.Value}

	case *ast.Identifier:
		value, ok := session.Get(expr.Value)
		if !ok {
			return object.NewError(object.NameError, "Undefined variable: '%s'", expr.Value)
		}
		// lambda parameters arrive as thunks; a reference is their
		// first use, so force here
		return e.Force(value)

	case *ast.ConstantRef:
		op, ok := e.registry.Get(expr.Name)
		if !ok {
			return object.NewError(object.NameError, "Undefined variable: '[[%s]]'", expr.Name)
		}
		if err := op.CheckArity(0); err != nil {
			return err
		}
		return op.Execute(nil, session, e)

	case *ast.UnaryOp:
		operand := e.evalExpression(expr.Operand, session)
		if object.IsError(operand) {
			return operand
		}
		return evalUnaryOp(expr.Operator, operand)

	case *ast.BinaryOp:
		return e.evalBinaryExpr(expr, session)

	case *ast.Call:
		return e.evalCall(expr, session)

	case *ast.Lambda:
		return &object.Lambda{
			Parameters: expr.Parameters,
			Body:       expr.Body,
			Session:    session,
		}

	case *ast.ArrayIndex:
		left := e.evalExpression(expr.Left, session)
		if object.IsError(left) {
			return left
		}
		index := e.evalExpression(expr.Index, session)
		if object.IsError(index) {
			return index
		}
		return evalArrayIndex(left, index)
	}

	return object.NewError(object.TypeError, "unknown expression type %T", expr)
}

// evalBinaryExpr handles && and || with short-circuiting; every other
// operator evaluates both operands eagerly.
func (e *Evaluator) evalBinaryExpr(expr *ast.BinaryOp, session *object.Session) object.Object {
	left := e.evalExpression(expr.Left, session)
	if object.IsError(left) {
		return left
	}

	switch expr.Operator {
	case "&&":
		if !object.IsTruthy(left) {
			return &object.Boolean{Value: false}
		}
		right := e.evalExpression(expr.Right, session)
		if object.IsError(right) {
			return right
		}
		return &object.Boolean{Value: object.IsTruthy(right)}
	case "||":
		if object.IsTruthy(left) {
			return &object.Boolean{Value: true}
		}
		right := e.evalExpression(expr.Right, session)
		if object.IsError(right) {
			return right
		}
		return &object.Boolean{Value: object.IsTruthy(right)}
	}

	right := e.evalExpression(expr.Right, session)
	if object.IsError(right) {
		return right
	}
	return evalBinaryOp(expr.Operator, left, right)
}

// evalCall resolves a callee name, session bindings first so a script may
// shadow a registered operation, then the registry.
func (e *Evaluator) evalCall(call *ast.Call, session *object.Session) object.Object {
	if bound, ok := session.Get(call.Name); ok {
		bound = e.Force(bound)
		if object.IsError(bound) {
			return bound
		}
		lambda, ok := bound.(*object.Lambda)
		if !ok {
			return object.NewError(object.TypeError,
				"'%s' is not callable (it is a %s)", call.Name, bound.TypeName())
		}
		return e.invokeLambda(lambda, call.Arguments, session)
	}

	op, ok := e.registry.Get(call.Name)
	if !ok {
		return object.NewError(object.NameError, "Undefined operation: '%s'", call.Name)
	}

	if err := op.CheckArity(len(call.Arguments)); err != nil {
		return err
	}

	args := make([]object.Object, len(call.Arguments))
	for i, argExpr := range call.Arguments {
		if op.IsLazyArg(i) {
			args[i] = &object.Thunk{Expression: argExpr, Session: session}
			continue
		}
		arg := e.evalExpression(argExpr, session)
		if object.IsError(arg) {
			return arg
		}
		args[i] = arg
	}

	return op.Execute(args, session, e)
}

// invokeLambda binds each argument expression as a thunk over the caller's
// session into a fresh child of the lambda's defining session. Arguments
// are not evaluated until the body references them, which is what lets a
// recursive call sit unevaluated in the untaken branch of If.
func (e *Evaluator) invokeLambda(lambda *object.Lambda, argExprs []ast.Expression, caller *object.Session) object.Object {
	if len(argExprs) != len(lambda.Parameters) {
		return object.NewError(object.ArityError,
			"Lambda expects %d arguments, got %d", len(lambda.Parameters), len(argExprs))
	}

	scope := object.NewChildSession(lambda.Session)
	for i, param := range lambda.Parameters {
		scope.Set(param, &object.Thunk{Expression: argExprs[i], Session: caller})
	}

	return e.evalExpression(lambda.Body, scope)
}

// Apply implements object.CallContext for operations that received a
// lambda value and call it per element (Map, Filter, Reduce, the plotting
// samplers). Arguments are already evaluated, so they bind directly.
func (e *Evaluator) Apply(fn object.Object, args []object.Object) object.Object {
	lambda, ok := fn.(*object.Lambda)
	if !ok {
		return object.NewError(object.TypeError, "cannot apply a %s as a function", fn.TypeName())
	}
	if len(args) != len(lambda.Parameters) {
		return object.NewError(object.ArityError,
			"Lambda expects %d arguments, got %d", len(lambda.Parameters), len(args))
	}

	scope := object.NewChildSession(lambda.Session)
	for i, param := range lambda.Parameters {
		scope.Set(param, args[i])
	}

	return e.evalExpression(lambda.Body, scope)
}

// Force reduces a thunk to its value, memoizing so a thunk referenced
// twice evaluates its expression once. Non-thunks pass through.
func (e *Evaluator) Force(obj object.Object) object.Object {
	thunk, ok := obj.(*object.Thunk)
	if !ok {
		return obj
	}
	if cached := thunk.Result(); cached != nil {
		return cached
	}
	value := e.evalExpression(thunk.Expression, thunk.Session)
	value = e.Force(value)
	thunk.Memoize(value)
	return value
}
