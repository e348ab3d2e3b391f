package lox

// Node is any parsed syntax element with a source position.
type Node interface {
	Pos() Position
}

// Statement is a top-level program step.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that evaluates to a Value.
type Expression interface {
	Node
	exprNode()
}

// ExprStmt evaluates Expr and discards the result.
type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

// PrintStmt writes the stringified value of Expr followed by a newline.
type PrintStmt struct {
	Expr     Expression
	position Position
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) Pos() Position { return s.position }

// VarStmt declares Name. Initializer is nil for `var name;`.
type VarStmt struct {
	Name        Token
	Initializer Expression
	position    Position
}

func (s *VarStmt) stmtNode()     {}
func (s *VarStmt) Pos() Position { return s.position }

// BinaryExpr applies Operator to Left and Right.
type BinaryExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.Operator.Pos }

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Inner    Expression
	position Position
}

func (e *GroupingExpr) exprNode()     {}
func (e *GroupingExpr) Pos() Position { return e.position }

// LiteralExpr is a number, string, boolean or nil literal.
type LiteralExpr struct {
	Value    Value
	position Position
}

func (e *LiteralExpr) exprNode()     {}
func (e *LiteralExpr) Pos() Position { return e.position }

// UnaryExpr applies a prefix `-` or `!` to Right.
type UnaryExpr struct {
	Operator Token
	Right    Expression
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.Operator.Pos }

// VariableExpr reads the variable Name.
type VariableExpr struct {
	Name Token
}

func (e *VariableExpr) exprNode()     {}
func (e *VariableExpr) Pos() Position { return e.Name.Pos }

// AssignExpr stores Value into an existing variable and yields it.
type AssignExpr struct {
	Name  Token
	Value Expression
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) Pos() Position { return e.Name.Pos }
