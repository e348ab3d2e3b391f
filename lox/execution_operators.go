package lox

func (exec *execution) evalUnaryExpr(e *UnaryExpr) (Value, error) {
	right, err := exec.evalExpression(e.Right)
	if err != nil {
		return NewNil(), err
	}
	switch e.Operator.Type {
	case tokenMinus:
		if right.Kind() != KindNumber {
			return NewNil(), exec.wrapError(errOperandNumber, e.Pos())
		}
		return NewNumber(-right.Number()), nil
	case tokenBang:
		return NewBool(!right.Truthy()), nil
	default:
		return NewNil(), exec.errorAt(e.Pos(), "unsupported unary operator %s", e.Operator.Lexeme)
	}
}

func (exec *execution) evalBinaryExpr(expr *BinaryExpr) (Value, error) {
	left, err := exec.evalExpression(expr.Left)
	if err != nil {
		return NewNil(), err
	}
	right, err := exec.evalExpression(expr.Right)
	if err != nil {
		return NewNil(), err
	}

	var result Value
	switch expr.Operator.Type {
	case tokenPlus:
		result, err = addValues(left, right)
	case tokenMinus:
		result, err = arithmetic(left, right, func(a, b float64) float64 { return a - b })
	case tokenAsterisk:
		result, err = arithmetic(left, right, func(a, b float64) float64 { return a * b })
	case tokenSlash:
		result, err = arithmetic(left, right, func(a, b float64) float64 { return a / b })
	case tokenGT:
		result, err = compareNumbers(left, right, func(a, b float64) bool { return a > b })
	case tokenGTE:
		result, err = compareNumbers(left, right, func(a, b float64) bool { return a >= b })
	case tokenLT:
		result, err = compareNumbers(left, right, func(a, b float64) bool { return a < b })
	case tokenLTE:
		result, err = compareNumbers(left, right, func(a, b float64) bool { return a <= b })
	case tokenEQ:
		result, err = compareNumbers(left, right, func(a, b float64) bool { return a == b })
	case tokenNotEQ:
		result, err = compareNumbers(left, right, func(a, b float64) bool { return a != b })
	default:
		return NewNil(), exec.errorAt(expr.Pos(), "unsupported operator %s", expr.Operator.Lexeme)
	}

	if err != nil {
		return NewNil(), exec.wrapError(err, expr.Pos())
	}
	return result, nil
}

func addValues(left, right Value) (Value, error) {
	switch {
	case left.Kind() == KindNumber && right.Kind() == KindNumber:
		return NewNumber(left.Number() + right.Number()), nil
	case left.Kind() == KindString && right.Kind() == KindString:
		return NewString(left.Str() + right.Str()), nil
	default:
		return NewNil(), errOperandsAdd
	}
}

func arithmetic(left, right Value, op func(a, b float64) float64) (Value, error) {
	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return NewNil(), errOperandsNumbers
	}
	return NewNumber(op(left.Number(), right.Number())), nil
}

// compareNumbers also backs == and !=, which only accept numbers.
func compareNumbers(left, right Value, cmp func(a, b float64) bool) (Value, error) {
	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return NewNil(), errOperandsNumbers
	}
	return NewBool(cmp(left.Number(), right.Number())), nil
}
