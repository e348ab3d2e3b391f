// Package lox implements a small dynamically-typed expression language.
// Source text is scanned into tokens, parsed by a recursive-descent parser
// into statements, and executed directly by a tree-walking interpreter.
// The supported constructs are:
//   - `print expr;` statements and bare expression statements.
//   - `var name = expr;` declarations and `name = expr` assignments.
//   - Number, string, boolean and nil literals.
//   - Arithmetic (+, -, *, /), comparison (>, >=, <, <=) and equality (==, !=).
//   - Unary negation and logical not, plus parentheses for grouping.
//
// Comments beginning with `//` run to the end of the line. Variables live in a
// single flat environment owned by the Interpreter; reading or assigning a
// name that was never declared is a runtime error.
package lox
