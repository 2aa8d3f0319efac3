// Package extensibility provides pluggable building blocks around the engine:
// expression guards over external signals, action decorators and trigger sources.
package extensibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/fsmx/internal/primitives"
)

// Expression is a parsed "key op value" comparison such as "arm.speed > 3"
// or "estop == false".
type Expression struct {
	Key   string
	Op    string
	Value string
}

var operators = map[string]struct{}{
	"==": {}, "!=": {}, ">": {}, "<": {}, ">=": {}, "<=": {},
}

// ParseExpression parses a "key op value" expression.
func ParseExpression(expr string) (Expression, error) {
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		return Expression{}, fmt.Errorf("expression %q: want \"key op value\"", expr)
	}
	if _, ok := operators[parts[1]]; !ok {
		return Expression{}, fmt.Errorf("expression %q: unsupported operator %q", expr, parts[1])
	}
	e := Expression{Key: parts[0], Op: parts[1], Value: parts[2]}
	if e.Op != "==" && e.Op != "!=" {
		if _, err := strconv.ParseFloat(e.Value, 64); err != nil {
			return Expression{}, fmt.Errorf("expression %q: %s needs a numeric operand", expr, e.Op)
		}
	}
	return e, nil
}

// Eval evaluates the expression against signals. Missing readings evaluate to false.
func (e Expression) Eval(signals *primitives.Signals) bool {
	v, ok := signals.Get(e.Key)
	if !ok {
		return false
	}
	switch e.Op {
	case "==":
		return equals(v, e.Value)
	case "!=":
		return !equals(v, e.Value)
	}
	f, ok := toFloat(v)
	if !ok {
		return false
	}
	want, err := strconv.ParseFloat(e.Value, 64)
	if err != nil {
		return false
	}
	switch e.Op {
	case ">":
		return f > want
	case "<":
		return f < want
	case ">=":
		return f >= want
	case "<=":
		return f <= want
	default:
		return false
	}
}

func (e Expression) String() string {
	return e.Key + " " + e.Op + " " + e.Value
}

// ExpressionGuard compiles expr into a guard reading from signals.
// The expression is parsed once; signals are read on every evaluation.
func ExpressionGuard(signals *primitives.Signals, expr string) (primitives.Guard, error) {
	e, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	return func() bool {
		return e.Eval(signals)
	}, nil
}

// FlagGuard returns a guard that holds while the boolean reading key is true.
func FlagGuard(signals *primitives.Signals, key string) primitives.Guard {
	return func() bool {
		return signals.Bool(key)
	}
}

func equals(v any, literal string) bool {
	if s, ok := v.(string); ok {
		return s == literal
	}
	switch literal {
	case "true":
		return v == true
	case "false":
		return v == false
	case "nil":
		return v == nil
	}
	if f, ok := toFloat(v); ok {
		want, err := strconv.ParseFloat(literal, 64)
		return err == nil && f == want
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
