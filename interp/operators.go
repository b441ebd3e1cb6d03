package interp

import (
	"fmt"

	"github.com/emberlang/ember/lexer"
)

func isNumeric(v *Value) bool { return v.Kind == IntValue || v.Kind == FloatValue }

func asFloat(v *Value) float64 {
	if v.Kind == IntValue {
		return float64(v.Int)
	}
	return v.Float
}

// applyBinaryOp implements spec §4.5.1's operand-shape table.
func applyBinaryOp(op lexer.Token, lhs, rhs *Value) (*Value, error) {
	switch op {
	case lexer.PLUS:
		if lhs.Kind == StringValue {
			return &Value{Kind: StringValue, Str: lhs.Str + Stringify(rhs)}, nil
		}
		if !isNumeric(lhs) || !isNumeric(rhs) {
			return nil, &TypeError{Message: fmt.Sprintf("operator + is not defined for %s and %s", lhs.Kind, rhs.Kind)}
		}
		if lhs.Kind == IntValue && rhs.Kind == IntValue {
			return &Value{Kind: IntValue, Int: lhs.Int + rhs.Int}, nil
		}
		return &Value{Kind: FloatValue, Float: asFloat(lhs) + asFloat(rhs)}, nil

	case lexer.MINUS:
		return arithmetic(lhs, rhs, "-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })

	case lexer.STAR:
		return arithmetic(lhs, rhs, "*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })

	case lexer.SLASH:
		if !isNumeric(lhs) || !isNumeric(rhs) {
			return nil, &TypeError{Message: fmt.Sprintf("operator / is not defined for %s and %s", lhs.Kind, rhs.Kind)}
		}
		if lhs.Kind == IntValue && rhs.Kind == IntValue {
			if rhs.Int == 0 {
				return nil, &TypeError{Message: "division by zero"}
			}
			return &Value{Kind: IntValue, Int: lhs.Int / rhs.Int}, nil
		}
		if asFloat(rhs) == 0 {
			return nil, &TypeError{Message: "division by zero"}
		}
		return &Value{Kind: FloatValue, Float: asFloat(lhs) / asFloat(rhs)}, nil

	case lexer.PERCENT:
		if lhs.Kind != IntValue || rhs.Kind != IntValue {
			return nil, &TypeError{Message: fmt.Sprintf("operator %% requires two ints, got %s and %s", lhs.Kind, rhs.Kind)}
		}
		if rhs.Int == 0 {
			return nil, &TypeError{Message: "modulo by zero"}
		}
		return &Value{Kind: IntValue, Int: lhs.Int % rhs.Int}, nil

	case lexer.EQ, lexer.NE:
		eq, err := valuesEqual(lhs, rhs)
		if err != nil {
			return nil, err
		}
		if op == lexer.NE {
			eq = !eq
		}
		return &Value{Kind: BoolValue, Bool: eq}, nil

	case lexer.LT, lexer.LE, lexer.GT, lexer.GE:
		if !isNumeric(lhs) || !isNumeric(rhs) {
			return nil, &TypeError{Message: fmt.Sprintf("operator %s requires two numbers, got %s and %s", op, lhs.Kind, rhs.Kind)}
		}
		a, b := asFloat(lhs), asFloat(rhs)
		var result bool
		switch op {
		case lexer.LT:
			result = a < b
		case lexer.LE:
			result = a <= b
		case lexer.GT:
			result = a > b
		case lexer.GE:
			result = a >= b
		}
		return &Value{Kind: BoolValue, Bool: result}, nil

	case lexer.AND, lexer.OR:
		if lhs.Kind != BoolValue || rhs.Kind != BoolValue {
			return nil, &TypeError{Message: fmt.Sprintf("operator %s requires two bools, got %s and %s", op, lhs.Kind, rhs.Kind)}
		}
		if op == lexer.AND {
			return &Value{Kind: BoolValue, Bool: lhs.Bool && rhs.Bool}, nil
		}
		return &Value{Kind: BoolValue, Bool: lhs.Bool || rhs.Bool}, nil

	default:
		return nil, &InternalError{Message: fmt.Sprintf("unsupported binary operator %s", op)}
	}
}

func arithmetic(lhs, rhs *Value, name string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (*Value, error) {
	if !isNumeric(lhs) || !isNumeric(rhs) {
		return nil, &TypeError{Message: fmt.Sprintf("operator %s is not defined for %s and %s", name, lhs.Kind, rhs.Kind)}
	}
	if lhs.Kind == IntValue && rhs.Kind == IntValue {
		return &Value{Kind: IntValue, Int: intOp(lhs.Int, rhs.Int)}, nil
	}
	return &Value{Kind: FloatValue, Float: floatOp(asFloat(lhs), asFloat(rhs))}, nil
}

// applyUnaryOp implements spec §4.5.2.
func applyUnaryOp(op lexer.Token, v *Value) (*Value, error) {
	switch op {
	case lexer.MINUS:
		switch v.Kind {
		case IntValue:
			return &Value{Kind: IntValue, Int: -v.Int}, nil
		case FloatValue:
			return &Value{Kind: FloatValue, Float: -v.Float}, nil
		default:
			return nil, &TypeError{Message: fmt.Sprintf("unary - is not defined for %s", v.Kind)}
		}
	case lexer.NOT:
		if v.Kind != BoolValue {
			return nil, &TypeError{Message: fmt.Sprintf("unary ! is not defined for %s", v.Kind)}
		}
		return &Value{Kind: BoolValue, Bool: !v.Bool}, nil
	default:
		return nil, &InternalError{Message: fmt.Sprintf("unsupported unary operator %s", op)}
	}
}

// valuesEqual implements spec §3.3's equality rule: structural for scalars,
// strings, vectors, and dicts; functions and modules forbid equality
// entirely (comparing one is a TypeError, not merely "always false").
func valuesEqual(a, b *Value) (bool, error) {
	if a.Kind == FunctionValue || a.Kind == ModuleValue || b.Kind == FunctionValue || b.Kind == ModuleValue {
		return false, &TypeError{Message: "functions and modules do not support equality comparison"}
	}
	if a.Kind != b.Kind {
		return false, nil
	}
	switch a.Kind {
	case NothingValue:
		return true, nil
	case BoolValue:
		return a.Bool == b.Bool, nil
	case IntValue:
		return a.Int == b.Int, nil
	case FloatValue:
		return a.Float == b.Float, nil
	case StringValue:
		return a.Str == b.Str, nil
	case VectorValue:
		if len(a.Vec.Elems) != len(b.Vec.Elems) {
			return false, nil
		}
		for i := range a.Vec.Elems {
			eq, err := valuesEqual(a.Vec.Elems[i], b.Vec.Elems[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case DictValue:
		if a.Dict.Len() != b.Dict.Len() {
			return false, nil
		}
		for _, h := range a.Dict.order {
			be, ok := b.Dict.Get(h)
			if !ok {
				return false, nil
			}
			eq, err := valuesEqual(a.Dict.entries[h].Value, be.Value)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	default:
		return false, nil
	}
}

// truthy implements spec §4.5.5: only bool and nothing are legal conditions.
func truthy(v *Value) (bool, error) {
	switch v.Kind {
	case NothingValue:
		return false, nil
	case BoolValue:
		return v.Bool, nil
	default:
		return false, &TypeError{Message: fmt.Sprintf("%s cannot be used as a condition", v.Kind)}
	}
}
