package script

import (
	"fmt"
	"strconv"
	"strings"
)

// VarSource provides the minimal read interface the condition evaluator
// needs. This avoids an import cycle with the vars package.
type VarSource interface {
	GetVar(name string) (string, bool)
}

// Comparison operators recognized in condition strings, longest first so
// that ">=" is not read as ">" followed by garbage. ">>" and "<<" are
// legacy aliases for ">" and "<" found in older game content.
var condOps = []string{"==", "!=", "<>", ">=", "<=", ">>", "<<", ">", "<"}

// EvaluateCondition evaluates the restricted comparison grammar used by
// If and conditional-choice commands: "$var OP value" where value is an
// integer literal, a quoted string, or another $var reference. A bare
// "$var" means nonzero. Missing variables read as zero / empty string.
func EvaluateCondition(expr string, vars VarSource) (bool, error) {
	expr = strings.TrimSpace(Unquote(strings.TrimSpace(expr)))
	if expr == "" {
		return false, fmt.Errorf("empty condition")
	}

	if idx, op := findOp(expr); idx >= 0 {
		left := resolveOperand(strings.TrimSpace(expr[:idx]), vars)
		right := resolveOperand(strings.TrimSpace(expr[idx+len(op):]), vars)
		return compare(left, right, op), nil
	}

	// Bare "$var": true when nonzero.
	val := resolveOperand(expr, vars)
	n, _ := strconv.Atoi(val)
	return n != 0, nil
}

// findOp locates the first comparison operator outside quoted regions,
// trying longer operators first at each position. Operator characters
// inside a quoted operand are literal text, not a split point.
func findOp(expr string) (int, string) {
	inQuote := false
	for i := 0; i < len(expr); i++ {
		if expr[i] == '"' {
			inQuote = !inQuote
			continue
		}
		if inQuote {
			continue
		}
		for _, op := range condOps {
			if strings.HasPrefix(expr[i:], op) {
				return i, op
			}
		}
	}
	return -1, ""
}

func resolveOperand(tok string, vars VarSource) string {
	if strings.HasPrefix(tok, "$") {
		if vars == nil {
			return ""
		}
		val, _ := vars.GetVar(tok[1:])
		return val
	}
	return Unquote(tok)
}

// compare is numeric when both operands parse as integers, string
// equality otherwise. Ordering operators on non-numeric operands are
// false, matching the permissive runtime behavior of legacy content.
func compare(left, right, op string) bool {
	ln, lerr := strconv.Atoi(strings.TrimSpace(left))
	rn, rerr := strconv.Atoi(strings.TrimSpace(right))
	// A missing variable reads as zero when compared against a number.
	if lerr != nil && left == "" && rerr == nil {
		ln, lerr = 0, nil
	}
	if rerr != nil && right == "" && lerr == nil {
		rn, rerr = 0, nil
	}
	numeric := lerr == nil && rerr == nil

	switch op {
	case "==":
		if numeric {
			return ln == rn
		}
		return left == right
	case "!=", "<>":
		if numeric {
			return ln != rn
		}
		return left != right
	case ">", ">>":
		return numeric && ln > rn
	case "<", "<<":
		return numeric && ln < rn
	case ">=":
		return numeric && ln >= rn
	case "<=":
		return numeric && ln <= rn
	}
	return false
}
