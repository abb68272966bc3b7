package expr

import "math"

// floatOps work on full float64 operands.
var floatOps = map[string]func(l, r float64) float64{
	"+":  func(l, r float64) float64 { return l + r },
	"-":  func(l, r float64) float64 { return l - r },
	"*":  func(l, r float64) float64 { return l * r },
	"/":  func(l, r float64) float64 { return l / r },
	"**": math.Pow,
}

// intOps truncate both operands to integers first. Boolean results are 1 or 0.
var intOps = map[string]func(l, r int64) (float64, error){
	"%": func(l, r int64) (float64, error) {
		if r == 0 {
			return 0, newError(KindDivisionByZero, "%")
		}
		return float64(l % r), nil
	},
	"<<": func(l, r int64) (float64, error) {
		if r < 0 {
			return 0, newError(KindInvalidOperand, "<<")
		}
		return float64(l << uint64(r)), nil
	},
	">>": func(l, r int64) (float64, error) {
		if r < 0 {
			return 0, newError(KindInvalidOperand, ">>")
		}
		return float64(l >> uint64(r)), nil
	},
	"<":  func(l, r int64) (float64, error) { return boolFloat(l < r), nil },
	"<=": func(l, r int64) (float64, error) { return boolFloat(l <= r), nil },
	">":  func(l, r int64) (float64, error) { return boolFloat(l > r), nil },
	">=": func(l, r int64) (float64, error) { return boolFloat(l >= r), nil },
	"==": func(l, r int64) (float64, error) { return boolFloat(l == r), nil },
	"!=": func(l, r int64) (float64, error) { return boolFloat(l != r), nil },
	"&&": func(l, r int64) (float64, error) { return boolFloat(l != 0 && r != 0), nil },
	"||": func(l, r int64) (float64, error) { return boolFloat(l != 0 || r != 0), nil },
}

// Apply applies a binary operator to left and right operands.
func Apply(op string, left, right float64) (float64, error) {
	if fn, ok := floatOps[op]; ok {
		return fn(left, right), nil
	}
	fn, ok := intOps[op]
	if !ok {
		return 0, newError(KindUnsupportedOperator, op)
	}
	l, err := truncate(op, left)
	if err != nil {
		return 0, err
	}
	r, err := truncate(op, right)
	if err != nil {
		return 0, err
	}
	return fn(l, r)
}

// truncate converts v toward zero, rejecting values int64 cannot hold.
func truncate(op string, v float64) (int64, error) {
	if math.IsNaN(v) || v >= 0x1p63 || v < -0x1p63 {
		return 0, newError(KindInvalidOperand, op)
	}
	return int64(v), nil
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
