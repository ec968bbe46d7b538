package condition

// compare implements the six comparison operators across the literal
// types the grammar supports. Equality is permissive: values of
// different kinds simply compare unequal rather than erroring. Ordering
// comparisons are stricter: ordering against None always yields false
// (never an error, per spec), but ordering between incompatible
// non-None types — a string against a number, say — is an expression
// error rather than a silent false, since that almost always indicates
// a mistyped condition rather than an intentional check.
func compare(lv any, op string, rv any) (bool, error) {
	switch op {
	case "==":
		return equal(lv, rv), nil
	case "!=":
		return !equal(lv, rv), nil
	}

	if lv == nil || rv == nil {
		return false, nil
	}

	if lf, ok := toFloat(lv); ok {
		if rf, ok := toFloat(rv); ok {
			return orderFloat(lf, op, rf), nil
		}
		return false, &SemanticError{Msg: "cannot order a number against a non-number"}
	}

	if ls, ok := lv.(string); ok {
		if rs, ok := rv.(string); ok {
			return orderString(ls, op, rs), nil
		}
		return false, &SemanticError{Msg: "cannot order a string against a non-string"}
	}

	return false, &SemanticError{Msg: "ordering comparisons are only defined for numbers and strings"}
}

func equal(lv, rv any) bool {
	if lv == nil || rv == nil {
		return lv == nil && rv == nil
	}
	if lf, ok := toFloat(lv); ok {
		if rf, ok := toFloat(rv); ok {
			return lf == rf
		}
		return false
	}
	if ls, ok := lv.(string); ok {
		rs, ok := rv.(string)
		return ok && ls == rs
	}
	if lb, ok := lv.(bool); ok {
		rb, ok := rv.(bool)
		return ok && lb == rb
	}
	return lv == rv
}

func orderFloat(lf float64, op string, rf float64) bool {
	switch op {
	case "<":
		return lf < rf
	case "<=":
		return lf <= rf
	case ">":
		return lf > rf
	case ">=":
		return lf >= rf
	}
	return false
}

func orderString(ls string, op string, rs string) bool {
	switch op {
	case "<":
		return ls < rs
	case "<=":
		return ls <= rs
	case ">":
		return ls > rs
	case ">=":
		return ls >= rs
	}
	return false
}

// toFloat coerces the numeric types a YAML/JSON-decoded value or an
// integer/float literal can take into a float64 for comparison.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int64:
		return float64(t), true
	case int:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	default:
		return 0, false
	}
}
