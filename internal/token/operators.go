package token

// Single-character operators and their names. Followed by '=' they form the
// compound name (Add -> AddEq, Eq -> EqEq, Not -> NotEq, ...).
var singleOps = map[byte]string{
	'-': "Sub",
	'+': "Add",
	'*': "Mul",
	'/': "Div",
	'%': "Mod",
	'^': "Pow",
	'&': "And",
	'|': "Or",
	'!': "Not",
	'=': "Eq",
	'<': "Less",
	'>': "Greater",
}

// OperatorName returns the operator name for ch, and the compound name when
// ch is followed by '='. ok is false when ch does not start an operator.
func OperatorName(ch byte, followedByEq bool) (name string, ok bool) {
	base, ok := singleOps[ch]
	if !ok {
		return "", false
	}
	if !followedByEq {
		return base, true
	}
	if base == "Eq" {
		return "EqEq", true
	}
	return base + "Eq", true
}

// IsOperatorStart reports whether ch begins an operator token.
func IsOperatorStart(ch byte) bool {
	_, ok := singleOps[ch]
	return ok
}
