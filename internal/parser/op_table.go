package parser

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет; всё, чего нет в таблице, имеет 0.
const (
	precNone           = 0
	precLogicalOr      = 1 // |
	precLogicalAnd     = 2 // &
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * /
)

var binaryPrec = map[string]int{
	"Or":        precLogicalOr,
	"And":       precLogicalAnd,
	"EqEq":      precEquality,
	"NotEq":     precEquality,
	"Less":      precComparison,
	"Greater":   precComparison,
	"LessEq":    precComparison,
	"GreaterEq": precComparison,
	"Add":       precAdditive,
	"Sub":       precAdditive,
	"Mul":       precMultiplicative,
	"Div":       precMultiplicative,
}

// opPrecedence возвращает приоритет оператора по его имени из лексера.
func opPrecedence(name string) int {
	if p, ok := binaryPrec[name]; ok {
		return p
	}
	return precNone
}
