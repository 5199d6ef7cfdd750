package token

var keywords = map[string]Kind{
	"if":       Keyword,
	"else":     Keyword,
	"while":    Keyword,
	"for":      Keyword,
	"break":    Keyword,
	"continue": Keyword,
	"return":   Keyword,
	"def":      Keyword,
	"let":      Keyword,
	"True":     True,
	"true":     True,
	"False":    False,
	"false":    False,
	"None":     None,
}

// LookupKeyword возвращает тип и bool если это ключевое слово или литерал True/False/None.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
