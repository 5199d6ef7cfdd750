package lexer

const utf8RuneSelf = 0x80

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isIdentContinue(b byte) bool {
	return isLetter(b) || isDec(b) || b == '_' || b == '.'
}

// isASCIIPunct: !"#$%&'()*+,-./:;<=>?@[\]^_`{|}~
func isASCIIPunct(b byte) bool {
	return (b >= '!' && b <= '/') ||
		(b >= ':' && b <= '@') ||
		(b >= '[' && b <= '`') ||
		(b >= '{' && b <= '~')
}
