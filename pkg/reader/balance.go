package reader

// Incomplete reports whether src ends inside an open bracket, i.e. an
// interactive reader should ask for another line before parsing. Strings
// cannot span lines, so an unterminated string is complete (and a read
// error) rather than a reason to keep prompting.
func Incomplete(src string) bool {
	depth := 0
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inString {
			switch c {
			case '\\':
				if i+1 < len(src) && src[i+1] != '\n' {
					i++
				}
			case '"':
				inString = false
			case '\n':
				return false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case ';':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		}
	}
	return !inString && depth > 0
}
