package chunkstore

import "strings"

// Tokenize lower-cases text, splits on non-alphanumeric characters plus
// underscore and dot, and keeps tokens of length >= 2.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	var tokens []string
	var cur strings.Builder
	flush := func() {
 if cur.Len() >= 2 {
 tokens = append(tokens, cur.String())
 }
 cur.Reset()
	}
	for _, r := range lower {
 if isAlnum(r) {
 cur.WriteRune(r)
 continue
 }
 flush()
	}
	flush()
	return tokens
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
