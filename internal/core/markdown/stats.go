package markdown

import (
	"unicode"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/clipperhouse/uax29/v2/words"
)

func count(plain string, wpm int) Stats {
	var s Stats

	tokens := words.FromString(plain)
	for tokens.Next() {
		if isWord(tokens.Value()) {
			s.Words++
		}
	}

	chars := graphemes.FromString(plain)
	for chars.Next() {
		if !isSpace(chars.Value()) {
			s.Characters++
		}
	}

	if s.Words > 0 {
		s.ReadingTime = (s.Words + wpm - 1) / wpm
	}
	return s
}

func isWord(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func isSpace(g string) bool {
	for _, r := range g {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
