package widget

import "unicode"

// fuzzyMatch tracks one candidate match's position in the remaining text
// to search from for the next pattern character.
type fuzzyMatch struct {
	restIndex int
}

// FuzzyMatcher implements the ordered-subsequence, word-boundary-preferring
// match spec.md §4.6 describes. Reused across calls (Matches truncates and
// reuses its scratch slices, same shape as the original's previous/next buffers)
// so a Filter only needs one matcher for its whole entry list.
type FuzzyMatcher struct {
	previous []fuzzyMatch
	next     []fuzzyMatch
}

// Matches reports whether pattern fuzzy-matches text. An empty pattern
// matches everything. For each pattern rune in order, the matcher looks
// for a case-insensitive occurrence in text, after the previous match's
// position, that is either the first rune of the remaining window, a
// non-alphanumeric rune, or the start of a new alphanumeric "word" (the
// previous rune was non-alphanumeric, or a case transition from lower to
// upper — CamelCase).
func (m *FuzzyMatcher) Matches(text, pattern string) bool {
	if pattern == "" {
		return true
	}

	runes := []rune(text)
	m.previous = m.previous[:0]
	m.previous = append(m.previous, fuzzyMatch{restIndex: 0})

	for _, patternChar := range pattern {
		m.next = m.next[:0]

		for _, prev := range m.previous {
			var previousChar rune
			for i := prev.restIndex; i < len(runes); i++ {
				textChar := runes[i]
				if !runesEqualFold(textChar, patternChar) {
					previousChar = textChar
					continue
				}

				matched := false
				if i == prev.restIndex && prev.restIndex != 0 {
					matched = true
				} else if !isASCIIAlnum(textChar) {
					matched = true
				} else {
					matched = (!isASCIIAlnum(previousChar) && isASCIIAlnum(textChar)) ||
						(isASCIILower(previousChar) && isASCIIUpper(textChar))
				}

				if matched {
					m.next = append(m.next, fuzzyMatch{restIndex: i + 1})
				}

				previousChar = textChar
			}
		}

		if len(m.next) == 0 {
			return false
		}
		m.previous, m.next = m.next, m.previous
	}

	return true
}

func runesEqualFold(a, b rune) bool {
	return unicode.ToLower(a) == unicode.ToLower(b)
}

func isASCIIAlnum(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIILower(c rune) bool { return c >= 'a' && c <= 'z' }
func isASCIIUpper(c rune) bool { return c >= 'A' && c <= 'Z' }
