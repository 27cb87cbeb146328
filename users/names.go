package users

import (
	"strings"
	"unicode"
)

// compoundSurnames are two-character family names that must not be split
var compoundSurnames = map[string]struct{}{
	"歐陽": {}, "司馬": {}, "端木": {}, "上官": {}, "夏侯": {}, "諸葛": {}, "尉遲": {}, "皇甫": {},
	"澹台": {}, "公孫": {}, "仲孫": {}, "軒轅": {}, "令狐": {}, "鍾離": {}, "宇文": {}, "長孫": {},
	"慕容": {}, "司徒": {}, "司空": {}, "司寇": {}, "申屠": {}, "南宮": {}, "東方": {}, "西門": {},
}

// SplitName separates a display name into surname and given name.
//
// Names with whitespace are split on it, surname first. A single ASCII word is
// treated as a surname only. Anything else is assumed to be a CJK name: a known
// compound surname takes two characters, otherwise the surname is the first character.
// Empty results mean "unknown". This is a heuristic, not a general name parser.
func SplitName(name string) (surname, givenName string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ""
	}

	if parts := strings.Fields(trimmed); len(parts) > 1 {
		return parts[0], strings.Join(parts[1:], " ")
	}

	if isASCII(trimmed) {
		return trimmed, ""
	}

	runes := []rune(trimmed)
	if len(runes) > 2 {
		if _, ok := compoundSurnames[string(runes[:2])]; ok {
			return string(runes[:2]), string(runes[2:])
		}
	}

	if len(runes) >= 2 {
		return string(runes[:1]), string(runes[1:])
	}

	return trimmed, ""
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
