package indexer

import (
	"regexp"
	"strings"
	"unicode"
)

var yearSuffixRe = regexp.MustCompile(`[0-9]+[a-h]?$`)

// Acronyms derives short search tokens from a citation key. The part after
// the last ':' is examined; it must end in a run of digits plus an optional
// disambiguation letter, otherwise no tokens are derived. The upper-case
// letters of that part form the author initials: three or more initials
// yield both the bare initials and the initials with the year suffix, exactly
// two yield only the suffixed form, and fewer fall back to the whole trailing
// part, covering keys named after a single author such as "Groth16".
func Acronyms(key string) []string {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		key = key[i+1:]
	}
	suffix := yearSuffixRe.FindString(key)
	if suffix == "" {
		return nil
	}
	var initials []rune
	for _, r := range key {
		if unicode.IsUpper(r) {
			initials = append(initials, r)
		}
	}
	switch {
	case len(initials) > 2:
		ini := string(initials)
		return []string{ini, ini + suffix}
	case len(initials) == 2:
		return []string{string(initials) + suffix}
	default:
		return []string{key}
	}
}
