// Package terms pulls Japanese vocabulary candidates out of tutor text and
// matches them back to enrichment results.
package terms

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultMax caps per-turn extraction.
	DefaultMax = 5

	// ReplyMax caps whole-reply extraction.
	ReplyMax = 15
)

// japaneseRun matches two or more consecutive hiragana, katakana or CJK
// unified ideographs. A kanji standing alone is a word in its own right and
// matches as well; lone kana are particles and are skipped.
var japaneseRun = regexp.MustCompile(`[\x{3040}-\x{30ff}\x{4e00}-\x{9faf}]{2,}|[\x{4e00}-\x{9faf}]`)

// Extract returns the distinct Japanese runs in text in first-seen order,
// truncated to max entries. A max of zero or less means DefaultMax.
func Extract(text string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	matches := japaneseRun.FindAllString(text, -1)
	out := make([]string, 0, min(len(matches), max))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
		if len(out) == max {
			break
		}
	}
	return out
}

// Normalize folds a term to NFKC and drops every rune that is not kana,
// kanji or the prolonged sound mark.
func Normalize(term string) string {
	folded := norm.NFKC.String(term)
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if isJapanese(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isJapanese(r rune) bool {
	switch {
	case r >= 0x3040 && r <= 0x30ff:
		return true
	case r >= 0x4e00 && r <= 0x9faf:
		return true
	case r == 'ー':
		return true
	}
	return false
}

// Match finds the item whose key best corresponds to term. An exact
// normalised match wins; otherwise the first item whose normalised key
// contains, or is contained in, the normalised term is returned. Terms or
// keys that normalise to the empty string never match.
func Match[T any](term string, items []T, key func(T) string) (T, bool) {
	var zero T
	want := Normalize(term)
	if want == "" {
		return zero, false
	}

	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = Normalize(key(it))
		if keys[i] == want {
			return it, true
		}
	}
	for i, it := range items {
		k := keys[i]
		if k == "" {
			continue
		}
		if strings.Contains(k, want) || strings.Contains(want, k) {
			return it, true
		}
	}
	return zero, false
}
