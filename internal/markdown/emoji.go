package markdown

import "strings"

// emojiRanges covers the pictographic blocks seen in checklist headings.
// The unicode package does not expose the Extended_Pictographic property,
// so the relevant blocks are listed directly.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport & map
	{0x1F700, 0x1F77F}, // alchemical
	{0x1F900, 0x1F9FF}, // supplemental symbols
	{0x1FA70, 0x1FAFF}, // symbols extended
	{0x2600, 0x26FF},   // miscellaneous symbols
	{0x2700, 0x27BF},   // dingbats
	{0x2B00, 0x2BFF},   // arrows & stars
	{0x1F1E6, 0x1F1FF}, // regional indicators
}

func isEmojiRune(r rune) bool {
	// Joiners and modifiers that keep a multi-codepoint emoji together.
	if r == 0x200D || r == 0xFE0F || (r >= 0x1F3FB && r <= 0x1F3FF) {
		return true
	}
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

// extractEmoji splits a leading emoji sequence from a heading. The emoji
// part ends at the first non-pictographic rune; surrounding whitespace is
// trimmed from both halves.
func extractEmoji(heading string) (emoji, rest string) {
	end := 0
	for i, r := range heading {
		if !isEmojiRune(r) {
			break
		}
		end = i + len(string(r))
	}
	if end == 0 {
		return "", heading
	}
	return heading[:end], strings.TrimSpace(heading[end:])
}
