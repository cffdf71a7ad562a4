package analyzer

import "unicode/utf8"

// emojiRanges 常见emoji码位区间
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F}, {0x1F300, 0x1F5FF}, {0x1F680, 0x1F6FF},
	{0x1F1E0, 0x1F1FF}, {0x2702, 0x27B0}, {0x1F900, 0x1F9FF},
	{0x1FA00, 0x1FA6F}, {0x1FA70, 0x1FAFF}, {0x2600, 0x26FF}, {0x2300, 0x23FF},
}

// isEmoji 判断是否为单个emoji字符的词
func isEmoji(word string) bool {
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 || size != len(word) {
		return false
	}
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}
