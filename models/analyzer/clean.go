package analyzer

import (
	"regexp"
	"strings"
)

var (
	// 回复标记 [回复 xxx: yyy]
	replyQuoteRegex = regexp.MustCompile(`\[回复\s+[^\]]*\]`)

	// 艾特串：@开头直到"空白+中文/字母"（真正消息内容的开始）。
	// RE2不支持lookahead，用捕获组把边界字符放回去。
	atWithTailRegex = regexp.MustCompile(`@[^\n]*?(\s+[\p{Han}a-zA-Z])`)
	atToEndRegex    = regexp.MustCompile(`@[^\n]*$`)

	// 方括号注解，如[图片][表情]，循环去除处理嵌套
	bracketRegex = regexp.MustCompile(`\[[^\[\]]*\]`)

	urlRegex = regexp.MustCompile(`https?://\S+`)
	wwwRegex = regexp.MustCompile(`www\.\S+`)

	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// CleanText 清理文本，去除回复标记、艾特、方括号注解和链接。
// atContents为消息元素中指名艾特的字面内容，先按字面移除，
// 正则兜底处理元素中未覆盖的艾特串。幂等：对已清理文本再次调用结果不变。
func CleanText(text string, atContents []string) string {
	if text == "" {
		return ""
	}

	// 1. 去除回复标记
	text = replyQuoteRegex.ReplaceAllString(text, "")

	// 2. 去除艾特串
	for _, at := range atContents {
		if at != "" {
			text = strings.ReplaceAll(text, at, "")
		}
	}
	text = atWithTailRegex.ReplaceAllString(text, "$1")
	text = atToEndRegex.ReplaceAllString(text, "")

	// 3. 循环去除所有方括号内容直到不动点
	for {
		next := bracketRegex.ReplaceAllString(text, "")
		if next == text {
			break
		}
		text = next
	}

	// 4. 去除链接
	text = urlRegex.ReplaceAllString(text, "")
	text = wwwRegex.ReplaceAllString(text, "")

	// 5. 压缩空白
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
