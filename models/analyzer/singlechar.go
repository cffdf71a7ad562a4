package analyzer

import "unicode"

// charStat 单字独立性统计
type charStat struct {
	Total       int     // 总出现次数
	Independent float64 // 独立得分 = 单字消息次数 + 0.5×边界出现次数
	Ratio       float64 // 独立比例 = 独立得分 / 总次数
}

// boundaryPunct 判定边界用的标点集合
var boundaryPunct = func() map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, r := range `，。！？、；：“”‘’（）,.!?;:'"()[]【】《》<>…—～·` {
		set[r] = struct{}{}
	}
	return set
}()

// isScorableChar 参与单字统计的字符：汉字或拉丁字母
func isScorableChar(r rune) bool {
	return unicode.Is(unicode.Han, r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// isBoundaryRune 标点、空白视为边界
func isBoundaryRune(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	_, ok := boundaryPunct[r]
	return ok
}

// analyzeSingleChars 逐字扫描清洗语料，与分词结果无关。
// 区分有意义的单字（代词、语气词）和分词噪声：
// 经常独立成句或出现在边界上的字得分高。
func (a *ChatAnalyzer) analyzeSingleChars() map[string]charStat {
	totalCount := make(counter)
	soloCount := make(counter)
	boundaryCount := make(counter)

	for _, entry := range a.cleanedTexts {
		runes := []rune(entry.Text)

		// 总次数 + 单字消息
		scorable := 0
		var lastScorable rune
		for _, r := range runes {
			if isScorableChar(r) {
				totalCount.inc(string(r), 1)
				scorable++
				lastScorable = r
			}
		}
		if scorable == 1 {
			// 单字消息计入solo，不再重复计入boundary
			soloCount.inc(string(lastScorable), 1)
			continue
		}

		// 边界出现：前后都是标点/空白/文本端点
		for i, r := range runes {
			if !isScorableChar(r) {
				continue
			}
			leftOK := i == 0 || isBoundaryRune(runes[i-1])
			rightOK := i == len(runes)-1 || isBoundaryRune(runes[i+1])
			if leftOK && rightOK {
				boundaryCount.inc(string(r), 1)
			}
		}
	}

	result := make(map[string]charStat, len(totalCount))
	for ch, total := range totalCount {
		independent := float64(soloCount.get(ch)) + 0.5*float64(boundaryCount.get(ch))
		ratio := 0.0
		if total > 0 {
			ratio = independent / float64(total)
		}
		result[ch] = charStat{
			Total:       total,
			Independent: independent,
			Ratio:       ratio,
		}
	}
	return result
}
