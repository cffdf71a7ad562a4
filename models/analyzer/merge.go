package analyzer

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
)

// digitSymbolRegex 纯数字/标点/符号token，不参与合并
var digitSymbolRegex = regexp.MustCompile(`^[\d\p{P}\p{S}\s]+$`)

// 合并词的注册权重与观测频次成正比
const mergedWordWeightFactor = 1000

// mergeWordPairs 扫描相邻token对，条件概率足够高的合并为新词。
// 返回合并的词组数量。
func (a *ChatAnalyzer) mergeWordPairs() int {
	type bigramKey struct {
		Left  string
		Right string
	}

	bigramCount := make(map[bigramKey]int)
	rightTotal := make(counter)

	for _, entry := range a.cleanedTexts {
		words := a.seg.Cut(entry.Text)
		for i := 0; i+1 < len(words); i++ {
			w1 := strings.TrimSpace(words[i])
			w2 := strings.TrimSpace(words[i+1])
			if w1 == "" || w2 == "" {
				continue
			}
			if digitSymbolRegex.MatchString(w1) || digitSymbolRegex.MatchString(w2) {
				continue
			}
			bigramCount[bigramKey{Left: w1, Right: w2}]++
			rightTotal.inc(w1, 1)
		}
	}

	for key, count := range bigramCount {
		merged := key.Left + key.Right
		if utf8.RuneCountInString(merged) > a.cfg.Merge.MaxLen {
			continue
		}
		if count < a.cfg.Merge.MinFreq {
			continue
		}

		// 条件概率 P(right|left)
		total := rightTotal.get(key.Left)
		if total <= 0 {
			continue
		}
		prob := float64(count) / float64(total)
		if prob < a.cfg.Merge.MinProb {
			continue
		}

		a.mergedWords[merged] = MergedWord{
			Left:  key.Left,
			Right: key.Right,
			Count: count,
			Prob:  prob,
		}
		a.seg.AddWord(merged, float64(count)*mergedWordWeightFactor)
	}

	log.Debugf("合并 %d 个词组", len(a.mergedWords))
	a.logTopMerges()

	return len(a.mergedWords)
}

// logTopMerges 按共现次数输出前10个合并词供诊断
func (a *ChatAnalyzer) logTopMerges() {
	if len(a.mergedWords) == 0 {
		return
	}

	type mergeItem struct {
		Word string
		Info MergedWord
	}
	items := make([]mergeItem, 0, len(a.mergedWords))
	for word, info := range a.mergedWords {
		items = append(items, mergeItem{Word: word, Info: info})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Info.Count != items[j].Info.Count {
			return items[i].Info.Count > items[j].Info.Count
		}
		return items[i].Word < items[j].Word
	})
	if len(items) > 10 {
		items = items[:10]
	}
	for _, item := range items {
		log.Debugf("  %s: %s+%s (%d次, %.0f%%)",
			item.Word, item.Info.Left, item.Info.Right, item.Info.Count, item.Info.Prob*100)
	}
}
