package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
)

// sentenceSplitRegex 句子切分符：中英文标点与空白
var sentenceSplitRegex = regexp.MustCompile(`[，。！？、；：“”‘’（）\s,.!?()]+`)

// 句首/句尾合成标记，避免边缘n-gram的邻接熵被错误压低
const (
	bosMarker = "<BOS>"
	eosMarker = "<EOS>"
)

// 新词注册到分词器的固定权重，足够高以便后续切分保持完整
const discoveredWordWeight = 1000

// n-gram长度上界
const maxNgramLen = 5

// discoverNewWords 基于n-gram频次、邻接熵和互信息的无监督新词发现。
// 返回发现的新词数量，新词同时注册进本次运行的分词词典。
func (a *ChatAnalyzer) discoverNewWords() int {
	ngramFreq := make(counter)
	leftNeighbors := make(map[string]counter)
	rightNeighbors := make(map[string]counter)
	totalChars := 0

	for _, entry := range a.cleanedTexts {
		for _, sentence := range sentenceSplitRegex.Split(entry.Text, -1) {
			sentence = strings.TrimSpace(sentence)
			runes := []rune(sentence)
			if len(runes) < 2 {
				continue
			}
			totalChars += len(runes)

			maxN := maxNgramLen
			if len(runes) < maxN {
				maxN = len(runes)
			}

			for n := 2; n <= maxN; n++ {
				for i := 0; i+n <= len(runes); i++ {
					ngram := string(runes[i : i+n])
					if strings.TrimSpace(ngram) == "" {
						continue
					}
					ngramFreq.inc(ngram, 1)

					left := leftNeighbors[ngram]
					if left == nil {
						left = make(counter)
						leftNeighbors[ngram] = left
					}
					if i > 0 {
						left.inc(string(runes[i-1]), 1)
					} else {
						left.inc(bosMarker, 1)
					}

					right := rightNeighbors[ngram]
					if right == nil {
						right = make(counter)
						rightNeighbors[ngram] = right
					}
					if i+n < len(runes) {
						right.inc(string(runes[i+n]), 1)
					} else {
						right.inc(eosMarker, 1)
					}
				}
			}
		}
	}

	for word, freq := range ngramFreq {
		if freq < a.cfg.NewWord.MinFreq {
			continue
		}

		// 邻接熵：左右两侧上下文都要足够不可预测
		minEnt := math.Min(entropy(leftNeighbors[word]), entropy(rightNeighbors[word]))
		if minEnt < a.cfg.NewWord.EntropyThreshold {
			continue
		}

		// 互信息：任何一个切分点都不能把词拆成两个独立片段
		minPMI := math.Inf(1)
		runes := []rune(word)
		for i := 1; i < len(runes); i++ {
			leftFreq := ngramFreq.get(string(runes[:i]))
			rightFreq := ngramFreq.get(string(runes[i:]))
			if leftFreq > 0 && rightFreq > 0 {
				pmi := math.Log2(float64(freq) * float64(totalChars) /
					(float64(leftFreq)*float64(rightFreq) + 1e-10))
				if pmi < minPMI {
					minPMI = pmi
				}
			}
		}
		if math.IsInf(minPMI, 1) {
			// 没有可计算的切分点，按中性值处理
			minPMI = 0
		}
		if minPMI < a.cfg.NewWord.PMIThreshold {
			continue
		}

		a.discoveredWords[word] = struct{}{}
	}

	for word := range a.discoveredWords {
		a.seg.AddWord(word, discoveredWordWeight)
	}

	log.Debugf("发现 %d 个新词", len(a.discoveredWords))
	return len(a.discoveredWords)
}

// entropy 香农熵 -Σ p·log2(p)
func entropy(neighborFreq counter) float64 {
	total := neighborFreq.total()
	if total == 0 {
		return 0
	}

	var ent float64
	for _, freq := range neighborFreq {
		p := float64(freq) / float64(total)
		if p > 0 {
			ent -= p * math.Log2(p)
		}
	}
	return ent
}
