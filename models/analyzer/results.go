package analyzer

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
)

// singleCharPunct 单字过滤用的标点集合：ASCII标点 + 常见中文标点
var singleCharPunct = func() map[rune]struct{} {
	set := make(map[rune]struct{})
	for _, r := range "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" {
		set[r] = struct{}{}
	}
	for _, r := range "，。！？；：、“”‘’（）【】" {
		set[r] = struct{}{}
	}
	return set
}()

func isPunctWord(word string) bool {
	r, size := utf8.DecodeRuneInString(word)
	if size != len(word) {
		return false
	}
	_, ok := singleCharPunct[r]
	return ok
}

// filterResults 按长度/词频/白名单/单字独立性规则过滤词表，并对例句降采样
func (a *ChatAnalyzer) filterResults() {
	whitelist := make(map[string]struct{}, len(a.cfg.Analysis.Whitelist))
	for _, w := range a.cfg.Analysis.Whitelist {
		whitelist[w] = struct{}{}
	}

	filtered := make(counter)

	for word, freq := range a.wordFreq {
		// emoji和白名单词无条件保留
		if isEmoji(word) {
			filtered[word] = freq
			continue
		}
		if _, ok := whitelist[word]; ok {
			filtered[word] = freq
			continue
		}

		wordLen := utf8.RuneCountInString(word)
		if wordLen < a.cfg.Analysis.MinWordLen || wordLen > a.cfg.Analysis.MaxWordLen {
			continue
		}
		if freq < a.cfg.Analysis.MinFreq {
			continue
		}

		// 单字特殊处理
		if wordLen == 1 {
			if isPunctWord(word) {
				continue
			}
			stats, ok := a.singleCharStats[word]
			if !ok {
				// 从未被独立性统计覆盖的单字直接丢弃
				continue
			}
			if stats.Ratio < a.cfg.SingleChar.MinSoloRatio ||
				stats.Independent < a.cfg.SingleChar.MinSoloCount {
				continue
			}
		}

		filtered[word] = freq
	}

	a.wordFreq = filtered

	// 例句降采样
	sampleCount := a.cfg.Analysis.SampleCount
	for word, samples := range a.wordSamples {
		if len(samples) > sampleCount {
			rand.Shuffle(len(samples), func(i, j int) {
				samples[i], samples[j] = samples[j], samples[i]
			})
			a.wordSamples[word] = samples[:sampleCount]
		}
	}

	log.Debugf("过滤后 %d 个词", len(a.wordFreq))
}

// Contributor 词贡献者
type Contributor struct {
	Name  string `json:"name"`
	Uin   string `json:"uin"`
	Count int    `json:"count"`
}

// TopWord 热词条目
type TopWord struct {
	Word         string        `json:"word"`
	Freq         int           `json:"freq"`
	Contributors []Contributor `json:"contributors"`
	Samples      []string      `json:"samples"`
}

// RankEntry 榜单条目，Value为次数或格式化后的字符串
type RankEntry struct {
	Name  string      `json:"name"`
	Uin   string      `json:"uin"`
	Value interface{} `json:"value"`
}

// Report 最终报告
type Report struct {
	RunID            string                 `json:"runId"`
	ChatName         string                 `json:"chatName"`
	MessageCount     int                    `json:"messageCount"`
	TopWords         []TopWord              `json:"topWords"`
	Rankings         map[string][]RankEntry `json:"rankings"`
	HourDistribution map[string]int         `json:"hourDistribution"`
}

// TopWords 词频降序（并列按词典序）取前n，n<=0按配置的TopN
func (a *ChatAnalyzer) TopWords(n int) []kvPair {
	if n <= 0 {
		n = a.cfg.Analysis.TopN
	}
	return a.wordFreq.mostCommon(n)
}

// Export 导出报告
func (a *ChatAnalyzer) Export() *Report {
	topWords := make([]TopWord, 0, a.cfg.Analysis.TopN)
	for _, pair := range a.TopWords(0) {
		word := pair.Key
		// 导出阶段再过滤一次停用词，重分词不会把停用词带进报告
		if a.useStopwords && a.stopwords.Contains(word) {
			continue
		}

		contributors := make([]Contributor, 0, a.cfg.Analysis.ContributorTopN)
		for _, c := range a.wordContributors[word].mostCommon(a.cfg.Analysis.ContributorTopN) {
			contributors = append(contributors, Contributor{
				Name:  a.getName(c.Key),
				Uin:   c.Key,
				Count: c.Count,
			})
		}

		samples := a.wordSamples[word]
		if len(samples) > a.cfg.Analysis.SampleCount {
			samples = samples[:a.cfg.Analysis.SampleCount]
		}

		topWords = append(topWords, TopWord{
			Word:         word,
			Freq:         pair.Count,
			Contributors: contributors,
			Samples:      samples,
		})
	}

	hourDist := make(map[string]int, 24)
	for hour := 0; hour < 24; hour++ {
		hourDist[strconv.Itoa(hour)] = a.hourDistribution[hour]
	}

	return &Report{
		RunID:            a.runID,
		ChatName:         a.chatName,
		MessageCount:     len(a.messages),
		TopWords:         topWords,
		Rankings:         a.FunRankings(),
		HourDistribution: hourDist,
	}
}

// FunRankings 趣味榜单
func (a *ChatAnalyzer) FunRankings() map[string][]RankEntry {
	rankings := make(map[string][]RankEntry)

	fmtCounter := func(c counter) []RankEntry {
		pairs := c.mostCommon(a.cfg.Analysis.RankTopN)
		entries := make([]RankEntry, 0, len(pairs))
		for _, p := range pairs {
			entries = append(entries, RankEntry{
				Name:  a.getName(p.Key),
				Uin:   p.Key,
				Value: p.Count,
			})
		}
		return entries
	}

	rankings["话痨榜"] = fmtCounter(a.userMsgCount)
	rankings["字数榜"] = fmtCounter(a.userCharCount)
	rankings["长文王"] = a.chatterboxRanking()
	rankings["图片狂魔"] = fmtCounter(a.userImageCount)
	rankings["合并转发王"] = fmtCounter(a.userForwardCount)
	rankings["回复狂"] = fmtCounter(a.userReplyCount)
	rankings["被回复最多"] = fmtCounter(a.userRepliedCount)
	rankings["艾特狂"] = fmtCounter(a.userAtCount)
	rankings["被艾特最多"] = fmtCounter(a.userAtedCount)
	rankings["表情帝"] = fmtCounter(a.userEmojiCount)
	rankings["链接分享王"] = fmtCounter(a.userLinkCount)
	rankings["深夜党"] = fmtCounter(a.userNightCount)
	rankings["早起鸟"] = fmtCounter(a.userMorningCount)
	rankings["复读机"] = fmtCounter(a.userRepeatCount)

	return rankings
}

// chatterboxRanking 人均字数榜，值为格式化字符串
func (a *ChatAnalyzer) chatterboxRanking() []RankEntry {
	type avgPair struct {
		Uin string
		Avg float64
	}
	pairs := make([]avgPair, 0, len(a.userCharPerMsg))
	for uin, avg := range a.userCharPerMsg {
		pairs = append(pairs, avgPair{Uin: uin, Avg: avg})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Avg != pairs[j].Avg {
			return pairs[i].Avg > pairs[j].Avg
		}
		return pairs[i].Uin < pairs[j].Uin
	})
	if len(pairs) > a.cfg.Analysis.RankTopN {
		pairs = pairs[:a.cfg.Analysis.RankTopN]
	}

	entries := make([]RankEntry, 0, len(pairs))
	for _, p := range pairs {
		entries = append(entries, RankEntry{
			Name:  a.getName(p.Uin),
			Uin:   p.Uin,
			Value: fmt.Sprintf("%.1f字/条", p.Avg),
		})
	}
	return entries
}
