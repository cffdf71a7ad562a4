package analyzer

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/utils"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/models/message"
)

var urlPattern = regexp.MustCompile(`https?://`)

// processMessagesOnce 一次遍历完成文本预处理、词频统计和趣味统计
func (a *ChatAnalyzer) processMessagesOnce() {
	skipped := 0
	botFiltered := 0
	var prevClean, prevSender string

	for i := range a.messages {
		msg := &a.messages[i]

		if a.isBotMessage(msg) {
			botFiltered++
			continue
		}

		uin := msg.Uin()
		if uin == "" {
			continue
		}

		text := msg.Content.Text
		atContents := collectAtContents(msg)

		cleaned := CleanText(text, atContents)
		cleanedLen := utf8.RuneCountInString(cleaned)

		if cleanedLen >= 1 {
			a.cleanedTexts = append(a.cleanedTexts, corpusEntry{Text: cleaned, Uin: uin})
			a.accumulateWords(cleaned, uin)
			a.userMsgCount.inc(uin, 1)
			a.userCharCount.inc(uin, cleanedLen)
		} else if text != "" {
			skipped++
		}

		a.accountElements(msg, uin)

		if hour, ok := utils.ParseHour(msg.Timestamp.String()); ok {
			a.hourDistribution[hour]++
			if hour >= a.cfg.Hours.NightOwlStart && hour < a.cfg.Hours.NightOwlEnd {
				a.userNightCount.inc(uin, 1)
			}
			if hour >= a.cfg.Hours.EarlyBirdStart && hour < a.cfg.Hours.EarlyBirdEnd {
				a.userMorningCount.inc(uin, 1)
			}
		}

		// 复读：相邻两条保留消息文本相同且发送者不同
		if cleanedLen >= 2 && cleaned == prevClean && uin != prevSender {
			a.userRepeatCount.inc(uin, 1)
		}
		prevClean = cleaned
		prevSender = uin
	}

	if a.filterBots && botFiltered > 0 {
		log.Debugf("有效文本: %d 条, 跳过: %d 条, 过滤机器人: %d 条",
			len(a.cleanedTexts), skipped, botFiltered)
	} else {
		log.Debugf("有效文本: %d 条, 跳过: %d 条", len(a.cleanedTexts), skipped)
	}

	// 人均字数（保留1位小数），消息太少的不计
	for uin, msgCount := range a.userMsgCount {
		if msgCount >= a.cfg.Analysis.MinMsgsForAvg {
			avg := float64(a.userCharCount.get(uin)) / float64(msgCount)
			a.userCharPerMsg[uin] = math.Round(avg*10) / 10
		}
	}
}

// collectAtContents 收集指名艾特元素的字面内容
func collectAtContents(msg *message.Message) []string {
	if !strings.Contains(msg.Content.Text, "@") {
		return nil
	}

	var atContents []string
	for i := range msg.RawMessage.Elements {
		textElem := msg.RawMessage.Elements[i].TextElement
		if textElem == nil {
			continue
		}
		if textElem.AtType == message.AtTypeNamed && textElem.Content != "" {
			atContents = append(atContents, textElem.Content)
		}
	}
	return atContents
}

// accumulateWords 分词并累加词频、贡献者与例句
func (a *ChatAnalyzer) accumulateWords(cleaned, uin string) {
	sampleCap := a.cfg.Analysis.SampleCount * 3

	for _, word := range a.seg.Cut(cleaned) {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if a.useStopwords && a.stopwords.Contains(word) {
			continue
		}

		a.wordFreq.inc(word, 1)

		contributors, ok := a.wordContributors[word]
		if !ok {
			contributors = make(counter)
			a.wordContributors[word] = contributors
		}
		contributors.inc(uin, 1)

		if len(a.wordSamples[word]) < sampleCap {
			a.wordSamples[word] = append(a.wordSamples[word], cleaned)
		}
	}
}

// accountElements 统计富内容元素：图片/表情包、艾特、链接、转发、回复
func (a *ChatAnalyzer) accountElements(msg *message.Message, uin string) {
	imageCount := 0
	emojiFromElements := 0
	hasForward := false
	hasLink := false
	hasReply := false

	for i := range msg.RawMessage.Elements {
		elem := &msg.RawMessage.Elements[i]

		switch elem.ElementType {
		case message.ElementTypePic:
			summary := ""
			if elem.PicElement != nil {
				summary = elem.PicElement.Summary
			}
			// summary为[表情名称]格式时是表情包，否则按图片计
			if summary != "" && strings.HasPrefix(summary, "[") && strings.HasSuffix(summary, "]") {
				emojiFromElements++
			} else {
				imageCount++
			}

		case message.ElementTypeText:
			if elem.TextElement == nil {
				continue
			}
			atUid := elem.TextElement.AtUid.String()
			if elem.TextElement.AtType > 0 && atUid != "" && atUid != "0" {
				a.userAtCount.inc(uin, 1)
				a.userAtedCount.inc(atUid, 1)
			}
			if urlPattern.MatchString(elem.TextElement.Content) {
				hasLink = true
			}

		case message.ElementTypeLink:
			hasLink = true

		case message.ElementTypeForward:
			if elem.MultiForwardMsgElement != nil {
				hasForward = true
			}

		case message.ElementTypeReply:
			hasReply = true
			a.accountReplyTarget(elem.ReplyElement)
		}
	}

	if imageCount > 0 {
		a.userImageCount.inc(uin, imageCount)
	}
	if hasReply {
		a.userReplyCount.inc(uin, 1)
	}
	if hasLink {
		a.userLinkCount.inc(uin, 1)
	}
	if hasForward {
		a.userForwardCount.inc(uin, 1)
	}

	if emojiCount := msg.EmojiCount() + emojiFromElements; emojiCount > 0 {
		a.userEmojiCount.inc(uin, emojiCount)
	}
}

// accountReplyTarget 回复目标解析：优先senderUid，缺失时回退消息id查表
func (a *ChatAnalyzer) accountReplyTarget(reply *message.ReplyElement) {
	if reply == nil {
		return
	}

	target := reply.SenderUid.String()

	if target == "" || target == "0" {
		refMsgID := reply.SourceMsgIdInRecords.String()
		if refMsgID == "" || refMsgID == "0" {
			refMsgID = reply.ReplayMsgId.String()
		}
		if refMsgID != "" && refMsgID != "0" {
			target = a.identity.SenderOf(refMsgID)
		}
	}

	if target != "" && target != "0" {
		a.userRepliedCount.inc(target, 1)
	}
}

// reprocessWordFrequency 新词注册后重建词频。
// 早先的切分决策已被新词权重推翻，必须对保留语料全量重跑。
func (a *ChatAnalyzer) reprocessWordFrequency() {
	a.wordFreq = make(counter)
	a.wordContributors = make(map[string]counter)
	a.wordSamples = make(map[string][]string)

	for _, entry := range a.cleanedTexts {
		a.accumulateWords(entry.Text, entry.Uin)
	}

	log.Debugf("重新分词完成，当前词汇总数: %d", len(a.wordFreq))
}
