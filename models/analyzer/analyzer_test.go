package analyzer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/config"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/segment"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/models/message"
)

// testConfig 返回一份带默认值的独立配置副本，测试可随意改动
func testConfig() *config.ReportConfig {
	cfg := *config.Load("")
	return &cfg
}

func textMsg(uin, name, ts, text string) message.Message {
	return message.Message{
		Timestamp: message.FlexString(ts),
		Sender:    message.Sender{Uin: message.FlexString(uin), Name: name},
		Content:   message.Content{Text: text},
	}
}

// corpusAnalyzer 构造直接注入清洗语料的分析器，分词器为零值（不分词）
func corpusAnalyzer(cfg *config.ReportConfig, texts ...string) *ChatAnalyzer {
	a := New(&message.Transcript{}, cfg, nil, &segment.Segmenter{})
	for _, text := range texts {
		a.cleanedTexts = append(a.cleanedTexts, corpusEntry{Text: text, Uin: "1"})
	}
	return a
}

func newRealSegmenter(t *testing.T) *segment.Segmenter {
	t.Helper()
	seg, err := segment.New()
	if err != nil {
		t.Fatalf("加载分词词典失败: %v", err)
	}
	return seg
}

func TestAnalyze_EndToEnd(t *testing.T) {
	seg := newRealSegmenter(t)
	cfg := testConfig()
	cfg.Analysis.MinFreq = 1

	msgs := []message.Message{
		textMsg("1001", "小明", "2024-03-05T20:15:00+08:00", "今天天气真好"),
		textMsg("1002", "小红", "2024-03-05T21:20:00+08:00", "天气真好啊"),
		textMsg("1001", "小明", "2024-03-06T09:30:00+08:00", "今天心情不错"),
	}

	a := New(&message.Transcript{ChatName: "测试群", Messages: msgs}, cfg, nil, seg)
	if err := a.Analyze(); err != nil {
		t.Fatalf("Analyze失败: %v", err)
	}

	if got := a.wordFreq.get("天气"); got != 2 {
		t.Fatalf("词频 天气 = %d, want 2", got)
	}
	contributors := a.wordContributors["天气"]
	if contributors.get("1001") != 1 || contributors.get("1002") != 1 {
		t.Fatalf("天气 贡献者错误: %v", contributors)
	}

	total := 0
	for _, c := range a.hourDistribution {
		total += c
	}
	if total != 3 {
		t.Fatalf("小时分布总和 = %d, want 3", total)
	}
	if a.hourDistribution[20] != 1 || a.hourDistribution[21] != 1 || a.hourDistribution[9] != 1 {
		t.Fatalf("小时分布错误: %v", a.hourDistribution)
	}
	// 早起鸟区间为左闭右开，9点不计
	if got := a.userMorningCount.get("1001"); got != 0 {
		t.Fatalf("早起鸟计数 = %d, want 0", got)
	}

	if got := a.userMsgCount.get("1001"); got != 2 {
		t.Fatalf("消息数 1001 = %d, want 2", got)
	}

	rep := a.Export()
	if rep.ChatName != "测试群" {
		t.Fatalf("ChatName = %s", rep.ChatName)
	}
	if rep.MessageCount != 3 {
		t.Fatalf("MessageCount = %d, want 3", rep.MessageCount)
	}
	if rep.RunID == "" {
		t.Fatalf("RunID为空")
	}
	talkers := rep.Rankings["话痨榜"]
	if len(talkers) == 0 || talkers[0].Uin != "1001" || talkers[0].Name != "小明" {
		t.Fatalf("话痨榜错误: %v", talkers)
	}
	if len(rep.HourDistribution) != 24 {
		t.Fatalf("小时分布应补齐24小时, got %d", len(rep.HourDistribution))
	}
}

func TestAnalyze_BotMessagesExcluded(t *testing.T) {
	seg := newRealSegmenter(t)
	cfg := testConfig()
	cfg.Analysis.MinFreq = 1

	bot := textMsg("9999", "群管家", "2024-03-05T10:00:00+08:00", "欢迎新成员加入本群欢迎新成员加入本群")
	bot.RawMessage.SubMsgType = 577
	msgs := []message.Message{
		bot,
		textMsg("1001", "小明", "2024-03-05T11:00:00+08:00", "大家早上好"),
	}

	a := New(&message.Transcript{ChatName: "g", Messages: msgs}, cfg, nil, seg)
	if err := a.Analyze(); err != nil {
		t.Fatalf("Analyze失败: %v", err)
	}

	if got := a.userMsgCount.get("9999"); got != 0 {
		t.Fatalf("机器人消息被计数: %d", got)
	}
	for word, c := range a.wordContributors {
		if c.get("9999") > 0 {
			t.Fatalf("机器人贡献了词 %s", word)
		}
	}
}

func TestAnalyze_ErrorPaths(t *testing.T) {
	cfg := testConfig()

	a := New(&message.Transcript{}, cfg, nil, &segment.Segmenter{})
	if err := a.Analyze(); err != ErrNoMessages {
		t.Fatalf("空消息应返回ErrNoMessages, got %v", err)
	}

	msgs := []message.Message{
		textMsg("1", "", "2024-03-05T10:00:00+08:00", "[图片]"),
		textMsg("2", "", "2024-03-05T10:01:00+08:00", "https://example.com"),
	}
	a = New(&message.Transcript{Messages: msgs}, cfg, nil, &segment.Segmenter{})
	if err := a.Analyze(); err != ErrEmptyCorpus {
		t.Fatalf("清洗后全空应返回ErrEmptyCorpus, got %v", err)
	}
}

func TestWordFrequencyConservation(t *testing.T) {
	seg := newRealSegmenter(t)
	cfg := testConfig()

	msgs := []message.Message{
		textMsg("1", "", "2024-03-05T10:00:00+08:00", "今天天气真好"),
		textMsg("2", "", "2024-03-05T10:01:00+08:00", "我们一起去公园"),
		textMsg("1", "", "2024-03-05T10:02:00+08:00", "公园的花开了"),
	}
	a := New(&message.Transcript{Messages: msgs}, cfg, nil, seg)
	a.processMessagesOnce()

	recount := func() int {
		n := 0
		for _, entry := range a.cleanedTexts {
			for _, w := range a.seg.Cut(entry.Text) {
				if strings.TrimSpace(w) != "" {
					n++
				}
			}
		}
		return n
	}

	if got, want := a.wordFreq.total(), recount(); got != want {
		t.Fatalf("词频总和 %d != token总数 %d", got, want)
	}

	// 注册新词后重分词，总和仍与重新切分一致
	a.seg.AddWord("天气真好", 1000)
	a.reprocessWordFrequency()
	if got, want := a.wordFreq.total(), recount(); got != want {
		t.Fatalf("重分词后词频总和 %d != token总数 %d", got, want)
	}
}

func TestProcessMessages_RepeatDetection(t *testing.T) {
	cfg := testConfig()
	msgs := []message.Message{
		textMsg("1", "", "2024-03-05T10:00:00+08:00", "哈哈哈哈"),
		textMsg("2", "", "2024-03-05T10:01:00+08:00", "哈哈哈哈"),
		textMsg("2", "", "2024-03-05T10:02:00+08:00", "哈哈哈哈"),
		textMsg("3", "", "2024-03-05T10:03:00+08:00", "哈哈哈哈"),
	}
	a := New(&message.Transcript{Messages: msgs}, cfg, nil, &segment.Segmenter{})
	a.processMessagesOnce()

	if got := a.userRepeatCount.get("1"); got != 0 {
		t.Fatalf("复读计数 1 = %d, want 0", got)
	}
	if got := a.userRepeatCount.get("2"); got != 1 {
		t.Fatalf("复读计数 2 = %d, want 1", got)
	}
	if got := a.userRepeatCount.get("3"); got != 1 {
		t.Fatalf("复读计数 3 = %d, want 1", got)
	}
}

func TestAccountElements(t *testing.T) {
	cfg := testConfig()
	a := New(&message.Transcript{}, cfg, nil, &segment.Segmenter{})
	a.identity = &identityMap{msgidToUin: map[string]string{"m7": "4004"}}

	forward := json.RawMessage(`{}`)

	msg := message.Message{
		Content: message.Content{Text: "@小红 看这个 https://example.com"},
		RawMessage: message.RawMessage{
			Elements: []message.Element{
				{ElementType: message.ElementTypePic, PicElement: &message.PicElement{Summary: "[滑稽]"}},
				{ElementType: message.ElementTypePic, PicElement: &message.PicElement{Summary: ""}},
				{
					ElementType: message.ElementTypeText,
					TextElement: &message.TextElement{AtType: message.AtTypeNamed, AtUid: "2002", Content: "@小红"},
				},
				{
					ElementType: message.ElementTypeText,
					TextElement: &message.TextElement{Content: "看这个 https://example.com"},
				},
				{ElementType: message.ElementTypeForward, MultiForwardMsgElement: &forward},
				{
					ElementType:  message.ElementTypeReply,
					ReplyElement: &message.ReplyElement{SenderUid: "3003"},
				},
			},
		},
	}
	a.accountElements(&msg, "1001")

	if got := a.userImageCount.get("1001"); got != 1 {
		t.Fatalf("图片计数 = %d, want 1", got)
	}
	if got := a.userEmojiCount.get("1001"); got != 1 {
		t.Fatalf("表情计数 = %d, want 1", got)
	}
	if got := a.userAtCount.get("1001"); got != 1 {
		t.Fatalf("艾特计数 = %d, want 1", got)
	}
	if got := a.userAtedCount.get("2002"); got != 1 {
		t.Fatalf("被艾特计数 = %d, want 1", got)
	}
	if got := a.userLinkCount.get("1001"); got != 1 {
		t.Fatalf("链接计数 = %d, want 1", got)
	}
	if got := a.userForwardCount.get("1001"); got != 1 {
		t.Fatalf("转发计数 = %d, want 1", got)
	}
	if got := a.userReplyCount.get("1001"); got != 1 {
		t.Fatalf("回复计数 = %d, want 1", got)
	}
	if got := a.userRepliedCount.get("3003"); got != 1 {
		t.Fatalf("被回复计数 = %d, want 1", got)
	}
}

func TestAccountReplyTarget_MessageIDFallback(t *testing.T) {
	cfg := testConfig()
	a := New(&message.Transcript{}, cfg, nil, &segment.Segmenter{})
	a.identity = &identityMap{msgidToUin: map[string]string{"m7": "4004"}}

	a.accountReplyTarget(&message.ReplyElement{SourceMsgIdInRecords: "m7"})
	if got := a.userRepliedCount.get("4004"); got != 1 {
		t.Fatalf("消息id回退解析失败, 计数 = %d", got)
	}

	// senderUid为0时同样走回退
	a.accountReplyTarget(&message.ReplyElement{SenderUid: "0", ReplayMsgId: "m7"})
	if got := a.userRepliedCount.get("4004"); got != 2 {
		t.Fatalf("replayMsgId回退解析失败, 计数 = %d", got)
	}

	// 无法解析的回复不计数
	a.accountReplyTarget(&message.ReplyElement{})
	if got := a.userRepliedCount.total(); got != 2 {
		t.Fatalf("不可解析回复被计数: %d", got)
	}
}
