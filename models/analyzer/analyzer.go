package analyzer

import (
	uuid "github.com/satori/go.uuid"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/config"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/segment"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/stopwords"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/models/message"
)

// corpusEntry 清洗后的语料条目，只在新词发现/合并/重分词期间保留
type corpusEntry struct {
	Text string
	Uin  string
}

// MergedWord 合并词的来源信息，用于诊断
type MergedWord struct {
	Left  string
	Right string
	Count int
	Prob  float64
}

// ChatAnalyzer 单次群聊分析的全部状态。
// 一个实例只服务一次Analyze调用，分词器词典和各计数器均不跨运行共享。
type ChatAnalyzer struct {
	runID string
	cfg   *config.ReportConfig

	seg          *segment.Segmenter
	stopwords    stopwords.Set
	useStopwords bool

	filterBots bool
	botUins    map[string]struct{}

	chatName string
	messages []message.Message

	identity *identityMap

	// 词频三件套
	wordFreq         counter
	wordContributors map[string]counter
	wordSamples      map[string][]string

	// 趣味统计
	userMsgCount     counter
	userCharCount    counter
	userCharPerMsg   map[string]float64
	userImageCount   counter
	userForwardCount counter
	userReplyCount   counter
	userRepliedCount counter
	userAtCount      counter
	userAtedCount    counter
	userEmojiCount   counter
	userLinkCount    counter
	userNightCount   counter
	userMorningCount counter
	userRepeatCount  counter
	hourDistribution map[int]int

	discoveredWords map[string]struct{}
	mergedWords     map[string]MergedWord
	singleCharStats map[string]charStat

	cleanedTexts []corpusEntry
}

// New 创建分析器。停用词集合与分词器由调用方构造注入，
// 二者的生命周期都只覆盖这一次分析。
func New(transcript *message.Transcript, cfg *config.ReportConfig, stop stopwords.Set, seg *segment.Segmenter) *ChatAnalyzer {
	botUins := make(map[string]struct{}, len(cfg.Filter.BotUins))
	for _, uin := range cfg.Filter.BotUins {
		botUins[uin] = struct{}{}
	}

	filterBots := true
	if cfg.Filter.FilterBotMessages != nil {
		filterBots = *cfg.Filter.FilterBotMessages
	}

	return &ChatAnalyzer{
		runID: uuid.NewV4().String(),
		cfg:   cfg,

		seg:          seg,
		stopwords:    stop,
		useStopwords: cfg.Stopwords.Enable,

		filterBots: filterBots,
		botUins:    botUins,

		chatName: transcript.ChatName,
		messages: transcript.Messages,

		wordFreq:         make(counter),
		wordContributors: make(map[string]counter),
		wordSamples:      make(map[string][]string),

		userMsgCount:     make(counter),
		userCharCount:    make(counter),
		userCharPerMsg:   make(map[string]float64),
		userImageCount:   make(counter),
		userForwardCount: make(counter),
		userReplyCount:   make(counter),
		userRepliedCount: make(counter),
		userAtCount:      make(counter),
		userAtedCount:    make(counter),
		userEmojiCount:   make(counter),
		userLinkCount:    make(counter),
		userNightCount:   make(counter),
		userMorningCount: make(counter),
		userRepeatCount:  make(counter),
		hourDistribution: make(map[int]int),

		discoveredWords: make(map[string]struct{}),
		mergedWords:     make(map[string]MergedWord),
		singleCharStats: make(map[string]charStat),
	}
}

// RunID 本次分析的唯一标识
func (a *ChatAnalyzer) RunID() string {
	return a.runID
}

// ChatName 群聊名称
func (a *ChatAnalyzer) ChatName() string {
	return a.chatName
}

// MessageCount 过滤后参与统计的消息数
func (a *ChatAnalyzer) MessageCount() int {
	return len(a.messages)
}

// Analyze 执行完整分析管线。语料为空或过滤后词表为空时返回
// 可识别的错误，调用方据此拒绝生成报告。
func (a *ChatAnalyzer) Analyze() error {
	log.Infof("[%s] 开始分析: %s, 消息总数: %d", a.runID, a.chatName, len(a.messages))

	if len(a.messages) == 0 {
		return ErrNoMessages
	}

	// 身份解析必须在日期过滤之前：被过滤掉的消息仍可能承载
	// 回复目标的昵称信息
	a.identity = a.resolveIdentity(a.messages)

	a.messages = filterByDate(a.messages, a.cfg.Filter.StartDate, a.cfg.Filter.EndDate)

	log.Infof("[%s] 第一轮：预处理文本、统计词频和趣味数据", a.runID)
	a.processMessagesOnce()

	if len(a.cleanedTexts) == 0 {
		return ErrEmptyCorpus
	}

	log.Infof("[%s] 新词发现...", a.runID)
	discovered := a.discoverNewWords()

	log.Infof("[%s] 词组合并...", a.runID)
	merged := a.mergeWordPairs()

	if discovered > 0 || merged > 0 {
		log.Infof("[%s] 发现 %d 个新词，合并 %d 个词组，重新分词", a.runID, discovered, merged)
		a.reprocessWordFrequency()
	}

	log.Infof("[%s] 分析单字独立性...", a.runID)
	a.singleCharStats = a.analyzeSingleChars()

	// 语料缓冲是峰值内存的大头，最后一次分词完成后立即显式释放
	released := len(a.cleanedTexts)
	a.cleanedTexts = nil
	log.Debugf("[%s] 已释放 %d 条语料缓冲", a.runID, released)

	log.Infof("[%s] 过滤整理...", a.runID)
	a.filterResults()

	if len(a.wordFreq) == 0 {
		return ErrNoWords
	}

	log.Infof("[%s] 分析完成, 词表 %d 项", a.runID, len(a.wordFreq))
	return nil
}

// getName 发送者展示昵称
func (a *ChatAnalyzer) getName(uin string) string {
	return a.identity.GetName(uin)
}
