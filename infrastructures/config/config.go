package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
)

var (
	instance *ReportConfig
	once     sync.Once
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "/etc/qqreport/config.toml"

type log struct {
	LogLevel         int  `toml:"logLevel"`         // 默认log级别
	EnableStacktrace bool `toml:"enableStacktrace"` // 是否打印调用堆栈
}

// analysisConfig 词频分析配置
type analysisConfig struct {
	MinWordLen      int      `toml:"minWordLen"`      // 最小词长，默认2
	MaxWordLen      int      `toml:"maxWordLen"`      // 最大词长，默认8
	MinFreq         int      `toml:"minFreq"`         // 最小词频，默认5
	TopN            int      `toml:"topN"`            // 热词榜数量，默认50
	SampleCount     int      `toml:"sampleCount"`     // 每个词保留的例句数，默认10
	ContributorTopN int      `toml:"contributorTopN"` // 每个词展示的贡献者数，默认5
	RankTopN        int      `toml:"rankTopN"`        // 趣味榜单名次，默认10
	MinMsgsForAvg   int      `toml:"minMsgsForAvg"`   // 计算人均字数的最少消息数，默认10
	Whitelist       []string `toml:"whitelist"`       // 白名单词汇，跳过长度/词频过滤
}

// stopwordsConfig 停用词配置
type stopwordsConfig struct {
	Enable bool     `toml:"enable"` // 是否启用停用词，默认false
	Path   string   `toml:"path"`   // 停用词文件路径
	Manual []string `toml:"manual"` // 手动追加的停用词
}

// newWordConfig 新词发现配置
type newWordConfig struct {
	MinFreq          int     `toml:"minFreq"`          // n-gram最小频次，默认8
	EntropyThreshold float64 `toml:"entropyThreshold"` // 邻接熵阈值，默认1.5
	PMIThreshold     float64 `toml:"pmiThreshold"`     // 互信息阈值，默认2.0
}

// mergeConfig 词组合并配置
type mergeConfig struct {
	MaxLen  int     `toml:"maxLen"`  // 合并后最大长度，默认6
	MinFreq int     `toml:"minFreq"` // 共现最小频次，默认10
	MinProb float64 `toml:"minProb"` // 最小条件概率，默认0.6
}

// singleCharConfig 单字独立性配置
type singleCharConfig struct {
	MinSoloRatio float64 `toml:"minSoloRatio"` // 最小独立比例，默认0.3
	MinSoloCount float64 `toml:"minSoloCount"` // 最小独立次数，默认5
}

// filterConfig 消息过滤配置
type filterConfig struct {
	StartDate         string   `toml:"startDate"`         // 起始日期 YYYY-MM-DD（东八区），空表示不限
	EndDate           string   `toml:"endDate"`           // 结束日期 YYYY-MM-DD（东八区），空表示不限
	FilterBotMessages *bool    `toml:"filterBotMessages"` // 是否过滤机器人消息，默认true
	BotUins           []string `toml:"botUins"`           // 机器人账号uin列表
}

// hoursConfig 作息时间段配置，区间为左闭右开 [start, end)
type hoursConfig struct {
	NightOwlStart  int `toml:"nightOwlStart"`  // 深夜党起始小时，默认0
	NightOwlEnd    int `toml:"nightOwlEnd"`    // 深夜党结束小时，默认6
	EarlyBirdStart int `toml:"earlyBirdStart"` // 早起鸟起始小时，默认6
	EarlyBirdEnd   int `toml:"earlyBirdEnd"`   // 早起鸟结束小时，默认9
}

type ReportConfig struct {
	Environment string           `toml:"environment"` // 环境配置 [dev, prod, container]
	LogConfig   log              `toml:"log"`
	Analysis    analysisConfig   `toml:"analysis"`
	Stopwords   stopwordsConfig  `toml:"stopwords"`
	NewWord     newWordConfig    `toml:"newword"`
	Merge       mergeConfig      `toml:"merge"`
	SingleChar  singleCharConfig `toml:"singlechar"`
	Filter      filterConfig     `toml:"filter"`
	Hours       hoursConfig      `toml:"hours"`
}

// GetInstance 获取配置单例。未显式Load时从默认路径加载。
// 配置文件不存在不是错误，所有配置项都有安全默认值。
func GetInstance() *ReportConfig {
	once.Do(func() {
		instance = parseConfig(DefaultConfigPath)
	})
	return instance
}

// Load 从指定路径加载配置并设为单例，供CLI的--config使用。
func Load(path string) *ReportConfig {
	conf := parseConfig(path)
	once.Do(func() {})
	instance = conf
	return instance
}

func parseConfig(path string) *ReportConfig {
	conf := &ReportConfig{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if _, derr := toml.Decode(string(data), conf); derr != nil {
				fmt.Fprintf(os.Stderr, "config file %s decode failed: %s, fallback to defaults\n", path, derr.Error())
				conf = &ReportConfig{}
			}
		} else if path != DefaultConfigPath {
			// 显式指定的配置文件读不到要提示，默认路径缺失按默认配置静默运行
			fmt.Fprintf(os.Stderr, "read config file %s met error: %s, fallback to defaults\n", path, err.Error())
		}
	}

	conf.setDefaults()
	return conf
}

func (c *ReportConfig) setDefaults() {
	if c == nil {
		return
	}

	if c.Analysis.MinWordLen <= 0 {
		c.Analysis.MinWordLen = 2
	}
	if c.Analysis.MaxWordLen <= 0 {
		c.Analysis.MaxWordLen = 8
	}
	if c.Analysis.MinFreq <= 0 {
		c.Analysis.MinFreq = 5
	}
	if c.Analysis.TopN <= 0 {
		c.Analysis.TopN = 50
	}
	if c.Analysis.SampleCount <= 0 {
		c.Analysis.SampleCount = 10
	}
	if c.Analysis.ContributorTopN <= 0 {
		c.Analysis.ContributorTopN = 5
	}
	if c.Analysis.RankTopN <= 0 {
		c.Analysis.RankTopN = 10
	}
	if c.Analysis.MinMsgsForAvg <= 0 {
		c.Analysis.MinMsgsForAvg = 10
	}

	if c.NewWord.MinFreq <= 0 {
		c.NewWord.MinFreq = 8
	}
	if c.NewWord.EntropyThreshold <= 0 {
		c.NewWord.EntropyThreshold = 1.5
	}
	if c.NewWord.PMIThreshold <= 0 {
		c.NewWord.PMIThreshold = 2.0
	}

	if c.Merge.MaxLen <= 0 {
		c.Merge.MaxLen = 6
	}
	if c.Merge.MinFreq <= 0 {
		c.Merge.MinFreq = 10
	}
	if c.Merge.MinProb <= 0 {
		c.Merge.MinProb = 0.6
	}

	if c.SingleChar.MinSoloRatio <= 0 {
		c.SingleChar.MinSoloRatio = 0.3
	}
	if c.SingleChar.MinSoloCount <= 0 {
		c.SingleChar.MinSoloCount = 5
	}

	if c.Filter.FilterBotMessages == nil {
		c.Filter.FilterBotMessages = boolPtr(true)
	}

	if c.Hours.NightOwlEnd <= 0 {
		c.Hours.NightOwlEnd = 6
	}
	if c.Hours.EarlyBirdStart <= 0 {
		c.Hours.EarlyBirdStart = 6
	}
	if c.Hours.EarlyBirdEnd <= 0 {
		c.Hours.EarlyBirdEnd = 9
	}
}

func boolPtr(v bool) *bool {
	return &v
}
