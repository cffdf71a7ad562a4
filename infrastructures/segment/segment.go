package segment

import (
	"strings"
	"sync"

	"github.com/go-ego/gse"
	"github.com/pkg/errors"
)

// Segmenter 每次分析独占一个分词器实例，新词只注册到本次运行的词典，
// 不跨运行共享词汇状态
type Segmenter struct {
	gse         gse.Segmenter
	userDict    map[string]float64
	mu          sync.RWMutex
	initialized bool
}

// New 创建分词器并加载内置词典
func New() (*Segmenter, error) {
	seg := &Segmenter{
		userDict: make(map[string]float64),
	}

	if err := seg.gse.LoadDict(); err != nil {
		return nil, errors.Wrap(err, "load gse dictionary")
	}
	seg.initialized = true

	return seg, nil
}

// Cut 分词，返回保序的token序列（过滤纯空白token）
func (seg *Segmenter) Cut(text string) []string {
	seg.mu.RLock()
	defer seg.mu.RUnlock()

	if !seg.initialized {
		return []string{}
	}

	segments := seg.gse.Cut(text, true)

	result := make([]string, 0, len(segments))
	for _, word := range segments {
		if strings.TrimSpace(word) == "" {
			continue
		}
		result = append(result, word)
	}
	return result
}

// AddWord 注册词汇并设置权重，后续Cut会倾向于保持该词完整
func (seg *Segmenter) AddWord(word string, freq float64) {
	seg.mu.Lock()
	defer seg.mu.Unlock()

	if !seg.initialized || word == "" {
		return
	}

	seg.userDict[word] = freq
	seg.gse.AddToken(word, freq, "n")
}

// UserWordCount 本次运行注册的用户词数量
func (seg *Segmenter) UserWordCount() int {
	seg.mu.RLock()
	defer seg.mu.RUnlock()
	return len(seg.userDict)
}

// HasUserWord 查询某个词是否已注册为用户词
func (seg *Segmenter) HasUserWord(word string) bool {
	seg.mu.RLock()
	defer seg.mu.RUnlock()
	_, ok := seg.userDict[word]
	return ok
}
