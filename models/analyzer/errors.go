package analyzer

import "github.com/pkg/errors"

// 可上报的分析终态错误，调用方据此拒绝进入后续环节
var (
	// ErrNoMessages 群聊记录中没有任何消息
	ErrNoMessages = errors.New("transcript contains no messages")

	// ErrEmptyCorpus 过滤清洗后没有任何可用文本
	ErrEmptyCorpus = errors.New("no usable cleaned text in corpus")

	// ErrNoWords 过滤后词频表为空
	ErrNoWords = errors.New("filtered word frequency table is empty")
)
