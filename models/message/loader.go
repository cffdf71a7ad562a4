package message

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
)

// DefaultChatName 群名缺失时的兜底值
const DefaultChatName = "未知群聊"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load 流式加载导出的群聊JSON文件。
// messages数组逐条解码，避免大文件整体读入内存。
func Load(path string) (*Transcript, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open transcript %s", path)
	}
	defer file.Close()

	return Decode(file)
}

// Decode 从任意reader流式解析群聊记录
func Decode(r io.Reader) (*Transcript, error) {
	br := bufio.NewReaderSize(r, 1<<20)

	// 部分导出工具会写utf-8-sig
	head, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	dec := json.NewDecoder(br)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "read transcript opening token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Errorf("transcript must be a JSON object, got %v", tok)
	}

	result := &Transcript{}
	var chatInfoName string
	sawChatName := false

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "read transcript key")
		}
		key, _ := keyTok.(string)

		switch key {
		case "chatName":
			var name string
			if err := dec.Decode(&name); err != nil {
				return nil, errors.Wrap(err, "decode chatName")
			}
			result.ChatName = name
			sawChatName = true

		case "chatInfo":
			var info struct {
				Name string `json:"name"`
			}
			if err := dec.Decode(&info); err != nil {
				return nil, errors.Wrap(err, "decode chatInfo")
			}
			chatInfoName = info.Name

		case "messages":
			if err := decodeMessages(dec, result); err != nil {
				return nil, err
			}

		default:
			// 跳过无关字段
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, errors.Wrapf(err, "skip field %s", key)
			}
		}
	}

	// chatName优先，其次chatInfo.name
	if !sawChatName || result.ChatName == "" {
		result.ChatName = chatInfoName
	}
	if result.ChatName == "" {
		result.ChatName = DefaultChatName
	}

	log.Infof("成功加载 %d 条消息, 群聊: %s", len(result.Messages), result.ChatName)
	return result, nil
}

func decodeMessages(dec *json.Decoder, result *Transcript) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "read messages opening token")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return errors.Errorf("messages must be a JSON array, got %v", tok)
	}

	for dec.More() {
		var msg Message
		if err := dec.Decode(&msg); err != nil {
			return errors.Wrapf(err, "decode message #%d", len(result.Messages))
		}
		result.Messages = append(result.Messages, msg)
		if len(result.Messages)%10000 == 0 {
			log.Debugf("已处理 %d 条消息...", len(result.Messages))
		}
	}

	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "read messages closing token")
	}
	return nil
}
