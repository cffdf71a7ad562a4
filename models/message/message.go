package message

import (
	"bytes"
	"encoding/json"
)

// 元素类型，对应导出JSON中rawMessage.elements[].elementType
const (
	ElementTypeText    = 1  // 文本/艾特元素
	ElementTypePic     = 2  // 图片元素
	ElementTypeReply   = 7  // 回复元素
	ElementTypeLink    = 10 // 链接元素
	ElementTypeForward = 16 // 合并转发元素
)

// AtType 艾特类型，2为指名艾特
const AtTypeNamed = 2

// FlexString 兼容字符串和数字两种JSON写法的字段。
// 导出工具的不同版本对timestamp/uin字段序列化方式不一致。
type FlexString string

// UnmarshalJSON 实现json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	// 数字：按原样字符串保留，避免浮点精度破坏uin
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String String
func (f FlexString) String() string {
	return string(f)
}

// Sender 消息发送者
type Sender struct {
	Uin  FlexString `json:"uin"`  // 发送者标识，缺失时该消息不参与任何统计
	Name string     `json:"name"` // 展示昵称，可能为空
}

// Content 消息内容
type Content struct {
	Text   string            `json:"text"`
	Emojis []json.RawMessage `json:"emojis"` // 只使用长度作为表情计数
}

// TextElement 文本元素，承载艾特信息
type TextElement struct {
	AtType  int        `json:"atType"`
	AtUid   FlexString `json:"atUid"`
	Content string     `json:"content"`
}

// PicElement 图片元素，summary为[表情名称]格式时视为表情包
type PicElement struct {
	Summary string `json:"summary"`
}

// ReplyElement 回复元素
type ReplyElement struct {
	SenderUid            FlexString `json:"senderUid"`
	SourceMsgIdInRecords FlexString `json:"sourceMsgIdInRecords"`
	ReplayMsgId          FlexString `json:"replayMsgId"`
}

// Element 消息富内容元素，指针字段为nil表示导出JSON中该子对象缺失
type Element struct {
	ElementType            int              `json:"elementType"`
	TextElement            *TextElement     `json:"textElement"`
	PicElement             *PicElement      `json:"picElement"`
	ReplyElement           *ReplyElement    `json:"replyElement"`
	MultiForwardMsgElement *json.RawMessage `json:"multiForwardMsgElement"`
}

// RawMessage 原始消息的补充字段
type RawMessage struct {
	SubMsgType     int       `json:"subMsgType"`
	SendMemberName string    `json:"sendMemberName"`
	Elements       []Element `json:"elements"`
}

// Message 单条消息记录，只读
type Message struct {
	MessageID  FlexString `json:"messageId"`
	Timestamp  FlexString `json:"timestamp"`
	Sender     Sender     `json:"sender"`
	Content    Content    `json:"content"`
	RawMessage RawMessage `json:"rawMessage"`
}

// Transcript 一次导出的群聊记录
type Transcript struct {
	ChatName string
	Messages []Message
}

// EmojiCount 表情数量（content.emojis列表长度）
func (m *Message) EmojiCount() int {
	return len(m.Content.Emojis)
}

// Uin 发送者uin字符串
func (m *Message) Uin() string {
	return m.Sender.Uin.String()
}
