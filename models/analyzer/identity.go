package analyzer

import (
	"fmt"
	"strings"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/models/message"
)

// identityMap 发送者身份映射。
// 在日期过滤之前基于全量消息构建：被过滤掉的后期消息
// 仍可能是解析回复目标昵称的唯一来源。
type identityMap struct {
	uinToName  map[string]string
	msgidToUin map[string]string
}

// resolveIdentity 从全量消息构建 uin→昵称 和 消息id→发送者 映射。
// 机器人消息不参与身份解析。
func (a *ChatAnalyzer) resolveIdentity(messages []message.Message) *identityMap {
	uinNames := make(map[string][]string)
	uinMemberNames := make(map[string]string)
	msgidToUin := make(map[string]string)
	allUins := make(map[string]struct{})

	for i := range messages {
		msg := &messages[i]
		if a.isBotMessage(msg) {
			continue
		}

		uin := msg.Uin()
		if uin == "" {
			continue
		}
		allUins[uin] = struct{}{}

		name := trimName(msg.Sender.Name)
		if name != "" {
			names := uinNames[uin]
			// 只记录连续去重后的昵称序列
			if len(names) == 0 || names[len(names)-1] != name {
				uinNames[uin] = append(names, name)
			}
		}

		if memberName := trimName(msg.RawMessage.SendMemberName); memberName != "" {
			uinMemberNames[uin] = memberName
		}

		if msgID := msg.MessageID.String(); msgID != "" {
			msgidToUin[msgID] = uin
		}
	}

	uinToName := make(map[string]string, len(allUins))
	for uin := range allUins {
		uinToName[uin] = resolveName(uin, uinNames[uin], uinMemberNames)
	}

	return &identityMap{
		uinToName:  uinToName,
		msgidToUin: msgidToUin,
	}
}

// resolveName 单个发送者的昵称解析顺序：
// (a) 昵称序列中最近一个不等于uin本身的名字；
// (b) 都等于uin时取最后记录的名字；
// (c) sendMemberName；
// (d) 合成占位名。
func resolveName(uin string, names []string, memberNames map[string]string) string {
	var chosen string

	for i := len(names) - 1; i >= 0; i-- {
		if names[i] != uin {
			chosen = names[i]
			break
		}
	}
	if chosen == "" && len(names) > 0 {
		chosen = names[len(names)-1]
	}

	if chosen == "" {
		if memberName, ok := memberNames[uin]; ok {
			chosen = memberName
		}
	}

	if chosen == "" || chosen == uin {
		chosen = fmt.Sprintf("用户%s", uin)
	}

	return chosen
}

// GetName 获取发送者展示昵称
func (m *identityMap) GetName(uin string) string {
	if name, ok := m.uinToName[uin]; ok {
		return name
	}
	return fmt.Sprintf("未知用户(%s)", uin)
}

// SenderOf 根据消息id查询发送者uin
func (m *identityMap) SenderOf(msgID string) string {
	return m.msgidToUin[msgID]
}

func trimName(name string) string {
	return strings.TrimSpace(name)
}
