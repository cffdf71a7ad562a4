package analyzer

import (
	"time"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/utils"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/models/message"
)

// botSubMsgTypes 机器人消息的subMsgType固定排除集
var botSubMsgTypes = map[int]struct{}{
	577: {},
	65:  {},
}

// isBotMessage 判断是否为机器人消息（基于subMsgType或配置的机器人uin）
func (a *ChatAnalyzer) isBotMessage(msg *message.Message) bool {
	if !a.filterBots {
		return false
	}

	if _, ok := botSubMsgTypes[msg.RawMessage.SubMsgType]; ok {
		return true
	}

	if len(a.botUins) > 0 {
		if _, ok := a.botUins[msg.Uin()]; ok {
			return true
		}
	}

	return false
}

// filterByDate 按东八区自然日区间过滤消息。
// 起止日期都为空时原样返回；区间生效时时间戳解析失败的消息被丢弃。
func filterByDate(messages []message.Message, startDate, endDate string) []message.Message {
	if startDate == "" && endDate == "" {
		return messages
	}

	var startAt, endAt time.Time
	var hasStart, hasEnd bool

	if startDate != "" {
		d, err := time.ParseInLocation("2006-01-02", startDate, utils.ShanghaiLocation)
		if err != nil {
			log.Warnf("起始日期格式错误: %s, 错误: %v", startDate, err)
		} else {
			startAt = d // 当日 00:00:00.000
			hasStart = true
		}
	}

	if endDate != "" {
		d, err := time.ParseInLocation("2006-01-02", endDate, utils.ShanghaiLocation)
		if err != nil {
			log.Warnf("结束日期格式错误: %s, 错误: %v", endDate, err)
		} else {
			// 当日 23:59:59.999999
			endAt = d.Add(24*time.Hour - time.Microsecond)
			hasEnd = true
		}
	}

	if !hasStart && !hasEnd {
		return messages
	}

	filtered := make([]message.Message, 0, len(messages))
	for i := range messages {
		msgAt, ok := utils.ParseDatetime(messages[i].Timestamp.String())
		if !ok {
			continue
		}
		if hasStart && msgAt.Before(startAt) {
			continue
		}
		if hasEnd && msgAt.After(endAt) {
			continue
		}
		filtered = append(filtered, messages[i])
	}

	log.Infof("时间范围过滤: [%s, %s] 原始消息: %d 条, 过滤后: %d 条",
		startDate, endDate, len(messages), len(filtered))

	return filtered
}
