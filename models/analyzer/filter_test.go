package analyzer

import (
	"testing"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/segment"
	"github.com/otakusttt/QQgroup-annual-report-analyzer/models/message"
)

func TestFilterByDate(t *testing.T) {
	msgs := []message.Message{
		textMsg("1", "", "2024-01-01T10:00:00+08:00", "a"),
		textMsg("1", "", "2024-06-15T10:00:00+08:00", "b"),
		textMsg("1", "", "2024-12-31T23:59:59+08:00", "c"),
		textMsg("1", "", "不是时间", "d"),
	}

	got := filterByDate(msgs, "2024-06-01", "2024-06-30")
	if len(got) != 1 || got[0].Content.Text != "b" {
		t.Fatalf("区间过滤结果错误: %v", got)
	}

	// 边界日全天包含
	edge := filterByDate(msgs, "2024-12-31", "2024-12-31")
	if len(edge) != 1 || edge[0].Content.Text != "c" {
		t.Fatalf("结束日当天消息被丢弃: %v", edge)
	}

	// 区间生效时解析失败的时间戳被丢弃
	wide := filterByDate(msgs, "2024-01-01", "2024-12-31")
	if len(wide) != 3 {
		t.Fatalf("宽区间过滤结果 = %d 条, want 3", len(wide))
	}

	// 无区间原样返回
	all := filterByDate(msgs, "", "")
	if len(all) != len(msgs) {
		t.Fatalf("无区间应原样返回, got %d", len(all))
	}

	// 起止日期都非法等价于无区间
	bad := filterByDate(msgs, "01/01/2024", "昨天")
	if len(bad) != len(msgs) {
		t.Fatalf("非法日期应原样返回, got %d", len(bad))
	}
}

func TestIsBotMessage(t *testing.T) {
	cfg := testConfig()
	cfg.Filter.BotUins = []string{"8888"}
	a := New(&message.Transcript{}, cfg, nil, &segment.Segmenter{})

	msg := textMsg("1001", "", "", "a")
	msg.RawMessage.SubMsgType = 577
	if !a.isBotMessage(&msg) {
		t.Fatalf("subMsgType=577 应判定为机器人")
	}

	msg.RawMessage.SubMsgType = 65
	if !a.isBotMessage(&msg) {
		t.Fatalf("subMsgType=65 应判定为机器人")
	}

	msg.RawMessage.SubMsgType = 0
	if a.isBotMessage(&msg) {
		t.Fatalf("普通消息被误判为机器人")
	}

	botByUin := textMsg("8888", "", "", "b")
	if !a.isBotMessage(&botByUin) {
		t.Fatalf("配置的机器人uin未被识别")
	}
}

func TestIsBotMessage_FilterDisabled(t *testing.T) {
	cfg := testConfig()
	off := false
	cfg.Filter.FilterBotMessages = &off
	cfg.Filter.BotUins = []string{"8888"}
	a := New(&message.Transcript{}, cfg, nil, &segment.Segmenter{})

	msg := textMsg("8888", "", "", "a")
	msg.RawMessage.SubMsgType = 577
	if a.isBotMessage(&msg) {
		t.Fatalf("过滤关闭时不应判定机器人")
	}
}
