package utils

import (
	"strings"
	"time"
)

// ShanghaiLocation 东八区时区（中国标准时间）
var ShanghaiLocation *time.Location

func init() {
	var err error
	ShanghaiLocation, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		// 如果加载失败，使用固定偏移量（UTC+8）
		ShanghaiLocation = time.FixedZone("CST", 8*3600)
	}
}

// Now 返回东八区的当前时间
func Now() time.Time {
	return time.Now().In(ShanghaiLocation)
}

// ToShanghai 将任意时间转换为东八区时间
func ToShanghai(t time.Time) time.Time {
	return t.In(ShanghaiLocation)
}

// timestampLayouts 消息时间戳的候选格式，带时区的优先
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDatetime 解析ISO-8601风格的消息时间戳并转换到东八区。
// 不带时区信息的时间戳按东八区本地时间处理，解析失败返回ok=false。
func ParseDatetime(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		var t time.Time
		var err error
		if strings.Contains(layout, "Z07:00") {
			t, err = time.Parse(layout, ts)
		} else {
			t, err = time.ParseInLocation(layout, ts, ShanghaiLocation)
		}
		if err == nil {
			return t.In(ShanghaiLocation), true
		}
	}
	return time.Time{}, false
}

// ParseHour 解析时间戳并返回东八区的小时数，解析失败返回ok=false
func ParseHour(ts string) (int, bool) {
	t, ok := ParseDatetime(ts)
	if !ok {
		return 0, false
	}
	return t.Hour(), true
}
