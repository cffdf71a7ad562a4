package utils

import (
	"testing"
	"time"
)

func TestParseDatetime(t *testing.T) {
	cases := []struct {
		ts   string
		ok   bool
		want string // 东八区时间，格式 2006-01-02 15:04:05
	}{
		{"2024-03-05T20:15:00+08:00", true, "2024-03-05 20:15:00"},
		{"2024-03-05T12:15:00Z", true, "2024-03-05 20:15:00"},
		{"2024-03-05T20:15:00.123456789+08:00", true, "2024-03-05 20:15:00"},
		{"2024-03-05T20:15:00", true, "2024-03-05 20:15:00"}, // 无时区按东八区
		{"2024-03-05 20:15:00", true, "2024-03-05 20:15:00"},
		{"", false, ""},
		{"昨天", false, ""},
		{"2024-13-45", false, ""},
	}

	for _, c := range cases {
		got, ok := ParseDatetime(c.ts)
		if ok != c.ok {
			t.Fatalf("ParseDatetime(%q) ok = %v, want %v", c.ts, ok, c.ok)
		}
		if !ok {
			continue
		}
		if formatted := got.Format("2006-01-02 15:04:05"); formatted != c.want {
			t.Fatalf("ParseDatetime(%q) = %s, want %s", c.ts, formatted, c.want)
		}
		if got.Location() != ShanghaiLocation {
			t.Fatalf("ParseDatetime(%q) 时区未转换到东八区", c.ts)
		}
	}
}

func TestParseHour(t *testing.T) {
	// UTC的18点是东八区次日2点
	if hour, ok := ParseHour("2024-03-05T18:00:00Z"); !ok || hour != 2 {
		t.Fatalf("ParseHour = %d, %v, want 2, true", hour, ok)
	}
	if hour, ok := ParseHour("2024-03-05 09:30:00"); !ok || hour != 9 {
		t.Fatalf("ParseHour = %d, %v, want 9, true", hour, ok)
	}
	if _, ok := ParseHour("无效时间"); ok {
		t.Fatalf("无效时间戳不应解析成功")
	}
}

func TestToShanghai(t *testing.T) {
	utc := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)
	if got := ToShanghai(utc).Hour(); got != 2 {
		t.Fatalf("ToShanghai小时 = %d, want 2", got)
	}
}
