package analyzer

import (
	"fmt"
	"strconv"
	"strings"
)

// HourBar 渲染24小时活跃度柱状图，每小时一行
func HourBar(hourDist map[string]int, width int) []string {
	if width <= 0 {
		width = 20
	}

	maxCount := 0
	total := 0
	for hour := 0; hour < 24; hour++ {
		count := hourDist[strconv.Itoa(hour)]
		total += count
		if count > maxCount {
			maxCount = count
		}
	}

	lines := make([]string, 0, 24)
	for hour := 0; hour < 24; hour++ {
		count := hourDist[strconv.Itoa(hour)]
		barLen := 0
		if maxCount > 0 {
			barLen = count * width / maxCount
		}
		bar := strings.Repeat("█", barLen) + strings.Repeat("░", width-barLen)
		percentage := 0.0
		if total > 0 {
			percentage = float64(count) * 100 / float64(total)
		}
		lines = append(lines, fmt.Sprintf("  %02d:00 %s %5d (%4.1f%%)", hour, bar, count, percentage))
	}
	return lines
}
