package utils

import "strings"

// SanitizeFilename 清理文件名中的非法字符。
// Windows文件名不允许的字符: < > : " / \ | ? *
// 原始字符用于展示，仅在落盘文件名中替换。
func SanitizeFilename(filename string) string {
	if filename == "" {
		return "未命名"
	}

	sanitized := filename
	for _, char := range `<>:"/\|?*` {
		sanitized = strings.ReplaceAll(sanitized, string(char), "_")
	}

	// 去除首尾空格和点号（Windows不允许）
	sanitized = strings.Trim(sanitized, ". ")

	if sanitized == "" {
		return "未命名"
	}

	return sanitized
}
