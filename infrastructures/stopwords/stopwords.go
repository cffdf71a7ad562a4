package stopwords

import (
	"bufio"
	"os"
	"strings"

	"github.com/otakusttt/QQgroup-annual-report-analyzer/infrastructures/log"
)

// Set 不可变停用词集合，在管线构造时注入，生命周期与单次分析一致
type Set map[string]struct{}

// Contains 查询停用词
func (s Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	_, ok := s[word]
	return ok
}

// Len 停用词数量
func (s Set) Len() int {
	return len(s)
}

// Load 从文件和手动列表构建停用词集合。
// 文件格式为每行一个词，#开头的行视为注释；文件缺失只告警不报错。
func Load(path string, manual []string) Set {
	set := make(Set)

	fileCount := 0
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			log.Warnf("停用词文件不存在: %s", path)
		} else {
			defer file.Close()
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				word := strings.TrimSpace(scanner.Text())
				if word == "" || strings.HasPrefix(word, "#") {
					continue
				}
				set[word] = struct{}{}
				fileCount++
			}
			if err := scanner.Err(); err != nil {
				log.Errorf("读取停用词文件失败: %v", err)
			}
		}
	}

	for _, word := range manual {
		word = strings.TrimSpace(word)
		if word != "" {
			set[word] = struct{}{}
		}
	}

	log.Infof("停用词总数: %d 个 (文件: %d, 手动: %d)", len(set), fileCount, len(set)-fileCount)
	return set
}
