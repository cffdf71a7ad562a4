package analyzer

import "sort"

// counter 显式get-or-zero语义的计数器。
// mostCommon的并列项按键升序打破，保证结果确定性。
type counter map[string]int

func (c counter) inc(key string, delta int) {
	c[key] += delta
}

func (c counter) get(key string) int {
	return c[key]
}

// kvPair 计数项
type kvPair struct {
	Key   string
	Count int
}

// mostCommon 按计数降序取前n项，计数相同按键升序。
// n<=0表示全部返回。
func (c counter) mostCommon(n int) []kvPair {
	pairs := make([]kvPair, 0, len(c))
	for k, v := range c {
		pairs = append(pairs, kvPair{Key: k, Count: v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		return pairs[i].Key < pairs[j].Key
	})
	if n > 0 && len(pairs) > n {
		pairs = pairs[:n]
	}
	return pairs
}

// total 所有计数之和
func (c counter) total() int {
	sum := 0
	for _, v := range c {
		sum += v
	}
	return sum
}
