package analyzer

import (
	"strings"
)

// SplitChunks 将代码按行切分为累计长度不超过 maxLength 的块。
// 行永远不会在中间截断：单行超长时独立成块。
// 空输入返回零个块，块顺序与源码行顺序一致。
func SplitChunks(code string, maxLength int) []string {
	if code == "" {
		return nil
	}

	lines := strings.Split(code, "\n")

	var chunks []string
	var current []string
	currentLen := 0

	for _, line := range lines {
		if currentLen+len(line) > maxLength && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = []string{line}
			currentLen = len(line)
		} else {
			current = append(current, line)
			currentLen += len(line)
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, "\n"))
	}

	return chunks
}
