package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/perfmaster/perf_go_server/internal/model"
)

// 决策点关键字（全词、大小写不敏感）
var decisionKeywords = regexp.MustCompile(`(?i)\b(if|elif|else|for|while|try|except|case|switch)\b`)

// ComplexityScore 基于决策点计数的圈复杂度近似值。
// 基础值 1，每个决策关键字 +1，结果 = min(5*count, 100)。
func ComplexityScore(code string) float64 {
	complexity := 1 + len(decisionKeywords.FindAllStringIndex(code, -1))
	return math.Min(float64(complexity*5), 100)
}

// PerformanceScore 基于各代码块分类结果的性能评分。
// 对产出非空结果的块取第一个结果的置信度求平均；全部为空时返回中性值 50。
// 结果截断在 [0, 100]，上游置信度越界时不放大。
func PerformanceScore(results model.ChunkResults) float64 {
	if len(results) == 0 {
		return 50
	}

	total := 0.0
	count := 0
	for _, result := range results {
		if len(result) == 0 {
			continue
		}
		total += result[0].Score
		count++
	}

	if count == 0 {
		return 50
	}

	return math.Max(0, math.Min(100, math.Round(total/float64(count)*100)))
}

// 注释行前缀：行注释 + 块注释起始/续行
var commentPrefixes = []string{"//", "#", "/*", "*"}

// MaintainabilityScore 可维护性评分。
// 起始 100 分：平均非空行长超 80 按 0.5/字符扣分，注释行占比低于 10% 扣 20 分。
// 结果截断在 [0, 100]，空输入得 100。
func MaintainabilityScore(code string) float64 {
	lines := strings.Split(code, "\n")

	var nonEmpty []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}

	if len(nonEmpty) == 0 {
		return 100
	}

	totalLen := 0
	for _, line := range nonEmpty {
		totalLen += len(line)
	}
	avgLineLength := float64(totalLen) / float64(len(nonEmpty))

	commentLines := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range commentPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				commentLines++
				break
			}
		}
	}
	commentRatio := float64(commentLines) / float64(len(lines))

	score := 100.0
	if avgLineLength > 80 {
		score -= (avgLineLength - 80) * 0.5
	}
	if commentRatio < 0.1 {
		score -= 20
	}

	return math.Max(0, math.Min(100, score))
}
