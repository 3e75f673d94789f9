package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/perfmaster/perf_go_server/internal/model"
)

// 命中置信度为固定设计常量
const patternConfidence = 0.8

// Explainer 为命中的规则生成自然语言说明，不可用或失败时由调用方兜底
type Explainer interface {
	Explain(ctx context.Context, prompt string) (description, fix string, err error)
}

// Rule 行级反模式规则
type Rule struct {
	Pattern *regexp.Regexp
	Name    string
	Type    string
}

// 规则集按声明顺序匹配，同一行可命中多条规则
var patternRules = []Rule{
	{
		Pattern: regexp.MustCompile(`useState\([^)]*\)\s*;\s*useState`),
		Name:    "Multiple useState calls",
		Type:    model.PatternPerformanceIssue,
	},
	{
		Pattern: regexp.MustCompile(`useEffect\(\s*\(\)\s*=>\s*\{[^}]*\}\s*,\s*\[\]\s*\)`),
		Name:    "Empty dependency array",
		Type:    model.PatternOptimizationOpportunity,
	},
	{
		Pattern: regexp.MustCompile(`\.map\([^)]*\)\.filter\([^)]*\)`),
		Name:    "Chained map and filter",
		Type:    model.PatternPerformanceIssue,
	},
}

// PatternHit 单次规则命中
type PatternHit struct {
	PatternType  string
	PatternName  string
	Description  string
	SuggestedFix string
	LineStart    int
	LineEnd      int
	Confidence   float64
}

// DetectPatterns 按行扫描全部规则。
// 命中顺序：行号升序，同一行内按规则声明顺序。
// 说明文本委托给 explainer 生成，任何失败都替换为确定性兜底文案，绝不向上传播。
func DetectPatterns(ctx context.Context, code string, explainer Explainer) []PatternHit {
	var hits []PatternHit

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		for _, rule := range patternRules {
			if !rule.Pattern.MatchString(line) {
				continue
			}

			description, fix := explainHit(ctx, explainer, rule, line)
			hits = append(hits, PatternHit{
				PatternType:  rule.Type,
				PatternName:  rule.Name,
				Description:  description,
				SuggestedFix: fix,
				LineStart:    i + 1,
				LineEnd:      i + 1,
				Confidence:   patternConfidence,
			})
		}
	}

	return hits
}

func explainHit(ctx context.Context, explainer Explainer, rule Rule, line string) (string, string) {
	if explainer != nil {
		prompt := fmt.Sprintf(
			"A code review rule named %q matched this line:\n%s\nExplain the problem and suggest a fix. Respond with a JSON object {\"description\": ..., \"fix\": ...}.",
			rule.Name, line)

		description, fix, err := explainer.Explain(ctx, prompt)
		if err == nil && description != "" && fix != "" {
			return description, fix
		}
	}

	return fallbackDescription(rule), fallbackFix(rule)
}

func fallbackDescription(rule Rule) string {
	return fmt.Sprintf("Detected: %s. This is a %s issue.", rule.Name, rule.Type)
}

func fallbackFix(rule Rule) string {
	return fmt.Sprintf("Review the %q occurrence and refactor following performance best practices.", rule.Name)
}

// RuleCount 当前规则集大小
func RuleCount() int {
	return len(patternRules)
}
