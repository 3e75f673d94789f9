package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perfmaster/perf_go_server/internal/model"
)

func TestComplexityScore_NoDecisionPoints(t *testing.T) {
	// 无决策点：基础值 1，得 5 分
	assert.Equal(t, 5.0, ComplexityScore("const x = 1;"))
	assert.Equal(t, 5.0, ComplexityScore(""))
}

func TestComplexityScore_CountsKeywords(t *testing.T) {
	code := "if (a) {\n} else {\n}\nfor (;;) {\n}"
	// if + else + for = 3 个决策点，(1+3)*5 = 20
	assert.Equal(t, 20.0, ComplexityScore(code))
}

func TestComplexityScore_WholeWordOnly(t *testing.T) {
	// "iffy" 和 "elsewhere" 不是决策关键字
	assert.Equal(t, 5.0, ComplexityScore("iffy := elsewhere()"))
}

func TestComplexityScore_CaseInsensitive(t *testing.T) {
	assert.Equal(t, 10.0, ComplexityScore("IF x THEN y"))
}

func TestComplexityScore_CapsAt100(t *testing.T) {
	code := strings.Repeat("if ", 50)
	assert.Equal(t, 100.0, ComplexityScore(code))
}

func TestComplexityScore_Monotone(t *testing.T) {
	prev := 0.0
	code := ""
	for i := 0; i < 30; i++ {
		code += "if x {}\n"
		score := ComplexityScore(code)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}

func TestPerformanceScore_EmptyResults(t *testing.T) {
	assert.Equal(t, 50.0, PerformanceScore(nil))
	assert.Equal(t, 50.0, PerformanceScore(model.ChunkResults{}))
}

func TestPerformanceScore_AllChunksEmpty(t *testing.T) {
	// 块都没有分类结果时退回中性值
	results := model.ChunkResults{{}, {}}
	assert.Equal(t, 50.0, PerformanceScore(results))
}

func TestPerformanceScore_AveragesFirstScores(t *testing.T) {
	results := model.ChunkResults{
		{{Label: "efficient", Score: 0.9}, {Label: "inefficient", Score: 0.1}},
		{{Label: "inefficient", Score: 0.5}},
	}
	// (0.9 + 0.5) / 2 * 100 = 70，只取每块第一个结果
	assert.Equal(t, 70.0, PerformanceScore(results))
}

func TestPerformanceScore_SkipsEmptyChunks(t *testing.T) {
	results := model.ChunkResults{
		{{Label: "efficient", Score: 0.8}},
		{},
	}
	assert.Equal(t, 80.0, PerformanceScore(results))
}

func TestPerformanceScore_ClampsOutOfRangeConfidence(t *testing.T) {
	// 上游置信度越界时不放大到 100 以上
	high := model.ChunkResults{
		{{Label: "inefficient", Score: 7.5}},
	}
	assert.Equal(t, 100.0, PerformanceScore(high))

	low := model.ChunkResults{
		{{Label: "inefficient", Score: -3.0}},
	}
	assert.Equal(t, 0.0, PerformanceScore(low))
}

func TestPerformanceScore_Rounds(t *testing.T) {
	results := model.ChunkResults{
		{{Label: "a", Score: 0.333}},
	}
	// 0.333 * 100 = 33.3 → 33
	assert.Equal(t, 33.0, PerformanceScore(results))
}

func TestMaintainabilityScore_EmptyInput(t *testing.T) {
	assert.Equal(t, 100.0, MaintainabilityScore(""))
	assert.Equal(t, 100.0, MaintainabilityScore("\n\n  \n"))
}

func TestMaintainabilityScore_WellCommentedShortLines(t *testing.T) {
	code := strings.Join([]string{
		"// adds two numbers",
		"func add(a, b int) int {",
		"\treturn a + b",
		"}",
	}, "\n")
	// 短行 + 25% 注释率，无扣分
	assert.Equal(t, 100.0, MaintainabilityScore(code))
}

func TestMaintainabilityScore_NoCommentsPenalty(t *testing.T) {
	code := "x := 1\ny := 2\nz := 3"
	assert.Equal(t, 80.0, MaintainabilityScore(code))
}

func TestMaintainabilityScore_LongLinesPenalty(t *testing.T) {
	// 平均行长 100：扣 (100-80)*0.5 = 10，再扣无注释 20
	code := strings.Repeat("a", 100)
	assert.Equal(t, 70.0, MaintainabilityScore(code))
}

func TestMaintainabilityScore_CommentMarkers(t *testing.T) {
	for _, marker := range []string{"//", "#", "/*", "*"} {
		code := marker + " note\nx := 1"
		// 注释率 50%，无长行扣分
		assert.Equal(t, 100.0, MaintainabilityScore(code), "marker %q", marker)
	}
}

func TestMaintainabilityScore_ClampedAtZero(t *testing.T) {
	// 极端长行把分数压到 0 以下时截断
	code := strings.Repeat("a", 400)
	score := MaintainabilityScore(code)
	assert.Equal(t, 0.0, score)
}
