package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfmaster/perf_go_server/internal/model"
)

// stubExplainer 固定返回的 Explainer 实现
type stubExplainer struct {
	description string
	fix         string
	err         error
}

func (s *stubExplainer) Explain(_ context.Context, _ string) (string, string, error) {
	return s.description, s.fix, s.err
}

func TestDetectPatterns_NoMatches(t *testing.T) {
	hits := DetectPatterns(context.Background(), "const x = 1;", nil)
	assert.Empty(t, hits)
}

func TestDetectPatterns_MultipleUseState(t *testing.T) {
	code := "useState(x); useState(y)"

	hits := DetectPatterns(context.Background(), code, nil)

	require.Len(t, hits, 1)
	assert.Equal(t, "Multiple useState calls", hits[0].PatternName)
	assert.Equal(t, model.PatternPerformanceIssue, hits[0].PatternType)
	assert.Equal(t, 1, hits[0].LineStart)
	assert.Equal(t, 1, hits[0].LineEnd)
	assert.Equal(t, 0.8, hits[0].Confidence)
}

func TestDetectPatterns_EmptyDependencyArray(t *testing.T) {
	code := "useEffect(() => { fetchData() }, [])"

	hits := DetectPatterns(context.Background(), code, nil)

	require.Len(t, hits, 1)
	assert.Equal(t, "Empty dependency array", hits[0].PatternName)
	assert.Equal(t, model.PatternOptimizationOpportunity, hits[0].PatternType)
}

func TestDetectPatterns_ChainedMapFilter(t *testing.T) {
	code := "items.map(f).filter(g)"

	hits := DetectPatterns(context.Background(), code, nil)

	require.Len(t, hits, 1)
	assert.Equal(t, "Chained map and filter", hits[0].PatternName)
}

func TestDetectPatterns_LineNumbersAndOrder(t *testing.T) {
	code := "const a = 1;\nitems.map(f).filter(g)\nuseState(x); useState(y)"

	hits := DetectPatterns(context.Background(), code, nil)

	require.Len(t, hits, 2)
	// 命中按行号升序
	assert.Equal(t, 2, hits[0].LineStart)
	assert.Equal(t, "Chained map and filter", hits[0].PatternName)
	assert.Equal(t, 3, hits[1].LineStart)
	assert.Equal(t, "Multiple useState calls", hits[1].PatternName)
}

func TestDetectPatterns_SameLineRuleOrder(t *testing.T) {
	// 同一行同时命中两条规则时，按规则声明顺序输出
	code := "useState(x); useState(items.map(f).filter(g))"

	hits := DetectPatterns(context.Background(), code, nil)

	require.Len(t, hits, 2)
	assert.Equal(t, "Multiple useState calls", hits[0].PatternName)
	assert.Equal(t, "Chained map and filter", hits[1].PatternName)
	assert.Equal(t, hits[0].LineStart, hits[1].LineStart)
}

func TestDetectPatterns_FallbackText(t *testing.T) {
	hits := DetectPatterns(context.Background(), "useState(x); useState(y)", nil)

	require.Len(t, hits, 1)
	assert.Equal(t, "Detected: Multiple useState calls. This is a performance_issue issue.", hits[0].Description)
	assert.Contains(t, hits[0].SuggestedFix, "Multiple useState calls")
}

func TestDetectPatterns_ExplainerSuccess(t *testing.T) {
	explainer := &stubExplainer{description: "Too many state hooks.", fix: "Merge into one reducer."}

	hits := DetectPatterns(context.Background(), "useState(x); useState(y)", explainer)

	require.Len(t, hits, 1)
	assert.Equal(t, "Too many state hooks.", hits[0].Description)
	assert.Equal(t, "Merge into one reducer.", hits[0].SuggestedFix)
}

func TestDetectPatterns_ExplainerFailureFallsBack(t *testing.T) {
	explainer := &stubExplainer{err: errors.New("api unavailable")}

	hits := DetectPatterns(context.Background(), "useState(x); useState(y)", explainer)

	// 失败不向上传播，回落到确定性文案
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Description, "Detected: Multiple useState calls")
}

func TestRuleCount(t *testing.T) {
	assert.Equal(t, 3, RuleCount())
}
