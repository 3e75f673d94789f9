package worker

import (
	"fmt"

	"github.com/perfmaster/perf_go_server/internal/model"
)

// 建议类型
const (
	SuggestionCodeSplitting = "code_splitting"
	SuggestionMemoization   = "memoization"
)

// generateSuggestions 根据评分阈值生成优化建议
func generateSuggestions(analysis *model.CodeAnalysis) []*model.OptimizationSuggestion {
	var suggestions []*model.OptimizationSuggestion

	if analysis.ComplexityScore > 70 {
		suggestions = append(suggestions, &model.OptimizationSuggestion{
			ProjectID:      analysis.ProjectID,
			SuggestionType: SuggestionCodeSplitting,
			Title:          "High Complexity Detected",
			Description: fmt.Sprintf(
				"The component has a complexity score of %.0f. Consider breaking it into smaller components.",
				analysis.ComplexityScore),
			CodeExample:          "const ComplexComponent = () => (\n  <div>\n    <Header />\n    <MainContent />\n    <Footer />\n  </div>\n);",
			EstimatedImprovement: "20-30% render time reduction",
			PriorityScore:        80,
		})
	}

	if analysis.PerformanceScore < 50 {
		suggestions = append(suggestions, &model.OptimizationSuggestion{
			ProjectID:            analysis.ProjectID,
			SuggestionType:       SuggestionMemoization,
			Title:                "Add Memoization",
			Description:          "Low performance score detected. Consider using React.memo or useMemo for expensive calculations.",
			CodeExample:          "const ExpensiveComponent = React.memo(({ data }) => {\n  const value = useMemo(() => heavyCalculation(data), [data]);\n  return <div>{value}</div>;\n});",
			EstimatedImprovement: "40-60% render time reduction",
			PriorityScore:        90,
		})
	}

	if analysis.MaintainabilityScore < 60 {
		suggestions = append(suggestions, &model.OptimizationSuggestion{
			ProjectID:            analysis.ProjectID,
			SuggestionType:       SuggestionCodeSplitting,
			Title:                "Improve Code Maintainability",
			Description:          "Code maintainability is low. Consider refactoring for better readability.",
			CodeExample:          "const useBusinessLogic = (data) => {\n  // complex logic here\n  return processedData;\n};",
			EstimatedImprovement: "Better maintainability and debugging",
			PriorityScore:        60,
		})
	}

	return suggestions
}
