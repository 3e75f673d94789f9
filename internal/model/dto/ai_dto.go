package dto

// SubmitAnalysisRequest AI 任务提交，三个字段缺一不可（同步校验）
type SubmitAnalysisRequest struct {
	ProjectID   int64  `json:"project_id" binding:"required"`
	CodeContent string `json:"code_content" binding:"required"`
	FilePath    string `json:"file_path" binding:"required"`
}
