package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/perfmaster/perf_go_server/config"
	"github.com/perfmaster/perf_go_server/internal/analyzer"
	"github.com/perfmaster/perf_go_server/internal/model"
	"github.com/perfmaster/perf_go_server/internal/pkg/llm"
	"github.com/perfmaster/perf_go_server/internal/pkg/pubsub"
	"github.com/perfmaster/perf_go_server/internal/pkg/queue"
	"github.com/perfmaster/perf_go_server/internal/repository"
)

// Processor 任务处理器。
// 状态机：pending → running → completed/failed，不存在其他流转。
type Processor struct {
	jobRepo      *repository.JobRepository
	analysisRepo *repository.AnalysisRepository
	ai           *llm.Client
	publisher    *pubsub.Publisher
	cfg          *config.Config
}

// NewProcessor 创建任务处理器
func NewProcessor(
	jobRepo *repository.JobRepository,
	analysisRepo *repository.AnalysisRepository,
	ai *llm.Client,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *Processor {
	return &Processor{
		jobRepo:      jobRepo,
		analysisRepo: analysisRepo,
		ai:           ai,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// Process 处理一个分析任务。
// 任务内部失败不向上传播为 error：落在任务的 failed 状态和 error_message 上。
func (p *Processor) Process(ctx context.Context, msg *queue.JobMessage) error {
	job, err := p.jobRepo.GetByID(msg.JobID)
	if err != nil {
		return fmt.Errorf("failed to get job %d: %w", msg.JobID, err)
	}
	if job.IsTerminal() {
		// 重复投递，忽略
		return nil
	}

	// 进入 running：必须先落库、后开始任何耗时阶段。
	// 中途崩溃留下的是可观测的 running 任务，由 cron 对账兜底。
	now := time.Now()
	job.Status = model.JobStatusRunning
	job.StartedAt = &now
	if err := p.jobRepo.Update(job); err != nil {
		return fmt.Errorf("failed to mark job %d running: %w", job.ID, err)
	}

	publishProgress := func(step, status, errMsg string) {
		if p.publisher == nil {
			return
		}
		p.publisher.PublishJobEvent(ctx, &pubsub.JobEventMessage{
			ProjectID: job.ProjectID,
			UserID:    job.UserID,
			JobID:     job.ID,
			JobType:   job.JobType,
			Status:    status,
			Step:      step,
			Error:     errMsg,
		})
	}

	fail := func(step string, stageErr error) {
		completedAt := time.Now()
		job.Status = model.JobStatusFailed
		job.ErrorMessage = stageErr.Error()
		job.Result = nil
		job.CompletedAt = &completedAt
		p.jobRepo.Update(job)
		publishProgress(step, model.JobStatusFailed, stageErr.Error())
		log.Printf("Job %d: failed at %s: %v", job.ID, step, stageErr)
	}

	complete := func(result model.JSONMap) {
		completedAt := time.Now()
		job.Status = model.JobStatusCompleted
		job.Result = result
		job.ErrorMessage = ""
		job.CompletedAt = &completedAt
		p.jobRepo.Update(job)
		publishProgress(pubsub.StepDone, model.JobStatusCompleted, "")
		log.Printf("Job %d: completed in %s", job.ID, completedAt.Sub(*job.StartedAt).Round(time.Millisecond))
	}

	// 类型有限集合，穷举分发
	switch job.JobType {
	case model.JobTypeCodeAnalysis:
		result, stageErr := p.runCodeAnalysis(ctx, job, publishProgress)
		if stageErr != nil {
			fail(stageErr.step, stageErr.err)
			return nil
		}
		complete(result)
	case model.JobTypePatternDetection:
		result, stageErr := p.runPatternDetection(ctx, job, publishProgress)
		if stageErr != nil {
			fail(stageErr.step, stageErr.err)
			return nil
		}
		complete(result)
	default:
		fail(pubsub.StepChunking, fmt.Errorf("unknown job type: %s", job.JobType))
	}

	return nil
}

// stageError 某个阶段的失败及其所在阶段
type stageError struct {
	step string
	err  error
}

func stageFail(step string, err error) *stageError {
	return &stageError{step: step, err: err}
}

// runCodeAnalysis 代码分析：切块 → 逐块分类 → 评分 → 落库 → 生成优化建议
func (p *Processor) runCodeAnalysis(ctx context.Context, job *model.AnalysisJob, progress func(step, status, errMsg string)) (model.JSONMap, *stageError) {
	log.Printf("Job %d: chunking %s", job.ID, job.FilePath)
	progress(pubsub.StepChunking, model.JobStatusRunning, "")

	chunks := analyzer.SplitChunks(job.CodeContent, p.cfg.AI.ChunkMaxLength)

	log.Printf("Job %d: analyzing %d chunks", job.ID, len(chunks))
	progress(pubsub.StepAnalyzing, model.JobStatusRunning, "")

	// 每个块一个结果列表；分类失败的块产出空结果，不参与评分
	results := make(model.ChunkResults, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, p.ai.ClassifyChunk(ctx, chunk))
	}

	complexity := analyzer.ComplexityScore(job.CodeContent)
	performance := analyzer.PerformanceScore(results)
	maintainability := analyzer.MaintainabilityScore(job.CodeContent)

	log.Printf("Job %d: saving analysis", job.ID)
	progress(pubsub.StepSaving, model.JobStatusRunning, "")

	analysis := &model.CodeAnalysis{
		ProjectID:            job.ProjectID,
		FilePath:             job.FilePath,
		CodeContent:          job.CodeContent,
		AnalysisResult:       results,
		ComplexityScore:      complexity,
		PerformanceScore:     performance,
		MaintainabilityScore: maintainability,
	}
	if err := p.analysisRepo.CreateAnalysis(analysis); err != nil {
		return nil, stageFail(pubsub.StepSaving, fmt.Errorf("failed to save analysis: %w", err))
	}

	suggestions := generateSuggestions(analysis)
	for _, s := range suggestions {
		if err := p.analysisRepo.CreateSuggestion(s); err != nil {
			return nil, stageFail(pubsub.StepSaving, fmt.Errorf("failed to save suggestion: %w", err))
		}
	}

	return model.JSONMap{
		"analysis_id":           analysis.ID,
		"complexity_score":      complexity,
		"performance_score":     performance,
		"maintainability_score": maintainability,
		"suggestions_count":     len(suggestions),
	}, nil
}

// runPatternDetection 模式检测：逐行匹配规则集 → 落库
func (p *Processor) runPatternDetection(ctx context.Context, job *model.AnalysisJob, progress func(step, status, errMsg string)) (model.JSONMap, *stageError) {
	log.Printf("Job %d: detecting patterns in %s", job.ID, job.FilePath)
	progress(pubsub.StepDetecting, model.JobStatusRunning, "")

	hits := analyzer.DetectPatterns(ctx, job.CodeContent, p.ai)

	log.Printf("Job %d: saving %d pattern hits", job.ID, len(hits))
	progress(pubsub.StepSaving, model.JobStatusRunning, "")

	for _, hit := range hits {
		pattern := &model.PatternDetection{
			ProjectID:    job.ProjectID,
			PatternType:  hit.PatternType,
			PatternName:  hit.PatternName,
			Description:  hit.Description,
			FilePath:     job.FilePath,
			LineStart:    hit.LineStart,
			LineEnd:      hit.LineEnd,
			Confidence:   hit.Confidence,
			SuggestedFix: hit.SuggestedFix,
		}
		if err := p.analysisRepo.CreatePattern(pattern); err != nil {
			return nil, stageFail(pubsub.StepSaving, fmt.Errorf("failed to save pattern: %w", err))
		}
	}

	return model.JSONMap{
		"patterns_detected": len(hits),
	}, nil
}
