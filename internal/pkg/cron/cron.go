package cron

import (
	"log"
	"time"

	"github.com/perfmaster/perf_go_server/internal/repository"
)

// Service 进程内定时任务：指标保留期清理 + 卡死任务对账。
// running 超时的任务只会被置为 failed，不会自动重试。
type Service struct {
	metricRepo      *repository.MetricRepository
	jobRepo         *repository.JobRepository
	metricRetention time.Duration
	stuckJobTimeout time.Duration
	stopChan        chan struct{}
}

func NewService(
	metricRepo *repository.MetricRepository,
	jobRepo *repository.JobRepository,
	metricRetentionDays int,
	stuckJobTimeoutMinutes int,
) *Service {
	return &Service{
		metricRepo:      metricRepo,
		jobRepo:         jobRepo,
		metricRetention: time.Duration(metricRetentionDays) * 24 * time.Hour,
		stuckJobTimeout: time.Duration(stuckJobTimeoutMinutes) * time.Minute,
		stopChan:        make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runMetricRetention()
	go s.runStuckJobReconciliation()
	log.Println("Cron service started (metric retention + stuck job reconciliation)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runMetricRetention 每小时清理一次超过保留期的指标
func (s *Service) runMetricRetention() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.metricRetention)
			deleted, err := s.metricRepo.DeleteOlderThan(cutoff)
			if err != nil {
				log.Printf("Metric retention sweep failed: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("Metric retention: deleted %d rows older than %s", deleted, cutoff.Format(time.RFC3339))
			}
		}
	}
}

// runStuckJobReconciliation 每 5 分钟将卡在 running 超时的任务标记为 failed
func (s *Service) runStuckJobReconciliation() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.stuckJobTimeout)
			failed, err := s.jobRepo.FailStuckRunning(cutoff)
			if err != nil {
				log.Printf("Stuck job reconciliation failed: %v", err)
				continue
			}
			if failed > 0 {
				log.Printf("Stuck job reconciliation: failed %d jobs running since before %s", failed, cutoff.Format(time.RFC3339))
			}
		}
	}
}
