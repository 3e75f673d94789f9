package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/perfmaster/perf_go_server/config"
	"github.com/perfmaster/perf_go_server/internal/database"
	"github.com/perfmaster/perf_go_server/internal/model"
	"github.com/perfmaster/perf_go_server/internal/repository"
)

var (
	dryRun        = flag.Bool("dry-run", true, "Dry run mode, don't actually delete rows")
	metricExpire  = flag.Int("metric-expire", 30, "Days to keep performance metrics")
	stuckTimeout  = flag.Int("stuck-timeout", 30, "Minutes before a running job counts as stuck")
	failStuckJobs = flag.Bool("fail-stuck-jobs", true, "Mark stuck running jobs as failed")
)

func main() {
	flag.Parse()

	log.Println("Starting cleanup task...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	metricRepo := repository.NewMetricRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// 指标保留期清理
	metricCutoff := time.Now().AddDate(0, 0, -*metricExpire)
	if *dryRun {
		var count int64
		db.Model(&model.PerformanceMetric{}).Where("timestamp < ?", metricCutoff).Count(&count)
		log.Printf("[dry-run] would delete %d metrics older than %s", count, metricCutoff.Format(time.RFC3339))
	} else {
		deleted, err := metricRepo.DeleteOlderThan(metricCutoff)
		if err != nil {
			log.Fatalf("Failed to delete expired metrics: %v", err)
		}
		log.Printf("Deleted %d metrics older than %s", deleted, metricCutoff.Format(time.RFC3339))
	}

	// 卡死任务对账
	if *failStuckJobs {
		jobCutoff := time.Now().Add(-time.Duration(*stuckTimeout) * time.Minute)
		if *dryRun {
			var count int64
			db.Model(&model.AnalysisJob{}).
				Where("status = ? AND started_at < ?", model.JobStatusRunning, jobCutoff).
				Count(&count)
			log.Printf("[dry-run] would fail %d jobs running since before %s", count, jobCutoff.Format(time.RFC3339))
		} else {
			failed, err := jobRepo.FailStuckRunning(jobCutoff)
			if err != nil {
				log.Fatalf("Failed to reconcile stuck jobs: %v", err)
			}
			log.Printf("Marked %d stuck jobs as failed", failed)
		}
	}

	log.Println("Cleanup complete")
}
