package cron

import (
	"context"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/model"
	"github.com/codeotter0201/fullstack-lms-challenge/repository"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/auth"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/metrics"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	JobCleanupExpiredTokens = "cleanup_expired_tokens"
	JobReconcileUserLevels  = "reconcile_user_levels"
)

// jobTimeout bounds a single run of any job
const jobTimeout = 10 * time.Minute

// JobResult is what a job reports back for its log row
type JobResult struct {
	Message  string
	Metadata map[string]interface{}
}

type jobFunc func(ctx context.Context) (*JobResult, error)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron      *cron.Cron
	db        *gorm.DB
	users     repository.UserRepo
	blacklist *auth.BlacklistService
	log       *logger.Logger
	now       func() time.Time
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, log *logger.Logger) *CronManager {
	if log == nil {
		log = logger.Nop()
	}
	return &CronManager{
		cron:      cron.New(cron.WithSeconds()),
		db:        db,
		users:     repository.NewUserRepo(db),
		blacklist: auth.NewBlacklistService(db),
		log:       log.With("component", "cron"),
		now:       time.Now,
	}
}

// Start registers all jobs and starts the scheduler
func (m *CronManager) Start() error {
	if err := m.registerJobs(); err != nil {
		return err
	}
	m.cron.Start()
	m.log.Info("cron jobs started", "jobs", len(m.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish
func (m *CronManager) Stop() {
	<-m.cron.Stop().Done()
	m.log.Info("cron jobs stopped")
}

func (m *CronManager) registerJobs() error {
	schedule := []struct {
		spec string
		name string
		fn   jobFunc
	}{
		// Daily at 3 AM
		{"0 0 3 * * *", JobCleanupExpiredTokens, m.CleanupExpiredTokens},
		// Hourly
		{"0 0 * * * *", JobReconcileUserLevels, m.ReconcileUserLevels},
	}
	for _, job := range schedule {
		job := job
		if _, err := m.cron.AddFunc(job.spec, func() { m.RunJob(job.name, job.fn) }); err != nil {
			return err
		}
	}
	return nil
}

// RunJob executes fn once, recording the run in cron_job_logs
func (m *CronManager) RunJob(name string, fn jobFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	started := m.now()
	entry := model.CronJobLog{
		JobName:   name,
		Status:    model.CronStatusRunning,
		StartedAt: started,
	}
	if err := m.db.WithContext(ctx).Create(&entry).Error; err != nil {
		m.log.Error("failed to record job start", "job", name, "error", err.Error())
	}

	result, err := fn(ctx)

	completed := m.now()
	updates := map[string]interface{}{
		"completed_at": completed,
		"duration":     completed.Sub(started).Milliseconds(),
	}
	if err != nil {
		updates["status"] = model.CronStatusFailed
		updates["error_msg"] = err.Error()
		m.log.Error("job failed", "job", name, "error", err.Error())
	} else {
		updates["status"] = model.CronStatusCompleted
		if result != nil {
			updates["message"] = result.Message
			if result.Metadata != nil {
				updates["metadata"] = datatypes.JSONMap(result.Metadata)
			}
			m.log.Info("job completed", "job", name, "message", result.Message)
		}
	}
	metrics.CronRuns.WithLabelValues(name, updates["status"].(string)).Inc()

	if entry.ID != 0 {
		if dbErr := m.db.Model(&model.CronJobLog{}).Where("id = ?", entry.ID).Updates(updates).Error; dbErr != nil {
			m.log.Error("failed to record job result", "job", name, "error", dbErr.Error())
		}
	}
	return err
}
