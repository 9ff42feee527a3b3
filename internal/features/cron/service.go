package cron_feature

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chartcraft/internal/config"
	"chartcraft/internal/features/chart"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OrphanSweepJob removes charts left behind by deleted datasets.
const OrphanSweepJob = "orphan-chart-sweep"

var ErrJobNotFound = errors.New("cron job not found")

type CronService interface {
	ListCronJobs(ctx context.Context) []CronJob
	ExecuteCronJob(ctx context.Context, name string) (*CronJobLog, error)
	GetCronJobLogs(ctx context.Context, name string, limit int) ([]CronJobLog, error)
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type jobState struct {
	job        Job
	lastRun    *time.Time
	lastStatus string
}

type CronServiceImpl struct {
	repo   CronRepository
	logger *zap.Logger

	jobs  map[string]*jobState
	order []string

	scheduler  *cron.Cron
	jobEntries map[string]cron.EntryID
	mu         sync.RWMutex
}

func NewCronService(repo CronRepository, chartService chart.ChartService, logger *zap.Logger, cfg *config.Config) CronService {
	return NewCronServiceWithJobs(repo, logger, Job{
		Name:        OrphanSweepJob,
		Description: "Delete charts whose dataset no longer exists",
		Schedule:    cfg.SweepSchedule,
		Run:         chartService.SweepOrphans,
	})
}

// NewCronServiceWithJobs registers the given jobs. A job with an empty
// schedule only runs on demand.
func NewCronServiceWithJobs(repo CronRepository, logger *zap.Logger, jobs ...Job) *CronServiceImpl {
	s := &CronServiceImpl{
		repo:       repo,
		logger:     logger,
		jobs:       make(map[string]*jobState, len(jobs)),
		jobEntries: make(map[string]cron.EntryID),
	}
	for _, j := range jobs {
		s.jobs[j.Name] = &jobState{job: j}
		s.order = append(s.order, j.Name)
	}
	return s
}

func (s *CronServiceImpl) ListCronJobs(ctx context.Context) []CronJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]CronJob, 0, len(s.order))
	for _, name := range s.order {
		st := s.jobs[name]
		_, scheduled := s.jobEntries[name]
		cj := CronJob{
			Name:        name,
			Description: st.job.Description,
			Schedule:    st.job.Schedule,
			Active:      scheduled,
			LastRun:     st.lastRun,
			LastStatus:  st.lastStatus,
		}
		if scheduled {
			entry := s.scheduler.Entry(s.jobEntries[name])
			next := entry.Next
			if next.IsZero() && entry.Schedule != nil {
				next = entry.Schedule.Next(time.Now())
			}
			cj.NextRun = &next
		}
		out = append(out, cj)
	}
	return out
}

func (s *CronServiceImpl) ExecuteCronJob(ctx context.Context, name string) (*CronJobLog, error) {
	s.mu.RLock()
	st, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.executeCronJobInternal(ctx, st.job)
}

func (s *CronServiceImpl) executeCronJobInternal(ctx context.Context, job Job) (*CronJobLog, error) {
	startTime := time.Now().UTC()
	logEntry := &CronJobLog{
		ID:          uuid.NewString(),
		CronJobName: job.Name,
		StartTime:   startTime,
		Status:      StatusRunning,
		CreatedAt:   startTime,
	}
	if err := s.repo.CreateLog(ctx, logEntry); err != nil {
		s.logger.Warn("Failed to create cron job log", zap.String("job", job.Name), zap.Error(err))
	}

	affected, execErr := job.Run(ctx)

	endTime := time.Now().UTC()
	logEntry.EndTime = &endTime
	logEntry.RecordsAffected = affected
	logEntry.Status = StatusSuccess
	if execErr != nil {
		logEntry.Status = StatusFailed
		logEntry.Error = execErr.Error()
		s.logger.Error("Cron job failed", zap.String("job", job.Name), zap.Error(execErr))
	} else {
		s.logger.Info("Cron job finished", zap.String("job", job.Name), zap.Int64("affected", affected))
	}

	if err := s.repo.UpdateLog(ctx, logEntry); err != nil {
		s.logger.Warn("Failed to update cron job log", zap.String("job", job.Name), zap.Error(err))
	}

	s.mu.Lock()
	if st, ok := s.jobs[job.Name]; ok {
		st.lastRun = &startTime
		st.lastStatus = logEntry.Status
	}
	s.mu.Unlock()

	return logEntry, execErr
}

func (s *CronServiceImpl) GetCronJobLogs(ctx context.Context, name string, limit int) ([]CronJobLog, error) {
	s.mu.RLock()
	_, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	if limit <= 0 {
		limit = 50
	}
	return s.repo.GetLogs(ctx, name, limit)
}

func (s *CronServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler = cron.New()
	for _, name := range s.order {
		job := s.jobs[name].job
		if job.Schedule == "" {
			continue
		}
		entryID, err := s.scheduler.AddFunc(job.Schedule, func() {
			_, _ = s.executeCronJobInternal(context.Background(), job)
		})
		if err != nil {
			return fmt.Errorf("invalid schedule %q for cron job %s: %w", job.Schedule, name, err)
		}
		s.jobEntries[name] = entryID
	}

	s.scheduler.Start()
	s.logger.Info("Cron scheduler started", zap.Int("jobs", len(s.jobEntries)))
	return nil
}

func (s *CronServiceImpl) StopScheduler() error {
	s.mu.Lock()
	scheduler := s.scheduler
	s.mu.Unlock()

	if scheduler != nil {
		ctx := scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}
