package cron_feature

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"chartcraft/internal/config"
	"chartcraft/internal/database"
	"chartcraft/internal/events"
	"chartcraft/internal/features/chart"
	"chartcraft/internal/features/dataset"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func TestOrphanSweepJob(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	charts := chart.NewChartService(chart.NewChartRepository(store), dataset.NewDatasetRepository(store), events.NewHub(), zap.NewNop(), &config.Config{})
	_ = store.Memory.Put(database.ChartsCollection, "c1", "gone", &chart.Chart{ID: "c1", DatasetID: "gone"})

	svc := NewCronService(NewCronRepository(store), charts, zap.NewNop(), &config.Config{})

	run, err := svc.ExecuteCronJob(ctx, OrphanSweepJob)
	if err != nil {
		t.Fatalf("ExecuteCronJob() error: %v", err)
	}
	if run.Status != StatusSuccess || run.RecordsAffected != 1 || run.EndTime == nil {
		t.Errorf("run = %+v", run)
	}
	if n := store.Memory.Count(database.ChartsCollection, ""); n != 0 {
		t.Errorf("%d charts left, want 0", n)
	}

	jobs := svc.ListCronJobs(ctx)
	if len(jobs) != 1 || jobs[0].Active || jobs[0].LastStatus != StatusSuccess || jobs[0].LastRun == nil {
		t.Errorf("jobs = %+v", jobs)
	}
}

func TestExecuteRecordsFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	svc := NewCronServiceWithJobs(NewCronRepository(database.NewMemoryStore()), zap.NewNop(),
		Job{Name: "ok", Run: func(context.Context) (int64, error) { return 3, nil }},
		Job{Name: "bad", Run: func(context.Context) (int64, error) { return 0, boom }},
	)

	if _, err := svc.ExecuteCronJob(ctx, "bad"); !errors.Is(err, boom) {
		t.Errorf("ExecuteCronJob(bad) error = %v", err)
	}
	_, _ = svc.ExecuteCronJob(ctx, "ok")
	_, _ = svc.ExecuteCronJob(ctx, "ok")

	logs, err := svc.GetCronJobLogs(ctx, "bad", 10)
	if err != nil {
		t.Fatalf("GetCronJobLogs() error: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != StatusFailed || logs[0].Error != "boom" {
		t.Errorf("bad logs = %+v", logs)
	}
	logs, _ = svc.GetCronJobLogs(ctx, "ok", 1)
	if len(logs) != 1 || logs[0].RecordsAffected != 3 {
		t.Errorf("ok logs = %+v", logs)
	}

	if _, err := svc.ExecuteCronJob(ctx, "missing"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("ExecuteCronJob(missing) error = %v", err)
	}
}

func TestSchedulerRegistersScheduledJobs(t *testing.T) {
	svc := NewCronServiceWithJobs(NewCronRepository(database.NewMemoryStore()), zap.NewNop(),
		Job{Name: "hourly", Schedule: "@every 1h", Run: func(context.Context) (int64, error) { return 0, nil }},
		Job{Name: "manual", Run: func(context.Context) (int64, error) { return 0, nil }},
	)
	if err := svc.InitializeScheduler(context.Background()); err != nil {
		t.Fatalf("InitializeScheduler() error: %v", err)
	}
	defer svc.StopScheduler()

	jobs := svc.ListCronJobs(context.Background())
	if !jobs[0].Active || jobs[0].NextRun == nil {
		t.Errorf("hourly job = %+v", jobs[0])
	}
	if jobs[1].Active {
		t.Errorf("manual job = %+v", jobs[1])
	}

	bad := NewCronServiceWithJobs(NewCronRepository(database.NewMemoryStore()), zap.NewNop(),
		Job{Name: "broken", Schedule: "every tuesday", Run: func(context.Context) (int64, error) { return 0, nil }})
	if err := bad.InitializeScheduler(context.Background()); err == nil {
		t.Error("InitializeScheduler() accepted an invalid schedule")
	}
}

func TestJobsEndpoints(t *testing.T) {
	svc := NewCronServiceWithJobs(NewCronRepository(database.NewMemoryStore()), zap.NewNop(),
		Job{Name: "ok", Run: func(context.Context) (int64, error) { return 1, nil }})
	app := fiber.New()
	NewCronApi(NewCronController(svc), &config.Config{SkipAuth: true}).Setup(app)

	tests := []struct {
		method, target string
		status         int
	}{
		{http.MethodGet, "/api/jobs", fiber.StatusOK},
		{http.MethodPost, "/api/jobs/ok/run", fiber.StatusOK},
		{http.MethodGet, "/api/jobs/ok/logs", fiber.StatusOK},
		{http.MethodPost, "/api/jobs/nope/run", fiber.StatusNotFound},
		{http.MethodGet, "/api/jobs/nope/logs", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil))
		if err != nil {
			t.Fatalf("%s %s: %v", tt.method, tt.target, err)
		}
		if resp.StatusCode != tt.status {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.target, resp.StatusCode, tt.status)
		}
	}
}
