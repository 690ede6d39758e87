package background

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"preppulse/internal/services"

	"github.com/go-co-op/gocron/v2"
)

// RefreshInterval is how often the cached leaderboard and admin stats are
// rebuilt. It matches the cache TTLs so readers rarely see a miss.
const RefreshInterval = 5 * time.Minute

// jobTimeout bounds a single refresh run.
const jobTimeout = time.Minute

// JobScheduler runs the periodic cache refresh jobs.
type JobScheduler struct {
	scheduler      gocron.Scheduler
	leaderboardSvc services.LeaderboardService
	adminSvc       services.AdminService
	jobs           map[string]gocron.Job
	mu             sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. Extra gocron
// options, such as a fake clock in tests, are passed through.
func NewJobScheduler(leaderboardSvc services.LeaderboardService, adminSvc services.AdminService, opts ...gocron.SchedulerOption) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:      scheduler,
		leaderboardSvc: leaderboardSvc,
		adminSvc:       adminSvc,
		jobs:           make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler.
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	tasks := []struct {
		name string
		fn   func() error
	}{
		{"leaderboard-refresh", js.refreshLeaderboard},
		{"admin-stats-refresh", js.refreshAdminStats},
	}

	js.mu.Lock()
	defer js.mu.Unlock()

	for _, t := range tasks {
		job, err := js.scheduler.NewJob(
			gocron.DurationJob(RefreshInterval),
			gocron.NewTask(t.fn),
			gocron.WithName(t.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		)
		if err != nil {
			return fmt.Errorf("register job %s: %w", t.name, err)
		}
		js.jobs[t.name] = job
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
	return nil
}

func (js *JobScheduler) refreshLeaderboard() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	entries, err := js.leaderboardSvc.Refresh(ctx)
	if err != nil {
		log.Printf("ERROR: leaderboard refresh failed: %v", err)
		return err
	}
	log.Printf("DEBUG: leaderboard refreshed with %d entries", len(entries))
	return nil
}

func (js *JobScheduler) refreshAdminStats() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := js.adminSvc.RefreshStats(ctx); err != nil {
		log.Printf("ERROR: admin stats refresh failed: %v", err)
		return err
	}
	log.Printf("DEBUG: admin stats refreshed")
	return nil
}

// RunNow triggers a registered job immediately, outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return job.RunNow()
}

// JobNames lists the registered jobs, sorted.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
