package notify

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronRegistrar drives reminders off an in-process cron scheduler. Each
// reminder becomes a daily "M H * * *" job that invokes onFire with the
// reminder text.
type CronRegistrar struct {
	mu     sync.Mutex
	cron   *cron.Cron
	jobs   map[string]cron.EntryID
	onFire func(Entry)
	log    *zap.Logger
}

func NewCronRegistrar(onFire func(Entry), log *zap.Logger) *CronRegistrar {
	c := cron.New()
	c.Start()
	return &CronRegistrar{
		cron:   c,
		jobs:   make(map[string]cron.EntryID),
		onFire: onFire,
		log:    log,
	}
}

// Granted always reports true: an in-process scheduler needs no OS
// permission grant.
func (r *CronRegistrar) Granted() bool { return true }

func (r *CronRegistrar) Register(entry Entry) error {
	hour, minute, err := ParseTime(entry.Time)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	id, err := r.cron.AddFunc(spec, func() {
		r.log.Info("reminder fired", zap.String("time", entry.Time))
		r.onFire(entry)
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	r.jobs[entry.ID] = id
	return nil
}

func (r *CronRegistrar) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if jobID, ok := r.jobs[id]; ok {
		r.cron.Remove(jobID)
		delete(r.jobs, id)
	}
	return nil
}

func (r *CronRegistrar) CancelAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, jobID := range r.jobs {
		r.cron.Remove(jobID)
		delete(r.jobs, id)
	}
	return nil
}

// Stop halts the underlying scheduler, waiting for running jobs.
func (r *CronRegistrar) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
