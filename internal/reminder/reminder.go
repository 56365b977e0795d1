package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"hebron-schedule/internal/lock"
	"hebron-schedule/pkg/sl"
)

type Sender interface {
	SendDailyReminders(ctx context.Context) (int, error)
}

// Job runs the daily reminder send on a cron schedule. A per-day Redis
// lock makes sure only one instance sends when several are deployed.
type Job struct {
	log    *slog.Logger
	svc    Sender
	locker lock.Locker
	loc    *time.Location
	cron   *cron.Cron
}

func New(log *slog.Logger, svc Sender, locker lock.Locker, loc *time.Location) *Job {
	return &Job{
		log:    log,
		svc:    svc,
		locker: locker,
		loc:    loc,
		cron:   cron.New(cron.WithLocation(loc)),
	}
}

// Start registers the job with the given cron spec and starts the
// scheduler. Spec is evaluated in the job's location.
func (j *Job) Start(spec string) error {
	const op = "reminder.Job.Start"

	_, err := j.cron.AddFunc(spec, j.run)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	j.cron.Start()
	j.log.Info("Reminder scheduler started", slog.String("cron", spec))

	return nil
}

func (j *Job) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *Job) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	key := "reminders:" + time.Now().In(j.loc).Format("2006-01-02")

	// TTL outlives the run but expires before the next day's job.
	acquired, err := j.locker.Acquire(ctx, key, 23*time.Hour)
	if err != nil {
		j.log.Error("Failed to acquire reminder lock", sl.Err(err))
		return
	}
	if !acquired {
		j.log.Info("Reminder run already claimed by another instance", slog.String("key", key))
		return
	}

	sent, err := j.svc.SendDailyReminders(ctx)
	if err != nil {
		j.log.Error("Reminder run failed", sl.Err(err))
		// Release so a retry elsewhere is possible today.
		if relErr := j.locker.Release(ctx, key); relErr != nil {
			j.log.Error("Failed to release reminder lock", sl.Err(relErr))
		}
		return
	}

	j.log.Info("Reminder run completed", slog.Int("sent", sent))
}
