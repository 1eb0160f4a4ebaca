package job

import (
	"context"
	"errors"
	"log/slog"

	"github.com/maheshrc27/postpilot/internal/transfer"
	"golang.org/x/sync/singleflight"
)

// ErrPassInProgress is returned when another process holds the dispatch lock.
var ErrPassInProgress = errors.New("dispatch pass already in progress")

// Dispatcher is the pass being guarded.
type Dispatcher interface {
	PollAndDispatch(ctx context.Context) (*transfer.DispatchSummary, error)
}

// DispatchJob makes sure at most one pass runs at a time. Callers inside one
// process share the running pass and its summary; across processes the
// locker decides.
type DispatchJob struct {
	d      Dispatcher
	locker Locker
	group  singleflight.Group
}

func NewDispatchJob(d Dispatcher, locker Locker) *DispatchJob {
	return &DispatchJob{
		d:      d,
		locker: locker,
	}
}

func (j *DispatchJob) Run(ctx context.Context) (*transfer.DispatchSummary, error) {
	v, err, shared := j.group.Do("dispatch", func() (any, error) {
		return j.run(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("joined running dispatch pass")
	}
	return v.(*transfer.DispatchSummary), nil
}

func (j *DispatchJob) run(ctx context.Context) (*transfer.DispatchSummary, error) {
	if j.locker != nil {
		release, ok, err := j.locker.Acquire(ctx)
		if err != nil {
			slog.Error("unable to acquire dispatch lock", "error", err)
			return nil, err
		}
		if !ok {
			return nil, ErrPassInProgress
		}
		defer release()
	}

	return j.d.PollAndDispatch(ctx)
}
