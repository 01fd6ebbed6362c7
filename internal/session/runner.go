package session

import (
	"context"
	"sync"
	"time"

	"aptigenius-backend/internal/model"
)

// Submitter persists a finished session and returns the stored result.
type Submitter interface {
	SubmitResult(ctx context.Context, sub Submission) (*model.Result, error)
}

// Runner owns a loaded Session, ticks its clock on a background goroutine
// and performs the one submission, whether it comes from Finish or from the
// clock running out. Every Session access goes through the runner's lock.
type Runner struct {
	mu        sync.Mutex
	sess      *Session
	submitter Submitter
	interval  time.Duration
	onTick    func(remaining int)

	done   chan struct{}
	once   sync.Once
	result *model.Result
	err    error
}

// NewRunner wraps sess, which should already be InProgress. interval is the
// wall-clock length of one countdown second (time.Second outside tests).
func NewRunner(sess *Session, submitter Submitter, interval time.Duration) *Runner {
	return &Runner{
		sess:      sess,
		submitter: submitter,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// OnTick registers a callback run after every tick with the seconds left.
// It must be set before Start.
func (r *Runner) OnTick(fn func(remaining int)) {
	r.onTick = fn
}

// Start launches the countdown. It keeps running until the session ends;
// ctx is only used for the submission request.
func (r *Runner) Start(ctx context.Context) {
	go r.loop(ctx)
}

func (r *Runner) loop(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.mu.Lock()
			sub, expired := r.sess.Tick()
			remaining := r.sess.RemainingSeconds()
			running := r.sess.State() == InProgress
			r.mu.Unlock()

			// a manual Finish is already submitting
			if !expired && !running {
				return
			}
			if r.onTick != nil {
				r.onTick(remaining)
			}
			if expired {
				r.submit(ctx, sub)
				return
			}
		}
	}
}

// Do applies fn to the session under the runner's lock.
func (r *Runner) Do(fn func(*Session) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.sess)
}

// Finish submits on the user's request. It fails with ErrWrongState if the
// clock already forced a submission or the session has ended.
func (r *Runner) Finish(ctx context.Context) error {
	r.mu.Lock()
	sub, err := r.sess.Finish()
	r.mu.Unlock()
	if err != nil {
		return err
	}
	r.submit(ctx, sub)
	return nil
}

// Abort abandons the session and stops the clock.
func (r *Runner) Abort(reason error) {
	r.mu.Lock()
	r.sess.Abort(reason)
	r.mu.Unlock()
	r.finish(nil, reason)
}

// A failed submission loses the session; there is no retry.
func (r *Runner) submit(ctx context.Context, sub Submission) {
	result, err := r.submitter.SubmitResult(ctx, sub)

	r.mu.Lock()
	if err != nil {
		r.sess.Abort(err)
	} else {
		err = r.sess.Complete(result.ID)
	}
	r.mu.Unlock()

	r.finish(result, err)
}

func (r *Runner) finish(result *model.Result, err error) {
	r.once.Do(func() {
		r.result = result
		r.err = err
		close(r.done)
	})
}

// Done is closed once the session is Complete or Aborted.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Result returns the stored result or the error that ended the session.
// Only meaningful after Done is closed.
func (r *Runner) Result() (*model.Result, error) {
	<-r.done
	return r.result, r.err
}
