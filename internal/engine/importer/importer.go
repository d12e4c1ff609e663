// Package importer drives a CSV bulk import: a local file check, the upload,
// then a background poll of the service's progress until the task finishes,
// fails or is cancelled.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"productdash/internal/client"
	"productdash/internal/engine/notify"
	"productdash/internal/platform/config"
	"productdash/internal/platform/models"
)

var (
	ErrNoFile = errors.New("Choose a CSV file")
	ErrNotCSV = errors.New("Upload only CSV")
)

type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
	StateCancelled  State = "cancelled"
)

// Snapshot is a copy of the importer state at one point in time.
type Snapshot struct {
	State    State  `json:"state"`
	TaskID   string `json:"task_id,omitempty"`
	Filename string `json:"filename,omitempty"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	Visible  bool   `json:"visible"`
	Err      string `json:"error,omitempty"`
}

func (s Snapshot) Active() bool {
	return s.State == StateUploading || s.State == StateProcessing
}

// Refreshing reports whether a page showing the importer should keep reloading.
func (s Snapshot) Refreshing() bool {
	return s.Active() || (s.State == StateCompleted && s.Visible)
}

type API interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*models.ImportTask, error)
	Progress(ctx context.Context, taskID string) (*models.Progress, error)
}

type Importer struct {
	api     API
	cfg     config.ImportConfig
	notices *notify.Center
	log     zerolog.Logger

	mu        sync.Mutex
	snap      Snapshot
	cancel    context.CancelFunc
	done      chan struct{}
	observers []func(Snapshot)
}

func New(api API, cfg config.ImportConfig, notices *notify.Center) *Importer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 800 * time.Millisecond
	}
	if cfg.HideDelay < 0 {
		cfg.HideDelay = 0
	}
	if notices == nil {
		notices = notify.NewCenter(0)
	}
	return &Importer{
		api:     api,
		cfg:     cfg,
		notices: notices,
		log:     log.With().Str("component", "importer").Logger(),
		snap:    Snapshot{State: StateIdle},
	}
}

// OnUpdate registers fn to receive every state change, including each
// polled progress value. fn runs on the poller goroutine and must not block.
func (im *Importer) OnUpdate(fn func(Snapshot)) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.observers = append(im.observers, fn)
}

func (im *Importer) Snapshot() Snapshot {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.snap
}

// Upload checks the file locally, sends it and starts polling. Any poll
// still running from an earlier upload is cancelled first.
func (im *Importer) Upload(ctx context.Context, filename string, r io.Reader) error {
	name := strings.TrimSpace(filename)
	if name == "" || r == nil {
		return ErrNoFile
	}
	if err := client.CheckCSVName(name); err != nil {
		return ErrNotCSV
	}

	im.Cancel()
	im.update(func(s *Snapshot) {
		*s = Snapshot{State: StateUploading, Filename: name, Visible: true}
	})

	task, err := im.api.Upload(ctx, name, r)
	if err != nil {
		im.update(func(s *Snapshot) {
			s.State = StateFailed
			s.Err = err.Error()
		})
		return err
	}

	im.log.Info().Str("task_id", task.TaskID).Str("file", name).Msg("import started")

	pollCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	im.mu.Lock()
	im.cancel = cancel
	im.done = done
	im.mu.Unlock()

	im.update(func(s *Snapshot) {
		s.State = StateProcessing
		s.TaskID = task.TaskID
		s.Progress = 0
		s.Message = task.Status
	})

	go im.poll(pollCtx, task.TaskID, done)
	return nil
}

// Cancel stops the running poll, if any, and waits for it to exit.
func (im *Importer) Cancel() {
	im.mu.Lock()
	cancel, done := im.cancel, im.done
	im.cancel, im.done = nil, nil
	im.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	im.update(func(s *Snapshot) {
		if s.Active() {
			s.State = StateCancelled
			im.log.Info().Str("task_id", s.TaskID).Int("progress", s.Progress).Msg("import poll cancelled")
		}
		s.Visible = false
	})
}

// Wait blocks until the current poll, if any, has exited on its own.
func (im *Importer) Wait() {
	im.mu.Lock()
	done := im.done
	im.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (im *Importer) Close() {
	im.Cancel()
}

func (im *Importer) poll(ctx context.Context, taskID string, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(im.cfg.PollInterval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if im.cfg.PollTimeout > 0 {
		timer := time.NewTimer(im.cfg.PollTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			im.fail(taskID, fmt.Sprintf("import did not finish within %s", im.cfg.PollTimeout))
			return
		case <-ticker.C:
		}

		p, err := im.api.Progress(ctx, taskID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			im.log.Warn().Err(err).Str("task_id", taskID).Int("failures", failures).Msg("progress poll failed")
			if im.cfg.MaxPollErrors > 0 && failures >= im.cfg.MaxPollErrors {
				im.fail(taskID, notify.FromError(err))
				return
			}
			continue
		}
		if p.Unknown() {
			failures++
			im.log.Warn().Str("task_id", taskID).Int("failures", failures).Msg("service does not know the task")
			if im.cfg.MaxPollErrors <= 0 || failures >= im.cfg.MaxPollErrors {
				im.fail(taskID, "task "+taskID+": "+p.Status)
				return
			}
			continue
		}
		failures = 0

		value := clamp(p.Progress)
		im.update(func(s *Snapshot) {
			s.Progress = value
			s.Message = p.Status
		})

		if p.Done() {
			im.update(func(s *Snapshot) { s.State = StateCompleted })
			im.log.Info().Str("task_id", taskID).Msg("import finished")
			im.notices.Success("Import finished")

			select {
			case <-ctx.Done():
			case <-time.After(im.cfg.HideDelay):
				im.update(func(s *Snapshot) { s.Visible = false })
			}
			return
		}
	}
}

func (im *Importer) fail(taskID, reason string) {
	im.log.Error().Str("task_id", taskID).Str("reason", reason).Msg("import failed")
	im.update(func(s *Snapshot) {
		s.State = StateFailed
		s.Err = reason
	})
	im.notices.Push(notify.KindError, "Import failed: "+reason)
}

func (im *Importer) update(fn func(*Snapshot)) {
	im.mu.Lock()
	fn(&im.snap)
	snap := im.snap
	observers := slices.Clone(im.observers)
	im.mu.Unlock()

	for _, o := range observers {
		o(snap)
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
