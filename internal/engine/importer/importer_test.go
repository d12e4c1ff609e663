package importer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"productdash/internal/apitest"
	"productdash/internal/client"
	"productdash/internal/engine/notify"
	"productdash/internal/platform/config"
)

const csvBody = "sku,name,description\nA1,Alpha,\nB2,Beta,\n"

func fastConfig() config.ImportConfig {
	return config.ImportConfig{
		PollInterval:  5 * time.Millisecond,
		HideDelay:     20 * time.Millisecond,
		PollTimeout:   5 * time.Second,
		MaxPollErrors: 3,
	}
}

type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) observe(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

// progressValues returns the distinct consecutive progress values seen while processing.
func (r *recorder) progressValues() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, s := range r.snaps {
		if s.State != StateProcessing && s.State != StateCompleted {
			continue
		}
		if len(out) == 0 || out[len(out)-1] != s.Progress {
			out = append(out, s.Progress)
		}
	}
	return out
}

func newImporter(t *testing.T, cfg config.ImportConfig) (*Importer, *apitest.Server, *notify.Center) {
	t.Helper()
	srv := apitest.NewServer(t)
	notices := notify.NewCenter(time.Minute)
	c := client.New(config.APIConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	im := New(c, cfg, notices)
	t.Cleanup(im.Close)
	return im, srv, notices
}

func TestUpload_RejectedLocally(t *testing.T) {
	im, srv, _ := newImporter(t, fastConfig())

	tests := []struct {
		name     string
		filename string
		body     *strings.Reader
		want     error
	}{
		{"no file", "", strings.NewReader(csvBody), ErrNoFile},
		{"no reader", "products.csv", nil, ErrNoFile},
		{"excel", "products.xlsx", strings.NewReader(csvBody), ErrNotCSV},
		{"no extension", "products", strings.NewReader(csvBody), ErrNotCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			if tt.body == nil {
				err = im.Upload(context.Background(), tt.filename, nil)
			} else {
				err = im.Upload(context.Background(), tt.filename, tt.body)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Upload() error = %v, want %v", err, tt.want)
			}
		})
	}

	if n := len(srv.Requests()); n != 0 {
		t.Errorf("rejected uploads issued %d requests", n)
	}
	if s := im.Snapshot(); s.State != StateIdle {
		t.Errorf("state = %s, want idle", s.State)
	}
}

func TestUpload_PollsToCompletion(t *testing.T) {
	im, srv, notices := newImporter(t, fastConfig())
	srv.SetProgressSteps(0, 25, 50, 75, 100)

	rec := &recorder{}
	im.OnUpdate(rec.observe)

	if err := im.Upload(context.Background(), "Products.CSV", strings.NewReader(csvBody)); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if s := im.Snapshot(); s.TaskID == "" {
		t.Fatal("task id not recorded")
	}

	im.Wait()

	got := rec.progressValues()
	want := []int{0, 25, 50, 75, 100}
	if len(got) != len(want) {
		t.Fatalf("progress values = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("progress values = %v, want %v", got, want)
		}
	}

	s := im.Snapshot()
	if s.State != StateCompleted || s.Progress != 100 || s.Visible {
		t.Errorf("final snapshot = %+v", s)
	}

	found := false
	for _, toast := range notices.Active() {
		if toast.Message == "Import finished" && toast.Kind == notify.KindSuccess {
			found = true
		}
	}
	if !found {
		t.Error("expected an Import finished notification")
	}
}

func TestUpload_IndicatorHiddenAfterDelay(t *testing.T) {
	cfg := fastConfig()
	cfg.HideDelay = 200 * time.Millisecond
	im, srv, _ := newImporter(t, cfg)
	srv.SetProgressSteps(100)

	completed := make(chan struct{}, 1)
	im.OnUpdate(func(s Snapshot) {
		if s.State == StateCompleted && s.Visible {
			select {
			case completed <- struct{}{}:
			default:
			}
		}
	})

	im.Upload(context.Background(), "a.csv", strings.NewReader(csvBody))

	select {
	case <-completed:
	case <-time.After(2 * time.Second):
		t.Fatal("import never completed")
	}
	if !im.Snapshot().Visible {
		t.Error("indicator hidden before the delay elapsed")
	}

	im.Wait()
	if im.Snapshot().Visible {
		t.Error("indicator still visible after the delay")
	}
}

func TestCancel_StopsPolling(t *testing.T) {
	im, srv, _ := newImporter(t, fastConfig())
	srv.SetProgressSteps(10)

	im.Upload(context.Background(), "a.csv", strings.NewReader(csvBody))
	time.Sleep(30 * time.Millisecond)
	im.Cancel()

	s := im.Snapshot()
	if s.State != StateCancelled || s.Visible {
		t.Errorf("snapshot after cancel = %+v", s)
	}

	before := len(srv.Requests())
	time.Sleep(30 * time.Millisecond)
	if after := len(srv.Requests()); after != before {
		t.Errorf("%d polls after cancel", after-before)
	}
}

func TestPoll_FailsAfterConsecutiveErrors(t *testing.T) {
	var mu sync.Mutex
	polls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upload" {
			w.Write([]byte(`{"task_id":"t-1","status":"started"}`))
			return
		}
		mu.Lock()
		polls++
		mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"worker crashed"}`))
	}))
	defer srv.Close()

	notices := notify.NewCenter(time.Minute)
	im := New(client.New(config.APIConfig{BaseURL: srv.URL}), fastConfig(), notices)

	if err := im.Upload(context.Background(), "a.csv", strings.NewReader(csvBody)); err != nil {
		t.Fatal(err)
	}
	im.Wait()

	s := im.Snapshot()
	if s.State != StateFailed || !strings.Contains(s.Err, "worker crashed") {
		t.Errorf("snapshot = %+v", s)
	}
	mu.Lock()
	defer mu.Unlock()
	if polls != 3 {
		t.Errorf("polled %d times, want 3", polls)
	}
	if toasts := notices.Active(); len(toasts) != 1 || toasts[0].Kind != notify.KindError {
		t.Errorf("expected one error toast, got %+v", toasts)
	}
}

func TestPoll_Timeout(t *testing.T) {
	cfg := fastConfig()
	cfg.PollTimeout = 40 * time.Millisecond
	im, srv, _ := newImporter(t, cfg)
	srv.SetProgressSteps(5)

	im.Upload(context.Background(), "a.csv", strings.NewReader(csvBody))
	im.Wait()

	s := im.Snapshot()
	if s.State != StateFailed || !strings.Contains(s.Err, "did not finish") {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestUpload_ServiceRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Only CSV files allowed"}`))
	}))
	defer srv.Close()

	im := New(client.New(config.APIConfig{BaseURL: srv.URL}), fastConfig(), nil)
	err := im.Upload(context.Background(), "a.csv", strings.NewReader(csvBody))
	if !client.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s := im.Snapshot(); s.State != StateFailed {
		t.Errorf("state = %s, want failed", s.State)
	}
}

func TestPoll_FailsWhenTaskUnknown(t *testing.T) {
	var mu sync.Mutex
	polls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/upload" {
			w.Write([]byte(`{"task_id":"t-gone","status":"started"}`))
			return
		}
		mu.Lock()
		polls++
		mu.Unlock()
		w.Write([]byte(`{"progress":0,"status":"not found"}`))
	}))
	defer srv.Close()

	notices := notify.NewCenter(time.Minute)
	im := New(client.New(config.APIConfig{BaseURL: srv.URL}), fastConfig(), notices)

	if err := im.Upload(context.Background(), "a.csv", strings.NewReader(csvBody)); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		im.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		im.Close()
		t.Fatal("poll kept running for an unknown task")
	}

	s := im.Snapshot()
	if s.State != StateFailed || !strings.Contains(s.Err, "not found") {
		t.Errorf("snapshot = %+v", s)
	}
	mu.Lock()
	defer mu.Unlock()
	if polls != 3 {
		t.Errorf("polled %d times, want 3", polls)
	}
	toasts := notices.Active()
	if len(toasts) != 1 || !strings.Contains(toasts[0].Message, "t-gone: not found") {
		t.Errorf("expected a failure toast naming the task, got %+v", toasts)
	}
}
