package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	inkwellErrors "github.com/pennwright/inkwell/internal/errors"
)

// Collector is the receiving end of the telemetry pipeline: a small HTTP
// server appending posted events to a JSONL file, with scheduled rotation.
type Collector struct {
	port     int
	output   string
	schedule string

	mu   sync.Mutex
	file *os.File

	server *http.Server
	cron   *cron.Cron
}

func NewCollector(port int, output, rotateSchedule string) *Collector {
	return &Collector{port: port, output: output, schedule: rotateSchedule}
}

// Start opens the output file, schedules rotation, and serves until the
// context is cancelled.
func (c *Collector) Start(ctx context.Context) error {
	if err := c.openOutput(); err != nil {
		return inkwellErrors.Wrap(err, "open collector output")
	}

	c.cron = cron.New()
	if c.schedule != "" {
		if _, err := c.cron.AddFunc(c.schedule, c.rotate); err != nil {
			return inkwellErrors.InvalidInput(fmt.Sprintf("invalid rotate schedule %q: %v", c.schedule, err))
		}
		c.cron.Start()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", c.handleEvents)

	c.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", c.port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Collector listening", "addr", c.server.Addr, "output", c.output)
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return c.shutdown()
	case err := <-errCh:
		c.shutdown()
		return inkwellErrors.Wrap(err, "collector serve")
	}
}

func (c *Collector) shutdown() error {
	if c.cron != nil {
		c.cron.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := c.server.Shutdown(shutdownCtx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file != nil {
		c.file.Close()
		c.file = nil
	}
	return err
}

func (c *Collector) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPost:
		c.appendEvent(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (c *Collector) appendEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		http.Error(w, "malformed event", http.StatusBadRequest)
		return
	}

	line, err := json.Marshal(event)
	if err != nil {
		http.Error(w, "serialize event", http.StatusInternalServerError)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.file == nil {
		http.Error(w, "collector stopped", http.StatusServiceUnavailable)
		return
	}
	if _, err := c.file.Write(append(line, '\n')); err != nil {
		slog.Error("Event append failed", "error", err)
		http.Error(w, "append event", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Collector) openOutput() error {
	f, err := os.OpenFile(c.output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.file = f
	c.mu.Unlock()
	return nil
}

// rotate renames the current output with a timestamp suffix and reopens a
// fresh file. Appends block for the duration of the swap.
func (c *Collector) rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.file == nil {
		return
	}
	if err := c.file.Close(); err != nil {
		slog.Error("Rotation close failed", "error", err)
	}
	c.file = nil

	rotated := fmt.Sprintf("%s.%s", c.output, time.Now().UTC().Format("20060102T150405"))
	if err := os.Rename(c.output, rotated); err != nil && !os.IsNotExist(err) {
		slog.Error("Rotation rename failed", "error", err)
	}

	f, err := os.OpenFile(c.output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Error("Rotation reopen failed", "error", err)
		return
	}
	c.file = f
	slog.Info("Collector output rotated", "rotated", rotated)
}
