// Package telemetry delivers quality-signal events to a configurable
// collector endpoint. Delivery is fire-and-forget: it runs off the action's
// critical path and its failures are logged, never surfaced.
package telemetry

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	natomic "github.com/natefinch/atomic"
	"github.com/oklog/ulid/v2"

	"github.com/pennwright/inkwell/internal/concurrency"
)

// Action identifies which assistant operation an event describes.
type Action string

const (
	ActionRephrase Action = "rephrase"
	ActionReplace  Action = "replace"
	ActionContinue Action = "continue"
	ActionDraft    Action = "draft"
	ActionUndo     Action = "undo"
)

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Event is one telemetry record. SessionSeq is monotonic within a process
// lifetime; UserID is stable across runs.
type Event struct {
	UserID       string  `json:"userId"`
	SessionSeq   int64   `json:"sessionSeq"`
	Timestamp    string  `json:"timestamp"`
	Action       Action  `json:"action"`
	Outcome      Outcome `json:"outcome"`
	UndoneAction Action  `json:"undoneAction,omitempty"`
}

const userIDFile = "telemetry_user_id"

// Recorder posts events to one endpoint. An empty endpoint disables
// recording entirely.
type Recorder struct {
	endpoint string
	userID   string
	seq      atomic.Int64
	client   *http.Client
}

// NewRecorder loads or mints the persistent user id under stateDir. A
// Recorder with an empty endpoint is valid and records nothing.
func NewRecorder(endpoint, stateDir string) *Recorder {
	r := &Recorder{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	if r.endpoint != "" {
		r.userID = loadOrCreateUserID(stateDir)
	}
	return r
}

// Record queues one event for delivery and returns immediately.
func (r *Recorder) Record(action Action, outcome Outcome, undone Action) {
	if r.endpoint == "" {
		return
	}

	event := Event{
		UserID:       r.userID,
		SessionSeq:   r.seq.Add(1) - 1,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Action:       action,
		Outcome:      outcome,
		UndoneAction: undone,
	}

	concurrency.SafeGo(func() {
		r.deliver(event)
	}, func(v interface{}) {
		slog.Debug("Telemetry delivery panicked", "panic", v)
	})
}

func (r *Recorder) deliver(event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		slog.Debug("Telemetry event not serializable", "error", err)
		return
	}

	resp, err := r.client.Post(r.endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("Telemetry delivery failed", "endpoint", r.endpoint, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		slog.Debug("Telemetry endpoint rejected event", "endpoint", r.endpoint, "status", resp.StatusCode)
	}
}

// loadOrCreateUserID reads the persisted id, minting and saving a new one
// on first run. Falls back to an ephemeral id on filesystem errors.
func loadOrCreateUserID(stateDir string) string {
	path := filepath.Join(stateDir, userIDFile)

	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}

	id := ulid.MustNew(ulid.Now(), rand.Reader).String()
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		slog.Debug("Telemetry state dir not writable", "dir", stateDir, "error", err)
		return id
	}
	if err := natomic.WriteFile(path, strings.NewReader(id)); err != nil {
		slog.Debug("Telemetry user id not persisted", "path", path, "error", err)
	}
	return id
}
