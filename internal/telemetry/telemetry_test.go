package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_DeliversEvent(t *testing.T) {
	received := make(chan Event, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		received <- e
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	r := NewRecorder(server.URL, t.TempDir())
	r.Record(ActionRephrase, OutcomeSuccess, "")

	select {
	case e := <-received:
		assert.Equal(t, ActionRephrase, e.Action)
		assert.Equal(t, OutcomeSuccess, e.Outcome)
		assert.Empty(t, e.UndoneAction)
		assert.NotEmpty(t, e.UserID)
		assert.NotEmpty(t, e.Timestamp)
		assert.Equal(t, int64(0), e.SessionSeq)
	case <-time.After(5 * time.Second):
		t.Fatal("event never delivered")
	}
}

func TestRecorder_SequenceIncrements(t *testing.T) {
	received := make(chan Event, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e Event
		json.NewDecoder(r.Body).Decode(&e)
		received <- e
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	r := NewRecorder(server.URL, t.TempDir())
	r.Record(ActionDraft, OutcomeError, "")
	r.Record(ActionUndo, OutcomeSuccess, ActionDraft)

	seqs := map[int64]Event{}
	for i := 0; i < 2; i++ {
		select {
		case e := <-received:
			seqs[e.SessionSeq] = e
		case <-time.After(5 * time.Second):
			t.Fatal("events never delivered")
		}
	}

	require.Len(t, seqs, 2)
	assert.Equal(t, ActionDraft, seqs[0].Action)
	assert.Equal(t, ActionUndo, seqs[1].Action)
	assert.Equal(t, ActionDraft, seqs[1].UndoneAction)
}

func TestRecorder_EmptyEndpointDisabled(t *testing.T) {
	stateDir := t.TempDir()
	r := NewRecorder("", stateDir)
	r.Record(ActionRephrase, OutcomeSuccess, "")

	// Disabled recorders never touch the state dir.
	_, err := os.Stat(filepath.Join(stateDir, userIDFile))
	assert.True(t, os.IsNotExist(err))
}

func TestRecorder_UserIDStableAcrossRuns(t *testing.T) {
	stateDir := t.TempDir()

	first := NewRecorder("http://localhost:1/events", stateDir)
	second := NewRecorder("http://localhost:1/events", stateDir)

	require.NotEmpty(t, first.userID)
	assert.Equal(t, first.userID, second.userID)
}

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c := NewCollector(0, filepath.Join(t.TempDir(), "events.jsonl"), "")
	require.NoError(t, c.openOutput())
	t.Cleanup(func() {
		c.mu.Lock()
		if c.file != nil {
			c.file.Close()
			c.file = nil
		}
		c.mu.Unlock()
	})
	return c
}

func postEvent(c *Collector, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events", strings.NewReader(body))
	w := httptest.NewRecorder()
	c.handleEvents(w, req)
	return w
}

func TestCollector_AppendsJSONL(t *testing.T) {
	c := newTestCollector(t)

	w := postEvent(c, `{"userId":"u1","sessionSeq":0,"action":"rephrase","outcome":"success"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = postEvent(c, `{"userId":"u1","sessionSeq":1,"action":"undo","outcome":"success","undoneAction":"rephrase"}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	data, err := os.ReadFile(c.output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var e Event
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &e))
	assert.Equal(t, ActionUndo, e.Action)
	assert.Equal(t, ActionRephrase, e.UndoneAction)
}

func TestCollector_CORSPreflight(t *testing.T) {
	c := newTestCollector(t)

	req := httptest.NewRequest(http.MethodOptions, "/events", nil)
	w := httptest.NewRecorder()
	c.handleEvents(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCollector_RejectsMalformedEvent(t *testing.T) {
	c := newTestCollector(t)

	w := postEvent(c, `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollector_MethodNotAllowed(t *testing.T) {
	c := newTestCollector(t)

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	c.handleEvents(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCollector_Rotate(t *testing.T) {
	c := newTestCollector(t)

	postEvent(c, `{"userId":"u1","action":"draft","outcome":"success"}`)
	c.rotate()

	// The fresh file is empty; the rotated one holds the event.
	data, err := os.ReadFile(c.output)
	require.NoError(t, err)
	assert.Empty(t, data)

	matches, err := filepath.Glob(c.output + ".*")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	rotated, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(rotated), `"draft"`)
}
