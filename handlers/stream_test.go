package handlers

import (
	"bufio"
	"bytes"
	"everywrite/models"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteEvents(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)

	updates := make(chan []models.Note, 2)
	heartbeat := make(chan time.Time, 1)

	updates <- []models.Note{}
	heartbeat <- time.Now()

	done := make(chan error, 1)
	go func() { done <- writeEvents(w, updates, heartbeat) }()

	// Let the heartbeat and the first update go out before the second one
	require.Eventually(t, func() bool {
		return len(updates) == 0
	}, 2*time.Second, 5*time.Millisecond)
	updates <- []models.Note{{ID: "1", Title: "hello"}}
	close(updates)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("writeEvents did not return after updates closed")
	}

	out := buf.String()
	assert.Contains(t, out, "event: notes\ndata: []\n\n")
	assert.Contains(t, out, `"title":"hello"`)
	assert.Contains(t, out, ": ping\n\n")
	assert.Equal(t, 2, strings.Count(out, "event: notes"))
}
