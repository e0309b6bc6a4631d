package handlers_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"everywrite/services"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveTestApp runs the full route table on a loopback port and returns its
// base URL.
func serveTestApp(t *testing.T) (string, *http.Client) {
	t.Helper()

	fiberApp, application := setupTestApp(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go fiberApp.Listener(ln)

	// Ending the streams first lets the server drain
	t.Cleanup(func() {
		application.EndStreams()
		_ = fiberApp.ShutdownWithTimeout(5 * time.Second)
	})

	return "http://" + ln.Addr().String(), &http.Client{Timeout: 10 * time.Second}
}

func postJSON(t *testing.T, client *http.Client, url string, body interface{}) int {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, fiber.MIMEApplicationJSON, bytes.NewReader(data))
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

// readEvent returns the next event frame without its trailing blank line,
// skipping heartbeat comments.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()

	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		if line == "" {
			if len(lines) > 0 {
				return strings.Join(lines, "\n")
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		lines = append(lines, line)
	}
}

// awaitEvent reads frames until one contains want. The client timeout bounds
// the wait.
func awaitEvent(t *testing.T, r *bufio.Reader, want string) string {
	t.Helper()

	for {
		if frame := readEvent(t, r); strings.Contains(frame, want) {
			return frame
		}
	}
}

func openStream(t *testing.T, client *http.Client, url string) *bufio.Reader {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return bufio.NewReader(resp.Body)
}

func TestStreamRoutes(t *testing.T) {
	base, client := serveTestApp(t)

	require.Equal(t, http.StatusOK, postJSON(t, client, base+"/api/auth/login", map[string]string{
		"email":    services.DemoEmail,
		"password": services.DemoPassword,
	}))

	notes := openStream(t, client, base+"/api/notes/stream")
	archived := openStream(t, client, base+"/api/notes/archived/stream")
	search := openStream(t, client, base+"/api/notes/search/stream?q=eiffel")

	assert.Equal(t, "event: notes\ndata: []", readEvent(t, notes))
	assert.Equal(t, "event: notes\ndata: []", readEvent(t, archived))
	assert.Equal(t, "event: notes\ndata: []", readEvent(t, search))

	require.Equal(t, http.StatusCreated, postJSON(t, client, base+"/api/notes", map[string]string{
		"title":    "Eiffel tower",
		"content":  "Went up at sunset",
		"location": "Paris",
	}))

	frame := awaitEvent(t, notes, `"title":"Eiffel tower"`)
	assert.Contains(t, frame, `"location":"Paris"`)
	assert.True(t, strings.HasPrefix(frame, "event: notes\ndata: ["))

	awaitEvent(t, search, `"title":"Eiffel tower"`)
}

func TestStreamRequiresLogin(t *testing.T) {
	base, client := serveTestApp(t)

	resp, err := client.Get(base + "/api/notes/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
