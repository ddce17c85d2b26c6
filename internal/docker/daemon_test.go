package docker

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/docker/docker/client"

	"github.com/jeanhaley32/bluepill/internal/platform"
	"github.com/jeanhaley32/bluepill/internal/terminal"
)

var apiVersionPrefix = regexp.MustCompile(`^/v[0-9.]+`)

// request is one call the fake daemon received.
type request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

func (r request) String() string {
	return r.Method + " " + r.Path
}

// fakeDaemon answers Docker Engine API calls from a route table keyed by
// "METHOD /path" (without the version prefix).
type fakeDaemon struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []request
}

func newFakeDaemon(t *testing.T) *fakeDaemon {
	t.Helper()

	d := &fakeDaemon{
		t:      t,
		routes: map[string]http.HandlerFunc{},
	}
	d.server = httptest.NewServer(http.HandlerFunc(d.serve))
	t.Cleanup(d.server.Close)

	return d
}

func (d *fakeDaemon) handle(route string, h http.HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[route] = h
}

func (d *fakeDaemon) serve(w http.ResponseWriter, r *http.Request) {
	path := apiVersionPrefix.ReplaceAllString(r.URL.Path, "")

	var body []byte
	if r.Body != nil && !strings.HasSuffix(path, "/attach") {
		body, _ = io.ReadAll(r.Body)
	}

	d.mu.Lock()
	d.requests = append(d.requests, request{Method: r.Method, Path: path, Query: r.URL.RawQuery, Body: body})
	h, ok := d.routes[r.Method+" "+path]
	d.mu.Unlock()

	if path == "/_ping" {
		w.Header().Set("API-Version", "1.45")
		fmt.Fprint(w, "OK")
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no route for " + r.Method + " " + path})
		return
	}
	h(w, r)
}

// calls returns the received requests as "METHOD /path" strings.
func (d *fakeDaemon) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.requests))
	for _, r := range d.requests {
		if r.Path == "/_ping" {
			continue
		}
		out = append(out, r.String())
	}
	return out
}

// find returns the first request for route.
func (d *fakeDaemon) find(route string) (request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.requests {
		if r.String() == route {
			return r, true
		}
	}
	return request{}, false
}

func (d *fakeDaemon) called(route string) bool {
	_, ok := d.find(route)
	return ok
}

// manager returns a Manager talking to the fake daemon.
func (d *fakeDaemon) manager(stdin, stdout *os.File) *Manager {
	d.t.Helper()

	cli, err := client.NewClientWithOpts(
		client.WithHost("tcp://"+d.server.Listener.Addr().String()),
		client.WithVersion("1.45"),
	)
	if err != nil {
		d.t.Fatalf("NewClientWithOpts() error = %v", err)
	}
	d.t.Cleanup(func() { cli.Close() })

	m := &Manager{
		client:   cli,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		progress: io.Discard,
		stdin:    stdin,
		stdout:   stdout,
		hostEnv: func() HostEnv {
			return HostEnv{
				User: platform.User{Name: "dev", UID: 1000, GID: 1000},
				Home: "/home/dev",
			}
		},
	}
	if stdin != nil {
		m.input = terminal.NewInput(stdin)
	}
	return m
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if v == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, v)
	}
}

// respondStream writes newline-delimited JSON messages like pull and build do.
func respondStream(messages ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		for _, m := range messages {
			fmt.Fprintln(w, m)
		}
	}
}

// respondLogs writes stdout as a multiplexed log stream.
func respondLogs(stdout string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		header := make([]byte, 8)
		header[0] = 1
		binary.BigEndian.PutUint32(header[4:], uint32(len(stdout)))
		_, _ = w.Write(header)
		_, _ = io.WriteString(w, stdout)
	}
}

// respondAttach upgrades the connection, sends output as the raw tty stream and
// hangs up, as a shell that prints and exits would.
func respondAttach(output string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hj, ok := w.(http.Hijacker)
		if !ok {
			http.Error(w, "hijack unsupported", http.StatusInternalServerError)
			return
		}
		conn, buf, err := hj.Hijack()
		if err != nil {
			return
		}
		defer conn.Close()

		fmt.Fprint(buf, "HTTP/1.1 101 UPGRADED\r\n"+
			"Content-Type: application/vnd.docker.raw-stream\r\n"+
			"Connection: Upgrade\r\n"+
			"Upgrade: tcp\r\n\r\n")
		buf.WriteString(output)
		_ = buf.Flush()
	}
}

func inspectResponse(id, name, image string, running bool) map[string]any {
	status := "exited"
	if running {
		status = "running"
	}
	return map[string]any{
		"Id":     id,
		"Name":   "/" + name,
		"Config": map[string]any{"Image": image},
		"State":  map[string]any{"Status": status, "Running": running},
	}
}
