package docker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestManager_ImageExists(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("GET /images/json", respond(http.StatusOK, []map[string]any{
		{"Id": "sha256:aaa", "RepoTags": []string{"bluepill-api:latest"}},
		{"Id": "sha256:bbb", "RepoTags": []string{"ubuntu:22.04"}},
	}))
	m := d.manager(nil, nil)

	tests := []struct {
		name string
		want bool
	}{
		{"bluepill-api", true},
		{"ubuntu:22.04", true},
		{"ubuntu:latest", false},
		{"sha256:bbb", true},
		{"other", false},
	}
	for _, tt := range tests {
		got, err := m.ImageExists(context.Background(), tt.name)
		if err != nil {
			t.Fatalf("ImageExists(%q) error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ImageExists(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestManager_GetContainer(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("GET /containers/api/json", respond(http.StatusOK, inspectResponse("abc123", "api", "bluepill-api", true)))
	d.handle("GET /containers/gone/json", respond(http.StatusNotFound, map[string]string{"message": "No such container: gone"}))
	d.handle("GET /containers/broken/json", respond(http.StatusInternalServerError, map[string]string{"message": "daemon on fire"}))
	m := d.manager(nil, nil)
	ctx := context.Background()

	c, err := m.GetContainer(ctx, "api")
	if err != nil {
		t.Fatalf("GetContainer(api) error = %v", err)
	}
	if c == nil || c.ID != "abc123" || c.Name != "api" || c.Image != "bluepill-api" || c.State != "running" || !c.Running {
		t.Errorf("GetContainer(api) = %+v", c)
	}

	c, err = m.GetContainer(ctx, "gone")
	if err != nil || c != nil {
		t.Errorf("GetContainer(gone) = %+v, %v, want nil, nil", c, err)
	}

	if _, err := m.GetContainer(ctx, "broken"); err == nil || !strings.Contains(err.Error(), "daemon on fire") {
		t.Errorf("GetContainer(broken) error = %v, want engine error", err)
	}
}

// createBody is the part of the create request the container policy controls.
type createBody struct {
	Image      string
	Hostname   string
	User       string
	Env        []string
	Tty        bool
	OpenStdin  bool
	Entrypoint []string
	Cmd        []string
	HostConfig struct {
		GroupAdd   []string
		UsernsMode string
	}
}

func TestManager_CreateContainerReplacesExisting(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("GET /containers/api/json", respond(http.StatusOK, inspectResponse("old", "api", "bluepill-api", false)))
	d.handle("DELETE /containers/old", respond(http.StatusNoContent, nil))
	d.handle("POST /containers/create", respond(http.StatusCreated, map[string]any{"Id": "new", "Warnings": []string{}}))
	m := d.manager(nil, nil)

	c, err := m.CreateContainer(context.Background(), ContainerSpec{Image: "bluepill-api", Name: "api", Hostname: "api"})
	if err != nil {
		t.Fatalf("CreateContainer() error = %v", err)
	}
	if c.ID != "new" || c.Name != "api" {
		t.Errorf("CreateContainer() = %+v", c)
	}

	want := []string{"GET /containers/api/json", "DELETE /containers/old", "POST /containers/create"}
	if got := d.calls(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", got, want)
	}

	removal, _ := d.find("DELETE /containers/old")
	if q, _ := url.ParseQuery(removal.Query); q.Get("force") != "" {
		t.Errorf("existing container removed with force: %q", removal.Query)
	}

	create, _ := d.find("POST /containers/create")
	if q, _ := url.ParseQuery(create.Query); q.Get("name") != "api" {
		t.Errorf("create query = %q, want name=api", create.Query)
	}
	var body createBody
	if err := json.Unmarshal(create.Body, &body); err != nil {
		t.Fatalf("decode create body: %v", err)
	}
	if body.Image != "bluepill-api" || body.Hostname != "api" || body.User != "dev" {
		t.Errorf("create body = %+v", body)
	}
	if !body.Tty || !body.OpenStdin {
		t.Errorf("create body tty/stdin = %v/%v, want true/true", body.Tty, body.OpenStdin)
	}
	if strings.Join(body.Entrypoint, " ") != "/bin/bash" || strings.Join(body.Cmd, " ") != "-l" {
		t.Errorf("create entrypoint = %v %v", body.Entrypoint, body.Cmd)
	}
	if body.HostConfig.UsernsMode != "host" || strings.Join(body.HostConfig.GroupAdd, ",") != "1000" {
		t.Errorf("create host config = %+v", body.HostConfig)
	}
}

func TestManager_CreateContainerFresh(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("GET /containers/api/json", respond(http.StatusNotFound, map[string]string{"message": "No such container: api"}))
	d.handle("POST /containers/create", respond(http.StatusCreated, map[string]any{"Id": "new"}))
	m := d.manager(nil, nil)

	if _, err := m.CreateContainer(context.Background(), ContainerSpec{Image: "bluepill-api", Name: "api"}); err != nil {
		t.Fatalf("CreateContainer() error = %v", err)
	}
	for _, call := range d.calls() {
		if strings.HasPrefix(call, "DELETE") {
			t.Errorf("unexpected removal: %s", call)
		}
	}
}

func TestManager_CreateContainerRunningConflict(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("GET /containers/api/json", respond(http.StatusOK, inspectResponse("old", "api", "bluepill-api", true)))
	d.handle("DELETE /containers/old", respond(http.StatusConflict, map[string]string{"message": "container is running"}))
	m := d.manager(nil, nil)

	if _, err := m.CreateContainer(context.Background(), ContainerSpec{Image: "bluepill-api", Name: "api"}); err == nil {
		t.Fatal("CreateContainer() expected error when the existing container cannot be removed")
	}
	if d.called("POST /containers/create") {
		t.Error("container created although the old one was not removed")
	}
}

func TestManager_CommitAndRemove(t *testing.T) {
	d := newFakeDaemon(t)
	d.handle("POST /commit", respond(http.StatusCreated, map[string]string{"Id": "sha256:ccc"}))
	d.handle("DELETE /containers/abc", respond(http.StatusNoContent, nil))
	d.handle("DELETE /images/bluepill-api", respond(http.StatusOK, []map[string]string{{"Deleted": "sha256:ccc"}}))
	m := d.manager(nil, nil)
	ctx := context.Background()

	if err := m.Commit(ctx, "abc", "bluepill-api"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	commit, _ := d.find("POST /commit")
	q, _ := url.ParseQuery(commit.Query)
	if q.Get("container") != "abc" || q.Get("repo") != "bluepill-api" {
		t.Errorf("commit query = %q", commit.Query)
	}

	if err := m.RemoveContainer(ctx, "abc", true); err != nil {
		t.Fatalf("RemoveContainer() error = %v", err)
	}
	removal, _ := d.find("DELETE /containers/abc")
	if q, _ := url.ParseQuery(removal.Query); q.Get("force") != "1" {
		t.Errorf("forced removal query = %q", removal.Query)
	}

	if err := m.RemoveImage(ctx, "bluepill-api", false); err != nil {
		t.Fatalf("RemoveImage() error = %v", err)
	}
}
