package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeanhaley32/bluepill/internal/config"
	"github.com/jeanhaley32/bluepill/internal/constants"
	"github.com/jeanhaley32/bluepill/internal/docker"
	"github.com/jeanhaley32/bluepill/internal/identity"
)

// fakeEngine keeps images and containers in memory and records every call.
type fakeEngine struct {
	images     map[string]bool
	containers map[string]*docker.Container
	calls      []string

	attachCode int
	attachErr  error
	nextID     int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		images:     map[string]bool{},
		containers: map[string]*docker.Container{},
	}
}

func (f *fakeEngine) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeEngine) byID(id string) *docker.Container {
	for _, c := range f.containers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (f *fakeEngine) ImageExists(ctx context.Context, name string) (bool, error) {
	f.record("ImageExists %s", name)
	return f.images[name], nil
}

func (f *fakeEngine) GetContainer(ctx context.Context, name string) (*docker.Container, error) {
	f.record("GetContainer %s", name)
	return f.containers[name], nil
}

func (f *fakeEngine) AddUserToImage(ctx context.Context, source, dest string) error {
	f.record("AddUserToImage %s %s", source, dest)
	f.images[dest] = true
	return nil
}

func (f *fakeEngine) CreateContainer(ctx context.Context, spec docker.ContainerSpec) (*docker.Container, error) {
	f.record("CreateContainer %s %s mount=%t", spec.Name, spec.Image, spec.MountWorkDir)
	f.nextID++
	c := &docker.Container{
		ID:    fmt.Sprintf("id%d", f.nextID),
		Name:  spec.Name,
		Image: spec.Image,
		State: "created",
	}
	f.containers[spec.Name] = c
	return c, nil
}

func (f *fakeEngine) StartContainer(ctx context.Context, id string) error {
	f.record("StartContainer %s", id)
	return nil
}

func (f *fakeEngine) Commit(ctx context.Context, id, image string) error {
	f.record("Commit %s %s", id, image)
	f.images[image] = true
	return nil
}

func (f *fakeEngine) RemoveContainer(ctx context.Context, id string, force bool) error {
	f.record("RemoveContainer %s force=%t", id, force)
	if c := f.byID(id); c != nil {
		delete(f.containers, c.Name)
	}
	return nil
}

func (f *fakeEngine) RemoveImage(ctx context.Context, name string, force bool) error {
	f.record("RemoveImage %s force=%t", name, force)
	delete(f.images, name)
	return nil
}

func (f *fakeEngine) Attach(ctx context.Context, id string) (int, error) {
	f.record("Attach %s", id)
	if c := f.byID(id); c != nil {
		c.State = "exited"
	}
	return f.attachCode, f.attachErr
}

// mutations returns the recorded calls that change engine state.
func (f *fakeEngine) mutations() []string {
	var out []string
	for _, call := range f.calls {
		if strings.HasPrefix(call, "ImageExists") || strings.HasPrefix(call, "GetContainer") {
			continue
		}
		out = append(out, call)
	}
	return out
}

type fixedDeriver struct {
	dir string
}

func (d fixedDeriver) Derive(explicit string) (identity.Identity, error) {
	return identity.FromDir(explicit, d.dir), nil
}

type failingDeriver struct{}

func (failingDeriver) Derive(string) (identity.Identity, error) {
	return identity.Identity{}, errors.New("getwd: no such file or directory")
}

type scriptedPrompter struct {
	choice  int
	confirm bool
	asked   []string
}

func (p *scriptedPrompter) Choose(question string, options []string, defaultIndex int) (int, error) {
	p.asked = append(p.asked, question)
	return p.choice, nil
}

func (p *scriptedPrompter) Confirm(question string, defaultYes bool) (bool, error) {
	p.asked = append(p.asked, question)
	return p.confirm, nil
}

type testApp struct {
	*App
	engine   *fakeEngine
	prompter *scriptedPrompter
	out      *bytes.Buffer
	errOut   *bytes.Buffer
	id       identity.Identity
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dir := "/home/dev/src/api"
	engine := newFakeEngine()
	prompter := &scriptedPrompter{confirm: true}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	app := &App{
		Engine:     engine,
		Identity:   fixedDeriver{dir: dir},
		Prompter:   prompter,
		Config:     config.Default(),
		ConfigPath: filepath.Join(t.TempDir(), "bluepill.json"),
		HostEnv:    func() docker.HostEnv { return docker.HostEnv{} },
		Out:        out,
		Err:        errOut,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		NewID:      func() string { return "0f1e2d3c" },
	}

	return &testApp{
		App:      app,
		engine:   engine,
		prompter: prompter,
		out:      out,
		errOut:   errOut,
		id:       identity.FromDir("", dir),
	}
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("calls:\n  got  %q\n  want %q", got, want)
	}
}

func TestApp_SourceImage(t *testing.T) {
	ta := newTestApp(t)

	if got := ta.sourceImage(""); got != constants.DefaultImage {
		t.Errorf("sourceImage(\"\") = %q", got)
	}
	if got := ta.sourceImage("debian:12"); got != "debian:12" {
		t.Errorf("sourceImage(debian:12) = %q", got)
	}

	ta.Config.DefaultImage = "alpine:3"
	if got := ta.sourceImage(""); got != "alpine:3" {
		t.Errorf("sourceImage(\"\") after config change = %q", got)
	}
}

func TestApp_DeriveFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.Identity = failingDeriver{}

	if err := ta.Enter(context.Background(), EnterOptions{}); err == nil {
		t.Error("Enter() expected error when the working directory is unavailable")
	}
	if len(ta.engine.calls) != 0 {
		t.Errorf("engine called after derive failure: %v", ta.engine.calls)
	}
}
