package terminal

import (
	"context"
	"io"
	"sync"
)

// Input shares one underlying reader, usually stdin, between consumers that
// take turns: an interactive session followed by a prompt, for example. A single
// goroutine reads the source; a consumer whose context ends stops receiving
// without swallowing data meant for the next one.
type Input struct {
	src    io.Reader
	chunks chan []byte
	start  sync.Once

	// err is set before chunks is closed.
	err error

	mu      sync.Mutex
	pending []byte
}

// NewInput wraps r. Nothing is read from r until the first Read.
func NewInput(r io.Reader) *Input {
	return &Input{
		src:    r,
		chunks: make(chan []byte),
	}
}

func (in *Input) pump() {
	for {
		buf := make([]byte, 4096)
		n, err := in.src.Read(buf)
		if n > 0 {
			in.chunks <- buf[:n]
		}
		if err != nil {
			in.err = err
			close(in.chunks)
			return
		}
	}
}

// Read implements io.Reader.
func (in *Input) Read(p []byte) (int, error) {
	return in.ReadContext(context.Background(), p)
}

// ReadContext reads like Read but gives up when ctx is done. Data that arrives
// after ctx is done is kept for the next reader.
func (in *Input) ReadContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if n := in.takePending(p); n > 0 {
		return n, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	in.start.Do(func() { go in.pump() })

	select {
	case chunk, ok := <-in.chunks:
		if !ok {
			return 0, in.err
		}
		if ctx.Err() != nil {
			in.putPending(chunk)
			return 0, ctx.Err()
		}
		n := copy(p, chunk)
		if n < len(chunk) {
			in.putPending(chunk[n:])
		}
		return n, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// WithContext returns a reader whose reads end once ctx is done.
func (in *Input) WithContext(ctx context.Context) io.Reader {
	return contextReader{in: in, ctx: ctx}
}

func (in *Input) takePending(p []byte) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := copy(p, in.pending)
	in.pending = in.pending[n:]
	return n
}

func (in *Input) putPending(b []byte) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pending = append(in.pending, b...)
}

type contextReader struct {
	in  *Input
	ctx context.Context
}

func (r contextReader) Read(p []byte) (int, error) {
	return r.in.ReadContext(r.ctx, p)
}
