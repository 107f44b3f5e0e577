package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/appengine-ltd/fungi/internal/session"
)

// Journal appends session events as zstd-compressed JSON lines, enough to
// replay a session step by step.
type Journal struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

func NewJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating journal encoder: %w", err)
	}
	return &Journal{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

func (j *Journal) Write(v any) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.w == nil {
		return fmt.Errorf("journal closed")
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(b); err != nil {
		return err
	}
	return j.w.WriteByte('\n')
}

func (j *Journal) OnEvent(e session.Event) error {
	return j.Write(e)
}

func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var err1 error
	if j.w != nil {
		err1 = j.w.Flush()
		j.w = nil
	}
	if j.enc != nil {
		if err := j.enc.Close(); err != nil && err1 == nil {
			err1 = err
		}
		j.enc = nil
	}
	if j.f != nil {
		if err := j.f.Close(); err != nil && err1 == nil {
			err1 = err
		}
		j.f = nil
	}
	return err1
}

// ReadJournal decodes every event from a compressed journal stream.
func ReadJournal(r io.Reader) ([]session.Event, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var out []session.Event
	for sc.Scan() {
		var e session.Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return out, fmt.Errorf("journal line %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
	return out, sc.Err()
}
