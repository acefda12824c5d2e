package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"danmukit/internal/services/monitor/domain"
)

// blockSource reads NDJSON RawBlock lines from a reader. A blank line ends a
// batch, mirroring one scrape tick; EOF ends the session
type blockSource struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
	done    bool
}

func newBlockSource(r io.Reader) *blockSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &blockSource{scanner: sc}
}

// Fetch satisfies domain.SourcePort
func (s *blockSource) Fetch(ctx context.Context) ([]domain.RawBlock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var batch []domain.RawBlock
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			if len(batch) > 0 {
				return batch, nil
			}
			continue
		}
		var b domain.RawBlock
		if err := json.Unmarshal([]byte(line), &b); err != nil {
			// a malformed line is skipped, not fatal
			continue
		}
		batch = append(batch, b)
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return batch, err
	}
	if len(batch) > 0 {
		return batch, nil
	}
	return nil, io.EOF
}

// ndjsonEmitter writes one JSON event per line
type ndjsonEmitter struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newNDJSONEmitter(w io.Writer) *ndjsonEmitter {
	return &ndjsonEmitter{enc: json.NewEncoder(w)}
}

// Emit satisfies domain.EmitterPort
func (e *ndjsonEmitter) Emit(_ context.Context, ev domain.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enc.Encode(ev)
}
