package stream

import (
	"bufio"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

// Event is a single raw SSE event from the upstream.
type Event struct {
	Type string
	Raw  []byte
}

// Get returns the value at a gjson path inside the event payload.
func (e *Event) Get(path string) gjson.Result {
	return gjson.GetBytes(e.Raw, path)
}

// Reader reads SSE events from an io.Reader.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader creates a new SSE reader.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256*1024), 4*1024*1024)
	return &Reader{scanner: scanner}
}

// Next returns the next SSE event. Returns nil, io.EOF when done.
// Lines that are not data fields and payloads that are not JSON objects are skipped.
func (r *Reader) Next() (*Event, error) {
	for r.scanner.Scan() {
		data, ok := strings.CutPrefix(r.scanner.Text(), "data:")
		if !ok {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return nil, io.EOF
		}
		if !gjson.Valid(data) {
			continue
		}
		parsed := gjson.Parse(data)
		if !parsed.IsObject() {
			continue
		}
		return &Event{
			Type: parsed.Get("type").String(),
			Raw:  []byte(data),
		}, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
