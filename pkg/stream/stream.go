// Package stream frames scan and batch output as newline-delimited JSON.
//
// Both protocols share the same shape: one JSON record per line, closed by a
// terminal sentinel so a consumer of an unbounded stream can detect
// completion deterministically. A scan stream carries document descriptors
// and ends with `{"type":"complete"}` or `{"error":...}`; a batch stream
// carries processing results and ends with `{"type":"complete","message":...}`.
package stream

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/daringdolphin/curate/models"
)

// ErrComplete is returned by the readers when the terminal sentinel arrives.
var ErrComplete = errors.New("stream complete")

// StreamError is a terminal error record carried in-band.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error: %s", e.Message)
}

type sentinel struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Writer emits NDJSON records. Safe for use from a single producer; the
// mutex only guards interleaving when a terminal record races a late result.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter frames records onto w, one per line.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

func (w *Writer) write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write stream record: %w", err)
	}
	return nil
}

// WriteDescriptor emits one scan record.
func (w *Writer) WriteDescriptor(d models.Descriptor) error {
	return w.write(d)
}

// WriteResult emits one batch record.
func (w *Writer) WriteResult(r models.ProcessingResult) error {
	return w.write(r)
}

// WriteError emits a terminal in-band error record.
func (w *Writer) WriteError(err error) error {
	return w.write(sentinel{Error: err.Error()})
}

// WriteComplete emits the terminal sentinel.
func (w *Writer) WriteComplete(message string) error {
	return w.write(sentinel{Type: "complete", Message: message})
}

// Reader consumes NDJSON records with buffer-until-newline framing. A
// partial final line, cut mid-record by a dropped connection, is silently
// discarded rather than surfaced as a decode error.
type Reader struct {
	br *bufio.Reader
}

// NewReader frames records out of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// next returns the next complete line, or io.EOF when the stream ends.
func (r *Reader) next() ([]byte, error) {
	for {
		line, err := r.br.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(line) > 0 {
				// Only keep a partial tail if it happens to be a
				// whole record missing its newline.
				if json.Valid(line) {
					return line, nil
				}
			}
			return nil, io.EOF
		}
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		return line, nil
	}
}

// classify decodes terminal records. ok is false for ordinary data records,
// identified by their id field.
func classify(line []byte) (err error, ok bool) {
	var probe struct {
		Type   string `json:"type"`
		Error  string `json:"error"`
		ID     string `json:"id"`
		FileID string `json:"fileId"`
	}
	if json.Unmarshal(line, &probe) != nil {
		return nil, false
	}
	if probe.Type == "complete" {
		return ErrComplete, true
	}
	if probe.Error != "" && probe.ID == "" && probe.FileID == "" {
		return &StreamError{Message: probe.Error}, true
	}
	return nil, false
}

// ReadDescriptor returns the next scan record. It returns ErrComplete on the
// terminal sentinel, a *StreamError for an in-band terminal error, and
// io.EOF if the stream ends without either.
func (r *Reader) ReadDescriptor() (models.Descriptor, error) {
	line, err := r.next()
	if err != nil {
		return models.Descriptor{}, err
	}
	if terr, ok := classify(line); ok {
		return models.Descriptor{}, terr
	}
	var d models.Descriptor
	if err := json.Unmarshal(line, &d); err != nil {
		return models.Descriptor{}, fmt.Errorf("malformed scan record: %w", err)
	}
	return d, nil
}

// ReadDescriptors drains a scan stream, returning every descriptor up to
// the terminal sentinel or EOF. A terminal in-band error is returned as a
// *StreamError alongside the records read before it.
func (r *Reader) ReadDescriptors() ([]models.Descriptor, error) {
	var docs []models.Descriptor
	for {
		d, err := r.ReadDescriptor()
		switch {
		case err == nil:
			docs = append(docs, d)
		case errors.Is(err, ErrComplete) || errors.Is(err, io.EOF):
			return docs, nil
		default:
			return docs, err
		}
	}
}

// ReadResult returns the next batch record, with the same terminal behavior
// as ReadDescriptor.
func (r *Reader) ReadResult() (models.ProcessingResult, error) {
	line, err := r.next()
	if err != nil {
		return models.ProcessingResult{}, err
	}
	if terr, ok := classify(line); ok {
		return models.ProcessingResult{}, terr
	}
	var res models.ProcessingResult
	if err := json.Unmarshal(line, &res); err != nil {
		return models.ProcessingResult{}, fmt.Errorf("malformed batch record: %w", err)
	}
	return res, nil
}
