// Package tokenizer converts extracted text into deterministic token counts.
//
// Counting runs on dedicated worker goroutines behind a request channel so a
// long tokenization never stalls extraction; requests and replies are
// correlated by document id.
package tokenizer

import (
	"context"
	"fmt"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter is a pure, deterministic token counting function.
type Counter interface {
	Count(text string) (int, error)
}

// Encoding is the fixed scheme used for all token counts.
const Encoding = "cl100k_base"

// Tiktoken counts tokens with the cl100k_base byte-pair encoding.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads the cl100k_base encoding.
func NewTiktoken() (*Tiktoken, error) {
	enc, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", Encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (t *Tiktoken) Count(text string) (int, error) {
	if t.enc == nil {
		return 0, fmt.Errorf("tokenizer not initialized")
	}
	return len(t.enc.EncodeOrdinary(text)), nil
}

type request struct {
	id    string
	text  string
	reply chan response
}

type response struct {
	id     string
	tokens int
	err    error
}

// Service offloads token counting to worker goroutines. Close it when done.
type Service struct {
	counter      Counter
	requests     chan request
	maxTextBytes int
	done         chan struct{}
}

// NewService starts workers goroutines counting with the given Counter.
// Text longer than maxTextBytes is truncated before counting; the cut is a
// documented policy that bounds worst-case latency and memory.
func NewService(counter Counter, workers, maxTextBytes int) *Service {
	if workers <= 0 {
		workers = 1
	}
	s := &Service{
		counter:      counter,
		requests:     make(chan request),
		maxTextBytes: maxTextBytes,
		done:         make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	return s
}

func (s *Service) worker() {
	for {
		select {
		case <-s.done:
			return
		case req := <-s.requests:
			tokens, err := s.counter.Count(req.text)
			req.reply <- response{id: req.id, tokens: tokens, err: err}
		}
	}
}

// Count tokenizes text for the document id off the caller's goroutine and
// waits for the correlated reply. Empty text is zero tokens without error.
func (s *Service) Count(ctx context.Context, id, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if s.maxTextBytes > 0 && len(text) > s.maxTextBytes {
		cut := s.maxTextBytes
		// Back off to the previous rune boundary so the byte limit
		// never splits a multi-byte character.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	req := request{id: id, text: text, reply: make(chan response, 1)}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-s.done:
		return 0, fmt.Errorf("tokenizer service closed")
	case s.requests <- req:
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case resp := <-req.reply:
		if resp.err != nil {
			return 0, fmt.Errorf("tokenization failed for %s: %w", resp.id, resp.err)
		}
		return resp.tokens, nil
	}
}

// Close stops the workers. Pending Count calls return an error.
func (s *Service) Close() {
	close(s.done)
}
