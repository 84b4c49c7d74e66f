// Package pipeline orchestrates extraction and tokenization over a list of
// document descriptors with bounded concurrency.
//
// Input is partitioned into consecutive batches of the concurrency limit;
// every operation in a batch runs concurrently and the batch settles fully
// before the next one starts, which caps in-flight upstream calls. Each
// descriptor produces exactly one result, failures included, so a consumer
// can account record-for-record.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/daringdolphin/curate/models"
	"github.com/daringdolphin/curate/pkg/backoff"
	"github.com/daringdolphin/curate/pkg/drive"
	"github.com/daringdolphin/curate/pkg/extract"
	"github.com/daringdolphin/curate/pkg/tokenizer"
)

// minPDFTextChars is the image-only heuristic: a PDF whose extracted text is
// shorter than this is treated as a scan with no usable text.
const minPDFTextChars = 50

// Cache lets the pipeline skip extraction for ids whose content and token
// count are already known. The budget manager implements it.
type Cache interface {
	CachedResult(id string) (tokens int, content string, ok bool)
}

// LanguageDetector annotates extracted text with a language tag. Optional.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// Options control one pipeline run.
type Options struct {
	// Concurrency is the batch size; at most this many documents are in
	// flight at once. Zero means models.DefaultConcurrency.
	Concurrency int

	// IncludeContent retains extracted text on each result.
	IncludeContent bool
}

// Pipeline processes descriptors into ProcessingResults.
type Pipeline struct {
	adapter  extract.Adapter
	tokens   *tokenizer.Service
	cache    Cache
	language LanguageDetector
	logger   *slog.Logger
}

// New builds a Pipeline. cache and language may be nil.
func New(adapter extract.Adapter, tokens *tokenizer.Service, cache Cache, language LanguageDetector, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		adapter:  adapter,
		tokens:   tokens,
		cache:    cache,
		language: language,
		logger:   logger,
	}
}

// Run streams one result per descriptor, in settle order within each batch.
// The returned channel closes after the last batch. Cancelling the context
// stops new batches; the in-flight batch is allowed to settle.
func (p *Pipeline) Run(ctx context.Context, files []models.Descriptor, opts Options) <-chan models.ProcessingResult {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = models.DefaultConcurrency
	}

	out := make(chan models.ProcessingResult)
	go func() {
		defer close(out)

		for start := 0; start < len(files); start += concurrency {
			if ctx.Err() != nil {
				p.logger.Info("pipeline cancelled", "remaining", len(files)-start)
				return
			}

			end := start + concurrency
			if end > len(files) {
				end = len(files)
			}
			batch := files[start:end]
			p.logger.Info("processing batch", "batch_start", start, "size", len(batch))

			var wg sync.WaitGroup
			for _, f := range batch {
				wg.Add(1)
				go func(f models.Descriptor) {
					defer wg.Done()
					r := p.processOne(ctx, f, opts)
					// Never block forever on a reader that walked away:
					// cancellation also releases the send.
					select {
					case out <- r:
					case <-ctx.Done():
					}
				}(f)
			}
			wg.Wait()
		}
	}()
	return out
}

// processOne runs the extract-and-tokenize chain for a single document.
// Every failure mode lands in the result; nothing escapes to the batch.
func (p *Pipeline) processOne(ctx context.Context, f models.Descriptor, opts Options) models.ProcessingResult {
	result := models.ProcessingResult{FileID: f.ID}

	if p.cache != nil {
		if tokens, content, ok := p.cache.CachedResult(f.ID); ok {
			result.Tokens = tokens
			result.CacheHit = true
			if opts.IncludeContent {
				result.Content = content
			}
			p.logger.Info("cache hit", "file", f.Name, "tokens", tokens)
			return result
		}
	}

	text, err := p.adapter.Extract(ctx, f.ID, f.MimeType)
	if err != nil {
		result.Error = err.Error()
		result.ErrorType = classifyExtractError(err)
		p.logger.Warn("extraction failed", "file", f.Name, "error", err, "kind", result.ErrorType)
		return result
	}

	// Scan-derived PDFs extract to next to nothing; flag rather than
	// hand the tokenizer noise.
	if f.MimeType == models.MimePDF && len(strings.TrimSpace(text)) < minPDFTextChars {
		result.Error = "image-only PDF with no extractable text"
		result.ErrorType = models.ErrorTypeImageOnly
		return result
	}

	tokens, err := p.tokens.Count(ctx, f.ID, text)
	if err != nil {
		result.Error = err.Error()
		result.ErrorType = models.ErrorTypeTokenize
		p.logger.Warn("tokenization failed", "file", f.Name, "error", err)
		return result
	}
	result.Tokens = tokens

	if p.language != nil {
		if lang, ok := p.language.Detect(text); ok {
			result.Language = lang
		}
	}

	if opts.IncludeContent {
		result.Content = text
	}

	p.logger.Info("processed document", "file", f.Name, "tokens", tokens)
	return result
}

func classifyExtractError(err error) string {
	switch {
	case errors.Is(err, extract.ErrEmptyDocument):
		return models.ErrorTypeEmpty
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return models.ErrorTypeExtract
	case errors.Is(err, backoff.ErrRateLimitExceeded):
		return models.ErrorTypeUpstream
	default:
		var ue *drive.UpstreamError
		var rl *drive.RateLimitError
		if errors.As(err, &ue) || errors.As(err, &rl) {
			return models.ErrorTypeUpstream
		}
		return models.ErrorTypeExtract
	}
}
