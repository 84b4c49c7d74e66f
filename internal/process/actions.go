package process

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/daringdolphin/curate/internal/common"
	"github.com/daringdolphin/curate/models"
	"github.com/daringdolphin/curate/pkg/backoff"
	dbpkg "github.com/daringdolphin/curate/pkg/db"
	"github.com/daringdolphin/curate/pkg/drive"
	"github.com/daringdolphin/curate/pkg/extract"
	"github.com/daringdolphin/curate/pkg/pipeline"
	"github.com/daringdolphin/curate/pkg/stream"
	"github.com/daringdolphin/curate/pkg/tokenizer"
)

// ProcessAction runs the extract-and-tokenize pipeline over a session's
// documents, streaming one NDJSON result per document to stdout and caching
// token counts and extracted text in the session store. By default only
// documents without a result are processed; --failed-only retries failures,
// --ids targets an explicit list, --all reprocesses everything, and --stdin
// takes descriptor NDJSON piped from a scan instead of the session store.
func ProcessAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := common.ResolveConfig(c)
	if err != nil {
		return err
	}

	token := c.String("token")
	if token == "" {
		return fmt.Errorf("no access token: set --token or the DRIVE_ACCESS_TOKEN environment variable")
	}

	database, err := common.OpenDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	sessionID, err := common.SessionFromFlag(c, database)
	if err != nil {
		return err
	}

	targets, err := targetDocuments(c, database, sessionID)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintf(os.Stderr, "Session %d has no documents to process\n", sessionID)
		out := stream.NewWriter(os.Stdout)
		return out.WriteComplete("no documents to process")
	}
	logger.Info("starting processing", "session_id", sessionID, "documents", len(targets))

	manager, err := common.LoadBudgetManager(database, sessionID, cfg)
	if err != nil {
		return err
	}

	counter, err := tokenizer.NewTiktoken()
	if err != nil {
		return fmt.Errorf("failed to initialize tokenizer: %w", err)
	}
	svc := tokenizer.NewService(counter, cfg.Concurrency, cfg.MaxTextBytes)
	defer svc.Close()

	client := drive.NewClient(token)
	policy := backoff.New(cfg.MaxAttempts, cfg.RetryBase, cfg.RetryJitter, drive.IsRateLimited)
	adapter := extract.NewDriveAdapter(client, policy, logger)
	pipe := pipeline.New(adapter, svc, manager, pipeline.NewLinguaDetector(), logger)
	out := stream.NewWriter(os.Stdout)

	includeContent := c.Bool("include-content")
	processed, failed := 0, 0

	// Content is always requested so fresh extractions can be cached;
	// the --include-content flag only controls what the stream carries.
	results := pipe.Run(c.Context, targets, pipeline.Options{
		Concurrency:    cfg.Concurrency,
		IncludeContent: true,
	})
	for r := range results {
		if err := database.UpsertResult(sessionID, r); err != nil {
			logger.Warn("failed to persist result", "file_id", r.FileID, "error", err)
		}
		if !r.Failed() && !r.CacheHit && r.Content != "" {
			hash := common.ContentHash([]byte(r.Content))
			if err := database.SaveContent(sessionID, r.FileID, r.Content, hash); err != nil {
				logger.Warn("failed to cache content", "file_id", r.FileID, "error", err)
			}
		}
		manager.Record(r)

		if r.Failed() {
			failed++
		}
		processed++

		emit := r
		if !includeContent {
			emit.Content = ""
		}
		if err := out.WriteResult(emit); err != nil {
			return err
		}
	}

	if err := database.UpdateSessionStats(sessionID); err != nil {
		logger.Warn("failed to update session stats", "error", err)
	}

	logger.Info("processing complete", "session_id", sessionID, "processed", processed, "failed", failed)
	return out.WriteComplete(fmt.Sprintf("processed %d documents (%d failed)", processed, failed))
}

// targetDocuments resolves which descriptors this invocation processes.
func targetDocuments(c *cli.Context, database *dbpkg.DB, sessionID int64) ([]models.Descriptor, error) {
	switch {
	case c.Bool("stdin"):
		docs, err := stream.NewReader(os.Stdin).ReadDescriptors()
		if err != nil {
			return nil, fmt.Errorf("failed to read scan stream from stdin: %w", err)
		}
		// Register piped descriptors so their results can be persisted
		// and selected like store-resident ones.
		for _, d := range docs {
			if err := database.InsertDocument(sessionID, d); err != nil {
				return nil, err
			}
		}
		return docs, nil
	case c.IsSet("ids"):
		ids := common.SplitIDs(c.String("ids"))
		docs := make([]models.Descriptor, 0, len(ids))
		for _, id := range ids {
			d, err := database.GetDocument(sessionID, id)
			if err != nil {
				return nil, err
			}
			docs = append(docs, d)
		}
		return docs, nil
	case c.Bool("failed-only"):
		return database.FailedDocuments(sessionID)
	case c.Bool("all"):
		return database.GetDocuments(sessionID)
	default:
		return database.UnprocessedDocuments(sessionID)
	}
}
