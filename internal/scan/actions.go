package scan

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/daringdolphin/curate/internal/common"
	"github.com/daringdolphin/curate/models"
	"github.com/daringdolphin/curate/pkg/backoff"
	"github.com/daringdolphin/curate/pkg/drive"
	"github.com/daringdolphin/curate/pkg/stream"
	"github.com/daringdolphin/curate/pkg/walker"
)

// ScanAction walks a remote folder tree and streams discovered document
// descriptors to stdout as NDJSON, recording each one in a new session.
func ScanAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	rootID := c.Args().First()
	if rootID == "" {
		return fmt.Errorf("usage: curate scan <folder-id>")
	}

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

	sessionID, err := database.CreateSession(rootID)
	if err != nil {
		return err
	}
	logger.Info("starting scan", "session_id", sessionID, "root", rootID)

	client := drive.NewClient(token)
	policy := backoff.New(cfg.MaxAttempts, cfg.RetryBase, cfg.RetryJitter, drive.IsRateLimited)
	w := walker.New(client, policy, cfg.OversizeLimit, logger)
	out := stream.NewWriter(os.Stdout)

	count := 0
	scanErr := w.Scan(c.Context, rootID, "", func(d models.Descriptor) error {
		if err := database.InsertDocument(sessionID, d); err != nil {
			return err
		}
		count++
		return out.WriteDescriptor(d)
	})

	if err := database.UpdateSessionStats(sessionID); err != nil {
		logger.Warn("failed to update session stats", "error", err)
	}

	if scanErr != nil {
		logger.Error("scan aborted", "error", scanErr, "session_id", sessionID, "emitted", count)
		if werr := out.WriteError(scanErr); werr != nil {
			return werr
		}
		return fmt.Errorf("scan of %s failed: %w", rootID, scanErr)
	}

	logger.Info("scan complete", "session_id", sessionID, "documents", count)
	return out.WriteComplete(fmt.Sprintf("discovered %d documents in session %d", count, sessionID))
}
