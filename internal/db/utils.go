package db

import (
	"fmt"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/daringdolphin/curate/pkg/db"
)

// GetSessionIDOrLatest returns the session ID from args, or the latest session if not provided
func GetSessionIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		latest, err := database.LatestSession()
		if err != nil {
			return 0, err
		}
		return latest.SessionID, nil
	}

	var sessionID int64
	if _, err := fmt.Sscanf(c.Args().First(), "%d", &sessionID); err != nil {
		return 0, fmt.Errorf("invalid session ID: %s", c.Args().First())
	}
	return sessionID, nil
}
