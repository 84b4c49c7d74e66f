package common

import (
	"github.com/urfave/cli/v2"

	"github.com/daringdolphin/curate/models"
	dbpkg "github.com/daringdolphin/curate/pkg/db"
)

// ResolveConfig loads the YAML config when given, then applies flag overrides.
func ResolveConfig(c *cli.Context) (models.Config, error) {
	cfg := models.DefaultConfig()
	var err error
	if c.IsSet("config") {
		cfg, err = models.LoadConfig(c.String("config"))
		if err != nil {
			return cfg, err
		}
	}
	if c.IsSet("concurrency") {
		cfg.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("soft-cap") {
		cfg.SoftCap = c.Int("soft-cap")
	}
	if c.IsSet("hard-cap") {
		cfg.HardCap = c.Int("hard-cap")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// OpenDatabase opens the store at --db, or the default next to the binary.
func OpenDatabase(c *cli.Context) (*dbpkg.DB, error) {
	if c.IsSet("db") {
		return dbpkg.OpenPath(c.String("db"))
	}
	return dbpkg.Open()
}

// SessionFromFlag returns the session named by --session, or the most
// recent one when the flag is absent.
func SessionFromFlag(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.IsSet("session") {
		sessionID := c.Int64("session")
		if _, err := database.GetSessionByID(sessionID); err != nil {
			return 0, err
		}
		return sessionID, nil
	}
	latest, err := database.LatestSession()
	if err != nil {
		return 0, err
	}
	return latest.SessionID, nil
}
