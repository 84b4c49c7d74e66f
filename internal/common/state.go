package common

import (
	"github.com/daringdolphin/curate/models"
	"github.com/daringdolphin/curate/pkg/budget"
	dbpkg "github.com/daringdolphin/curate/pkg/db"
)

// LoadBudgetManager rebuilds the in-memory budget state from the session
// store: descriptors for oversize flags, results and cached text for token
// accounting, and the persisted selection re-admitted on top.
func LoadBudgetManager(database *dbpkg.DB, sessionID int64, cfg models.Config) (*budget.Manager, error) {
	manager := budget.NewManager(cfg.SoftCap, cfg.HardCap)

	docs, err := database.GetDocuments(sessionID)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		manager.RecordDescriptor(d)
	}

	results, err := database.GetResults(sessionID)
	if err != nil {
		return nil, err
	}
	contents, err := database.GetContents(sessionID)
	if err != nil {
		return nil, err
	}
	for id, r := range results {
		r.Content = contents[id]
		manager.Record(r)
	}

	selections, err := database.GetSelections(sessionID)
	if err != nil {
		return nil, err
	}
	for id := range selections {
		manager.Admit(id)
	}

	return manager, nil
}
