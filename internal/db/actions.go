package db

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/daringdolphin/curate/internal/common"
	"github.com/daringdolphin/curate/models"
)

func SessionsAction(c *cli.Context) error {
	database, err := common.OpenDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	sessions, err := database.ListSessions(limit)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-30s %-10s %-10s %-8s\n",
		"ID", "Created", "Root Folder", "Documents", "Processed", "Failed")
	fmt.Println(strings.Repeat("-", 90))

	// Print each session
	for _, s := range sessions {
		fmt.Printf("%-6d %-20s %-30s %-10d %-10d %-8d\n",
			s.SessionID,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.RootFolderID,
			s.DocumentCount,
			s.ProcessedCount,
			s.FailedCount,
		)
	}

	fmt.Printf("\nTotal: %d sessions\n", len(sessions))
	fmt.Printf("\nTip: Use 'curate session <id>' to see details\n")

	return nil
}

// SessionAction shows details for a specific session
func SessionAction(c *cli.Context) error {
	database, err := common.OpenDatabase(c)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	sessionID, err := GetSessionIDOrLatest(c, database)
	if err != nil {
		return err
	}

	session, err := database.GetSessionByID(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	docs, err := database.GetDocuments(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session documents: %w", err)
	}
	results, err := database.GetResults(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session results: %w", err)
	}
	selections, err := database.GetSelections(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get selections: %w", err)
	}
	selectedTokens, err := database.SelectedTokens(sessionID)
	if err != nil {
		return err
	}

	// Print session details
	fmt.Printf("Session %d\n", session.SessionID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:     %s\n", session.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Root Folder: %s\n", session.RootFolderID)
	fmt.Printf("Documents:   %d total (%d processed, %d failed)\n",
		session.DocumentCount, session.ProcessedCount, session.FailedCount)
	fmt.Printf("Selected:    %d documents, %d tokens\n", len(selections), selectedTokens)

	if len(docs) > 0 {
		fmt.Printf("\nDocuments (%d):\n", len(docs))
		fmt.Println(strings.Repeat("-", 60))
		for i, d := range docs {
			marker := " "
			if _, ok := selections[d.ID]; ok {
				marker = "*"
			}
			name := d.Name
			if d.ParentPath != "" {
				name = d.ParentPath + "/" + d.Name
			}
			fmt.Printf("%2d. %s [%s] %s\n", i+1, marker, documentState(d, results), name)
			if r, ok := results[d.ID]; ok && r.Failed() {
				fmt.Printf("      Error: [%s] %s\n", r.ErrorType, r.Error)
			}
		}
	}

	fmt.Printf("\nTip: Use 'curate select --session %d <id>...' to build a selection\n", sessionID)

	return nil
}

// documentState renders a short per-document status for the table.
func documentState(d models.Descriptor, results map[string]models.ProcessingResult) string {
	if d.Oversize {
		return "oversize"
	}
	r, ok := results[d.ID]
	switch {
	case !ok:
		return "pending"
	case r.ErrorType == models.ErrorTypeImageOnly:
		return "image-only"
	case r.Failed():
		return "error"
	default:
		return fmt.Sprintf("%d tokens", r.Tokens)
	}
}
