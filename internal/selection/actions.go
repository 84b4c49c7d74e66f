package selection

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/daringdolphin/curate/internal/common"
	"github.com/daringdolphin/curate/pkg/budget"
	"github.com/daringdolphin/curate/pkg/manifest"
	"github.com/daringdolphin/curate/pkg/snippet"
)

// SelectAction admits documents into the session's bundle selection, subject
// to the hard token cap. Document ids come as arguments; --all runs greedy
// admission over every document in discovery order.
func SelectAction(c *cli.Context) error {
	cfg, err := common.ResolveConfig(c)
	if err != nil {
		return err
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

	manager, err := common.LoadBudgetManager(database, sessionID, cfg)
	if err != nil {
		return err
	}

	var decisions []budget.Decision
	if c.Bool("all") {
		docs, err := database.GetDocuments(sessionID)
		if err != nil {
			return err
		}
		ids := make([]string, len(docs))
		for i, d := range docs {
			ids[i] = d.ID
		}
		decisions = manager.SelectAll(ids)
	} else {
		if c.NArg() == 0 {
			return fmt.Errorf("usage: curate select <document-id>... (or --all)")
		}
		for _, id := range c.Args().Slice() {
			decisions = append(decisions, manager.Admit(id))
		}
	}

	// Persist admissions before reporting so a partial failure is visible.
	for _, d := range decisions {
		if !d.Admitted {
			continue
		}
		if err := database.SelectDocument(sessionID, d.FileID, d.Tokens); err != nil {
			return err
		}
	}

	printDecisions(decisions)
	total := manager.Total()
	fmt.Printf("\nSelected: %d tokens of %d hard cap", total, manager.HardCap())
	if total > manager.SoftCap() {
		fmt.Printf(" (over the %d soft cap)", manager.SoftCap())
	}
	fmt.Println()
	return nil
}

func printDecisions(decisions []budget.Decision) {
	fmt.Printf("%-30s %-10s %-10s %s\n", "Document", "Admitted", "Tokens", "Reason")
	fmt.Println(strings.Repeat("-", 70))
	for _, d := range decisions {
		admitted := "yes"
		reason := ""
		if !d.Admitted {
			admitted = "no"
			reason = d.Reason
		}
		fmt.Printf("%-30s %-10s %-10d %s\n", d.FileID, admitted, d.Tokens, reason)
	}
}

// DeselectAction removes documents from the selection. With --all the whole
// selection is cleared.
func DeselectAction(c *cli.Context) error {
	database, err := common.OpenDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	sessionID, err := common.SessionFromFlag(c, database)
	if err != nil {
		return err
	}

	if c.Bool("all") {
		if err := database.ClearSelections(sessionID); err != nil {
			return err
		}
		fmt.Printf("Cleared selection for session %d\n", sessionID)
		return nil
	}

	if c.NArg() == 0 {
		return fmt.Errorf("usage: curate deselect <document-id>... (or --all)")
	}
	for _, id := range c.Args().Slice() {
		if err := database.DeselectDocument(sessionID, id); err != nil {
			return err
		}
	}

	total, err := database.SelectedTokens(sessionID)
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d documents; selection now %d tokens\n", c.NArg(), total)
	return nil
}

// BundleAction concatenates the selected documents' cached text into a
// prompt bundle, optionally writing a YAML manifest alongside.
func BundleAction(c *cli.Context) error {
	cfg, err := common.ResolveConfig(c)
	if err != nil {
		return err
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

	docs, err := database.GetDocuments(sessionID)
	if err != nil {
		return err
	}
	selections, err := database.GetSelections(sessionID)
	if err != nil {
		return err
	}
	if len(selections) == 0 {
		return fmt.Errorf("session %d has no selected documents; run 'curate select' first", sessionID)
	}
	contents, err := database.GetContents(sessionID)
	if err != nil {
		return err
	}

	// Bundle in discovery order, not selection order.
	var names, texts []string
	for _, d := range docs {
		if _, ok := selections[d.ID]; !ok {
			continue
		}
		content, ok := contents[d.ID]
		if !ok {
			return fmt.Errorf("no cached content for selected document %s; reprocess it first", d.ID)
		}
		names = append(names, d.Name)
		texts = append(texts, content)
	}

	bundle := snippet.Bundle(names, texts, c.String("instructions"))

	var out io.Writer = os.Stdout
	if c.IsSet("output") {
		f, err := os.Create(c.String("output"))
		if err != nil {
			return fmt.Errorf("failed to create bundle file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if _, err := io.WriteString(out, bundle); err != nil {
		return fmt.Errorf("failed to write bundle: %w", err)
	}

	if c.IsSet("manifest") {
		results, err := database.GetResults(sessionID)
		if err != nil {
			return err
		}
		total, err := database.SelectedTokens(sessionID)
		if err != nil {
			return err
		}
		selected := make(map[string]bool, len(selections))
		for id := range selections {
			selected[id] = true
		}

		m := manifest.Generate(docs, results, selected, total, cfg.SoftCap, cfg.HardCap)
		f, err := os.Create(c.String("manifest"))
		if err != nil {
			return fmt.Errorf("failed to create manifest file: %w", err)
		}
		defer f.Close()
		if err := m.WriteYAML(f); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Manifest written to %s\n", c.String("manifest"))
	}

	return nil
}
