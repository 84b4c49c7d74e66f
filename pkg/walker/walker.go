// Package walker discovers eligible documents in a remote folder tree.
//
// Traversal is breadth-first over a FIFO queue of folders. Each folder's
// listing is fully paginated before the next folder is dequeued, listing
// calls go through the backoff policy, and descriptors are handed to the
// caller as they are found so consumers can start work before the walk
// finishes.
package walker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/daringdolphin/curate/models"
	"github.com/daringdolphin/curate/pkg/backoff"
	"github.com/daringdolphin/curate/pkg/drive"
)

// EmitFunc receives each discovered descriptor. Returning an error stops
// the walk and propagates the error to the Scan caller.
type EmitFunc func(models.Descriptor) error

// Walker traverses a remote folder tree.
type Walker struct {
	lister        drive.Lister
	policy        *backoff.Policy
	oversizeLimit int64
	logger        *slog.Logger
}

// New builds a Walker. Documents larger than oversizeLimit bytes are still
// emitted but flagged so downstream layers never admit them.
func New(lister drive.Lister, policy *backoff.Policy, oversizeLimit int64, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Walker{
		lister:        lister,
		policy:        policy,
		oversizeLimit: oversizeLimit,
		logger:        logger,
	}
}

// folderInfo is one pending traversal entry: a folder handle plus the
// relative path accumulated from the root.
type folderInfo struct {
	id   string
	name string
	path string
}

// Scan walks the tree rooted at rootID breadth-first and emits a descriptor
// for every eligible document. A listing failure on any folder aborts the
// whole scan with that error; folder structure integrity matters more than
// partial results.
func (w *Walker) Scan(ctx context.Context, rootID, rootName string, emit EmitFunc) error {
	if rootName == "" {
		rootName = "Root"
	}

	queue := []folderInfo{{id: rootID, name: rootName, path: ""}}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		// A folder reachable through two parents is listed once.
		if visited[current.id] {
			continue
		}
		visited[current.id] = true

		w.logger.Info("listing folder", "folder", current.name, "path", current.path)

		items, err := w.listAllPages(ctx, current.id)
		if err != nil {
			return fmt.Errorf("failed to list folder %q: %w", current.path+"/"+current.name, err)
		}

		for _, item := range items {
			if item.MimeType == models.MimeFolder {
				if item.ID == "" || visited[item.ID] {
					continue
				}
				queue = append(queue, folderInfo{
					id:   item.ID,
					name: item.Name,
					path: childPath(current.path, item.Name),
				})
				continue
			}

			if !models.EligibleMime(item.MimeType) {
				continue
			}

			d := models.Descriptor{
				ID:           item.ID,
				Name:         item.Name,
				MimeType:     item.MimeType,
				Size:         item.Size,
				ModifiedTime: item.ModifiedTime,
				ParentPath:   current.path,
				Oversize:     w.oversizeLimit > 0 && item.Size > w.oversizeLimit,
			}
			if d.Oversize {
				w.logger.Info("oversize document flagged", "name", d.Name, "size", d.Size, "path", current.path)
			}
			if err := emit(d); err != nil {
				return err
			}
		}
	}

	return nil
}

// listAllPages accumulates every page of one folder's children. Each page
// request is retried independently under the backoff policy.
func (w *Walker) listAllPages(ctx context.Context, folderID string) ([]drive.Item, error) {
	var items []drive.Item
	pageToken := ""
	for {
		page, err := backoff.Retry(ctx, w.policy, func() (*drive.Page, error) {
			return w.lister.ListChildren(ctx, folderID, pageToken)
		})
		if err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
