// Package loam loads lesson items from markdown documents using Loam.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
)

// ItemsDir is the directory, relative to the lesson root, holding item
// documents.
const ItemsDir = "items"

// Loader reads item documents from a Loam repository.
type Loader struct {
	Repo *loam.TypedRepository[ItemMetadata]
}

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[ItemMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository rooted at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numbers as json.Number across serializers.
	// Read-only avoids Loam's sandbox copy: lessons are never modified.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ItemMetadata](repo)), nil
}

// Items returns the documents under ItemsDir ordered by ID.
func (l *Loader) Items(ctx context.Context) ([]Document, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	items := make([]Document, 0, len(docs))
	for _, doc := range docs {
		id := trimExtension(doc.ID)
		if !strings.HasPrefix(id, ItemsDir+"/") {
			continue
		}
		// "items/intro.md" and "items/intro.yaml" would map to the same item.
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: item '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		items = append(items, Document{
			ID:      id,
			Meta:    doc.Data,
			Content: doc.Content,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func trimExtension(id string) string {
	id = filepath.ToSlash(id)
	return strings.TrimSuffix(id, filepath.Ext(id))
}

// Watch reports the IDs of changed documents, including the manifest.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
