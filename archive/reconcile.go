package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/lbenko/redditarchiver/data"
	"github.com/lbenko/redditarchiver/models"
)

// IDCache remembers subreddit and redditor ids already known to be persisted,
// skipping redundant existence checks within a single run. It is never
// authoritative: the store stays correct if the cache is nil or cleared.
type IDCache struct {
	subreddits map[int64]struct{}
	redditors  map[int64]struct{}
}

func NewIDCache() *IDCache {
	return &IDCache{
		subreddits: make(map[int64]struct{}),
		redditors:  make(map[int64]struct{}),
	}
}

func (c *IDCache) hasSubreddit(id int64) bool {
	if c == nil {
		return false
	}
	_, ok := c.subreddits[id]
	return ok
}

func (c *IDCache) addSubreddit(id int64) {
	if c != nil {
		c.subreddits[id] = struct{}{}
	}
}

func (c *IDCache) hasRedditor(id int64) bool {
	if c == nil {
		return false
	}
	_, ok := c.redditors[id]
	return ok
}

func (c *IDCache) addRedditor(id int64) {
	if c != nil {
		c.redditors[id] = struct{}{}
	}
}

// EnsureRedditor resolves and persists a redditor by name, returning its
// integer id. Used by the driver to establish the owner of a saved listing.
func (a *Archiver) EnsureRedditor(ctx context.Context, name string) (int64, error) {
	id, err := a.resolveAuthor(ctx, &models.AuthorRef{Name: name})
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, fmt.Errorf("redditor %q: %w", name, models.ErrNotFound)
	}
	return *id, nil
}

// resolveSubreddit maps a subreddit reference to its integer id, inserting
// the row on first sight.
func (a *Archiver) resolveSubreddit(ref models.SubredditRef) (int64, error) {
	_, id36, err := models.ParseFullname(ref.Fullname)
	if err != nil {
		return 0, fmt.Errorf("resolve subreddit %q: %w", ref.Name, err)
	}
	id, err := models.DecodeID(id36)
	if err != nil {
		return 0, fmt.Errorf("resolve subreddit %q: %w", ref.Name, err)
	}

	if a.cache.hasSubreddit(id) {
		return id, nil
	}

	exists, err := a.store.HasSubreddit(id)
	if err != nil {
		return 0, err
	}
	if !exists {
		if err := a.store.InsertSubreddit(data.Subreddit{ID: id, Name: ref.Name}); err != nil {
			return 0, err
		}
	}

	a.cache.addSubreddit(id)
	return id, nil
}

// resolveAuthor maps an author reference to its integer id, inserting the
// redditor row on first sight. It returns nil when the reference is absent
// or the account was deleted between fetch and resolution.
func (a *Archiver) resolveAuthor(ctx context.Context, ref *models.AuthorRef) (*int64, error) {
	if ref == nil {
		return nil, nil
	}

	id36 := ""
	if ref.Fullname != "" {
		_, bare, err := models.ParseFullname(ref.Fullname)
		if err != nil {
			return nil, fmt.Errorf("resolve author %q: %w", ref.Name, err)
		}
		id36 = bare
	} else {
		redditor, err := a.source.Redditor(ctx, ref.Name)
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resolve author %q: %w", ref.Name, err)
		}
		id36 = redditor.ID
	}

	id, err := models.DecodeID(id36)
	if err != nil {
		return nil, fmt.Errorf("resolve author %q: %w", ref.Name, err)
	}

	if a.cache.hasRedditor(id) {
		return &id, nil
	}

	exists, err := a.store.HasRedditor(id)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := a.store.InsertRedditor(data.Redditor{ID: id, Name: ref.Name}); err != nil {
			return nil, err
		}
	}

	a.cache.addRedditor(id)
	return &id, nil
}
