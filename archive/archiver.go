// Package archive implements the incremental archival engine: idempotent
// persistence of posts, comments, authors and subreddits, comment-tree
// rehydration, and ancestor-chain backfill for comments discovered out of
// order.
package archive

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lbenko/redditarchiver/data"
	"github.com/lbenko/redditarchiver/models"
)

// Store is the persistence seam the engine writes through. Inserts are
// insert-or-ignore: a row that already exists is success, not an error, so
// concurrent duplicate inserts are tolerated.
type Store interface {
	HasRedditor(id int64) (bool, error)
	InsertRedditor(redditor data.Redditor) error
	HasSubreddit(id int64) (bool, error)
	InsertSubreddit(subreddit data.Subreddit) error

	HasPost(id int64) (bool, error)
	InsertPost(post data.Post) error
	HiddenCommentCount(postID int64) (int64, error)
	SetHiddenCommentCount(postID, hidden int64) error

	HasComment(id int64) (bool, error)
	InsertComment(comment data.Comment) error
	CommentCount(postID int64) (int64, error)
	CommentIDs(postID int64) (map[int64]struct{}, error)

	HasSavedPost(redditorID, postID int64) (bool, error)
	InsertSavedPost(redditorID, postID int64) error
	HasSavedComment(redditorID, commentID int64) (bool, error)
	InsertSavedComment(redditorID, commentID int64) error
}

// Source is the read API the engine fetches missing objects from.
type Source interface {
	Post(ctx context.Context, id string) (*models.Post, error)
	Comment(ctx context.Context, id string) (*models.Comment, error)
	Redditor(ctx context.Context, name string) (*models.Redditor, error)
	CommentTree(ctx context.Context, postID string) (CommentTree, error)
}

// CommentTree is a lazily paginated comment tree. ReplaceMore expands one
// batch of pagination placeholders and reports how many remain; the list is
// complete once it returns zero.
type CommentTree interface {
	ReplaceMore(ctx context.Context) (int, error)
	List() []*models.Comment
}

type Archiver struct {
	logger *slog.Logger
	store  Store
	source Source
	cache  *IDCache
}

// New builds an Archiver. The cache is optional; pass nil to disable the
// per-run identifier cache.
func New(logger *slog.Logger, store Store, source Source, cache *IDCache) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		logger: logger,
		store:  store,
		source: source,
		cache:  cache,
	}
}

// ProcessPost persists the post and rehydrates its comment tree. When
// ownerID is set the post is additionally recorded as saved by that
// redditor.
func (a *Archiver) ProcessPost(ctx context.Context, post *models.Post, ownerID *int64) error {
	if err := a.UpsertPost(ctx, post); err != nil {
		return err
	}

	if err := a.rehydrate(ctx, post); err != nil {
		return err
	}

	if ownerID != nil {
		return a.RecordSaved(*ownerID, post)
	}
	return nil
}

// ProcessComment archives a comment discovered independently of its post's
// full tree: the post is archived (and rehydrated) first, then the comment's
// missing ancestor chain is reconstructed and persisted root-to-leaf.
func (a *Archiver) ProcessComment(ctx context.Context, comment *models.Comment, ownerID *int64) error {
	_, postID36, err := models.ParseFullname(comment.LinkID)
	if err != nil {
		return fmt.Errorf("process comment %q: %w", comment.ID, err)
	}

	post, err := a.source.Post(ctx, postID36)
	if err != nil {
		return fmt.Errorf("process comment %q: fetch post %q: %w", comment.ID, postID36, err)
	}
	if err := a.ProcessPost(ctx, post, nil); err != nil {
		return err
	}

	if err := a.backfillAncestors(ctx, comment); err != nil {
		return err
	}

	if ownerID != nil {
		return a.RecordSaved(*ownerID, comment)
	}
	return nil
}

// ProcessAny dispatches on the fetched object's kind. Unknown kinds are
// logged and skipped.
func (a *Archiver) ProcessAny(ctx context.Context, item models.Item, ownerID *int64) error {
	switch v := item.(type) {
	case *models.Post:
		return a.ProcessPost(ctx, v, ownerID)
	case *models.Comment:
		return a.ProcessComment(ctx, v, ownerID)
	default:
		a.logger.Error("trying to process unknown item kind", "kind", item.Kind())
		return nil
	}
}
