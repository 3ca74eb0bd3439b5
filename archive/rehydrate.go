package archive

import (
	"context"

	"github.com/lbenko/redditarchiver/models"
)

// rehydrate brings a post's stored comment tree up to the API-reported
// total. Completeness is tracked as stored + hidden >= reported; the
// reported total can itself lag reality, so a tree once considered complete
// is not re-verified on every run.
func (a *Archiver) rehydrate(ctx context.Context, post *models.Post) error {
	postID, err := models.DecodeID(post.ID)
	if err != nil {
		return err
	}

	stored, err := a.store.CommentCount(postID)
	if err != nil {
		return err
	}
	hidden, err := a.store.HiddenCommentCount(postID)
	if err != nil {
		return err
	}
	if stored+hidden >= post.NumComments {
		return nil
	}

	a.logger.Info("post has incomplete comment tree, starting rehydration",
		"id", post.ID, "stored", stored, "hidden", hidden, "reported", post.NumComments)
	rehydrations.Inc()

	tree, err := a.source.CommentTree(ctx, post.ID)
	if err != nil {
		return err
	}
	for {
		remaining, err := tree.ReplaceMore(ctx)
		if err != nil {
			return err
		}
		if remaining == 0 {
			break
		}
	}

	flattened := tree.List()
	existing, err := a.store.CommentIDs(postID)
	if err != nil {
		return err
	}

	// Parents precede children in the flattened order, so inserting in
	// sequence never references an unseen parent.
	for _, comment := range flattened {
		id, err := models.DecodeID(comment.ID)
		if err != nil {
			return err
		}
		if _, ok := existing[id]; ok {
			continue
		}
		if err := a.UpsertCommentUnchecked(ctx, comment); err != nil {
			return err
		}
	}

	hiddenNew := post.NumComments - int64(len(flattened))
	if hiddenNew < 0 {
		// The reported total fell below what full expansion returned,
		// usually after upstream deletions. Clamp rather than store a
		// negative count.
		a.logger.Warn("reported comment total below fetched count",
			"id", post.ID, "reported", post.NumComments, "fetched", len(flattened))
		hiddenNew = 0
	}

	return a.store.SetHiddenCommentCount(postID, hiddenNew)
}
