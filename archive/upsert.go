package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/lbenko/redditarchiver/data"
	"github.com/lbenko/redditarchiver/models"
)

// UpsertPost persists a post exactly once. A post that is already archived
// is left untouched: later upstream changes to score, removal state and so
// on are ignored.
func (a *Archiver) UpsertPost(ctx context.Context, post *models.Post) error {
	id, err := models.DecodeID(post.ID)
	if err != nil {
		return err
	}

	exists, err := a.store.HasPost(id)
	if err != nil {
		return err
	}
	if exists {
		a.logger.Debug("skipping post", "id", post.ID)
		return nil
	}

	subredditID, err := a.resolveSubreddit(post.Subreddit)
	if err != nil {
		return err
	}
	authorID, err := a.resolveAuthor(ctx, post.Author)
	if err != nil {
		return err
	}

	content := post.URL
	if post.IsSelf {
		content = post.Selftext
	}

	a.logger.Info("storing post", "id", post.ID)
	err = a.store.InsertPost(data.Post{
		ID:            id,
		SubredditID:   subredditID,
		Title:         post.Title,
		AuthorID:      authorID,
		Score:         post.Score,
		Content:       content,
		CreatedUTC:    post.CreatedUTC,
		Distinguished: post.Distinguished != "",
		Stickied:      post.Stickied,
		Removed:       post.RemovedByCategory != "",
	})
	if err != nil {
		return err
	}

	postsArchived.Inc()
	return nil
}

// UpsertComment persists a comment exactly once. When the comment's post row
// is missing the post is fetched and persisted first, so no comment row ever
// exists without its post row.
func (a *Archiver) UpsertComment(ctx context.Context, comment *models.Comment) error {
	id, err := models.DecodeID(comment.ID)
	if err != nil {
		return err
	}

	exists, err := a.store.HasComment(id)
	if err != nil {
		return err
	}
	if exists {
		a.logger.Debug("skipping comment", "id", comment.ID)
		return nil
	}

	postID, err := a.ensurePost(ctx, comment)
	if err != nil {
		return err
	}

	return a.insertComment(ctx, comment, id, postID)
}

// UpsertCommentUnchecked skips the existence probes. It is used by tree
// rehydration, which has already computed the set of stored comment ids for
// the whole batch and knows the post row exists.
func (a *Archiver) UpsertCommentUnchecked(ctx context.Context, comment *models.Comment) error {
	id, err := models.DecodeID(comment.ID)
	if err != nil {
		return err
	}
	_, postID36, err := models.ParseFullname(comment.LinkID)
	if err != nil {
		return fmt.Errorf("comment %q: %w", comment.ID, err)
	}
	postID, err := models.DecodeID(postID36)
	if err != nil {
		return err
	}

	return a.insertComment(ctx, comment, id, postID)
}

func (a *Archiver) ensurePost(ctx context.Context, comment *models.Comment) (int64, error) {
	_, postID36, err := models.ParseFullname(comment.LinkID)
	if err != nil {
		return 0, fmt.Errorf("comment %q: %w", comment.ID, err)
	}
	postID, err := models.DecodeID(postID36)
	if err != nil {
		return 0, err
	}

	exists, err := a.store.HasPost(postID)
	if err != nil {
		return 0, err
	}
	if exists {
		return postID, nil
	}

	post, err := a.source.Post(ctx, postID36)
	if err != nil {
		return 0, fmt.Errorf("fetch post %q for comment %q: %w", postID36, comment.ID, err)
	}
	return postID, a.UpsertPost(ctx, post)
}

func (a *Archiver) insertComment(ctx context.Context, comment *models.Comment, id, postID int64) error {
	var parentID *int64
	kind, parent36, err := models.ParseFullname(comment.ParentID)
	if err != nil {
		return fmt.Errorf("comment %q: %w", comment.ID, err)
	}
	if kind == models.KindComment {
		parent, err := models.DecodeID(parent36)
		if err != nil {
			return err
		}
		parentID = &parent
	}

	authorID, err := a.resolveAuthor(ctx, comment.Author)
	if err != nil {
		return err
	}

	body := ""
	if comment.Body != nil {
		body = *comment.Body
	}

	row := data.Comment{
		ID:            id,
		PostID:        postID,
		ParentID:      parentID,
		AuthorID:      authorID,
		Score:         comment.Score,
		Body:          body,
		CreatedUTC:    comment.CreatedUTC,
		Distinguished: comment.Distinguished != "",
		Stickied:      comment.Stickied,
		Removed:       comment.BannedBy != "" || comment.Body == nil,
	}

	a.logger.Info("storing comment", "id", comment.ID)
	err = a.store.InsertComment(row)
	if errors.Is(err, data.ErrCommentParentMissing) {
		// The parent is hidden upstream and was never fetched. Keep the
		// comment anyway, anchored directly to its post.
		a.logger.Warn("comment parent not archived, storing without parent",
			"id", comment.ID, "parent", comment.ParentID)
		row.ParentID = nil
		err = a.store.InsertComment(row)
	}
	if err != nil {
		return err
	}

	commentsArchived.Inc()
	return nil
}
