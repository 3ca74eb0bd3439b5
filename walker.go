package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/lbenko/redditarchiver/models"
)

var timeFilters = []string{"all", "day", "hour", "month", "week", "year"}

// itemSource is the slice of the reddit client the walker reads from.
type itemSource interface {
	Listing(ctx context.Context, path string) ([]models.Item, error)
	Post(ctx context.Context, id string) (*models.Post, error)
}

// itemArchiver is the slice of the archive engine the walker feeds.
type itemArchiver interface {
	ProcessAny(ctx context.Context, item models.Item, ownerID *int64) error
	ProcessPost(ctx context.Context, post *models.Post, ownerID *int64) error
	EnsureRedditor(ctx context.Context, name string) (int64, error)
}

// Walker iterates the configured sources and feeds every discovered object
// to the archiver, one item at a time.
type Walker struct {
	logger *slog.Logger
	client itemSource
	arc    itemArchiver
}

func NewWalker(logger *slog.Logger, client itemSource, arc itemArchiver) *Walker {
	return &Walker{
		logger: logger,
		client: client,
		arc:    arc,
	}
}

func (w *Walker) WalkSubreddit(ctx context.Context, name string) error {
	w.logger.Info("walking subreddit", "subreddit", name)

	base := "/r/" + name
	paths := []string{base + "/hot", base + "/new", base + "/rising"}
	for _, filter := range timeFilters {
		paths = append(paths,
			base+"/top?t="+filter,
			base+"/controversial?t="+filter)
	}
	paths = append(paths, base+"/gilded")

	for _, path := range paths {
		if err := w.walkListing(ctx, path, nil); err != nil {
			return errors.Wrap(err, "walk subreddit "+name)
		}
	}
	return nil
}

func (w *Walker) WalkRedditor(ctx context.Context, name string) error {
	w.logger.Info("walking redditor", "redditor", name)

	base := "/user/" + name
	paths := []string{base + "/overview?sort=hot", base + "/overview?sort=new"}
	for _, filter := range timeFilters {
		paths = append(paths,
			base+"/overview?sort=top&t="+filter,
			base+"/overview?sort=controversial&t="+filter)
	}
	paths = append(paths, base+"/gilded")

	for _, path := range paths {
		if err := w.walkListing(ctx, path, nil); err != nil {
			return errors.Wrap(err, "walk redditor "+name)
		}
	}

	// Only the authenticated user's own saved listing is accessible.
	items, err := w.client.Listing(ctx, base+"/saved")
	if stderrors.Is(err, models.ErrForbidden) {
		w.logger.Info("no access to saved items, skipping", "redditor", name)
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "walk saved items of "+name)
	}

	ownerID, err := w.arc.EnsureRedditor(ctx, name)
	if err != nil {
		return errors.Wrap(err, "resolve saved-items owner "+name)
	}
	return w.processItems(ctx, items, &ownerID)
}

func (w *Walker) ArchivePost(ctx context.Context, id string) error {
	post, err := w.client.Post(ctx, id)
	if stderrors.Is(err, models.ErrNotFound) {
		w.logger.Warn("post not found upstream, skipping", "id", id)
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "fetch post "+id)
	}
	return errors.Wrap(w.arc.ProcessPost(ctx, post, nil), "archive post "+id)
}

// ArchivePostFile archives every post id listed in the file, one per line.
// Blank lines are skipped.
func (w *Walker) ArchivePostFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open post file")
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		if err := w.ArchivePost(ctx, id); err != nil {
			return err
		}
	}
	return errors.Wrap(scanner.Err(), "read post file")
}

func (w *Walker) walkListing(ctx context.Context, path string, ownerID *int64) error {
	items, err := w.client.Listing(ctx, path)
	if stderrors.Is(err, models.ErrForbidden) || stderrors.Is(err, models.ErrNotFound) {
		w.logger.Warn("listing not accessible, skipping", "path", path, "error", err)
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "fetch listing "+path)
	}
	return w.processItems(ctx, items, ownerID)
}

func (w *Walker) processItems(ctx context.Context, items []models.Item, ownerID *int64) error {
	for _, item := range items {
		err := w.arc.ProcessAny(ctx, item, ownerID)
		if stderrors.Is(err, models.ErrNotFound) {
			w.logger.Warn("object missing upstream, skipping", "error", err)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}
