package repos

import (
	"fmt"

	"github.com/lbenko/redditarchiver/data"
)

func (r *ArchiveRepo) HasRedditor(id int64) (bool, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(1) FROM redditors WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("has redditor: %w", err)
	}
	return count != 0, nil
}

func (r *ArchiveRepo) InsertRedditor(redditor data.Redditor) error {
	query := `
		INSERT INTO redditors (id, name)
		VALUES (:id, :name)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.NamedExec(query, redditor)
	if err != nil {
		return fmt.Errorf("insert redditor: %w", err)
	}

	return nil
}

func (r *ArchiveRepo) HasSubreddit(id int64) (bool, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(1) FROM subreddits WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("has subreddit: %w", err)
	}
	return count != 0, nil
}

func (r *ArchiveRepo) InsertSubreddit(subreddit data.Subreddit) error {
	query := `
		INSERT INTO subreddits (id, name)
		VALUES (:id, :name)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.NamedExec(query, subreddit)
	if err != nil {
		return fmt.Errorf("insert subreddit: %w", err)
	}

	return nil
}
