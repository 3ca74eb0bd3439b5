package repos

import (
	"fmt"

	"github.com/lbenko/redditarchiver/data"
)

func (r *ArchiveRepo) HasPost(id int64) (bool, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(1) FROM posts WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("has post: %w", err)
	}
	return count != 0, nil
}

func (r *ArchiveRepo) InsertPost(post data.Post) error {
	query := `
		INSERT INTO posts (id, subreddit_id, title, author_id, score, content,
		                   created_utc, distinguished, stickied, removed, hidden_comments)
		VALUES (:id, :subreddit_id, :title, :author_id, :score, :content,
		        :created_utc, :distinguished, :stickied, :removed, :hidden_comments)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.NamedExec(query, post)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

func (r *ArchiveRepo) HiddenCommentCount(postID int64) (int64, error) {
	var hidden int64
	err := r.db.Get(&hidden, "SELECT hidden_comments FROM posts WHERE id = $1", postID)
	if err != nil {
		return 0, fmt.Errorf("hidden comment count: %w", err)
	}
	return hidden, nil
}

func (r *ArchiveRepo) SetHiddenCommentCount(postID, hidden int64) error {
	_, err := r.db.Exec("UPDATE posts SET hidden_comments = $1 WHERE id = $2", hidden, postID)
	if err != nil {
		return fmt.Errorf("set hidden comment count: %w", err)
	}
	return nil
}
