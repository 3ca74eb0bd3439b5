package repos

import "fmt"

func (r *ArchiveRepo) HasSavedPost(redditorID, postID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(1) FROM saved_posts WHERE redditor_id = $1 AND post_id = $2"
	err := r.db.Get(&count, query, redditorID, postID)
	if err != nil {
		return false, fmt.Errorf("has saved post: %w", err)
	}
	return count != 0, nil
}

func (r *ArchiveRepo) InsertSavedPost(redditorID, postID int64) error {
	query := `
		INSERT INTO saved_posts (redditor_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (redditor_id, post_id) DO NOTHING`

	_, err := r.db.Exec(query, redditorID, postID)
	if err != nil {
		return fmt.Errorf("insert saved post: %w", err)
	}

	return nil
}

func (r *ArchiveRepo) HasSavedComment(redditorID, commentID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(1) FROM saved_comments WHERE redditor_id = $1 AND comment_id = $2"
	err := r.db.Get(&count, query, redditorID, commentID)
	if err != nil {
		return false, fmt.Errorf("has saved comment: %w", err)
	}
	return count != 0, nil
}

func (r *ArchiveRepo) InsertSavedComment(redditorID, commentID int64) error {
	query := `
		INSERT INTO saved_comments (redditor_id, comment_id)
		VALUES ($1, $2)
		ON CONFLICT (redditor_id, comment_id) DO NOTHING`

	_, err := r.db.Exec(query, redditorID, commentID)
	if err != nil {
		return fmt.Errorf("insert saved comment: %w", err)
	}

	return nil
}
