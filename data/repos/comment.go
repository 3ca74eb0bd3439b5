package repos

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/lbenko/redditarchiver/data"
)

const fkViolation = "23503"

func (r *ArchiveRepo) HasComment(id int64) (bool, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(1) FROM comments WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("has comment: %w", err)
	}
	return count != 0, nil
}

func (r *ArchiveRepo) InsertComment(comment data.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, parent_id, author_id, score, body,
		                      created_utc, distinguished, stickied, removed)
		VALUES (:id, :post_id, :parent_id, :author_id, :score, :body,
		        :created_utc, :distinguished, :stickied, :removed)
		ON CONFLICT (id) DO NOTHING`

	_, err := r.db.NamedExec(query, comment)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == fkViolation && pqErr.Constraint == "comments_parent_id_fkey" {
			return data.ErrCommentParentMissing
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

func (r *ArchiveRepo) CommentCount(postID int64) (int64, error) {
	var count int64
	err := r.db.Get(&count, "SELECT COUNT(1) FROM comments WHERE post_id = $1", postID)
	if err != nil {
		return 0, fmt.Errorf("comment count: %w", err)
	}
	return count, nil
}

func (r *ArchiveRepo) CommentIDs(postID int64) (map[int64]struct{}, error) {
	var ids []int64
	err := r.db.Select(&ids, "SELECT id FROM comments WHERE post_id = $1", postID)
	if err != nil {
		return nil, fmt.Errorf("comment ids: %w", err)
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}
