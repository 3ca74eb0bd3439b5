package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/lbenko/redditarchiver/models"
)

// backfillAncestors reconstructs the unbroken parent sequence for a comment
// discovered outside its post's full tree. It walks parent references upward
// until it reaches the post or an already-persisted ancestor, then persists
// the chain root-to-leaf. The walk is iterative; chain length is bounded by
// thread depth, and each missing ancestor costs one fetch.
func (a *Archiver) backfillAncestors(ctx context.Context, comment *models.Comment) error {
	chain := []*models.Comment{comment}

	for {
		head := chain[0]
		kind, parent36, err := models.ParseFullname(head.ParentID)
		if err != nil {
			return fmt.Errorf("backfill comment %q: %w", comment.ID, err)
		}
		if kind != models.KindComment {
			// Root reached: the parent is the post itself.
			break
		}

		parentID, err := models.DecodeID(parent36)
		if err != nil {
			return err
		}
		exists, err := a.store.HasComment(parentID)
		if err != nil {
			return err
		}
		if exists {
			// Anchored on an already-persisted ancestor.
			break
		}

		parent, err := a.source.Comment(ctx, parent36)
		if errors.Is(err, models.ErrNotFound) {
			a.logger.Warn("ancestor comment not found upstream, anchoring chain below it",
				"comment", head.ID, "parent", head.ParentID)
			break
		}
		if err != nil {
			return fmt.Errorf("backfill comment %q: fetch ancestor %q: %w", comment.ID, parent36, err)
		}
		chain = append([]*models.Comment{parent}, chain...)
	}

	for _, c := range chain {
		if err := a.UpsertComment(ctx, c); err != nil {
			return err
		}
	}
	if len(chain) > 1 {
		ancestorsBackfilled.Add(float64(len(chain) - 1))
	}

	return nil
}
