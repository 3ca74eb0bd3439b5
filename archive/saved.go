package archive

import (
	"fmt"

	"github.com/lbenko/redditarchiver/models"
)

// RecordSaved links an archived post or comment to the redditor whose saved
// listing it came from. Recording the same pair twice is a no-op.
func (a *Archiver) RecordSaved(ownerID int64, item models.Item) error {
	switch v := item.(type) {
	case *models.Post:
		id, err := models.DecodeID(v.ID)
		if err != nil {
			return err
		}
		exists, err := a.store.HasSavedPost(ownerID, id)
		if err != nil || exists {
			return err
		}
		if err := a.store.InsertSavedPost(ownerID, id); err != nil {
			return err
		}
	case *models.Comment:
		id, err := models.DecodeID(v.ID)
		if err != nil {
			return err
		}
		exists, err := a.store.HasSavedComment(ownerID, id)
		if err != nil || exists {
			return err
		}
		if err := a.store.InsertSavedComment(ownerID, id); err != nil {
			return err
		}
	default:
		return fmt.Errorf("record saved: unsupported item kind %q", item.Kind())
	}

	savedAssociations.Inc()
	return nil
}
