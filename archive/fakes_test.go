package archive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lbenko/redditarchiver/data"
	"github.com/lbenko/redditarchiver/models"
)

// fakeStore is an in-memory Store with insert-or-ignore semantics and the
// parent foreign key emulated. It logs actual row inserts in order so tests
// can assert causal ordering.
type fakeStore struct {
	redditors     map[int64]data.Redditor
	subreddits    map[int64]data.Subreddit
	posts         map[int64]data.Post
	comments      map[int64]data.Comment
	savedPosts    map[[2]int64]bool
	savedComments map[[2]int64]bool

	inserts           []string
	hasSubredditCalls int
	hasRedditorCalls  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		redditors:     make(map[int64]data.Redditor),
		subreddits:    make(map[int64]data.Subreddit),
		posts:         make(map[int64]data.Post),
		comments:      make(map[int64]data.Comment),
		savedPosts:    make(map[[2]int64]bool),
		savedComments: make(map[[2]int64]bool),
	}
}

func (f *fakeStore) HasRedditor(id int64) (bool, error) {
	f.hasRedditorCalls++
	_, ok := f.redditors[id]
	return ok, nil
}

func (f *fakeStore) InsertRedditor(r data.Redditor) error {
	if _, ok := f.redditors[r.ID]; ok {
		return nil
	}
	f.redditors[r.ID] = r
	f.inserts = append(f.inserts, "redditor:"+models.EncodeID(r.ID))
	return nil
}

func (f *fakeStore) HasSubreddit(id int64) (bool, error) {
	f.hasSubredditCalls++
	_, ok := f.subreddits[id]
	return ok, nil
}

func (f *fakeStore) InsertSubreddit(s data.Subreddit) error {
	if _, ok := f.subreddits[s.ID]; ok {
		return nil
	}
	f.subreddits[s.ID] = s
	f.inserts = append(f.inserts, "subreddit:"+models.EncodeID(s.ID))
	return nil
}

func (f *fakeStore) HasPost(id int64) (bool, error) {
	_, ok := f.posts[id]
	return ok, nil
}

func (f *fakeStore) InsertPost(p data.Post) error {
	if _, ok := f.posts[p.ID]; ok {
		return nil
	}
	f.posts[p.ID] = p
	f.inserts = append(f.inserts, "post:"+models.EncodeID(p.ID))
	return nil
}

func (f *fakeStore) HiddenCommentCount(postID int64) (int64, error) {
	return f.posts[postID].HiddenComments, nil
}

func (f *fakeStore) SetHiddenCommentCount(postID, hidden int64) error {
	p := f.posts[postID]
	p.HiddenComments = hidden
	f.posts[postID] = p
	return nil
}

func (f *fakeStore) HasComment(id int64) (bool, error) {
	_, ok := f.comments[id]
	return ok, nil
}

func (f *fakeStore) InsertComment(c data.Comment) error {
	if _, ok := f.comments[c.ID]; ok {
		return nil
	}
	if c.ParentID != nil {
		if _, ok := f.comments[*c.ParentID]; !ok {
			return data.ErrCommentParentMissing
		}
	}
	f.comments[c.ID] = c
	f.inserts = append(f.inserts, "comment:"+models.EncodeID(c.ID))
	return nil
}

func (f *fakeStore) CommentCount(postID int64) (int64, error) {
	var count int64
	for _, c := range f.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) CommentIDs(postID int64) (map[int64]struct{}, error) {
	ids := make(map[int64]struct{})
	for id, c := range f.comments {
		if c.PostID == postID {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

func (f *fakeStore) HasSavedPost(redditorID, postID int64) (bool, error) {
	return f.savedPosts[[2]int64{redditorID, postID}], nil
}

func (f *fakeStore) InsertSavedPost(redditorID, postID int64) error {
	key := [2]int64{redditorID, postID}
	if !f.savedPosts[key] {
		f.savedPosts[key] = true
		f.inserts = append(f.inserts, "saved_post:"+models.EncodeID(postID))
	}
	return nil
}

func (f *fakeStore) HasSavedComment(redditorID, commentID int64) (bool, error) {
	return f.savedComments[[2]int64{redditorID, commentID}], nil
}

func (f *fakeStore) InsertSavedComment(redditorID, commentID int64) error {
	key := [2]int64{redditorID, commentID}
	if !f.savedComments[key] {
		f.savedComments[key] = true
		f.inserts = append(f.inserts, "saved_comment:"+models.EncodeID(commentID))
	}
	return nil
}

// fakeTree pre-computes the flattened comment list and simulates a shrinking
// placeholder list across ReplaceMore calls.
type fakeTree struct {
	comments     []*models.Comment
	pending      int
	replaceCalls int
}

func (t *fakeTree) ReplaceMore(ctx context.Context) (int, error) {
	t.replaceCalls++
	if t.pending > 0 {
		t.pending--
	}
	return t.pending, nil
}

func (t *fakeTree) List() []*models.Comment {
	return t.comments
}

type fakeSource struct {
	posts     map[string]*models.Post
	comments  map[string]*models.Comment
	redditors map[string]*models.Redditor
	trees     map[string]*fakeTree

	treeCalls      int
	commentFetches []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		posts:     make(map[string]*models.Post),
		comments:  make(map[string]*models.Comment),
		redditors: make(map[string]*models.Redditor),
		trees:     make(map[string]*fakeTree),
	}
}

func (s *fakeSource) Post(ctx context.Context, id string) (*models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %q: %w", id, models.ErrNotFound)
	}
	return post, nil
}

func (s *fakeSource) Comment(ctx context.Context, id string) (*models.Comment, error) {
	s.commentFetches = append(s.commentFetches, id)
	comment, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %q: %w", id, models.ErrNotFound)
	}
	return comment, nil
}

func (s *fakeSource) Redditor(ctx context.Context, name string) (*models.Redditor, error) {
	redditor, ok := s.redditors[name]
	if !ok {
		return nil, fmt.Errorf("redditor %q: %w", name, models.ErrNotFound)
	}
	return redditor, nil
}

func (s *fakeSource) CommentTree(ctx context.Context, postID string) (CommentTree, error) {
	s.treeCalls++
	if tree, ok := s.trees[postID]; ok {
		return tree, nil
	}
	return &fakeTree{}, nil
}

func newTestArchiver(store Store, source Source) *Archiver {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, store, source, nil)
}

func mustID(t *testing.T, id string) int64 {
	t.Helper()
	n, err := models.DecodeID(id)
	require.NoError(t, err)
	return n
}

func strPtr(s string) *string {
	return &s
}

func testPost(id string, numComments int64) *models.Post {
	return &models.Post{
		ID:          id,
		Subreddit:   models.SubredditRef{Fullname: "t5_2rc7j", Name: "golang"},
		Title:       "post " + id,
		Author:      &models.AuthorRef{Name: "alice", Fullname: "t2_3k9"},
		Score:       10,
		IsSelf:      true,
		Selftext:    "body of " + id,
		URL:         "https://reddit.com/" + id,
		CreatedUTC:  1700000000,
		NumComments: numComments,
	}
}

func testComment(id, linkID, parentID string) *models.Comment {
	return &models.Comment{
		ID:         id,
		LinkID:     linkID,
		ParentID:   parentID,
		Author:     &models.AuthorRef{Name: "bob", Fullname: "t2_9ff"},
		Score:      1,
		Body:       strPtr("comment " + id),
		CreatedUTC: 1700000100,
	}
}
