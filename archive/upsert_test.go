package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertPostIdempotent(t *testing.T) {
	store := newFakeStore()
	arc := newTestArchiver(store, newFakeSource())
	post := testPost("1xyz", 0)

	require.NoError(t, arc.UpsertPost(context.Background(), post))
	require.NoError(t, arc.UpsertPost(context.Background(), post))

	assert.Len(t, store.posts, 1)
	assert.Equal(t, []string{"subreddit:2rc7j", "redditor:3k9", "post:1xyz"}, store.inserts)
}

func TestUpsertPostWriteOnce(t *testing.T) {
	store := newFakeStore()
	arc := newTestArchiver(store, newFakeSource())

	post := testPost("1xyz", 0)
	require.NoError(t, arc.UpsertPost(context.Background(), post))

	changed := testPost("1xyz", 0)
	changed.Score = 9999
	changed.Title = "edited upstream"
	require.NoError(t, arc.UpsertPost(context.Background(), changed))

	stored := store.posts[mustID(t, "1xyz")]
	assert.Equal(t, int64(10), stored.Score)
	assert.Equal(t, "post 1xyz", stored.Title)
}

func TestUpsertPostContent(t *testing.T) {
	store := newFakeStore()
	arc := newTestArchiver(store, newFakeSource())

	selfPost := testPost("self1", 0)
	require.NoError(t, arc.UpsertPost(context.Background(), selfPost))
	assert.Equal(t, "body of self1", store.posts[mustID(t, "self1")].Content)

	linkPost := testPost("link1", 0)
	linkPost.IsSelf = false
	linkPost.Selftext = ""
	require.NoError(t, arc.UpsertPost(context.Background(), linkPost))
	assert.Equal(t, "https://reddit.com/link1", store.posts[mustID(t, "link1")].Content)
}

func TestUpsertPostRemoved(t *testing.T) {
	store := newFakeStore()
	arc := newTestArchiver(store, newFakeSource())

	post := testPost("1xyz", 0)
	post.RemovedByCategory = "moderator"
	require.NoError(t, arc.UpsertPost(context.Background(), post))

	assert.True(t, store.posts[mustID(t, "1xyz")].Removed)
}

func TestUpsertPostAbsentAuthor(t *testing.T) {
	store := newFakeStore()
	arc := newTestArchiver(store, newFakeSource())

	post := testPost("1xyz", 0)
	post.Author = nil
	require.NoError(t, arc.UpsertPost(context.Background(), post))

	assert.Nil(t, store.posts[mustID(t, "1xyz")].AuthorID)
	assert.Empty(t, store.redditors)
}

func TestUpsertCommentFetchesMissingPost(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	source.posts["1xyz"] = testPost("1xyz", 0)
	arc := newTestArchiver(store, source)

	comment := testComment("c1", "t3_1xyz", "t3_1xyz")
	require.NoError(t, arc.UpsertComment(context.Background(), comment))

	// The post row must exist before the comment row.
	assert.Contains(t, store.inserts, "post:1xyz")
	assert.Less(t,
		indexOf(store.inserts, "post:1xyz"),
		indexOf(store.inserts, "comment:c1"))
}

func TestUpsertCommentIdempotent(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	source.posts["1xyz"] = testPost("1xyz", 0)
	arc := newTestArchiver(store, source)

	comment := testComment("c1", "t3_1xyz", "t3_1xyz")
	require.NoError(t, arc.UpsertComment(context.Background(), comment))
	require.NoError(t, arc.UpsertComment(context.Background(), comment))

	assert.Len(t, store.comments, 1)
}

func TestUpsertCommentParentAndRemoval(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	source.posts["1xyz"] = testPost("1xyz", 0)
	arc := newTestArchiver(store, source)

	top := testComment("c1", "t3_1xyz", "t3_1xyz")
	require.NoError(t, arc.UpsertComment(context.Background(), top))
	assert.Nil(t, store.comments[mustID(t, "c1")].ParentID)

	reply := testComment("c2", "t3_1xyz", "t1_c1")
	reply.BannedBy = "a_moderator"
	require.NoError(t, arc.UpsertComment(context.Background(), reply))

	stored := store.comments[mustID(t, "c2")]
	require.NotNil(t, stored.ParentID)
	assert.Equal(t, mustID(t, "c1"), *stored.ParentID)
	assert.True(t, stored.Removed)

	noBody := testComment("c3", "t3_1xyz", "t3_1xyz")
	noBody.Body = nil
	require.NoError(t, arc.UpsertComment(context.Background(), noBody))
	stored = store.comments[mustID(t, "c3")]
	assert.True(t, stored.Removed)
	assert.Empty(t, stored.Body)
}

func TestUpsertCommentOrphanParentStoredWithoutParent(t *testing.T) {
	store := newFakeStore()
	source := newFakeSource()
	source.posts["1xyz"] = testPost("1xyz", 0)
	arc := newTestArchiver(store, source)

	// Parent c9 is hidden upstream and never persisted.
	orphan := testComment("c2", "t3_1xyz", "t1_c9")
	require.NoError(t, arc.UpsertComment(context.Background(), orphan))

	stored := store.comments[mustID(t, "c2")]
	assert.Nil(t, stored.ParentID)
}

func indexOf(haystack []string, needle string) int {
	for i, s := range haystack {
		if s == needle {
			return i
		}
	}
	return -1
}
