package models

import "errors"

// Failure signals surfaced by the read API. The driver treats both as
// skip-and-continue, never as fatal.
var (
	ErrNotFound  = errors.New("object not found")
	ErrForbidden = errors.New("access forbidden")
)

// Item is a fetched reddit object that the archiver can process.
type Item interface {
	Kind() string
}

// SubredditRef identifies the subreddit a post belongs to.
type SubredditRef struct {
	Fullname string // "t5_..."
	Name     string
}

// AuthorRef identifies a post or comment author. Fullname may be empty when
// the listing omitted it; the account can also be deleted between fetch and
// resolution, which is expected rather than exceptional.
type AuthorRef struct {
	Name     string
	Fullname string // "t2_..." or empty
}

// Redditor is a fully fetched account object.
type Redditor struct {
	ID   string
	Name string
}

type Post struct {
	ID                string
	Subreddit         SubredditRef
	Title             string
	Author            *AuthorRef // nil for deleted/unknown authors
	Score             int64
	IsSelf            bool
	Selftext          string
	URL               string
	CreatedUTC        int64
	Distinguished     string
	Stickied          bool
	RemovedByCategory string // empty when not removed
	NumComments       int64
}

func (*Post) Kind() string { return KindPost }

type Comment struct {
	ID            string
	LinkID        string // "t3_..." fullname of the post
	ParentID      string // "t1_..." parent comment or "t3_..." when top-level
	Author        *AuthorRef
	Score         int64
	Body          *string // nil when the body is unavailable
	CreatedUTC    int64
	Distinguished string
	Stickied      bool
	BannedBy      string // moderator name, empty when not banned

	// Tree structure, populated only when the comment was fetched as part
	// of a comment tree.
	Replies []*Comment
	More    *More
}

func (*Comment) Kind() string { return KindComment }

// More is a pagination placeholder standing in for comments that were not
// returned inline and must be expanded separately.
type More struct {
	Count    int64
	Children []string // bare comment ids
}
