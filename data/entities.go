package data

type Redditor struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Subreddit struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Post rows are write-once: no field is ever updated after insert, except
// hidden_comments which tracks comments the API permanently withholds.
type Post struct {
	ID             int64  `db:"id"`
	SubredditID    int64  `db:"subreddit_id"`
	Title          string `db:"title"`
	AuthorID       *int64 `db:"author_id"`
	Score          int64  `db:"score"`
	Content        string `db:"content"`
	CreatedUTC     int64  `db:"created_utc"`
	Distinguished  bool   `db:"distinguished"`
	Stickied       bool   `db:"stickied"`
	Removed        bool   `db:"removed"`
	HiddenComments int64  `db:"hidden_comments"`
}

// Comment rows are write-once. A nil ParentID means the comment is a direct
// child of its post. Removed is set when the body was unavailable or a
// moderator removed the comment; the body column then holds the empty string.
type Comment struct {
	ID            int64  `db:"id"`
	PostID        int64  `db:"post_id"`
	ParentID      *int64 `db:"parent_id"`
	AuthorID      *int64 `db:"author_id"`
	Score         int64  `db:"score"`
	Body          string `db:"body"`
	CreatedUTC    int64  `db:"created_utc"`
	Distinguished bool   `db:"distinguished"`
	Stickied      bool   `db:"stickied"`
	Removed       bool   `db:"removed"`
}
