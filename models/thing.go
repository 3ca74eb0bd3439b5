package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Thing is reddit's typed JSON envelope.
type Thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// Listing is reddit's paginated container of things.
type Listing struct {
	Data struct {
		After    string  `json:"after"`
		Children []Thing `json:"children"`
	} `json:"data"`
}

const kindMore = "more"

type postJSON struct {
	ID                string  `json:"id"`
	Subreddit         string  `json:"subreddit"`
	SubredditID       string  `json:"subreddit_id"`
	Title             string  `json:"title"`
	Author            string  `json:"author"`
	AuthorFullname    string  `json:"author_fullname"`
	Score             int64   `json:"score"`
	IsSelf            bool    `json:"is_self"`
	Selftext          string  `json:"selftext"`
	URL               string  `json:"url"`
	CreatedUTC        float64 `json:"created_utc"`
	Distinguished     string  `json:"distinguished"`
	Stickied          bool    `json:"stickied"`
	RemovedByCategory string  `json:"removed_by_category"`
	NumComments       int64   `json:"num_comments"`
}

type commentJSON struct {
	ID             string          `json:"id"`
	LinkID         string          `json:"link_id"`
	ParentID       string          `json:"parent_id"`
	Author         string          `json:"author"`
	AuthorFullname string          `json:"author_fullname"`
	Score          int64           `json:"score"`
	Body           *string         `json:"body"`
	CreatedUTC     float64         `json:"created_utc"`
	Distinguished  string          `json:"distinguished"`
	Stickied       bool            `json:"stickied"`
	BannedBy       json.RawMessage `json:"banned_by"` // string, null or false
	Replies        json.RawMessage `json:"replies"`   // Listing, "" or absent
}

type moreJSON struct {
	Count    int64    `json:"count"`
	Children []string `json:"children"`
}

// Decode unmarshals the envelope payload into its model type: *Post,
// *Comment or *More.
func (t Thing) Decode() (any, error) {
	switch t.Kind {
	case KindPost:
		var raw postJSON
		if err := json.Unmarshal(t.Data, &raw); err != nil {
			return nil, fmt.Errorf("decode post thing: %w", err)
		}
		return raw.model(), nil
	case KindComment:
		var raw commentJSON
		if err := json.Unmarshal(t.Data, &raw); err != nil {
			return nil, fmt.Errorf("decode comment thing: %w", err)
		}
		return raw.model()
	case kindMore:
		var raw moreJSON
		if err := json.Unmarshal(t.Data, &raw); err != nil {
			return nil, fmt.Errorf("decode more thing: %w", err)
		}
		return &More{Count: raw.Count, Children: raw.Children}, nil
	default:
		return nil, fmt.Errorf("decode thing: unsupported kind %q", t.Kind)
	}
}

// Item decodes the envelope into a processable item, skipping kinds the
// archiver does not handle.
func (t Thing) Item() (Item, error) {
	v, err := t.Decode()
	if err != nil {
		return nil, err
	}
	item, ok := v.(Item)
	if !ok {
		return nil, fmt.Errorf("thing kind %q is not a processable item", t.Kind)
	}
	return item, nil
}

func (raw postJSON) model() *Post {
	return &Post{
		ID:                raw.ID,
		Subreddit:         SubredditRef{Fullname: raw.SubredditID, Name: raw.Subreddit},
		Title:             raw.Title,
		Author:            authorRef(raw.Author, raw.AuthorFullname),
		Score:             raw.Score,
		IsSelf:            raw.IsSelf,
		Selftext:          raw.Selftext,
		URL:               raw.URL,
		CreatedUTC:        int64(raw.CreatedUTC),
		Distinguished:     raw.Distinguished,
		Stickied:          raw.Stickied,
		RemovedByCategory: raw.RemovedByCategory,
		NumComments:       raw.NumComments,
	}
}

func (raw commentJSON) model() (*Comment, error) {
	c := &Comment{
		ID:            raw.ID,
		LinkID:        raw.LinkID,
		ParentID:      raw.ParentID,
		Author:        authorRef(raw.Author, raw.AuthorFullname),
		Score:         raw.Score,
		Body:          raw.Body,
		CreatedUTC:    int64(raw.CreatedUTC),
		Distinguished: raw.Distinguished,
		Stickied:      raw.Stickied,
		BannedBy:      bannedBy(raw.BannedBy),
	}

	if len(raw.Replies) == 0 || bytes.Equal(raw.Replies, []byte(`""`)) {
		return c, nil
	}

	var listing Listing
	if err := json.Unmarshal(raw.Replies, &listing); err != nil {
		return nil, fmt.Errorf("decode replies of comment %q: %w", raw.ID, err)
	}
	for _, child := range listing.Data.Children {
		v, err := child.Decode()
		if err != nil {
			return nil, err
		}
		switch reply := v.(type) {
		case *Comment:
			c.Replies = append(c.Replies, reply)
		case *More:
			c.More = reply
		}
	}

	return c, nil
}

// authorRef returns nil for deleted accounts, which the API reports with the
// "[deleted]" sentinel name.
func authorRef(name, fullname string) *AuthorRef {
	if name == "" || name == "[deleted]" {
		return nil
	}
	return &AuthorRef{Name: name, Fullname: fullname}
}

// bannedBy tolerates the API's mixed typing: a moderator name, null, or
// false for the "not banned" case on some endpoints.
func bannedBy(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return ""
	}
	return name
}
