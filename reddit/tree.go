package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/lbenko/redditarchiver/models"
)

// morechildrenBatch is the API's per-call ceiling on expanded children.
const morechildrenBatch = 100

// Tree is a lazily paginated comment tree. The initial fetch returns inline
// comments plus "more" placeholders; ReplaceMore expands those batch by
// batch until none remain.
type Tree struct {
	client  *Client
	linkID  string // "t3_..." fullname of the post
	roots   []*models.Comment
	byID    map[string]*models.Comment
	pending []string // bare ids of comments still hidden behind placeholders
}

func newTree(client *Client, postID string, listing models.Listing) (*Tree, error) {
	t := &Tree{
		client: client,
		linkID: models.KindPost + "_" + postID,
		byID:   make(map[string]*models.Comment),
	}

	for _, thing := range listing.Data.Children {
		v, err := thing.Decode()
		if err != nil {
			return nil, fmt.Errorf("comment tree of %q: %w", postID, err)
		}
		switch node := v.(type) {
		case *models.Comment:
			t.roots = append(t.roots, node)
			t.register(node)
		case *models.More:
			t.pending = append(t.pending, node.Children...)
		}
	}

	return t, nil
}

// register indexes a comment subtree and absorbs its placeholders.
func (t *Tree) register(c *models.Comment) {
	t.byID[c.ID] = c
	if c.More != nil {
		t.pending = append(t.pending, c.More.Children...)
		c.More = nil
	}
	for _, reply := range c.Replies {
		t.register(reply)
	}
}

// ReplaceMore expands one batch of pagination placeholders and returns the
// number of placeholder entries still pending. Callers loop until zero.
func (t *Tree) ReplaceMore(ctx context.Context) (int, error) {
	if len(t.pending) == 0 {
		return 0, nil
	}

	n := len(t.pending)
	if n > morechildrenBatch {
		n = morechildrenBatch
	}
	batch := t.pending[:n]
	t.pending = t.pending[n:]

	path := "/api/morechildren.json?api_type=json&raw_json=1" +
		"&link_id=" + url.QueryEscape(t.linkID) +
		"&children=" + url.QueryEscape(strings.Join(batch, ","))

	var resp struct {
		JSON struct {
			Data struct {
				Things []models.Thing `json:"things"`
			} `json:"data"`
		} `json:"json"`
	}
	if err := t.client.get(ctx, path, &resp); err != nil {
		return 0, err
	}

	for _, thing := range resp.JSON.Data.Things {
		v, err := thing.Decode()
		if err != nil {
			return 0, fmt.Errorf("expand %s: %w", t.linkID, err)
		}
		switch node := v.(type) {
		case *models.Comment:
			t.attach(node)
		case *models.More:
			t.pending = append(t.pending, node.Children...)
		}
	}

	return len(t.pending), nil
}

// attach places an expanded comment under its parent, or at the root when
// the parent was itself never returned.
func (t *Tree) attach(c *models.Comment) {
	t.byID[c.ID] = c

	kind, parent36, err := models.ParseFullname(c.ParentID)
	if err == nil && kind == models.KindComment {
		if parent, ok := t.byID[parent36]; ok {
			parent.Replies = append(parent.Replies, c)
			return
		}
	}
	t.roots = append(t.roots, c)
}

// List flattens the tree in an order where every parent precedes its
// children.
func (t *Tree) List() []*models.Comment {
	var out []*models.Comment

	stack := make([]*models.Comment, 0, len(t.roots))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, t.roots[i])
	}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, c)
		for i := len(c.Replies) - 1; i >= 0; i-- {
			stack = append(stack, c.Replies[i])
		}
	}

	return out
}
