// Package reddit is a read-only client for the reddit JSON API: single-object
// fetches, paginated listings and lazily expanded comment trees.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/lbenko/redditarchiver/models"
)

const (
	apiBaseURL = "https://oauth.reddit.com"
	tokenURL   = "https://www.reddit.com/api/v1/access_token"
)

type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// NewClient builds a client authenticated with reddit's application-only
// OAuth2 flow. The passed http.Client carries proxy and timeout policy and
// is reused for token requests.
func NewClient(ctx context.Context, httpClient *http.Client, clientID, clientSecret, userAgent string) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)

	return &Client{
		http:      conf.Client(ctx),
		baseURL:   apiBaseURL,
		userAgent: userAgent,
	}
}

// Post fetches a single post by its bare base-36 id.
func (c *Client) Post(ctx context.Context, id string) (*models.Post, error) {
	item, err := c.info(ctx, models.KindPost+"_"+id)
	if err != nil {
		return nil, err
	}
	post, ok := item.(*models.Post)
	if !ok {
		return nil, fmt.Errorf("post %q: unexpected kind %q", id, item.Kind())
	}
	return post, nil
}

// Comment fetches a single comment by its bare base-36 id.
func (c *Client) Comment(ctx context.Context, id string) (*models.Comment, error) {
	item, err := c.info(ctx, models.KindComment+"_"+id)
	if err != nil {
		return nil, err
	}
	comment, ok := item.(*models.Comment)
	if !ok {
		return nil, fmt.Errorf("comment %q: unexpected kind %q", id, item.Kind())
	}
	return comment, nil
}

func (c *Client) info(ctx context.Context, fullname string) (models.Item, error) {
	var listing models.Listing
	path := "/api/info.json?raw_json=1&id=" + url.QueryEscape(fullname)
	if err := c.get(ctx, path, &listing); err != nil {
		return nil, err
	}
	if len(listing.Data.Children) == 0 {
		return nil, fmt.Errorf("%s: %w", fullname, models.ErrNotFound)
	}
	return listing.Data.Children[0].Item()
}

// Redditor fetches an account object. Deleted and suspended accounts yield
// ErrNotFound.
func (c *Client) Redditor(ctx context.Context, name string) (*models.Redditor, error) {
	var thing struct {
		Data struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/user/"+url.PathEscape(name)+"/about.json?raw_json=1", &thing); err != nil {
		return nil, err
	}
	if thing.Data.ID == "" {
		return nil, fmt.Errorf("redditor %q: %w", name, models.ErrNotFound)
	}
	return &models.Redditor{ID: thing.Data.ID, Name: thing.Data.Name}, nil
}

// CommentTree fetches the comment tree of a post. Placeholders left by the
// API's pagination are expanded through ReplaceMore on the returned tree.
func (c *Client) CommentTree(ctx context.Context, postID string) (*Tree, error) {
	var pages []json.RawMessage
	if err := c.get(ctx, "/comments/"+url.PathEscape(postID)+".json?raw_json=1&limit=500", &pages); err != nil {
		return nil, err
	}
	if len(pages) < 2 {
		return nil, fmt.Errorf("comment tree of %q: unexpected response shape", postID)
	}

	var listing models.Listing
	if err := json.Unmarshal(pages[1], &listing); err != nil {
		return nil, fmt.Errorf("comment tree of %q: %w", postID, err)
	}

	return newTree(c, postID, listing)
}

// Listing walks a paginated listing endpoint to its end and returns the
// processable items in order. Unsupported kinds are skipped.
func (c *Client) Listing(ctx context.Context, path string) ([]models.Item, error) {
	var items []models.Item

	after := ""
	for {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		page := path + sep + "raw_json=1&limit=100"
		if after != "" {
			page += "&after=" + url.QueryEscape(after)
		}

		var listing models.Listing
		if err := c.get(ctx, page, &listing); err != nil {
			return nil, err
		}

		for _, thing := range listing.Data.Children {
			if thing.Kind != models.KindPost && thing.Kind != models.KindComment {
				continue
			}
			item, err := thing.Item()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}

		if listing.Data.After == "" {
			break
		}
		after = listing.Data.After
	}

	return items, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("get %s: %w", path, models.ErrNotFound)
	case http.StatusForbidden:
		return fmt.Errorf("get %s: %w", path, models.ErrForbidden)
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("get %s: reddit returned status %d: %s", path, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
