package main

import (
	"context"
	"embed"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/net/proxy"

	"github.com/lbenko/redditarchiver/archive"
	"github.com/lbenko/redditarchiver/config"
	"github.com/lbenko/redditarchiver/data"
	"github.com/lbenko/redditarchiver/data/repos"
	"github.com/lbenko/redditarchiver/reddit"
)

//go:embed data/migrations/*.sql
var embedMigrations embed.FS

func main() {
	app := &cli.App{
		Name:  "redditarchiver",
		Usage: "incrementally archive reddit posts, comments and authors into postgres",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "subreddit", Usage: "subreddit to archive (repeatable)"},
			&cli.StringSliceFlag{Name: "redditor", Usage: "redditor to archive (repeatable)"},
			&cli.StringSliceFlag{Name: "post", Usage: "post id to archive (repeatable)"},
			&cli.StringFlag{Name: "post-file", Usage: "file with one post id per line"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("archival run failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	config.LoadConfig()

	opts := slog.HandlerOptions{Level: config.Config.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &opts)).With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := data.Connect(ctx, config.Config.PostgresURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := data.RunMigrations(db.DB, embedMigrations); err != nil {
		return err
	}

	hc, err := httpClient(config.Config.ProxyURL)
	if err != nil {
		return err
	}
	client := reddit.NewClient(ctx, hc, config.Config.RedditID, config.Config.RedditSecret, config.Config.UserAgent)

	if config.Config.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(config.Config.MetricsAddr, mux); err != nil {
				slog.Error("metrics listener failed", "error", err)
			}
		}()
	}

	repo := repos.NewArchiveRepo(db)
	arc := archive.New(logger, repo, redditSource{client}, archive.NewIDCache())
	walker := NewWalker(logger, client, arc)

	for _, name := range c.StringSlice("subreddit") {
		if err := walker.WalkSubreddit(ctx, name); err != nil {
			return err
		}
	}
	for _, name := range c.StringSlice("redditor") {
		if err := walker.WalkRedditor(ctx, name); err != nil {
			return err
		}
	}
	for _, id := range c.StringSlice("post") {
		if err := walker.ArchivePost(ctx, id); err != nil {
			return err
		}
	}
	if file := c.String("post-file"); file != "" {
		if err := walker.ArchivePostFile(ctx, file); err != nil {
			return err
		}
	}

	return nil
}

// redditSource lifts the client's concrete comment tree into the
// archive.Source seam.
type redditSource struct {
	*reddit.Client
}

func (s redditSource) CommentTree(ctx context.Context, postID string) (archive.CommentTree, error) {
	return s.Client.CommentTree(ctx, postID)
}

func httpClient(proxyURL string) (*http.Client, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	if proxyURL == "" {
		return client, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, err
	}
	if parsedURL.Scheme != "socks5" {
		return client, nil
	}

	// SOCKS5 proxy with authentication
	var auth *proxy.Auth
	if parsedURL.User != nil {
		password, _ := parsedURL.User.Password()
		auth = &proxy.Auth{
			User:     parsedURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialer.Dial(network, addr)
		},
	}
	slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)

	return client, nil
}
