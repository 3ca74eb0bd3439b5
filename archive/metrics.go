package archive

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	postsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redditarchiver_posts_archived_total",
		Help: "Number of post rows inserted.",
	})
	commentsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redditarchiver_comments_archived_total",
		Help: "Number of comment rows inserted.",
	})
	rehydrations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redditarchiver_tree_rehydrations_total",
		Help: "Number of comment-tree rehydrations started.",
	})
	ancestorsBackfilled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redditarchiver_ancestors_backfilled_total",
		Help: "Number of missing ancestor comments fetched during chain backfill.",
	})
	savedAssociations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "redditarchiver_saved_associations_total",
		Help: "Number of saved-item associations recorded.",
	})
)
