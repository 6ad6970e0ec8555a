// Package metrics defines and registers all custom Prometheus metrics for
// the journal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register themselves with the default registry via promauto; the
// /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "journal"

// ── Entry metrics ─────────────────────────────────────────────────────────────

// EntriesCreatedTotal counts successfully created journal entries.
var EntriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_created_total",
		Help:      "Total number of journal entries created.",
	},
)

// EntryWordCount observes the word count of each created entry.
var EntryWordCount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "entry_word_count",
		Help:      "Distribution of word counts across created entries.",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
	},
)

// ── Streak metrics ────────────────────────────────────────────────────────────

// StreakUpdatesTotal counts streak updates by outcome.
// Label:
//   - outcome: "started" (first entry ever), "extended" (consecutive day),
//     "reset" (gap of more than one day) or "unchanged" (same-day repeat or
//     clock anomaly)
var StreakUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "streak_updates_total",
		Help:      "Total number of streak updates, labelled by outcome.",
	},
	[]string{"outcome"},
)

// ── Prompt metrics ────────────────────────────────────────────────────────────

// PromptsServedTotal counts prompt-of-the-day resolutions by source.
// Label:
//   - source: "cache" (Redis hit), "scheduled" (prompt earmarked for today)
//     or "random" (fallback selection)
var PromptsServedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prompts_served_total",
		Help:      "Total number of prompts served, labelled by selection source.",
	},
	[]string{"source"},
)
