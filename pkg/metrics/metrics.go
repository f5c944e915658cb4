package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrdersProcessed counts orders accepted by the engine, by side.
var OrdersProcessed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "matchgate_orders_processed_total",
		Help: "Total number of orders processed by the engine",
	},
	[]string{"side"},
)

// MatchesTotal counts execution reports generated across all books.
var MatchesTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "matchgate_matches_total",
		Help: "Total number of executions generated by matching",
	},
)

// ArenaDrops counts submits dropped because the order arena was exhausted.
var ArenaDrops = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "matchgate_arena_drops_total",
		Help: "Submits dropped due to order arena exhaustion",
	},
)

// RingDrops counts execution reports lost to a full report ring.
var RingDrops = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "matchgate_ring_drops_total",
		Help: "Execution reports dropped because the report ring was full",
	},
)

// ReplayMessages counts feed messages consumed by the replayer.
var ReplayMessages = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "matchgate_replay_messages_total",
		Help: "Feed messages consumed during replay",
	},
)

func init() {
	prometheus.MustRegister(OrdersProcessed, MatchesTotal, ArenaDrops, RingDrops, ReplayMessages)
}
