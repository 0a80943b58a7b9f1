// Package metrics registers the engine's Prometheus collectors. Exposition
// is the host's concern; the engine only increments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsProcessed counts player turns by verb family.
	CommandsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "adventure",
		Name:      "commands_processed_total",
		Help:      "Number of player commands processed, by verb family.",
	}, []string{"verb"})

	// ScriptsExecuted counts script actions whose condition passed.
	ScriptsExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "adventure",
		Name:      "scripts_executed_total",
		Help:      "Number of scripts whose condition passed and action ran.",
	})

	// ScriptParseFailures counts malformed condition clauses and action
	// commands encountered in game content.
	ScriptParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "adventure",
		Name:      "script_parse_failures_total",
		Help:      "Number of malformed script clauses or commands seen.",
	})

	// ConversationsStarted counts dialogues opened with NPCs.
	ConversationsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "adventure",
		Name:      "conversations_started_total",
		Help:      "Number of NPC conversations started.",
	})
)
