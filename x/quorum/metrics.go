package quorum

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transactionsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wardroom_quorum_transactions_submitted_total",
		Help: "Number of transactions submitted, by kind.",
	}, []string{"kind"})

	transactionsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wardroom_quorum_transactions_executed_total",
		Help: "Number of transactions executed, by kind.",
	}, []string{"kind"})

	confirmationsGiven = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wardroom_quorum_confirmations_total",
		Help: "Number of confirmations given.",
	})

	confirmationsRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wardroom_quorum_revocations_total",
		Help: "Number of confirmations revoked.",
	})

	registrySigners = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wardroom_quorum_signers",
		Help: "Current number of registry members.",
	})

	registryThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wardroom_quorum_threshold",
		Help: "Current confirmation threshold.",
	})
)
