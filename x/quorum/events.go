package quorum

import (
	"go.uber.org/zap"

	"github.com/wardroom/wardroom"
)

// Events emits a structured log line and a metrics update for every state
// change of the engine. Consumers that tail the log get the full audit
// trail of who proposed, confirmed and executed what.
type Events struct {
	log *zap.Logger
}

// NewEvents returns an event sink writing to the given logger. A nil logger
// discards the log lines but still updates metrics.
func NewEvents(log *zap.Logger) *Events {
	if log == nil {
		log = zap.NewNop()
	}
	return &Events{log: log}
}

func (e *Events) TransactionSubmitted(id int64, kind Kind, by wardroom.Address) {
	transactionsSubmitted.WithLabelValues(kind.String()).Inc()
	e.log.Info("transaction submitted",
		zap.Int64("id", id),
		zap.Stringer("kind", kind),
		zap.Stringer("signer", by))
}

func (e *Events) TransactionConfirmed(id int64, by wardroom.Address) {
	confirmationsGiven.Inc()
	e.log.Info("transaction confirmed",
		zap.Int64("id", id),
		zap.Stringer("signer", by))
}

func (e *Events) TransactionRevoked(id int64, by wardroom.Address) {
	confirmationsRevoked.Inc()
	e.log.Info("confirmation revoked",
		zap.Int64("id", id),
		zap.Stringer("signer", by))
}

func (e *Events) TransactionExecuted(id int64, kind Kind) {
	transactionsExecuted.WithLabelValues(kind.String()).Inc()
	e.log.Info("transaction executed",
		zap.Int64("id", id),
		zap.Stringer("kind", kind))
}

func (e *Events) SignersChanged(s *SignerSet) {
	registrySigners.Set(float64(len(s.Signers)))
	registryThreshold.Set(float64(s.Threshold))
	e.log.Info("signer registry changed",
		zap.Int("signers", len(s.Signers)),
		zap.Uint32("threshold", s.Threshold))
}
