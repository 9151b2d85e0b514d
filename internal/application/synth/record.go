package synth

import (
	"time"

	"github.com/alejandrodnm/tradersim/internal/domain"
)

// RecordInput is everything one snapshot is built from.
type RecordInput struct {
	Timestamp  time.Time
	Cycle      int
	Balance    float64
	Positions  []domain.Position
	Candidates []string
	Outcome    Outcome
}

// Assemble builds the snapshot. Account metrics come from Balance and
// Positions only, and every decision is stamped with the record time.
func Assemble(in RecordInput) domain.Snapshot {
	decisions := make([]domain.Decision, len(in.Outcome.Decisions))
	for i, d := range in.Outcome.Decisions {
		d.Timestamp = in.Timestamp
		decisions[i] = d
	}

	var positions []domain.Position
	if len(in.Positions) > 0 {
		positions = append(positions, in.Positions...)
	}

	return domain.Snapshot{
		Timestamp:         in.Timestamp,
		CycleNumber:       in.Cycle,
		AccountState:      domain.NewAccountState(in.Balance, in.Positions),
		Positions:         positions,
		CandidateCoins:    append([]string(nil), in.Candidates...),
		Decisions:         decisions,
		ExecutionLog:      append([]string(nil), in.Outcome.Log...),
		Success:           true,
		RequestDurationMs: in.Outcome.RequestDurationMs,
	}
}
