package services

import (
	"context"
	"log"

	"talenthub-api/supabase"
)

// StatsAggregator maintains the derived counters on an idea row:
// total_hours (sum of committed hours) and participants_count.
type StatsAggregator struct {
	store *supabase.Client
}

func NewStatsAggregator(store *supabase.Client) *StatsAggregator {
	return &StatsAggregator{store: store}
}

// ideaCounters is the slice of an idea row the fallback path reads back.
type ideaCounters struct {
	TotalHours        int64 `json:"total_hours"`
	ParticipantsCount int64 `json:"participants_count"`
}

// ApplyCommitment adds hours to total_hours and one to participants_count
// on the idea row.
//
// The primary path is the increment_idea_stats database function, a single
// server-side increment that is race-free under concurrent commitments. If
// the function is unavailable or errors, the fallback reads the current
// counters and writes the incremented values back. That read-modify-write
// is racy: two concurrent fallback updates can read the same base values
// and one increment can be lost. This is a known, accepted weakness of the
// fallback path.
func (s *StatsAggregator) ApplyCommitment(ctx context.Context, ideaID int64, hours int64) error {
	svc, err := s.store.Service()
	if err != nil {
		return err
	}

	_, rpcErr := svc.RPC(ctx, "increment_idea_stats", map[string]interface{}{
		"row_id":  ideaID,
		"h_count": hours,
	})
	if rpcErr == nil {
		return nil
	}
	log.Printf("increment_idea_stats rpc failed, using manual update: %v", rpcErr)

	var idea ideaCounters
	if err := svc.From("ideas").
		Select("total_hours,participants_count").
		Eq("id", ideaID).
		Single().
		ExecuteInto(ctx, &idea); err != nil {
		return err
	}

	_, err = svc.From("ideas").
		Update(map[string]interface{}{
			"total_hours":        idea.TotalHours + hours,
			"participants_count": idea.ParticipantsCount + 1,
		}).
		Eq("id", ideaID).
		Execute(ctx)
	return err
}
