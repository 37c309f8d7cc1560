// Package services – PredictionService
//
// This file implements the prediction refresh cycle: fetch the example
// order batch, run it through the prediction endpoint, normalize whatever
// shape comes back, and merge the result into the store under the
// prediction source's merge rules (a fresh cycle may reopen resolved
// records). Webhook writes to the shortage collection also land here so the
// handlers stay thin.
package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/normalize"
	"github.com/valio-aimo/go-ops-backend/internal/store"
)

// PredictionSource defines the upstream contract required by
// PredictionService.
type PredictionSource interface {
	// ExampleOrders returns the raw order batch the cycle starts from.
	ExampleOrders(ctx context.Context) ([]any, error)

	// PredictionBatch posts the orders and returns the raw prediction
	// response.
	PredictionBatch(ctx context.Context, orders []any) (any, error)
}

// PredictionService owns the predicted-shortage side of the store.
type PredictionService struct {
	Source PredictionSource
	Store  *store.Store
	Log    zerolog.Logger
}

// NewPredictionService constructs a PredictionService.
func NewPredictionService(src PredictionSource, st *store.Store, log zerolog.Logger) *PredictionService {
	return &PredictionService{Source: src, Store: st, Log: log}
}

// Refresh runs one prediction cycle. An empty order batch is not an error;
// it just means there is nothing to predict this round.
func (s *PredictionService) Refresh(ctx context.Context) error {
	orders, err := s.Source.ExampleOrders(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		s.Log.Warn().Msg("example data yielded no orders; skipping prediction cycle")
		return nil
	}

	raw, err := s.Source.PredictionBatch(ctx, orders)
	if err != nil {
		return err
	}
	recs := normalize.Predictions(raw)
	res := s.Store.ApplyShortages(recs, domain.SourcePrediction)

	s.Log.Info().
		Int("orders", len(orders)).
		Int("predictions", len(recs)).
		Int("new", len(res.NewlyArrived)).
		Bool("changed", res.Changed).
		Msg("prediction cycle completed")
	return nil
}

// Predictions returns the current shortage collection.
func (s *PredictionService) Predictions() []domain.ShortageRecord {
	return s.Store.Shortages()
}

// Upsert applies a single webhook prediction write. A resolved record is
// not regressed by the write.
func (s *PredictionService) Upsert(rec domain.ShortageRecord) error {
	if err := domain.ValidateShortage(rec); err != nil {
		return err
	}
	s.Store.UpsertShortage(rec)
	s.Log.Info().Str("id", rec.ID).Msg("prediction upserted via webhook")
	return nil
}

// ReplaceAll applies a full-replacement webhook write. Every element must
// validate; the first failure rejects the whole batch.
func (s *PredictionService) ReplaceAll(recs []domain.ShortageRecord) error {
	for _, rec := range recs {
		if err := domain.ValidateShortage(rec); err != nil {
			return err
		}
	}
	s.Store.ReplaceShortages(recs)
	s.Log.Info().Int("count", len(recs)).Msg("predictions replaced via webhook")
	return nil
}
