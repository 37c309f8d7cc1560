// Package services – ObservedService
//
// This file implements the outbound-resolution poll cycle: fetch the
// resolution rows, auto-resolve any predicted shortage the rows confirm as
// replaced, and rebuild the observed-shortages view from scratch. The view
// is a projection of the latest rows, so it is replaced wholesale every
// cycle rather than merged.
package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/valio-aimo/go-ops-backend/internal/domain"
	"github.com/valio-aimo/go-ops-backend/internal/normalize"
	"github.com/valio-aimo/go-ops-backend/internal/store"
)

// ResolutionSource defines the upstream contract required by
// ObservedService.
type ResolutionSource interface {
	// ResolutionRows fetches the outbound-resolution webhook payload.
	ResolutionRows(ctx context.Context, url string) (any, error)
}

// ObservedService owns auto-resolution and the observed-shortages view.
type ObservedService struct {
	Source ResolutionSource
	URL    string
	Store  *store.Store
	Log    zerolog.Logger
}

// NewObservedService constructs an ObservedService polling the given
// webhook URL. An empty URL disables the cycle.
func NewObservedService(src ResolutionSource, url string, st *store.Store, log zerolog.Logger) *ObservedService {
	return &ObservedService{Source: src, URL: url, Store: st, Log: log}
}

// Refresh runs one resolution cycle.
func (s *ObservedService) Refresh(ctx context.Context) error {
	if s.URL == "" {
		return nil
	}
	raw, err := s.Source.ResolutionRows(ctx, s.URL)
	if err != nil {
		return err
	}
	rows := normalize.OutboundRows(raw)

	resolved, changed := s.Store.ApplyResolutions(rows)
	for _, rec := range resolved {
		s.Log.Info().
			Str("id", rec.ID).
			Str("sku", rec.SKU).
			Str("customer", rec.CustomerName).
			Msg("shortage auto-resolved by outbound call")
	}

	observed := normalize.Observed(rows)
	s.Store.SetObserved(observed)

	s.Log.Debug().
		Int("rows", len(rows)).
		Int("observed", len(observed)).
		Bool("resolved_any", changed).
		Msg("resolution cycle completed")
	return nil
}

// Observed returns the current observed-shortages view.
func (s *ObservedService) Observed() []domain.ShortageRecord {
	return s.Store.Observed()
}
