package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/repository"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// AttributionService tracks which marketing channel referred the visitor.
// The stored value is session-scoped and is read at order submission time.
//
// Attribution is best-effort by contract: storage failures are logged and
// degrade to the default channel so that tracking can never block a page
// render or an order.
type AttributionService struct {
	repo   repository.SourceRepository
	logger *slog.Logger
}

// NewAttributionService creates a new attribution service.
func NewAttributionService(repo repository.SourceRepository, logger *slog.Logger) *AttributionService {
	return &AttributionService{
		repo:   repo,
		logger: logger,
	}
}

// Resolve runs the once-per-page-load detection over the raw utm_source value:
//
//  1. A non-empty utm_source is normalized and stored; a new UTM parameter
//     always overwrites the previous value.
//  2. Otherwise a previously stored recognized value wins.
//  3. Otherwise the default channel "website" is stored and returned.
//
// Resolve never returns an error.
func (s *AttributionService) Resolve(ctx context.Context, sessionID, rawUTM string) domain.CustomerSource {
	if source := domain.NormalizeSource(rawUTM); source != "" {
		s.store(ctx, sessionID, source)
		return source
	}

	if stored, ok := s.load(ctx, sessionID); ok {
		return stored
	}

	s.store(ctx, sessionID, domain.SourceWebsite)
	return domain.SourceWebsite
}

// CustomerSource returns the stored customer source, or the default channel
// when nothing is stored. It is read-only: it never triggers detection and
// never writes.
func (s *AttributionService) CustomerSource(ctx context.Context, sessionID string) domain.CustomerSource {
	if stored, ok := s.load(ctx, sessionID); ok {
		return stored
	}
	return domain.SourceWebsite
}

// Clear resets the stored customer source for the session.
func (s *AttributionService) Clear(ctx context.Context, sessionID string) {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear customer source",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

// load reads the stored source, treating missing keys, storage errors, and
// unrecognized stored values all as "not set".
func (s *AttributionService) load(ctx context.Context, sessionID string) (domain.CustomerSource, bool) {
	stored, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to read customer source, treating as unset",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
		return "", false
	}
	if !stored.IsValid() {
		return "", false
	}
	return stored, true
}

func (s *AttributionService) store(ctx context.Context, sessionID string, source domain.CustomerSource) {
	if err := s.repo.Set(ctx, sessionID, source); err != nil {
		s.logger.WarnContext(ctx, "failed to store customer source",
			slog.String("session_id", sessionID),
			slog.String("source", source.String()),
			slog.String("error", err.Error()),
		)
	}
}
