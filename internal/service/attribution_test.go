package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func newTestAttributionService(repo *mockSourceRepository) *AttributionService {
	return NewAttributionService(repo, newTestLogger())
}

func TestAttribution_Resolve_NewUTMWins(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	// A fresh utm_source overwrites whatever is stored; the stored value is
	// never even read.
	repo.On("Set", ctx, "sess-1", domain.SourceFacebook).Return(nil)

	got := svc.Resolve(ctx, "sess-1", "fb")

	assert.Equal(t, domain.SourceFacebook, got)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestAttribution_Resolve_UnrecognizedUTMBecomesOthers(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	repo.On("Set", ctx, "sess-1", domain.SourceOthers).Return(nil)

	got := svc.Resolve(ctx, "sess-1", "newsletter")

	assert.Equal(t, domain.SourceOthers, got)
	repo.AssertExpectations(t)
}

func TestAttribution_Resolve_StoredValueWins(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(domain.SourceInstagram, nil)

	// No utm_source on this page load, the earlier channel sticks.
	got := svc.Resolve(ctx, "sess-1", "")

	assert.Equal(t, domain.SourceInstagram, got)
	repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttribution_Resolve_DefaultsToWebsite(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(domain.CustomerSource(""), apperrors.NotFound("customer source", "sess-1"))
	repo.On("Set", ctx, "sess-1", domain.SourceWebsite).Return(nil)

	got := svc.Resolve(ctx, "sess-1", "")

	assert.Equal(t, domain.SourceWebsite, got)
	repo.AssertExpectations(t)
}

func TestAttribution_Resolve_InvalidStoredValueTreatedAsUnset(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	// A corrupt stored value falls through to the default.
	repo.On("Get", ctx, "sess-1").Return(domain.CustomerSource("garbage"), nil)
	repo.On("Set", ctx, "sess-1", domain.SourceWebsite).Return(nil)

	got := svc.Resolve(ctx, "sess-1", "")

	assert.Equal(t, domain.SourceWebsite, got)
}

func TestAttribution_Resolve_StorageFailureDegrades(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	boom := errors.New("redis: connection refused")
	repo.On("Get", ctx, "sess-1").Return(domain.CustomerSource(""), boom)
	repo.On("Set", ctx, "sess-1", domain.SourceWebsite).Return(boom)

	// Tracking must never fail a page load even with storage fully down.
	got := svc.Resolve(ctx, "sess-1", "")

	assert.Equal(t, domain.SourceWebsite, got)
}

func TestAttribution_CustomerSource_ReadOnly(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(domain.CustomerSource(""), apperrors.NotFound("customer source", "sess-1"))

	got := svc.CustomerSource(ctx, "sess-1")

	// Unset reads report the default but never write it.
	assert.Equal(t, domain.SourceWebsite, got)
	repo.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestAttribution_CustomerSource_Stored(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	repo.On("Get", ctx, "sess-1").Return(domain.SourcePhoneCall, nil)

	assert.Equal(t, domain.SourcePhoneCall, svc.CustomerSource(ctx, "sess-1"))
}

func TestAttribution_Clear(t *testing.T) {
	repo := new(mockSourceRepository)
	svc := newTestAttributionService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "sess-1").Return(nil)

	svc.Clear(ctx, "sess-1")
	repo.AssertExpectations(t)
}
