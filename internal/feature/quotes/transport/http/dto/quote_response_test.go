package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_etl/internal/feature/quotes/domain/entity"
)

func TestFromEntity_DateInUTC(t *testing.T) {
	t.Parallel()

	// 23:00 in UTC-5 is the next calendar day in UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	ts := time.Date(2025, 9, 17, 23, 0, 0, 0, loc)

	got := FromEntity(entity.Quote{Symbol: "ASX", Timestamp: &ts})

	require.NotNil(t, got.Timestamp)
	assert.Equal(t, "2025-09-18", *got.Timestamp)
}

func TestFromEntity_KeepsNulls(t *testing.T) {
	t.Parallel()

	got := FromEntity(entity.Quote{Symbol: "ASX"})

	assert.Equal(t, QuoteResponse{Symbol: "ASX"}, got)
}
