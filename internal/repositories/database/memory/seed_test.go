package memory

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
accounts:
  - id: cash
    workplace: wp-1
    code: "1000"
    name: Cash
    type: ASSET
  - id: revenue
    workplace: wp-1
    code: "4000"
    name: Sales
    type: REVENUE
  - id: old
    workplace: wp-1
    code: "1999"
    name: Legacy
    type: ASSET
    inactive: true
periods:
  - id: p-2024-04
    workplace: wp-1
    fiscalYear: 2024
    name: 2024-04
    start: 2024-04-01
    end: 2024-04-30
  - id: p-2024-03
    workplace: wp-1
    fiscalYear: 2024
    name: 2024-03
    start: 2024-03-01
    end: 2024-03-31
    status: LOCKED
`

func TestLoadSeed(t *testing.T) {
	s := NewStore(time.Second)
	require.NoError(t, s.LoadSeed(strings.NewReader(seedYAML)))
	ctx := context.Background()

	accounts, err := s.FindAccountsByIDs(ctx, "wp-1", []string{"cash", "revenue", "old"})
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, domain.NormalDebit, accounts["cash"].NormalBalance)
	assert.Equal(t, domain.NormalCredit, accounts["revenue"].NormalBalance)
	assert.True(t, accounts["cash"].IsActive)
	assert.False(t, accounts["old"].IsActive)

	p, err := s.FindPeriodByDate(ctx, "wp-1", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p-2024-04", p.PeriodID)
	assert.Equal(t, domain.PeriodOpen, p.Status)

	p, err = s.FindPeriodByDate(ctx, "wp-1", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, domain.PeriodLocked, p.Status)
}

func TestLoadSeed_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown type":   "accounts:\n  - {id: a, workplace: w, type: CASH}\n",
		"missing id":     "accounts:\n  - {workplace: w, type: ASSET}\n",
		"bad date":       "periods:\n  - {id: p, workplace: w, start: 2024-13-01, end: 2024-12-31}\n",
		"end before":     "periods:\n  - {id: p, workplace: w, start: 2024-02-01, end: 2024-01-31}\n",
		"malformed yaml": "accounts: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, NewStore(time.Second).LoadSeed(strings.NewReader(doc)))
		})
	}
}

func TestLoadSeed_Empty(t *testing.T) {
	assert.NoError(t, NewStore(time.Second).LoadSeed(strings.NewReader("")))
}
