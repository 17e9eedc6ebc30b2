package accounting

import (
	"testing"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(account, debit, credit string) domain.JournalLine {
	return domain.JournalLine{AccountID: account, Debit: dec(debit), Credit: dec(credit)}
}

func TestCalculateSignedAmount(t *testing.T) {
	cash := domain.Account{AccountID: "cash", AccountType: domain.Asset, NormalBalance: domain.NormalDebit}
	revenue := domain.Account{AccountID: "rev", AccountType: domain.Revenue}

	amt, err := CalculateSignedAmount(line("cash", "100", "0"), cash)
	require.NoError(t, err)
	assert.True(t, amt.Equal(dec("100")))

	amt, err = CalculateSignedAmount(line("cash", "0", "40"), cash)
	require.NoError(t, err)
	assert.True(t, amt.Equal(dec("-40")))

	// blank normal balance falls back to the account type
	amt, err = CalculateSignedAmount(line("rev", "0", "100"), revenue)
	require.NoError(t, err)
	assert.True(t, amt.Equal(dec("100")))

	_, err = CalculateSignedAmount(line("rev", "0", "0"), revenue)
	assert.Error(t, err)
}

func TestValidateEntryBalance(t *testing.T) {
	t.Run("balanced", func(t *testing.T) {
		err := ValidateEntryBalance("e1", []domain.JournalLine{
			line("cash", "1000.00", "0"),
			line("rev", "0", "1000.00"),
		})
		assert.NoError(t, err)
	})

	t.Run("unbalanced reports signed difference", func(t *testing.T) {
		err := ValidateEntryBalance("e1", []domain.JournalLine{
			line("cash", "500.00", "0"),
			line("rev", "0", "400.00"),
		})
		var unbalanced *apperrors.UnbalancedEntryError
		require.ErrorAs(t, err, &unbalanced)
		assert.True(t, unbalanced.Difference.Equal(dec("100.00")))
		assert.ErrorIs(t, err, apperrors.ErrInvariant)
	})

	t.Run("empty", func(t *testing.T) {
		err := ValidateEntryBalance("e1", []domain.JournalLine{
			line("cash", "0", "0"),
			line("rev", "0", "0"),
		})
		var empty *apperrors.EmptyEntryError
		assert.ErrorAs(t, err, &empty)
	})

	t.Run("placeholder line rejected at post", func(t *testing.T) {
		err := ValidateEntryBalance("e1", []domain.JournalLine{
			line("cash", "10", "0"),
			line("rev", "0", "10"),
			line("misc", "0", "0"),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}
