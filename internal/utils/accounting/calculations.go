package accounting

import (
	"fmt"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NormalBalanceOf returns the account's normal balance, falling back to the
// conventional side of its type when the directory leaves it blank.
func NormalBalanceOf(account domain.Account) domain.NormalBalance {
	if account.NormalBalance != "" {
		return account.NormalBalance
	}
	return account.AccountType.DefaultNormalBalance()
}

// CalculateSignedAmount applies the account's normal-balance sign to a line amount.
// This is used in both services and repositories to ensure consistent accounting logic.
//
//	DEBIT to a DEBIT-normal account   -> Positive (+)
//	CREDIT to a DEBIT-normal account  -> Negative (-)
//	DEBIT to a CREDIT-normal account  -> Negative (-)
//	CREDIT to a CREDIT-normal account -> Positive (+)
func CalculateSignedAmount(line domain.JournalLine, account domain.Account) (decimal.Decimal, error) {
	side, amount, ok := line.Side()
	if !ok {
		return decimal.Zero, fmt.Errorf("line %d on account %s must carry exactly one positive side", line.LineNumber, line.AccountID)
	}
	return domain.SignedAmount(side, amount, NormalBalanceOf(account)), nil
}

// Totals sums the debit and credit columns of lines.
func Totals(lines []domain.JournalLine) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// ValidateEntryBalance checks that the lines of an entry form a postable double entry:
// non-zero equal totals and exactly one positive side per line.
func ValidateEntryBalance(entryID string, lines []domain.JournalLine) error {
	debit, credit := Totals(lines)
	if debit.IsZero() && credit.IsZero() {
		return &apperrors.EmptyEntryError{EntryID: entryID}
	}
	if !debit.Equal(credit) {
		return &apperrors.UnbalancedEntryError{
			EntryID:     entryID,
			TotalDebit:  debit,
			TotalCredit: credit,
			Difference:  debit.Sub(credit),
		}
	}
	for i, l := range lines {
		if _, _, ok := l.Side(); !ok {
			return apperrors.NewValidationError(fmt.Sprintf("lines[%d]", i), "exactly one of debit and credit must be positive")
		}
	}
	return nil
}
