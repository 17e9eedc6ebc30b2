package services_test

import (
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/core/services"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/shopspring/decimal"
)

func fixedLine(account string, side domain.Side, amount string) dto.TemplateLineRequest {
	return dto.TemplateLineRequest{AccountID: account, Side: side, Amount: dec(amount)}
}

func (s *JournalServiceTestSuite) template(name string, freq domain.Frequency, start time.Time, end *time.Time, lines ...dto.TemplateLineRequest) *domain.RecurringTemplate {
	tmpl, err := s.svc.CreateTemplate(s.ctx, wp, dto.CreateTemplateRequest{
		Name:         name,
		CurrencyCode: "USD",
		Frequency:    freq,
		StartDate:    start,
		EndDate:      end,
		Lines:        lines,
	}, userID)
	s.Require().NoError(err)
	return tmpl
}

func (s *JournalServiceTestSuite) rentTemplate(start time.Time, end *time.Time) *domain.RecurringTemplate {
	return s.template("Office rent", domain.Monthly, start, end,
		fixedLine("rent", domain.DebitSide, "100.00"),
		fixedLine("cash", domain.CreditSide, "100.00"))
}

func (s *JournalServiceTestSuite) TestCreateTemplate_Defaults() {
	tmpl := s.rentTemplate(d(2024, 1, 31), nil)
	s.True(tmpl.IsActive)
	s.Equal(domain.EntryRecurring, tmpl.EntryType)
	s.Equal(d(2024, 1, 31), tmpl.NextRunDate)
	s.Equal(domain.StrategyFixed, tmpl.Lines[0].Strategy)
	s.Equal(2, tmpl.Lines[1].LineNumber)

	got, err := s.svc.GetTemplate(s.ctx, wp, tmpl.TemplateID)
	s.Require().NoError(err)
	s.Equal(tmpl.Name, got.Name)
	s.Len(got.Lines, 2)
}

func (s *JournalServiceTestSuite) TestCreateTemplate_Validation() {
	percent := dec("2.5")
	end := d(2023, 12, 31)
	tests := []struct {
		name string
		req  dto.CreateTemplateRequest
	}{
		{"unbalanced fixed amounts", dto.CreateTemplateRequest{
			Name: "x", CurrencyCode: "USD", Frequency: domain.Monthly, StartDate: d(2024, 1, 1),
			Lines: []dto.TemplateLineRequest{fixedLine("rent", domain.DebitSide, "100"), fixedLine("cash", domain.CreditSide, "90")},
		}},
		{"percent without basis", dto.CreateTemplateRequest{
			Name: "x", CurrencyCode: "USD", Frequency: domain.Monthly, StartDate: d(2024, 1, 1),
			Lines: []dto.TemplateLineRequest{
				{AccountID: "interest", Side: domain.DebitSide, Strategy: domain.StrategyPercentOfBalance, Percent: &percent},
				{AccountID: "cash", Side: domain.CreditSide, Strategy: domain.StrategyPercentOfBalance, Percent: &percent},
			},
		}},
		{"end before start", dto.CreateTemplateRequest{
			Name: "x", CurrencyCode: "USD", Frequency: domain.Monthly, StartDate: d(2024, 1, 1), EndDate: &end,
			Lines: []dto.TemplateLineRequest{fixedLine("rent", domain.DebitSide, "1"), fixedLine("cash", domain.CreditSide, "1")},
		}},
		{"unknown frequency", dto.CreateTemplateRequest{
			Name: "x", CurrencyCode: "USD", Frequency: "HOURLY", StartDate: d(2024, 1, 1),
			Lines: []dto.TemplateLineRequest{fixedLine("rent", domain.DebitSide, "1"), fixedLine("cash", domain.CreditSide, "1")},
		}},
		{"inactive account", dto.CreateTemplateRequest{
			Name: "x", CurrencyCode: "USD", Frequency: domain.Monthly, StartDate: d(2024, 1, 1),
			Lines: []dto.TemplateLineRequest{fixedLine("old", domain.DebitSide, "1"), fixedLine("cash", domain.CreditSide, "1")},
		}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.CreateTemplate(s.ctx, wp, tt.req, userID)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (s *JournalServiceTestSuite) TestRunDueRecurring_MonthEndClampingAndIdempotence() {
	tmpl := s.rentTemplate(d(2024, 1, 31), nil)

	summary, err := s.svc.RunDueRecurring(s.ctx, d(2024, 3, 31))
	s.Require().NoError(err)
	s.Require().Len(summary.Posted, 3)
	s.Empty(summary.Failed)
	s.Equal(d(2024, 1, 31), summary.Posted[0].RunDate)
	s.Equal(d(2024, 2, 29), summary.Posted[1].RunDate)
	s.Equal(d(2024, 3, 31), summary.Posted[2].RunDate)

	entry, err := s.svc.GetEntry(s.ctx, wp, summary.Posted[1].EntryID)
	s.Require().NoError(err)
	s.Equal(domain.Posted, entry.Status)
	s.Equal(domain.EntryRecurring, entry.EntryType)
	s.Equal(d(2024, 2, 29), entry.EntryDate)
	s.Require().NotNil(entry.RecurringTemplateID)
	s.Equal(tmpl.TemplateID, *entry.RecurringTemplateID)
	s.Equal(services.SystemActor, *entry.PostedBy)

	s.True(s.store.Balance(wp, "rent").Equal(dec("300")))

	again, err := s.svc.RunDueRecurring(s.ctx, d(2024, 3, 31))
	s.Require().NoError(err)
	s.Empty(again.Posted)
	s.Empty(again.Skipped)
	s.Len(s.store.LedgerRows(), 6)

	got, err := s.svc.GetTemplate(s.ctx, wp, tmpl.TemplateID)
	s.Require().NoError(err)
	s.Equal(d(2024, 4, 30), got.NextRunDate)
}

func (s *JournalServiceTestSuite) TestRunDueRecurring_SkipsDatesAlreadyRun() {
	tmpl := s.rentTemplate(d(2024, 3, 1), nil)
	_, err := s.svc.RunDueRecurring(s.ctx, d(2024, 3, 1))
	s.Require().NoError(err)

	// rewind the schedule as a crashed scan would leave it
	s.Require().NoError(s.store.UpdateSchedule(s.ctx, tmpl.TemplateID, d(2024, 3, 1), true, userID, s.now))

	summary, err := s.svc.RunDueRecurring(s.ctx, d(2024, 3, 1))
	s.Require().NoError(err)
	s.Empty(summary.Posted)
	s.Require().Len(summary.Skipped, 1)
	s.Equal(domain.SkipAlreadyRun, summary.Skipped[0].Reason)
	s.Len(s.store.LedgerRows(), 2)

	got, err := s.svc.GetTemplate(s.ctx, wp, tmpl.TemplateID)
	s.Require().NoError(err)
	s.Equal(d(2024, 4, 1), got.NextRunDate)
}

func (s *JournalServiceTestSuite) TestPauseAndResume() {
	tmpl := s.rentTemplate(d(2024, 3, 1), nil)

	paused, err := s.svc.PauseTemplate(s.ctx, wp, tmpl.TemplateID, userID)
	s.Require().NoError(err)
	s.False(paused.IsActive)

	summary, err := s.svc.RunDueRecurring(s.ctx, d(2024, 4, 1))
	s.Require().NoError(err)
	s.Empty(summary.Posted)
	s.Require().Len(summary.Skipped, 1)
	s.Equal(domain.SkipPaused, summary.Skipped[0].Reason)

	_, err = s.svc.RunTemplate(s.ctx, wp, tmpl.TemplateID, d(2024, 4, 1), userID)
	var pausedErr *apperrors.TemplatePausedError
	s.ErrorAs(err, &pausedErr)

	active, err := s.svc.ListTemplates(s.ctx, wp, dto.ListTemplatesParams{})
	s.Require().NoError(err)
	s.Empty(active)
	all, err := s.svc.ListTemplates(s.ctx, wp, dto.ListTemplatesParams{IncludeInactive: true})
	s.Require().NoError(err)
	s.Len(all, 1)

	_, err = s.svc.ResumeTemplate(s.ctx, wp, tmpl.TemplateID, userID)
	s.Require().NoError(err)

	run, err := s.svc.RunTemplate(s.ctx, wp, tmpl.TemplateID, d(2024, 4, 1), userID)
	s.Require().NoError(err)
	s.Len(run.Posted, 2, "missed occurrences are caught up")
}

func (s *JournalServiceTestSuite) TestRunDueRecurring_FailureDoesNotStopScan() {
	s.Require().NoError(s.store.SetPeriodStatus("p-2024-01", domain.PeriodLocked))
	failing := s.rentTemplate(d(2024, 1, 5), nil)
	ok := s.template("Cleaning", domain.Monthly, d(2024, 3, 1), nil,
		fixedLine("rent", domain.DebitSide, "20"),
		fixedLine("cash", domain.CreditSide, "20"))

	summary, err := s.svc.RunDueRecurring(s.ctx, d(2024, 3, 1))
	s.Require().NoError(err)
	s.Require().Len(summary.Failed, 1)
	s.Equal(failing.TemplateID, summary.Failed[0].TemplateID)
	s.Equal(d(2024, 1, 5), summary.Failed[0].RunDate)
	s.NotEmpty(summary.Failed[0].Error)
	s.Require().Len(summary.Posted, 1)
	s.Equal(ok.TemplateID, summary.Posted[0].TemplateID)

	got, err := s.svc.GetTemplate(s.ctx, wp, failing.TemplateID)
	s.Require().NoError(err)
	s.Equal(d(2024, 1, 5), got.NextRunDate, "a failed run leaves the schedule in place")
}

func (s *JournalServiceTestSuite) TestRunTemplate_PercentOfBalance() {
	s.posted(d(2024, 3, 10), debit("cash", "1000.00"), credit("revenue", "1000.00"))
	percent := dec("1.5")
	basis := "cash"
	tmpl := s.template("Bank fee", domain.Monthly, d(2024, 3, 31), nil,
		dto.TemplateLineRequest{AccountID: "interest", Side: domain.DebitSide, Strategy: domain.StrategyPercentOfBalance, Percent: &percent, BasisAccountID: &basis},
		dto.TemplateLineRequest{AccountID: "cash", Side: domain.CreditSide, Strategy: domain.StrategyPercentOfBalance, Percent: &percent, BasisAccountID: &basis})

	summary, err := s.svc.RunTemplate(s.ctx, wp, tmpl.TemplateID, d(2024, 3, 31), userID)
	s.Require().NoError(err)
	s.Require().Len(summary.Posted, 1)

	entry, err := s.svc.GetEntry(s.ctx, wp, summary.Posted[0].EntryID)
	s.Require().NoError(err)
	s.True(entry.TotalDebit.Equal(dec("15.00")))
	s.True(s.store.Balance(wp, "cash").Equal(dec("985")))
}

func (s *JournalServiceTestSuite) TestRunTemplate_CopyLastRun() {
	tmpl := s.template("Utilities", domain.Monthly, d(2024, 2, 1), nil,
		dto.TemplateLineRequest{AccountID: "rent", Side: domain.DebitSide, Strategy: domain.StrategyCopyLastRun, Amount: dec("50")},
		dto.TemplateLineRequest{AccountID: "cash", Side: domain.CreditSide, Strategy: domain.StrategyCopyLastRun, Amount: dec("50")})

	previous := s.posted(d(2024, 1, 1), debit("rent", "75.25"), credit("cash", "75.25"))
	s.Require().NoError(s.store.RecordRun(s.ctx, domain.RecurringRun{
		TemplateID: tmpl.TemplateID, RunDate: d(2024, 1, 1), EntryID: previous.EntryID, CreatedAt: s.now,
	}))

	summary, err := s.svc.RunTemplate(s.ctx, wp, tmpl.TemplateID, d(2024, 3, 1), userID)
	s.Require().NoError(err)
	s.Require().Len(summary.Posted, 2)
	for _, p := range summary.Posted {
		entry, err := s.svc.GetEntry(s.ctx, wp, p.EntryID)
		s.Require().NoError(err)
		s.True(entry.TotalDebit.Equal(dec("75.25")), "run %s", p.RunDate)
	}
}

func (s *JournalServiceTestSuite) TestRunTemplate_CopyLastRunFallsBackToAmount() {
	tmpl := s.template("Utilities", domain.Monthly, d(2024, 2, 1), nil,
		dto.TemplateLineRequest{AccountID: "rent", Side: domain.DebitSide, Strategy: domain.StrategyCopyLastRun, Amount: dec("50")},
		dto.TemplateLineRequest{AccountID: "cash", Side: domain.CreditSide, Strategy: domain.StrategyCopyLastRun, Amount: dec("50")})

	summary, err := s.svc.RunTemplate(s.ctx, wp, tmpl.TemplateID, d(2024, 2, 1), userID)
	s.Require().NoError(err)
	s.Require().Len(summary.Posted, 1)
	entry, err := s.svc.GetEntry(s.ctx, wp, summary.Posted[0].EntryID)
	s.Require().NoError(err)
	s.True(entry.TotalCredit.Equal(decimal.NewFromInt(50)))
}

func (s *JournalServiceTestSuite) TestRunDueRecurring_StopsAtEndDate() {
	end := d(2024, 2, 15)
	tmpl := s.rentTemplate(d(2024, 1, 1), &end)

	summary, err := s.svc.RunDueRecurring(s.ctx, d(2024, 4, 1))
	s.Require().NoError(err)
	s.Len(summary.Posted, 2)

	got, err := s.svc.GetTemplate(s.ctx, wp, tmpl.TemplateID)
	s.Require().NoError(err)
	s.False(got.IsActive)
	s.Equal(d(2024, 3, 1), got.NextRunDate)

	_, err = s.svc.ResumeTemplate(s.ctx, wp, tmpl.TemplateID, userID)
	s.ErrorIs(err, apperrors.ErrValidation)
}
