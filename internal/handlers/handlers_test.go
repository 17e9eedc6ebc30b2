package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/core/domain"
	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/SscSPs/journal_engine/internal/handlers"
	"github.com/SscSPs/journal_engine/internal/middleware"
	"github.com/SscSPs/journal_engine/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) GetEntry(ctx context.Context, workplaceID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, workplaceID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) ListEntries(ctx context.Context, workplaceID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, workplaceID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}
func (m *MockJournalService) BuildDraft(ctx context.Context, workplaceID string, req dto.CreateEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, workplaceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) Post(ctx context.Context, workplaceID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, workplaceID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) Void(ctx context.Context, workplaceID, entryID, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, workplaceID, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) Reverse(ctx context.Context, workplaceID, entryID string, reversalDate *time.Time, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, workplaceID, entryID, reversalDate, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}
func (m *MockJournalService) AccountBalance(ctx context.Context, workplaceID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, workplaceID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockJournalService) ListLedgerRows(ctx context.Context, workplaceID, accountID string, params dto.ListLedgerRowsParams) (*dto.ListLedgerRowsResponse, error) {
	args := m.Called(ctx, workplaceID, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListLedgerRowsResponse), args.Error(1)
}
func (m *MockJournalService) CreateTemplate(ctx context.Context, workplaceID string, req dto.CreateTemplateRequest, userID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, workplaceID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}
func (m *MockJournalService) GetTemplate(ctx context.Context, workplaceID, templateID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, workplaceID, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}
func (m *MockJournalService) ListTemplates(ctx context.Context, workplaceID string, params dto.ListTemplatesParams) ([]domain.RecurringTemplate, error) {
	args := m.Called(ctx, workplaceID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringTemplate), args.Error(1)
}
func (m *MockJournalService) PauseTemplate(ctx context.Context, workplaceID, templateID, userID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, workplaceID, templateID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}
func (m *MockJournalService) ResumeTemplate(ctx context.Context, workplaceID, templateID, userID string) (*domain.RecurringTemplate, error) {
	args := m.Called(ctx, workplaceID, templateID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringTemplate), args.Error(1)
}
func (m *MockJournalService) RunTemplate(ctx context.Context, workplaceID, templateID string, asOf time.Time, userID string) (*domain.RecurringRunSummary, error) {
	args := m.Called(ctx, workplaceID, templateID, asOf, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringRunSummary), args.Error(1)
}
func (m *MockJournalService) RunDueRecurring(ctx context.Context, asOf time.Time) (*domain.RecurringRunSummary, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringRunSummary), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockJournalService
	jwtSecret   string
	userID      string
	workplaceID string
}

func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "journal-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()
	suite.workplaceID = "wp-1"
	suite.mockService = new(MockJournalService)

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slogDiscard()))
	cfg := &config.Config{JWTSecret: suite.jwtSecret, JWTIssuer: "journal-test", IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{Journal: suite.mockService}, handlers.Extras{
		HealthChecks: []handlers.HealthCheck{{Name: "db", Check: func(context.Context) error { return nil }}},
	})
}

func (suite *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlerTestSuite) decodeError(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var res dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func sampleEntry(status domain.EntryStatus) *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:      "e-1",
		WorkplaceID:  "wp-1",
		EntryNumber:  42,
		EntryDate:    time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		EntryType:    domain.EntryStandard,
		CurrencyCode: "USD",
		ExchangeRate: decimal.NewFromInt(1),
		TotalDebit:   decimal.RequireFromString("100.00"),
		TotalCredit:  decimal.RequireFromString("100.00"),
		Status:       status,
	}
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"db":"ok"`)
}

func (suite *HandlerTestSuite) TestUnauthenticatedRequestRejected() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/workplaces/wp-1/entries/e-1", nil))
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "GetEntry")
}

func (suite *HandlerTestSuite) TestBuildDraft_Success() {
	body := dto.CreateEntryRequest{
		EntryDate:    time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		Lines: []dto.CreateEntryLineRequest{
			{AccountID: "cash", Debit: decimal.RequireFromString("100.00")},
			{AccountID: "revenue", Credit: decimal.RequireFromString("100.00")},
		},
	}
	suite.mockService.On("BuildDraft", mock.Anything, suite.workplaceID,
		mock.MatchedBy(func(r dto.CreateEntryRequest) bool {
			return len(r.Lines) == 2 && r.CurrencyCode == "USD" && r.Lines[0].Debit.Equal(decimal.NewFromInt(100))
		}), suite.userID).
		Return(sampleEntry(domain.Draft), nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/entries", body)

	suite.Equal(http.StatusCreated, w.Code)
	var res dto.EntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("e-1", res.EntryID)
	suite.Equal(int64(42), res.EntryNumber)
	suite.Equal(domain.Draft, res.Status)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestBuildDraft_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/workplaces/wp-1/entries", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "BuildDraft")
}

func (suite *HandlerTestSuite) TestPost_ErrorMapping() {
	tests := []struct {
		name      string
		err       error
		status    int
		category  string
		retryable bool
	}{
		{"unbalanced", &apperrors.UnbalancedEntryError{EntryID: "e-1", Difference: decimal.NewFromInt(100)}, http.StatusUnprocessableEntity, "invariant", false},
		{"empty", &apperrors.EmptyEntryError{EntryID: "e-1"}, http.StatusUnprocessableEntity, "invariant", false},
		{"already posted", &apperrors.AlreadyPostedError{EntryID: "e-1", Status: "POSTED"}, http.StatusConflict, "invariant", false},
		{"period closed", &apperrors.PeriodClosedError{Date: time.Now(), Period: "2024-01", Status: "CLOSED"}, http.StatusConflict, "business_rule", false},
		{"not found", apperrors.NewNotFoundError("entry e-1 not found"), http.StatusNotFound, "not_found", false},
		{"validation", apperrors.NewValidationError("lines", "at least two lines required"), http.StatusBadRequest, "validation", false},
		{"lock timeout", &apperrors.LockTimeoutError{Resource: "entry:e-1"}, http.StatusServiceUnavailable, "concurrency", true},
		{"serialization", &apperrors.SerializationError{Attempts: 3, Err: errors.New("40001")}, http.StatusServiceUnavailable, "concurrency", true},
		{"fatal", &apperrors.InvariantViolationError{EntryID: "e-1", Detail: "ledger rows missing"}, http.StatusInternalServerError, "fatal", false},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "", false},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.mockService.ExpectedCalls = nil
			suite.mockService.On("Post", mock.Anything, suite.workplaceID, "e-1", suite.userID).Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/entries/e-1/post", nil)

			suite.Equal(tt.status, w.Code)
			res := suite.decodeError(w)
			suite.Equal(tt.category, res.Category)
			suite.Equal(tt.retryable, res.Retryable)
			if tt.status == http.StatusInternalServerError {
				suite.Equal("Failed to post entry", res.Error)
			}
		})
	}
}

func (suite *HandlerTestSuite) TestVoid_PostedEntryConflict() {
	suite.mockService.On("Void", mock.Anything, suite.workplaceID, "e-1", suite.userID).
		Return(nil, &apperrors.CannotVoidPostedEntryError{EntryID: "e-1", Status: "POSTED"}).Once()

	w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/entries/e-1/void", nil)

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(suite.decodeError(w).Error, "must be reversed")
}

func (suite *HandlerTestSuite) TestReverse_DefaultsAndExplicitDate() {
	reversal := sampleEntry(domain.Posted)
	reversal.EntryID = "e-2"
	reversal.EntryType = domain.EntryReversing

	suite.mockService.On("Reverse", mock.Anything, suite.workplaceID, "e-1", (*time.Time)(nil), suite.userID).
		Return(reversal, nil).Once()
	w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/entries/e-1/reverse", nil)
	suite.Equal(http.StatusCreated, w.Code)

	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	suite.mockService.On("Reverse", mock.Anything, suite.workplaceID, "e-1",
		mock.MatchedBy(func(d *time.Time) bool { return d != nil && d.Equal(date) }), suite.userID).
		Return(reversal, nil).Once()
	w = suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/entries/e-1/reverse", dto.ReverseEntryRequest{ReversalDate: &date})
	suite.Equal(http.StatusCreated, w.Code)

	suite.mockService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestListEntries_BindsQuery() {
	next := "tok"
	suite.mockService.On("ListEntries", mock.Anything, suite.workplaceID,
		mock.MatchedBy(func(p dto.ListEntriesParams) bool {
			return p.Status == "POSTED" && p.Limit == 5 && p.NextToken != nil && *p.NextToken == "abc"
		})).
		Return(&dto.ListEntriesResponse{Entries: []dto.EntryResponse{dto.ToEntryResponse(sampleEntry(domain.Posted))}, NextToken: &next}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/entries?status=POSTED&limit=5&nextToken=abc", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.ListEntriesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Entries, 1)
	suite.Require().NotNil(res.NextToken)
	suite.Equal("tok", *res.NextToken)
}

func (suite *HandlerTestSuite) TestAccountBalance() {
	asOf := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	suite.mockService.On("AccountBalance", mock.Anything, suite.workplaceID, "cash",
		mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) })).
		Return(decimal.RequireFromString("250.50"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/accounts/cash/balance?asOf=2024-03-31", nil)

	suite.Equal(http.StatusOK, w.Code)
	var res dto.AccountBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Equal("cash", res.AccountID)
	suite.True(res.Balance.Equal(decimal.RequireFromString("250.50")))
	suite.True(res.AsOf.Equal(asOf))
}

func (suite *HandlerTestSuite) TestAccountBalance_BadDate() {
	w := suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/accounts/cash/balance?asOf=31-03-2024", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "AccountBalance")
}

func (suite *HandlerTestSuite) TestListLedgerRows_NotFound() {
	suite.mockService.On("ListLedgerRows", mock.Anything, suite.workplaceID, "ghost", mock.Anything).
		Return(nil, apperrors.NewNotFoundError("account ghost not found")).Once()

	w := suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/accounts/ghost/ledger", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestTemplateLifecycle() {
	tmpl := &domain.RecurringTemplate{TemplateID: "t-1", WorkplaceID: "wp-1", Name: "Rent", Frequency: domain.Monthly, IsActive: true}

	suite.mockService.On("CreateTemplate", mock.Anything, suite.workplaceID, mock.Anything, suite.userID).Return(tmpl, nil).Once()
	w := suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/recurring-templates", dto.CreateTemplateRequest{Name: "Rent"})
	suite.Equal(http.StatusCreated, w.Code)

	suite.mockService.On("GetTemplate", mock.Anything, suite.workplaceID, "t-1").Return(tmpl, nil).Once()
	w = suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/recurring-templates/t-1", nil)
	suite.Equal(http.StatusOK, w.Code)

	suite.mockService.On("ListTemplates", mock.Anything, suite.workplaceID, dto.ListTemplatesParams{IncludeInactive: true}).
		Return([]domain.RecurringTemplate{*tmpl}, nil).Once()
	w = suite.do(http.MethodGet, "/api/v1/workplaces/wp-1/recurring-templates?includeInactive=true", nil)
	suite.Equal(http.StatusOK, w.Code)

	paused := *tmpl
	paused.IsActive = false
	suite.mockService.On("PauseTemplate", mock.Anything, suite.workplaceID, "t-1", suite.userID).Return(&paused, nil).Once()
	w = suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/recurring-templates/t-1/pause", nil)
	suite.Equal(http.StatusOK, w.Code)

	suite.mockService.On("ResumeTemplate", mock.Anything, suite.workplaceID, "t-1", suite.userID).
		Return(nil, apperrors.NewValidationError("endDate", "template has ended")).Once()
	w = suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/recurring-templates/t-1/resume", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.mockService.On("RunTemplate", mock.Anything, suite.workplaceID, "t-1", mock.Anything, suite.userID).
		Return(nil, &apperrors.TemplatePausedError{TemplateID: "t-1"}).Once()
	w = suite.do(http.MethodPost, "/api/v1/workplaces/wp-1/recurring-templates/t-1/run", nil)
	suite.Equal(http.StatusConflict, w.Code)

	suite.mockService.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRunDue() {
	asOf := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	summary := &domain.RecurringRunSummary{
		Posted: []domain.RunOutcome{{TemplateID: "t-1", WorkplaceID: "wp-1", RunDate: asOf, EntryID: "e-9"}},
		Failed: []domain.RunOutcome{{TemplateID: "t-2", WorkplaceID: "wp-2", RunDate: asOf, Error: "period locked"}},
	}
	suite.mockService.On("RunDueRecurring", mock.Anything, mock.MatchedBy(func(t time.Time) bool { return t.Equal(asOf) })).
		Return(summary, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/recurring/run-due", dto.RunRecurringRequest{AsOf: &asOf})

	suite.Equal(http.StatusOK, w.Code)
	var res domain.RecurringRunSummary
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &res))
	suite.Len(res.Posted, 1)
	suite.Len(res.Failed, 1)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
