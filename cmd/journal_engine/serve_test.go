package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/stretchr/testify/assert"
)

// fakeRecurring counts scans and fails every other one.
type fakeRecurring struct {
	calls atomic.Int32
}

func (f *fakeRecurring) RunDueRecurring(_ context.Context, asOf time.Time) (*domain.RecurringRunSummary, error) {
	n := f.calls.Add(1)
	if n%2 == 0 {
		return nil, errors.New("store unavailable")
	}
	return &domain.RecurringRunSummary{Posted: []domain.RunOutcome{{TemplateID: "t-1", RunDate: asOf}}}, nil
}

func (f *fakeRecurring) CreateTemplate(context.Context, string, dto.CreateTemplateRequest, string) (*domain.RecurringTemplate, error) {
	return nil, nil
}
func (f *fakeRecurring) GetTemplate(context.Context, string, string) (*domain.RecurringTemplate, error) {
	return nil, nil
}
func (f *fakeRecurring) ListTemplates(context.Context, string, dto.ListTemplatesParams) ([]domain.RecurringTemplate, error) {
	return nil, nil
}
func (f *fakeRecurring) PauseTemplate(context.Context, string, string, string) (*domain.RecurringTemplate, error) {
	return nil, nil
}
func (f *fakeRecurring) ResumeTemplate(context.Context, string, string, string) (*domain.RecurringTemplate, error) {
	return nil, nil
}
func (f *fakeRecurring) RunTemplate(context.Context, string, string, time.Time, string) (*domain.RecurringRunSummary, error) {
	return nil, nil
}

func TestRunScheduler_RunsImmediatelyAndOnTicks(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := &fakeRecurring{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		runScheduler(ctx, logger, svc, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
