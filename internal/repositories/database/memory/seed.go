package memory

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	"gopkg.in/yaml.v3"
)

// Seed is the fixture format for the accounts and periods the engine reads but never writes.
type Seed struct {
	Accounts []SeedAccount `yaml:"accounts"`
	Periods  []SeedPeriod  `yaml:"periods"`
}

type SeedAccount struct {
	ID            string `yaml:"id"`
	WorkplaceID   string `yaml:"workplace"`
	Code          string `yaml:"code"`
	Name          string `yaml:"name"`
	Type          string `yaml:"type"`
	NormalBalance string `yaml:"normalBalance"`
	Inactive      bool   `yaml:"inactive"`
}

type SeedPeriod struct {
	ID                 string `yaml:"id"`
	WorkplaceID        string `yaml:"workplace"`
	FiscalYear         int    `yaml:"fiscalYear"`
	Name               string `yaml:"name"`
	Start              string `yaml:"start"`
	End                string `yaml:"end"`
	Status             string `yaml:"status"`
	AdjustmentsAllowed bool   `yaml:"adjustmentsAllowed"`
}

// LoadSeedFile reads a YAML fixture from path into s.
func (s *Store) LoadSeedFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return s.LoadSeed(f)
}

// LoadSeed decodes a YAML fixture and stores its accounts and periods.
func (s *Store) LoadSeed(r io.Reader) error {
	var seed Seed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode seed: %w", err)
	}

	for _, a := range seed.Accounts {
		if a.ID == "" || a.WorkplaceID == "" {
			return fmt.Errorf("seed account %q: id and workplace are required", a.Code)
		}
		acc := domain.Account{
			AccountID:     a.ID,
			WorkplaceID:   a.WorkplaceID,
			Code:          a.Code,
			Name:          a.Name,
			AccountType:   domain.AccountType(a.Type),
			NormalBalance: domain.NormalBalance(a.NormalBalance),
			IsActive:      !a.Inactive,
		}
		switch acc.AccountType {
		case domain.Asset, domain.Liability, domain.Equity, domain.Revenue, domain.Expense:
		default:
			return fmt.Errorf("seed account %s: unknown type %q", a.ID, a.Type)
		}
		if acc.NormalBalance == "" {
			acc.NormalBalance = acc.AccountType.DefaultNormalBalance()
		}
		s.PutAccount(acc)
	}

	for _, p := range seed.Periods {
		start, err := time.Parse(time.DateOnly, p.Start)
		if err != nil {
			return fmt.Errorf("seed period %s: bad start: %w", p.ID, err)
		}
		end, err := time.Parse(time.DateOnly, p.End)
		if err != nil {
			return fmt.Errorf("seed period %s: bad end: %w", p.ID, err)
		}
		if end.Before(start) {
			return fmt.Errorf("seed period %s: end before start", p.ID)
		}
		status := domain.PeriodStatus(p.Status)
		if status == "" {
			status = domain.PeriodOpen
		}
		s.PutPeriod(domain.FiscalPeriod{
			PeriodID:           p.ID,
			WorkplaceID:        p.WorkplaceID,
			FiscalYear:         p.FiscalYear,
			Name:               p.Name,
			StartDate:          start,
			EndDate:            end,
			Status:             status,
			AdjustmentsAllowed: p.AdjustmentsAllowed,
		})
	}
	return nil
}
