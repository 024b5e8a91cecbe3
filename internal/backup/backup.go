// Package backup exports the ledger and the preferences into a single JSON
// file and imports such files section by section.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/budgetmaster/backend/internal/budget"
	"github.com/budgetmaster/backend/internal/ledger"
	"github.com/budgetmaster/backend/internal/preferences"
	"github.com/budgetmaster/backend/internal/store"
	"github.com/rs/zerolog/log"
)

var ErrInvalidFile = errors.New("not a backup file")

// Section names of a backup file
const (
	SectionTransactions = "transactions"
	SectionSettings     = "settings"
	SectionProfile      = "profile"
	SectionGoals        = "goals"
)

var sections = []string{SectionTransactions, SectionSettings, SectionProfile, SectionGoals}

type File struct {
	Transactions ledger.Snapshot      `json:"transactions"`
	Settings     preferences.Settings `json:"settings"`
	Profile      preferences.Profile  `json:"profile"`
	Goals        preferences.Goals    `json:"goals"`
	ExportDate   time.Time            `json:"exportDate"`
}

// Export collects the current snapshot and preferences.
func Export(ctx context.Context, svc *budget.Service, st *store.Store, now time.Time) (File, error) {
	p, err := preferences.Load(ctx, st)
	if err != nil {
		return File{}, err
	}

	return File{
		Transactions: svc.Snapshot(),
		Settings:     p.Settings,
		Profile:      p.Profile,
		Goals:        p.Goals,
		ExportDate:   now.UTC(),
	}, nil
}

// Encode returns the indented JSON representation of the file.
func (f File) Encode() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// SectionResult reports the outcome of importing one section.
type SectionResult struct {
	Section  string `json:"section"`
	Imported bool   `json:"imported"`
	Error    error  `json:"-"`
}

// Result lists the sections that were present in the file.
type Result []SectionResult

// Err joins the errors of all failed sections.
func (r Result) Err() error {
	var errs []error
	for _, s := range r {
		if s.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Section, s.Error))
		}
	}
	return errors.Join(errs...)
}

// Imported reports whether the section was imported.
func (r Result) Imported(section string) bool {
	for _, s := range r {
		if s.Section == section {
			return s.Imported
		}
	}
	return false
}

// Import decodes every section present in data independently. A section
// that cannot be decoded or validated is reported in the result and does
// not keep the other sections from being imported.
//
// An error is only returned if data is not a JSON object.
func Import(ctx context.Context, svc *budget.Service, st *store.Store, data []byte) (Result, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	current, err := preferences.Load(ctx, st)
	if err != nil {
		return nil, err
	}

	var result Result
	for _, section := range sections {
		// A null section is treated like a missing one
		sectionData, ok := raw[section]
		if !ok || bytes.Equal(bytes.TrimSpace(sectionData), []byte("null")) {
			continue
		}

		err := importSection(ctx, svc, st, current, section, sectionData)
		if err != nil {
			log.Warn().Str("section", section).Err(err).Msg("skipping backup section")
		}

		result = append(result, SectionResult{
			Section:  section,
			Imported: err == nil,
			Error:    err,
		})
	}

	return result, nil
}

func importSection(ctx context.Context, svc *budget.Service, st *store.Store, current preferences.Preferences, section string, data json.RawMessage) error {
	switch section {
	case SectionTransactions:
		var snapshot ledger.Snapshot
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return err
		}
		return svc.Replace(ctx, snapshot)

	case SectionSettings:
		settings := current.Settings
		if err := json.Unmarshal(data, &settings); err != nil {
			return err
		}
		if err := settings.Validate(); err != nil {
			return err
		}
		return st.SaveSlot(ctx, store.KeySettings, settings)

	case SectionProfile:
		profile := current.Profile
		if err := json.Unmarshal(data, &profile); err != nil {
			return err
		}
		if err := profile.Validate(); err != nil {
			return err
		}
		return st.SaveSlot(ctx, store.KeyProfile, profile)

	case SectionGoals:
		goals := current.Goals
		if err := json.Unmarshal(data, &goals); err != nil {
			return err
		}
		if err := goals.Validate(); err != nil {
			return err
		}
		return st.SaveSlot(ctx, store.KeyGoals, goals)
	}

	return fmt.Errorf("unknown section %q", section)
}
