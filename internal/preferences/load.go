package preferences

import (
	"context"

	"github.com/budgetmaster/backend/internal/store"
)

// Preferences bundles everything that is stored in the preference slots.
type Preferences struct {
	Settings   Settings   `json:"settings"`
	Profile    Profile    `json:"profile"`
	Goals      Goals      `json:"goals"`
	Categories Categories `json:"categories"`
}

func Defaults() Preferences {
	return Preferences{
		Settings:   DefaultSettings(),
		Profile:    DefaultProfile(),
		Goals:      DefaultGoals(),
		Categories: DefaultCategories(),
	}
}

// Load reads all preference slots. Stored values are decoded over the
// defaults, so fields missing in a slot keep their default value.
func Load(ctx context.Context, s *store.Store) (Preferences, error) {
	p := Defaults()

	for key, v := range map[string]any{
		store.KeySettings:   &p.Settings,
		store.KeyProfile:    &p.Profile,
		store.KeyGoals:      &p.Goals,
		store.KeyCategories: &p.Categories,
	} {
		if _, err := s.LoadSlot(ctx, key, v); err != nil {
			return Defaults(), err
		}
	}

	return p, nil
}

// Save validates and writes settings, profile and goals.
func Save(ctx context.Context, s *store.Store, p Preferences) error {
	if err := p.Settings.Validate(); err != nil {
		return err
	}

	if err := p.Profile.Validate(); err != nil {
		return err
	}

	if err := p.Goals.Validate(); err != nil {
		return err
	}

	if err := s.SaveSlot(ctx, store.KeySettings, p.Settings); err != nil {
		return err
	}

	if err := s.SaveSlot(ctx, store.KeyProfile, p.Profile); err != nil {
		return err
	}

	return s.SaveSlot(ctx, store.KeyGoals, p.Goals)
}

// SaveCategories writes the category lists.
func SaveCategories(ctx context.Context, s *store.Store, c Categories) error {
	return s.SaveSlot(ctx, store.KeyCategories, c)
}
