package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// EnsureAdmin creates the dashboard user unless one with that name exists.
// It reports whether a user was created.
func EnsureAdmin(ctx context.Context, s Store, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	_, err := s.UserByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, fmt.Errorf("look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	err = s.CreateUser(ctx, &models.User{Username: username, PasswordHash: string(hash)})
	if errors.Is(err, ErrDuplicate) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	log.Printf("storage: created admin user %q", username)
	return true, nil
}

// Fixtures is the layout of a seed file. Each section holds records in the
// same shape the HTTP API accepts.
type Fixtures struct {
	Profile     map[string]any   `yaml:"profile"`
	Skills      []map[string]any `yaml:"skills"`
	Experiences []map[string]any `yaml:"experiences"`
	Projects    []map[string]any `yaml:"projects"`
	Education   []map[string]any `yaml:"education"`
	Activities  []map[string]any `yaml:"activities"`
	Articles    []map[string]any `yaml:"articles"`
	Pricing     []map[string]any `yaml:"pricing"`
}

// LoadFixtures imports a YAML seed file. Sections whose collection already
// holds rows are skipped, so restarting with the same file is harmless.
func LoadFixtures(ctx context.Context, s Store, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fixtures: %w", err)
	}
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	return Seed(ctx, s, fx)
}

func Seed(ctx context.Context, s Store, fx Fixtures) error {
	if fx.Profile != nil {
		if err := seedProfile(ctx, s, fx.Profile); err != nil {
			return err
		}
	}
	var errs []error
	errs = append(errs, seed[models.Skill, models.SkillPatch](ctx, s.Skills(), "skills", fx.Skills))
	errs = append(errs, seed[models.Experience, models.ExperiencePatch](ctx, s.Experiences(), "experiences", fx.Experiences))
	errs = append(errs, seed[models.Project, models.ProjectPatch](ctx, s.Projects(), "projects", fx.Projects))
	errs = append(errs, seed[models.Education, models.EducationPatch](ctx, s.Education(), "education", fx.Education))
	errs = append(errs, seed[models.Activity, models.ActivityPatch](ctx, s.Activities(), "activities", fx.Activities))
	errs = append(errs, seed[models.Article, models.ArticlePatch](ctx, s.Articles(), "articles", fx.Articles))
	errs = append(errs, seed[models.Pricing, models.PricingPatch](ctx, s.Pricing(), "pricing", fx.Pricing))
	return errors.Join(errs...)
}

func seedProfile(ctx context.Context, s Store, raw map[string]any) error {
	_, err := s.Profile(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("seed profile: %w", err)
	}
	var p models.ProfilePatch
	if err := convert(raw, &p); err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}
	if err := p.Validate(true); err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}
	_, err = s.SaveProfile(ctx, func(dst *models.Profile) error {
		p.Apply(dst)
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed profile: %w", err)
	}
	log.Printf("storage: seeded profile")
	return nil
}

func seed[T any, P any, PP interface {
	*P
	models.Patch[T]
}](ctx context.Context, col Collection[T], section string, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}
	existing, err := col.List(ctx)
	if err != nil {
		return fmt.Errorf("seed %s: %w", section, err)
	}
	if len(existing) > 0 {
		log.Printf("storage: %s already populated, skipping fixtures", section)
		return nil
	}
	for i, raw := range records {
		patch := PP(new(P))
		if err := convert(raw, patch); err != nil {
			return fmt.Errorf("seed %s[%d]: %w", section, i, err)
		}
		if err := patch.Validate(false); err != nil {
			return fmt.Errorf("seed %s[%d]: %w", section, i, err)
		}
		if err := col.Create(ctx, models.New[T](patch)); err != nil {
			return fmt.Errorf("seed %s[%d]: %w", section, i, err)
		}
	}
	log.Printf("storage: seeded %d %s", len(records), section)
	return nil
}

// convert re-encodes a YAML mapping as JSON so records go through the same
// decoders as request bodies.
func convert(raw map[string]any, dst any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
