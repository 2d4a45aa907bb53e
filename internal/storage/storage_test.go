package storage

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aTrapDeer/portfolio-backend/internal/config"
	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

func setupSQLite(t *testing.T) Store {
	t.Helper()
	s, err := Open(config.Config{AppEnv: "test", DatabaseURL: "sqlite://:memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// backends runs fn once per Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryStore()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, setupSQLite(t)) })
	t.Run("cached", func(t *testing.T) { fn(t, NewCachedStore(NewMemoryStore(), time.Minute)) })
}

func TestCollectionCRUD(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		skills := s.Skills()

		sk := &models.Skill{Name: "Go", Category: "Backend Development", Level: 90}
		require.NoError(t, skills.Create(ctx, sk))
		require.NotZero(t, sk.ID)

		got, err := skills.Get(ctx, sk.ID)
		require.NoError(t, err)
		assert.Equal(t, "Go", got.Name)

		updated, err := skills.Update(ctx, sk.ID, func(dst *models.Skill) error {
			dst.Level = 95
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 95, updated.Level)
		assert.Equal(t, "Go", updated.Name)

		got, err = skills.Get(ctx, sk.ID)
		require.NoError(t, err)
		assert.Equal(t, 95, got.Level)

		_, err = skills.Update(ctx, sk.ID+100, func(*models.Skill) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)

		ok, err := skills.Delete(ctx, sk.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = skills.Delete(ctx, sk.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = skills.Get(ctx, sk.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		list, err := skills.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

func TestUpdateApplyErrorAborts(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()
		a := &models.Activity{Title: "Volunteering", Description: "Weekends"}
		require.NoError(t, s.Activities().Create(ctx, a))

		_, err := s.Activities().Update(ctx, a.ID, func(dst *models.Activity) error {
			dst.Title = "changed"
			return models.Invalid("activity")
		})
		require.Error(t, err)

		got, err := s.Activities().Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "Volunteering", got.Title)
	})
}

func TestListOrdering(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		for _, e := range []models.Experience{
			{Title: "Intern", Company: "A", Period: "2019", Description: "x"},
			{Title: "Lead", Company: "B", Period: "2023-", Description: "x", Current: true},
			{Title: "Engineer", Company: "C", Period: "2020-2022", Description: "x"},
		} {
			require.NoError(t, s.Experiences().Create(ctx, &e))
		}
		exps, err := s.Experiences().List(ctx)
		require.NoError(t, err)
		require.Len(t, exps, 3)
		assert.Equal(t, []string{"Lead", "Engineer", "Intern"},
			[]string{exps[0].Title, exps[1].Title, exps[2].Title})

		for _, p := range []models.Project{
			{Title: "one", Description: "x"},
			{Title: "two", Description: "x", Featured: true},
			{Title: "three", Description: "x", Featured: true},
		} {
			require.NoError(t, s.Projects().Create(ctx, &p))
		}
		projects, err := s.Projects().List(ctx)
		require.NoError(t, err)
		require.Len(t, projects, 3)
		assert.Equal(t, []string{"two", "three", "one"},
			[]string{projects[0].Title, projects[1].Title, projects[2].Title})

		first := &models.Contact{Name: "A", Email: "a@example.com", Subject: "hi", Message: "first"}
		second := &models.Contact{Name: "B", Email: "b@example.com", Subject: "hi", Message: "second"}
		require.NoError(t, s.Contacts().Create(ctx, first))
		require.NoError(t, s.Contacts().Create(ctx, second))
		contacts, err := s.Contacts().List(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "second", contacts[0].Message)
		assert.False(t, contacts[0].CreatedAt.IsZero())
	})
}

func TestFilteredViews(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		require.NoError(t, s.Articles().Create(ctx, &models.Article{Title: "draft", Content: "x"}))
		require.NoError(t, s.Articles().Create(ctx, &models.Article{Title: "live", Content: "x", Published: true}))

		published, err := s.PublishedArticles(ctx)
		require.NoError(t, err)
		require.Len(t, published, 1)
		assert.Equal(t, "live", published[0].Title)

		all, err := s.Articles().List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		active := &models.Pricing{}
		active.SetDefaults()
		active.Title, active.Period, active.Description = "Active", "hour", "x"
		inactive := &models.Pricing{Title: "Retired", Period: "hour", Description: "x", Currency: "USD"}
		require.NoError(t, s.Pricing().Create(ctx, active))
		require.NoError(t, s.Pricing().Create(ctx, inactive))

		plans, err := s.ActivePricing(ctx)
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, "Active", plans[0].Title)

		_, err = s.Pricing().Update(ctx, inactive.ID, func(p *models.Pricing) error {
			p.IsActive = true
			return nil
		})
		require.NoError(t, err)
		plans, err = s.ActivePricing(ctx)
		require.NoError(t, err)
		assert.Len(t, plans, 2)
	})
}

func TestProfileUpsert(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		_, err := s.Profile(ctx)
		assert.ErrorIs(t, err, ErrNotFound)

		p, err := s.SaveProfile(ctx, func(p *models.Profile) error {
			p.FirstName, p.LastName = "Jane", "Doe"
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, uint(models.ProfileID), p.ID)

		_, err = s.SaveProfile(ctx, func(p *models.Profile) error {
			p.Title = "Engineer"
			return nil
		})
		require.NoError(t, err)

		got, err := s.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Jane", got.FirstName)
		assert.Equal(t, "Engineer", got.Title)
	})
}

func TestUsersAndSessions(t *testing.T) {
	backends(t, func(t *testing.T, s Store) {
		ctx := context.Background()

		u := &models.User{Username: "admin", PasswordHash: "hash"}
		require.NoError(t, s.CreateUser(ctx, u))
		assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Username: "admin", PasswordHash: "x"}), ErrDuplicate)

		n, err := s.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		byName, err := s.UserByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byName.ID)

		_, err = s.UserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		live := &models.Session{UserID: u.ID, Token: "live", ExpiresAt: now.Add(time.Hour)}
		dead := &models.Session{UserID: u.ID, Token: "dead", ExpiresAt: now.Add(-time.Hour)}
		require.NoError(t, s.Sessions().Create(ctx, live))
		require.NoError(t, s.Sessions().Create(ctx, dead))
		assert.ErrorIs(t, s.Sessions().Create(ctx, &models.Session{UserID: u.ID, Token: "live", ExpiresAt: now}), ErrDuplicate)

		got, err := s.Sessions().ByToken(ctx, "live")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.UserID)

		removed, err := s.Sessions().DeleteExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		_, err = s.Sessions().ByToken(ctx, "dead")
		assert.ErrorIs(t, err, ErrNotFound)

		ok, err := s.Sessions().Delete(ctx, "live")
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = s.Sessions().Delete(ctx, "live")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCachedStoreServesFromCache(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s := NewCachedStore(inner, time.Minute)

	require.NoError(t, s.Skills().Create(ctx, &models.Skill{Name: "Go", Category: "Backend Development", Level: 1}))
	list, err := s.Skills().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// Writes that bypass the cache stay invisible until the next cached write.
	require.NoError(t, inner.Skills().Create(ctx, &models.Skill{Name: "Rust", Category: "Backend Development", Level: 1}))
	list, err = s.Skills().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Skills().Create(ctx, &models.Skill{Name: "Zig", Category: "Backend Development", Level: 1}))
	list, err = s.Skills().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = s.Profile(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.SaveProfile(ctx, func(p *models.Profile) error { p.FirstName = "A"; return nil })
	require.NoError(t, err)
	p, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", p.FirstName)

	s.Flush()
	list, err = s.Skills().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestCachedListIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewCachedStore(NewMemoryStore(), time.Minute)
	require.NoError(t, s.Skills().Create(ctx, &models.Skill{Name: "Go", Category: "Backend Development", Level: 1}))

	list, err := s.Skills().List(ctx)
	require.NoError(t, err)
	list[0].Name = "mutated"

	list, err = s.Skills().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Go", list[0].Name)
}

// slowList holds its first List call after reading until release closes.
type slowList struct {
	Collection[models.Skill]
	calls   atomic.Int32
	read    chan struct{}
	release chan struct{}
}

func (l *slowList) List(ctx context.Context) ([]models.Skill, error) {
	rows, err := l.Collection.List(ctx)
	if l.calls.Add(1) == 1 {
		close(l.read)
		<-l.release
	}
	return rows, err
}

func TestCachedListSkipsFillAfterConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	inner := &slowList{
		Collection: NewMemoryStore().Skills(),
		read:       make(chan struct{}),
		release:    make(chan struct{}),
	}
	cc := newCachedCollection[models.Skill](inner, newGenerations(cache.New(time.Minute, time.Minute)), "skills")

	stale := make(chan []models.Skill, 1)
	go func() {
		rows, _ := cc.List(ctx)
		stale <- rows
	}()

	<-inner.read
	require.NoError(t, cc.Create(ctx, &models.Skill{Name: "Go", Category: "Backend Development", Level: 1}))
	close(inner.release)
	assert.Empty(t, <-stale)

	list, err := cc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCachedProfileSkipsFillAfterConcurrentSave(t *testing.T) {
	ctx := context.Background()
	s := NewCachedStore(NewMemoryStore(), time.Minute)
	_, err := s.SaveProfile(ctx, func(p *models.Profile) error { p.FirstName = "Old"; return nil })
	require.NoError(t, err)

	seen := s.gen.current(profileKey)
	_, err = s.SaveProfile(ctx, func(p *models.Profile) error { p.FirstName = "New"; return nil })
	require.NoError(t, err)
	s.gen.fill(profileKey, seen, profileKey, models.Profile{ID: models.ProfileID, FirstName: "Old"})

	p, err := s.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New", p.FirstName)
}
