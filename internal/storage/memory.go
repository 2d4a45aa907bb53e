package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// MemoryStore keeps everything in process memory. Contents are lost on exit;
// it backs the "memory://" database URL and the tests.
type MemoryStore struct {
	mu     sync.Mutex
	nextID uint
	now    func() time.Time

	users    map[uint]models.User
	profile  *models.Profile
	sessions map[string]models.Session

	skills      *memCollection[models.Skill, *models.Skill]
	experiences *memCollection[models.Experience, *models.Experience]
	projects    *memCollection[models.Project, *models.Project]
	education   *memCollection[models.Education, *models.Education]
	activities  *memCollection[models.Activity, *models.Activity]
	contacts    *memCollection[models.Contact, *models.Contact]
	articles    *memCollection[models.Article, *models.Article]
	pricing     *memCollection[models.Pricing, *models.Pricing]
	sessionView *memSessions
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		nextID:   1,
		now:      time.Now,
		users:    make(map[uint]models.User),
		sessions: make(map[string]models.Session),
	}
	s.skills = newMemCollection[models.Skill](s, byID[models.Skill]())
	s.experiences = newMemCollection[models.Experience](s, experienceOrder)
	s.projects = newMemCollection[models.Project](s, projectOrder)
	s.education = newMemCollection[models.Education](s, byID[models.Education]())
	s.activities = newMemCollection[models.Activity](s, byID[models.Activity]())
	s.contacts = newMemCollection[models.Contact](s, contactOrder)
	s.articles = newMemCollection[models.Article](s, articleOrder)
	s.pricing = newMemCollection[models.Pricing](s, byID[models.Pricing]())
	s.sessionView = &memSessions{s: s}
	return s
}

// allocID must be called with mu held.
func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) User(_ context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return ErrDuplicate
		}
	}
	u.ID = s.allocID()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) CountUsers(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *MemoryStore) Profile(context.Context) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil, ErrNotFound
	}
	p := *s.profile
	return &p, nil
}

func (s *MemoryStore) SaveProfile(_ context.Context, apply func(*models.Profile) error) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Profile{ID: models.ProfileID}
	if s.profile != nil {
		p = *s.profile
	}
	if err := apply(&p); err != nil {
		return nil, err
	}
	p.ID = models.ProfileID
	s.profile = &p
	out := p
	return &out, nil
}

func (s *MemoryStore) Skills() Collection[models.Skill]           { return s.skills }
func (s *MemoryStore) Experiences() Collection[models.Experience] { return s.experiences }
func (s *MemoryStore) Projects() Collection[models.Project]       { return s.projects }
func (s *MemoryStore) Education() Collection[models.Education]    { return s.education }
func (s *MemoryStore) Activities() Collection[models.Activity]    { return s.activities }
func (s *MemoryStore) Contacts() Collection[models.Contact]       { return s.contacts }
func (s *MemoryStore) Articles() Collection[models.Article]       { return s.articles }
func (s *MemoryStore) Pricing() Collection[models.Pricing]        { return s.pricing }
func (s *MemoryStore) Sessions() SessionStore                     { return s.sessionView }

func (s *MemoryStore) PublishedArticles(context.Context) ([]models.Article, error) {
	return s.articles.sorted(func(a *models.Article) bool { return a.Published }), nil
}

func (s *MemoryStore) ActivePricing(context.Context) ([]models.Pricing, error) {
	return s.pricing.sorted(func(p *models.Pricing) bool { return p.IsActive }), nil
}

type memCollection[T any, PT interface {
	*T
	models.Entity
}] struct {
	s     *MemoryStore
	rows  map[uint]T
	order ordering[T]
}

func newMemCollection[T any, PT interface {
	*T
	models.Entity
}](s *MemoryStore, order ordering[T]) *memCollection[T, PT] {
	return &memCollection[T, PT]{s: s, rows: make(map[uint]T), order: order}
}

func (c *memCollection[T, PT]) sorted(keep func(*T) bool) []T {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := make([]T, 0, len(c.rows))
	for _, row := range c.rows {
		if keep == nil || keep(&row) {
			out = append(out, row)
		}
	}
	slices.SortFunc(out, func(a, b T) int {
		if c.order.compare != nil {
			if r := c.order.compare(&a, &b); r != 0 {
				return r
			}
		}
		return cmp.Compare(PT(&a).GetID(), PT(&b).GetID())
	})
	return out
}

func (c *memCollection[T, PT]) List(context.Context) ([]T, error) {
	return c.sorted(nil), nil
}

func (c *memCollection[T, PT]) Get(_ context.Context, id uint) (*T, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	row, ok := c.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (c *memCollection[T, PT]) Create(_ context.Context, item *T) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	PT(item).SetID(c.s.allocID())
	if ts, ok := any(item).(models.Timestamped); ok {
		ts.Touch(c.s.now())
	}
	c.rows[PT(item).GetID()] = *item
	return nil
}

func (c *memCollection[T, PT]) Update(_ context.Context, id uint, apply func(*T) error) (*T, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	row, ok := c.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := apply(&row); err != nil {
		return nil, err
	}
	PT(&row).SetID(id)
	if ts, ok := any(&row).(models.Timestamped); ok {
		ts.Touch(c.s.now())
	}
	c.rows[id] = row
	out := row
	return &out, nil
}

func (c *memCollection[T, PT]) Delete(_ context.Context, id uint) (bool, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.rows[id]; !ok {
		return false, nil
	}
	delete(c.rows, id)
	return true, nil
}

type memSessions struct {
	s *MemoryStore
}

func (m *memSessions) Create(_ context.Context, sess *models.Session) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.sessions[sess.Token]; ok {
		return ErrDuplicate
	}
	sess.ID = m.s.allocID()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = m.s.now()
	}
	m.s.sessions[sess.Token] = *sess
	return nil
}

func (m *memSessions) ByToken(_ context.Context, token string) (*models.Session, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sess, ok := m.s.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (m *memSessions) Delete(_ context.Context, token string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.sessions[token]; !ok {
		return false, nil
	}
	delete(m.s.sessions, token)
	return true, nil
}

func (m *memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for token, sess := range m.s.sessions {
		if sess.Expired(now) {
			delete(m.s.sessions, token)
			n++
		}
	}
	return n, nil
}
