package storage

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

const (
	profileKey   = "profile"
	publishedKey = "articles:published"
	activeKey    = "pricing:active"
)

// CachedStore serves repeated public reads from memory. Any write to a
// collection drops every cached entry of that collection. Users and
// sessions always go to the wrapped store.
type CachedStore struct {
	Store
	c   *cache.Cache
	gen *generations

	skills      *cachedCollection[models.Skill]
	experiences *cachedCollection[models.Experience]
	projects    *cachedCollection[models.Project]
	education   *cachedCollection[models.Education]
	activities  *cachedCollection[models.Activity]
	contacts    *cachedCollection[models.Contact]
	articles    *cachedCollection[models.Article]
	pricing     *cachedCollection[models.Pricing]
}

func NewCachedStore(inner Store, ttl time.Duration) *CachedStore {
	c := cache.New(ttl, 2*ttl)
	g := newGenerations(c)
	return &CachedStore{
		Store:       inner,
		c:           c,
		gen:         g,
		skills:      newCachedCollection(inner.Skills(), g, "skills"),
		experiences: newCachedCollection(inner.Experiences(), g, "experiences"),
		projects:    newCachedCollection(inner.Projects(), g, "projects"),
		education:   newCachedCollection(inner.Education(), g, "education"),
		activities:  newCachedCollection(inner.Activities(), g, "activities"),
		contacts:    newCachedCollection(inner.Contacts(), g, "contacts"),
		articles:    newCachedCollection(inner.Articles(), g, "articles"),
		pricing:     newCachedCollection(inner.Pricing(), g, "pricing"),
	}
}

func (s *CachedStore) Skills() Collection[models.Skill]           { return s.skills }
func (s *CachedStore) Experiences() Collection[models.Experience] { return s.experiences }
func (s *CachedStore) Projects() Collection[models.Project]       { return s.projects }
func (s *CachedStore) Education() Collection[models.Education]    { return s.education }
func (s *CachedStore) Activities() Collection[models.Activity]    { return s.activities }
func (s *CachedStore) Contacts() Collection[models.Contact]       { return s.contacts }
func (s *CachedStore) Articles() Collection[models.Article]       { return s.articles }
func (s *CachedStore) Pricing() Collection[models.Pricing]        { return s.pricing }

func (s *CachedStore) Profile(ctx context.Context) (*models.Profile, error) {
	seen := s.gen.current(profileKey)
	if v, ok := s.c.Get(profileKey); ok {
		p := v.(models.Profile)
		return &p, nil
	}
	p, err := s.Store.Profile(ctx)
	if err != nil {
		return nil, err
	}
	s.gen.fill(profileKey, seen, profileKey, *p)
	return p, nil
}

func (s *CachedStore) SaveProfile(ctx context.Context, apply func(*models.Profile) error) (*models.Profile, error) {
	defer s.gen.invalidate(profileKey)
	return s.Store.SaveProfile(ctx, apply)
}

func (s *CachedStore) PublishedArticles(ctx context.Context) ([]models.Article, error) {
	return cachedList(s.gen, "articles", publishedKey, func() ([]models.Article, error) {
		return s.Store.PublishedArticles(ctx)
	})
}

func (s *CachedStore) ActivePricing(ctx context.Context) ([]models.Pricing, error) {
	return cachedList(s.gen, "pricing", activeKey, func() ([]models.Pricing, error) {
		return s.Store.ActivePricing(ctx)
	})
}

// Flush drops every cached entry.
func (s *CachedStore) Flush() { s.gen.flush() }

// generations counts writes per prefix. A read that missed only fills the
// cache when no write to its prefix finished while it was fetching, so a
// slow reader cannot put rows back that a write already replaced.
type generations struct {
	mu    sync.Mutex
	c     *cache.Cache
	n     map[string]uint64
	epoch uint64 // bumped by flush
}

func newGenerations(c *cache.Cache) *generations {
	return &generations{c: c, n: make(map[string]uint64)}
}

func (g *generations) current(prefix string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.n[prefix] + g.epoch
}

func (g *generations) fill(prefix string, seen uint64, key string, v any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.n[prefix]+g.epoch == seen {
		g.c.SetDefault(key, v)
	}
}

// invalidate removes key prefix itself and every "<prefix>:" entry, which
// covers lists, per-id entries and derived views such as
// "articles:published".
func (g *generations) invalidate(prefix string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n[prefix]++
	g.c.Delete(prefix)
	p := prefix + ":"
	for k := range g.c.Items() {
		if strings.HasPrefix(k, p) {
			g.c.Delete(k)
		}
	}
}

func (g *generations) flush() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.epoch++
	g.c.Flush()
}

func cachedList[T any](g *generations, prefix, key string, fetch func() ([]T, error)) ([]T, error) {
	seen := g.current(prefix)
	if v, ok := g.c.Get(key); ok {
		return slices.Clone(v.([]T)), nil
	}
	rows, err := fetch()
	if err != nil {
		return nil, err
	}
	g.fill(prefix, seen, key, slices.Clone(rows))
	return rows, nil
}

type cachedCollection[T any] struct {
	inner  Collection[T]
	gen    *generations
	prefix string
}

func newCachedCollection[T any](inner Collection[T], g *generations, prefix string) *cachedCollection[T] {
	return &cachedCollection[T]{inner: inner, gen: g, prefix: prefix}
}

func (cc *cachedCollection[T]) key(suffix string) string {
	return cc.prefix + ":" + suffix
}

func (cc *cachedCollection[T]) List(ctx context.Context) ([]T, error) {
	return cachedList(cc.gen, cc.prefix, cc.key("list"), func() ([]T, error) {
		return cc.inner.List(ctx)
	})
}

func (cc *cachedCollection[T]) Get(ctx context.Context, id uint) (*T, error) {
	seen := cc.gen.current(cc.prefix)
	k := cc.key(strconv.FormatUint(uint64(id), 10))
	if v, ok := cc.gen.c.Get(k); ok {
		item := v.(T)
		return &item, nil
	}
	item, err := cc.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cc.gen.fill(cc.prefix, seen, k, *item)
	return item, nil
}

func (cc *cachedCollection[T]) Create(ctx context.Context, item *T) error {
	defer cc.gen.invalidate(cc.prefix)
	return cc.inner.Create(ctx, item)
}

func (cc *cachedCollection[T]) Update(ctx context.Context, id uint, apply func(*T) error) (*T, error) {
	defer cc.gen.invalidate(cc.prefix)
	return cc.inner.Update(ctx, id, apply)
}

func (cc *cachedCollection[T]) Delete(ctx context.Context, id uint) (bool, error) {
	defer cc.gen.invalidate(cc.prefix)
	return cc.inner.Delete(ctx, id)
}
