package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// GormStore keeps every table in one relational database.
type GormStore struct {
	db *gorm.DB

	skills      *gormCollection[models.Skill]
	experiences *gormCollection[models.Experience]
	projects    *gormCollection[models.Project]
	education   *gormCollection[models.Education]
	activities  *gormCollection[models.Activity]
	contacts    *gormCollection[models.Contact]
	articles    *gormCollection[models.Article]
	pricing     *gormCollection[models.Pricing]
	sessions    *gormSessions
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:          db,
		skills:      &gormCollection[models.Skill]{db: db, order: byID[models.Skill]()},
		experiences: &gormCollection[models.Experience]{db: db, order: experienceOrder},
		projects:    &gormCollection[models.Project]{db: db, order: projectOrder},
		education:   &gormCollection[models.Education]{db: db, order: byID[models.Education]()},
		activities:  &gormCollection[models.Activity]{db: db, order: byID[models.Activity]()},
		contacts:    &gormCollection[models.Contact]{db: db, order: contactOrder},
		articles:    &gormCollection[models.Article]{db: db, order: articleOrder},
		pricing:     &gormCollection[models.Pricing]{db: db, order: byID[models.Pricing]()},
		sessions:    &gormSessions{db: db},
	}
}

// Migrate creates or updates every table.
func (s *GormStore) Migrate() error {
	err := s.db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Profile{},
		&models.Skill{},
		&models.Experience{},
		&models.Project{},
		&models.Education{},
		&models.Activity{},
		&models.Contact{},
		&models.Article{},
		&models.Pricing{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) User(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (s *GormStore) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := s.db.WithContext(ctx).Order("id").First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, apply func(*models.Profile) error) (*models.Profile, error) {
	var p models.Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("id").First(&p).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p = models.Profile{ID: models.ProfileID}
			if err := apply(&p); err != nil {
				return err
			}
			return tx.Create(&p).Error
		}
		if err != nil {
			return err
		}
		if err := apply(&p); err != nil {
			return err
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *GormStore) Skills() Collection[models.Skill]           { return s.skills }
func (s *GormStore) Experiences() Collection[models.Experience] { return s.experiences }
func (s *GormStore) Projects() Collection[models.Project]       { return s.projects }
func (s *GormStore) Education() Collection[models.Education]    { return s.education }
func (s *GormStore) Activities() Collection[models.Activity]    { return s.activities }
func (s *GormStore) Contacts() Collection[models.Contact]       { return s.contacts }
func (s *GormStore) Articles() Collection[models.Article]       { return s.articles }
func (s *GormStore) Pricing() Collection[models.Pricing]        { return s.pricing }
func (s *GormStore) Sessions() SessionStore                     { return s.sessions }

func (s *GormStore) PublishedArticles(ctx context.Context) ([]models.Article, error) {
	return s.articles.where(ctx, "published = ?", true)
}

func (s *GormStore) ActivePricing(ctx context.Context) ([]models.Pricing, error) {
	return s.pricing.where(ctx, "is_active = ?", true)
}

type gormCollection[T any] struct {
	db    *gorm.DB
	order ordering[T]
}

func (c *gormCollection[T]) ordered(ctx context.Context) *gorm.DB {
	q := c.db.WithContext(ctx)
	for _, col := range c.order.columns {
		q = q.Order(col)
	}
	return q
}

func (c *gormCollection[T]) List(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	if err := c.ordered(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *gormCollection[T]) where(ctx context.Context, query string, args ...any) ([]T, error) {
	rows := make([]T, 0)
	if err := c.ordered(ctx).Where(query, args...).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *gormCollection[T]) Get(ctx context.Context, id uint) (*T, error) {
	var item T
	if err := c.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (c *gormCollection[T]) Create(ctx context.Context, item *T) error {
	return c.db.WithContext(ctx).Create(item).Error
}

func (c *gormCollection[T]) Update(ctx context.Context, id uint, apply func(*T) error) (*T, error) {
	var item T
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			return translate(err)
		}
		if err := apply(&item); err != nil {
			return err
		}
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *gormCollection[T]) Delete(ctx context.Context, id uint) (bool, error) {
	res := c.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

type gormSessions struct {
	db *gorm.DB
}

func (g *gormSessions) Create(ctx context.Context, s *models.Session) error {
	if err := g.db.WithContext(ctx).Create(s).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (g *gormSessions) ByToken(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	if err := g.db.WithContext(ctx).Where("token = ?", token).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *gormSessions) Delete(ctx context.Context, token string) (bool, error) {
	res := g.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (g *gormSessions) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := g.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
