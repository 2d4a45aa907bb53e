package storage

import (
	"cmp"

	"gorm.io/gorm/clause"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
)

// ordering describes a list order once for both backends. A nil compare
// falls back to ascending id.
type ordering[T any] struct {
	columns []clause.OrderByColumn
	compare func(a, b *T) int
}

func column(name string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: name}, Desc: desc}
}

// trueFirst orders true before false.
func trueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func byID[T any]() ordering[T] {
	return ordering[T]{columns: []clause.OrderByColumn{column("id", false)}}
}

var experienceOrder = ordering[models.Experience]{
	columns: []clause.OrderByColumn{column("current", true), column("id", true)},
	compare: func(a, b *models.Experience) int {
		if c := trueFirst(a.Current, b.Current); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	},
}

var projectOrder = ordering[models.Project]{
	columns: []clause.OrderByColumn{column("featured", true), column("id", false)},
	compare: func(a, b *models.Project) int {
		if c := trueFirst(a.Featured, b.Featured); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	},
}

var contactOrder = ordering[models.Contact]{
	columns: []clause.OrderByColumn{column("created_at", true), column("id", true)},
	compare: func(a, b *models.Contact) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	},
}

var articleOrder = ordering[models.Article]{
	columns: []clause.OrderByColumn{column("created_at", true), column("id", true)},
	compare: func(a, b *models.Article) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	},
}
