package models

import "time"

type Article struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"` // markdown
	Excerpt   string     `gorm:"type:text" json:"excerpt"`
	Image     string     `gorm:"size:255" json:"image"`
	Tags      StringList `gorm:"type:text" json:"tags"`
	Published bool       `gorm:"default:false;index" json:"published"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (a *Article) GetID() uint   { return a.ID }
func (a *Article) SetID(id uint) { a.ID = id }

type ArticlePatch struct {
	Title     *string     `json:"title" validate:"required,min=1,max=255"`
	Content   *string     `json:"content" validate:"required,min=1"`
	Excerpt   *string     `json:"excerpt"`
	Image     *string     `json:"image" validate:"omitempty,max=255"`
	Tags      *StringList `json:"tags"`
	Published *bool       `json:"published"`
}

func (p *ArticlePatch) Validate(partial bool) error { return check("article", p, partial) }

func (p *ArticlePatch) Apply(dst *Article) {
	set(&dst.Title, p.Title)
	set(&dst.Content, p.Content)
	set(&dst.Excerpt, p.Excerpt)
	set(&dst.Image, p.Image)
	set(&dst.Tags, p.Tags)
	set(&dst.Published, p.Published)
}

// Touch stamps creation and modification times.
func (a *Article) Touch(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
}
