package models

import "time"

type Pricing struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Price       int        `gorm:"not null" json:"price"`
	Currency    string     `gorm:"size:10;not null;default:USD" json:"currency"`
	Period      string     `gorm:"size:50;not null" json:"period"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Features    StringList `gorm:"type:text" json:"features"`
	IsActive    bool       `gorm:"index" json:"isActive"`
	IsPremium   bool       `json:"isPremium"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (Pricing) TableName() string { return "pricing" }

func (p *Pricing) GetID() uint   { return p.ID }
func (p *Pricing) SetID(id uint) { p.ID = id }

// SetDefaults mirrors the column defaults: USD, active.
func (p *Pricing) SetDefaults() {
	p.Currency = "USD"
	p.IsActive = true
}

type PricingPatch struct {
	Price       *LooseInt   `json:"price" validate:"required,gte=0"`
	Currency    *string     `json:"currency" validate:"omitempty,max=10"`
	Period      *string     `json:"period" validate:"required,min=1,max=50"`
	Title       *string     `json:"title" validate:"required,min=1,max=255"`
	Description *string     `json:"description" validate:"required,min=1"`
	Features    *StringList `json:"features"`
	IsActive    *bool       `json:"isActive"`
	IsPremium   *bool       `json:"isPremium"`
}

func (p *PricingPatch) Validate(partial bool) error { return check("pricing", p, partial) }

func (p *PricingPatch) Apply(dst *Pricing) {
	if p.Price != nil {
		dst.Price = int(*p.Price)
	}
	if p.Currency != nil && *p.Currency != "" {
		dst.Currency = *p.Currency
	}
	set(&dst.Period, p.Period)
	set(&dst.Title, p.Title)
	set(&dst.Description, p.Description)
	set(&dst.Features, p.Features)
	set(&dst.IsActive, p.IsActive)
	set(&dst.IsPremium, p.IsPremium)
}

func (p *Pricing) Touch(now time.Time) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}
