package models

import "time"

type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	Subject   string    `gorm:"size:255;not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (c *Contact) GetID() uint   { return c.ID }
func (c *Contact) SetID(id uint) { c.ID = id }

func (c *Contact) Touch(now time.Time) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
}

// ContactPatch is only ever used for creation; contact messages are immutable.
type ContactPatch struct {
	Name    *string `json:"name" validate:"required,min=1,max=100"`
	Email   *string `json:"email" validate:"required,email,max=100"`
	Subject *string `json:"subject" validate:"required,min=1,max=255"`
	Message *string `json:"message" validate:"required,min=1"`
}

func (p *ContactPatch) Validate(partial bool) error { return check("contact", p, partial) }

func (p *ContactPatch) Apply(dst *Contact) {
	set(&dst.Name, p.Name)
	set(&dst.Email, p.Email)
	set(&dst.Subject, p.Subject)
	set(&dst.Message, p.Message)
}
