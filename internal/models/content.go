package models

import "time"

// Entity is implemented by every record with a numeric primary key.
type Entity interface {
	GetID() uint
	SetID(uint)
}

// Timestamped records carry createdAt/updatedAt columns. The SQL backend
// fills them through GORM; other backends call Touch on every write.
type Timestamped interface {
	Touch(now time.Time)
}

// SkillCategories is the closed set of skill groupings shown on the site.
var SkillCategories = []string{
	"Frontend Development",
	"Backend Development",
	"Database & Tools",
	"DevOps & Cloud",
	"Mobile Development",
	"Design & UI/UX",
}

const (
	EducationDegree        = "degree"
	EducationCertification = "certification"
)

type Skill struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Category string `gorm:"size:100;not null" json:"category"`
	Level    int    `gorm:"not null" json:"level"`
	Icon     string `gorm:"size:100" json:"icon"`
}

func (s *Skill) GetID() uint   { return s.ID }
func (s *Skill) SetID(id uint) { s.ID = id }

type SkillPatch struct {
	Name     *string `json:"name" validate:"required,min=1,max=100"`
	Category *string `json:"category" validate:"required,skillcategory"`
	Level    *int    `json:"level" validate:"required,gte=0,lte=100"`
	Icon     *string `json:"icon" validate:"omitempty,max=100"`
}

func (p *SkillPatch) Validate(partial bool) error { return check("skill", p, partial) }

func (p *SkillPatch) Apply(dst *Skill) {
	set(&dst.Name, p.Name)
	set(&dst.Category, p.Category)
	set(&dst.Level, p.Level)
	set(&dst.Icon, p.Icon)
}

type Experience struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Company      string     `gorm:"size:255;not null" json:"company"`
	Period       string     `gorm:"size:100;not null" json:"period"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Technologies StringList `gorm:"type:text" json:"technologies"`
	Current      bool       `gorm:"default:false" json:"current"`
}

func (e *Experience) GetID() uint   { return e.ID }
func (e *Experience) SetID(id uint) { e.ID = id }

type ExperiencePatch struct {
	Title        *string     `json:"title" validate:"required,min=1,max=255"`
	Company      *string     `json:"company" validate:"required,min=1,max=255"`
	Period       *string     `json:"period" validate:"required,min=1,max=100"`
	Description  *string     `json:"description" validate:"required,min=1"`
	Technologies *StringList `json:"technologies"`
	Current      *bool       `json:"current"`
}

func (p *ExperiencePatch) Validate(partial bool) error { return check("experience", p, partial) }

func (p *ExperiencePatch) Apply(dst *Experience) {
	set(&dst.Title, p.Title)
	set(&dst.Company, p.Company)
	set(&dst.Period, p.Period)
	set(&dst.Description, p.Description)
	set(&dst.Technologies, p.Technologies)
	set(&dst.Current, p.Current)
}

type Project struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Image        string     `gorm:"size:255" json:"image"`
	Technologies StringList `gorm:"type:text" json:"technologies"`
	LiveURL      string     `gorm:"column:live_url;size:255" json:"liveUrl"`
	GithubURL    string     `gorm:"column:github_url;size:255" json:"githubUrl"`
	Featured     bool       `gorm:"default:false" json:"featured"`
}

func (p *Project) GetID() uint   { return p.ID }
func (p *Project) SetID(id uint) { p.ID = id }

type ProjectPatch struct {
	Title        *string     `json:"title" validate:"required,min=1,max=255"`
	Description  *string     `json:"description" validate:"required,min=1"`
	Image        *string     `json:"image" validate:"omitempty,max=255"`
	Technologies *StringList `json:"technologies"`
	LiveURL      *string     `json:"liveUrl" validate:"omitempty,max=255"`
	GithubURL    *string     `json:"githubUrl" validate:"omitempty,max=255"`
	Featured     *bool       `json:"featured"`
}

func (p *ProjectPatch) Validate(partial bool) error { return check("project", p, partial) }

func (p *ProjectPatch) Apply(dst *Project) {
	set(&dst.Title, p.Title)
	set(&dst.Description, p.Description)
	set(&dst.Image, p.Image)
	set(&dst.Technologies, p.Technologies)
	set(&dst.LiveURL, p.LiveURL)
	set(&dst.GithubURL, p.GithubURL)
	set(&dst.Featured, p.Featured)
}

type Education struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Degree      string `gorm:"size:255;not null" json:"degree"`
	Institution string `gorm:"size:255;not null" json:"institution"`
	Period      string `gorm:"size:100;not null" json:"period"`
	Description string `gorm:"type:text" json:"description"`
	Type        string `gorm:"size:100;not null" json:"type"`
}

func (Education) TableName() string { return "education" }

func (e *Education) GetID() uint   { return e.ID }
func (e *Education) SetID(id uint) { e.ID = id }

type EducationPatch struct {
	Degree      *string `json:"degree" validate:"required,min=1,max=255"`
	Institution *string `json:"institution" validate:"required,min=1,max=255"`
	Period      *string `json:"period" validate:"required,min=1,max=100"`
	Description *string `json:"description"`
	Type        *string `json:"type" validate:"required,oneof=degree certification"`
}

func (p *EducationPatch) Validate(partial bool) error { return check("education", p, partial) }

func (p *EducationPatch) Apply(dst *Education) {
	set(&dst.Degree, p.Degree)
	set(&dst.Institution, p.Institution)
	set(&dst.Period, p.Period)
	set(&dst.Description, p.Description)
	set(&dst.Type, p.Type)
}

type Activity struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Icon        string `gorm:"size:100" json:"icon"`
	URL         string `gorm:"column:url;size:255" json:"url"`
}

func (a *Activity) GetID() uint   { return a.ID }
func (a *Activity) SetID(id uint) { a.ID = id }

type ActivityPatch struct {
	Title       *string `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"required,min=1"`
	Icon        *string `json:"icon" validate:"omitempty,max=100"`
	URL         *string `json:"url" validate:"omitempty,max=255"`
}

func (p *ActivityPatch) Validate(partial bool) error { return check("activity", p, partial) }

func (p *ActivityPatch) Apply(dst *Activity) {
	set(&dst.Title, p.Title)
	set(&dst.Description, p.Description)
	set(&dst.Icon, p.Icon)
	set(&dst.URL, p.URL)
}
