package models

// Profile is the singleton row holding the site owner's identity and page copy.
type Profile struct {
	ID                     uint   `gorm:"primaryKey" json:"id"`
	FirstName              string `gorm:"size:100" json:"firstName"`
	LastName               string `gorm:"size:100" json:"lastName"`
	Title                  string `gorm:"size:100" json:"title"`
	Email                  string `gorm:"size:100" json:"email"`
	Phone                  string `gorm:"size:50" json:"phone"`
	Location               string `gorm:"size:100" json:"location"`
	HeroDescription        string `gorm:"type:text" json:"heroDescription"`
	AboutTitle             string `gorm:"size:255" json:"aboutTitle"`
	AboutDescription1      string `gorm:"column:about_description_1;type:text" json:"aboutDescription1"`
	AboutDescription2      string `gorm:"column:about_description_2;type:text" json:"aboutDescription2"`
	AboutDescription3      string `gorm:"column:about_description_3;type:text" json:"aboutDescription3"`
	ProfileImage           string `gorm:"size:255" json:"profileImage"`
	GithubURL              string `gorm:"column:github_url;size:255" json:"githubUrl"`
	LinkedinURL            string `gorm:"column:linkedin_url;size:255" json:"linkedinUrl"`
	TwitterURL             string `gorm:"column:twitter_url;size:255" json:"twitterUrl"`
	TiktokURL              string `gorm:"column:tiktok_url;size:255" json:"tiktokUrl"`
	InstagramURL           string `gorm:"column:instagram_url;size:255" json:"instagramUrl"`
	ContactHeading         string `gorm:"size:255" json:"contactHeading"`
	ContactDescription     string `gorm:"type:text" json:"contactDescription"`
	ContactMainHeading     string `gorm:"size:255" json:"contactMainHeading"`
	ContactMainDescription string `gorm:"type:text" json:"contactMainDescription"`
	ContactSubHeading      string `gorm:"size:255" json:"contactSubHeading"`
	ContactSubDescription  string `gorm:"type:text" json:"contactSubDescription"`
	ExperienceYears        int    `gorm:"default:0" json:"experienceYears"`
	ProjectsCompleted      int    `gorm:"default:0" json:"projectsCompleted"`
}

func (Profile) TableName() string { return "profile" }

// ProfileID is the primary key of the singleton profile row.
const ProfileID = 1

type ProfilePatch struct {
	FirstName              *string `json:"firstName" validate:"omitempty,max=100"`
	LastName               *string `json:"lastName" validate:"omitempty,max=100"`
	Title                  *string `json:"title" validate:"omitempty,max=100"`
	Email                  *string `json:"email" validate:"omitempty,email,max=100"`
	Phone                  *string `json:"phone" validate:"omitempty,max=50"`
	Location               *string `json:"location" validate:"omitempty,max=100"`
	HeroDescription        *string `json:"heroDescription"`
	AboutTitle             *string `json:"aboutTitle" validate:"omitempty,max=255"`
	AboutDescription1      *string `json:"aboutDescription1"`
	AboutDescription2      *string `json:"aboutDescription2"`
	AboutDescription3      *string `json:"aboutDescription3"`
	ProfileImage           *string `json:"profileImage" validate:"omitempty,max=255"`
	GithubURL              *string `json:"githubUrl" validate:"omitempty,max=255"`
	LinkedinURL            *string `json:"linkedinUrl" validate:"omitempty,max=255"`
	TwitterURL             *string `json:"twitterUrl" validate:"omitempty,max=255"`
	TiktokURL              *string `json:"tiktokUrl" validate:"omitempty,max=255"`
	InstagramURL           *string `json:"instagramUrl" validate:"omitempty,max=255"`
	ContactHeading         *string `json:"contactHeading" validate:"omitempty,max=255"`
	ContactDescription     *string `json:"contactDescription"`
	ContactMainHeading     *string `json:"contactMainHeading" validate:"omitempty,max=255"`
	ContactMainDescription *string `json:"contactMainDescription"`
	ContactSubHeading      *string `json:"contactSubHeading" validate:"omitempty,max=255"`
	ContactSubDescription  *string `json:"contactSubDescription"`
	ExperienceYears        *int    `json:"experienceYears" validate:"omitempty,gte=0"`
	ProjectsCompleted      *int    `json:"projectsCompleted" validate:"omitempty,gte=0"`
}

// Validate checks only present fields: the profile is always edited in place.
func (p *ProfilePatch) Validate(bool) error {
	return check("profile", p, true)
}

func (p *ProfilePatch) Apply(dst *Profile) {
	set(&dst.FirstName, p.FirstName)
	set(&dst.LastName, p.LastName)
	set(&dst.Title, p.Title)
	set(&dst.Email, p.Email)
	set(&dst.Phone, p.Phone)
	set(&dst.Location, p.Location)
	set(&dst.HeroDescription, p.HeroDescription)
	set(&dst.AboutTitle, p.AboutTitle)
	set(&dst.AboutDescription1, p.AboutDescription1)
	set(&dst.AboutDescription2, p.AboutDescription2)
	set(&dst.AboutDescription3, p.AboutDescription3)
	set(&dst.ProfileImage, p.ProfileImage)
	set(&dst.GithubURL, p.GithubURL)
	set(&dst.LinkedinURL, p.LinkedinURL)
	set(&dst.TwitterURL, p.TwitterURL)
	set(&dst.TiktokURL, p.TiktokURL)
	set(&dst.InstagramURL, p.InstagramURL)
	set(&dst.ContactHeading, p.ContactHeading)
	set(&dst.ContactDescription, p.ContactDescription)
	set(&dst.ContactMainHeading, p.ContactMainHeading)
	set(&dst.ContactMainDescription, p.ContactMainDescription)
	set(&dst.ContactSubHeading, p.ContactSubHeading)
	set(&dst.ContactSubDescription, p.ContactSubDescription)
	set(&dst.ExperienceYears, p.ExperienceYears)
	set(&dst.ProjectsCompleted, p.ProjectsCompleted)
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}
