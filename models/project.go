package models

import "time"

// Project represents a research project page, addressed publicly by its ShortName
type Project struct {
	ID         uint      `json:"id" gorm:"primaryKey;not null"`
	Name       string    `json:"name" gorm:"size:32;not null"`
	ShortName  string    `json:"short_name" gorm:"size:16;not null;uniqueIndex:idx_project_short_name"`
	ShortDesc  string    `json:"short_desc" gorm:"size:128;not null"`
	Desc       string    `json:"desc" gorm:"column:description;type:text;not null"`
	APIDesc    string    `json:"api_desc" gorm:"column:api_description;type:text;not null"`
	GithubURL  *string   `json:"github_url,omitempty" gorm:"size:128"`
	UpdateDate time.Time `json:"update_date" gorm:"not null;autoUpdateTime"`

	Publications []Publication `json:"pubs,omitempty" gorm:"foreignKey:ProjectID;references:ID"`
	Applications []Application `json:"apps,omitempty" gorm:"foreignKey:ProjectID;references:ID"`
	Interfaces   []Interface   `json:"apis,omitempty" gorm:"foreignKey:ProjectID;references:ID"`
	Downloads    []Download    `json:"downloads,omitempty" gorm:"foreignKey:ProjectID;references:ID"`
	Contacts     []Contact     `json:"contacts,omitempty" gorm:"foreignKey:ProjectID;references:ID"`
	Managers     []User        `json:"-" gorm:"many2many:project_managers;"`
}

func (Project) Caption() string { return "Project" }

func (p Project) String() string { return p.Name }

func (p *Project) PrimaryKey() uint { return p.ID }

// GithubLink returns the GitHub URL or the empty string when none is set.
func (p Project) GithubLink() string {
	if p.GithubURL == nil {
		return ""
	}
	return *p.GithubURL
}
