package models

import "gorm.io/datatypes"

type Publication struct {
	ID        uint           `json:"id" gorm:"primaryKey;not null"`
	Title     string         `json:"title" gorm:"size:128;not null"`
	Authors   string         `json:"authors" gorm:"size:128;not null"`
	Publisher string         `json:"publisher" gorm:"size:128;not null"`
	Date      datatypes.Date `json:"date" gorm:"not null"`
	ProjectID uint           `json:"project_id" gorm:"not null;index:idx_publication_project_id"`
}

func (Publication) Caption() string { return "Publication" }

func (p Publication) String() string { return p.Title }

func (p *Publication) PrimaryKey() uint { return p.ID }

func (p *Publication) OwnerID() uint { return p.ProjectID }

func (p *Publication) SetOwner(projectID uint) { p.ProjectID = projectID }
