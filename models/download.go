package models

type Download struct {
	ID        uint   `json:"id" gorm:"primaryKey;not null"`
	URL       string `json:"url" gorm:"size:128;not null"`
	Name      string `json:"name" gorm:"size:32;not null"`
	ProjectID uint   `json:"project_id" gorm:"not null;index:idx_download_project_id"`
}

func (Download) Caption() string { return "Download" }

func (d Download) String() string { return d.Name }

func (d *Download) PrimaryKey() uint { return d.ID }

func (d *Download) OwnerID() uint { return d.ProjectID }

func (d *Download) SetOwner(projectID uint) { d.ProjectID = projectID }
