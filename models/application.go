package models

// Application is a client application showcased on a project page
type Application struct {
	ID        uint   `json:"id" gorm:"primaryKey;not null"`
	Name      string `json:"name" gorm:"size:32;not null"`
	URL       string `json:"url" gorm:"size:128;not null"`
	ImgURL    string `json:"img_url" gorm:"size:128;not null"`
	Desc      string `json:"desc" gorm:"column:description;type:text;not null"`
	ProjectID uint   `json:"project_id" gorm:"not null;index:idx_application_project_id"`
}

func (Application) Caption() string { return "Application" }

func (a Application) String() string { return a.Name }

func (a *Application) PrimaryKey() uint { return a.ID }

func (a *Application) OwnerID() uint { return a.ProjectID }

func (a *Application) SetOwner(projectID uint) { a.ProjectID = projectID }
