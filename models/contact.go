package models

// Contact is a person to reach about a project
type Contact struct {
	ID        uint   `json:"id" gorm:"primaryKey;not null"`
	Name      string `json:"name" gorm:"size:32;not null"`
	Email     string `json:"email" gorm:"size:128;not null"`
	ProjectID uint   `json:"project_id" gorm:"not null;index:idx_contact_project_id"`
}

func (Contact) Caption() string { return "Contact" }

func (c Contact) String() string { return c.Name }

func (c *Contact) PrimaryKey() uint { return c.ID }

func (c *Contact) OwnerID() uint { return c.ProjectID }

func (c *Contact) SetOwner(projectID uint) { c.ProjectID = projectID }
