package models

import "fmt"

// HTTP methods an Interface may document.
var Methods = []string{"GET", "POST", "PUT", "DELETE"}

// Interface documents one endpoint of a project's web API
type Interface struct {
	ID        uint        `json:"id" gorm:"primaryKey;not null"`
	Method    string      `json:"method" gorm:"size:6;not null;check:chk_interface_method,method IN ('GET','POST','PUT','DELETE')"`
	Format    string      `json:"format" gorm:"size:128;not null"`
	Desc      string      `json:"desc" gorm:"column:description;type:text;not null"`
	Returns   string      `json:"returns" gorm:"type:text;not null"`
	Example   string      `json:"example" gorm:"type:text;not null"`
	ProjectID uint        `json:"project_id" gorm:"not null;index:idx_interface_project_id"`
	Params    []Parameter `json:"params,omitempty" gorm:"foreignKey:APIID;references:ID"`
}

func (Interface) Caption() string { return "Web API" }

func (i Interface) String() string { return fmt.Sprintf("[ %s ] %s", i.Method, i.Format) }

func (i *Interface) PrimaryKey() uint { return i.ID }

func (i *Interface) OwnerID() uint { return i.ProjectID }

func (i *Interface) SetOwner(projectID uint) { i.ProjectID = projectID }
