package models

// Parameter belongs to an Interface rather than to a project; ownership of a project is
// resolved through the parent Interface.
type Parameter struct {
	ID    uint   `json:"id" gorm:"primaryKey;not null"`
	Name  string `json:"name" gorm:"size:32;not null"`
	Desc  string `json:"desc" gorm:"column:description;type:text;not null"`
	APIID uint   `json:"api_id" gorm:"column:api_id;not null;index:idx_parameter_api_id"`
}

func (Parameter) Caption() string { return "Parameter" }

func (p Parameter) String() string { return p.Name }

func (p *Parameter) PrimaryKey() uint { return p.ID }
