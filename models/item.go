package models

// Item is a record that can be listed, edited and deleted through the generic item routes.
type Item interface {
	Caption() string
	String() string
	PrimaryKey() uint
}

// ProjectItem is an Item owned directly by a project.
type ProjectItem interface {
	Item
	OwnerID() uint
	SetOwner(projectID uint)
}
