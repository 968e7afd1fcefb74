package database

import (
	"errors"

	"github.com/rpupo63/research-project-pages/models"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	Records[models.Project]
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{NewRecords[models.Project](db)}
}

// FindAll returns all projects ordered by name
func (r *ProjectRepo) FindAll() ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Order("name").Find(&projects).Error
	return projects, err
}

// FindBySlug returns the project whose short name is slug, or nil when there is none
func (r *ProjectRepo) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("short_name = ?", slug).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// IsManager reports whether the user manages the project
func (r *ProjectRepo) IsManager(project *models.Project, userID uint) (bool, error) {
	if project == nil || userID == 0 {
		return false, nil
	}
	var n int64
	err := r.db.Table("project_managers").
		Where("project_id = ? AND user_id = ?", project.ID, userID).
		Count(&n).Error
	return n > 0, err
}

// Managers returns the users managing the project
func (r *ProjectRepo) Managers(project *models.Project) ([]models.User, error) {
	var users []models.User
	err := r.db.Model(project).Order("name").Association("Managers").Find(&users)
	return users, err
}

// LoadChildren fills the project's publications, applications, web APIs, downloads and contacts
func (r *ProjectRepo) LoadChildren(project *models.Project) error {
	byID := func(db *gorm.DB) *gorm.DB { return db.Order("id") }
	return r.db.
		Preload("Publications", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC, id") }).
		Preload("Applications", byID).
		Preload("Interfaces", byID).
		Preload("Interfaces.Params", byID).
		Preload("Downloads", byID).
		Preload("Contacts", byID).
		First(project, project.ID).Error
}
