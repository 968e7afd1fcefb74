package database

import (
	"errors"

	"github.com/rpupo63/research-project-pages/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo struct {
	Records[models.User]
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{NewRecords[models.User](db)}
}

// FindAll returns all users ordered by name
func (r *UserRepo) FindAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("name").Find(&users).Error
	return users, err
}

// FindByEmail returns the user with the given email, or nil when there is none
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Projects returns the projects the user manages
func (r *UserRepo) Projects(user *models.User) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Model(user).Order("name").Association("Projects").Find(&projects)
	return projects, err
}

// SetProjects replaces the set of projects the user manages
func (r *UserRepo) SetProjects(user *models.User, projectIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return setProjects(tx, user, projectIDs)
	})
}

// CreateWithProjects inserts user and assigns its projects. Nothing is written if either
// step fails.
func (r *UserRepo) CreateWithProjects(user *models.User, projectIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		return setProjects(tx, user, projectIDs)
	})
}

// SaveWithProjects updates user and replaces its projects. Nothing is written if either
// step fails.
func (r *UserRepo) SaveWithProjects(user *models.User, projectIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		return setProjects(tx, user, projectIDs)
	})
}

func setProjects(tx *gorm.DB, user *models.User, projectIDs []uint) error {
	if len(projectIDs) == 0 {
		return tx.Model(user).Association("Projects").Clear()
	}
	var projects []models.Project
	if err := tx.Where("id IN ?", projectIDs).Find(&projects).Error; err != nil {
		return err
	}
	return tx.Model(user).Association("Projects").Replace(projects)
}
