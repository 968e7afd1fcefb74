package database

import (
	"github.com/rpupo63/research-project-pages/models"
	"gorm.io/gorm"
)

type PublicationRepo struct {
	Records[models.Publication]
}

func NewPublicationRepo(db *gorm.DB) *PublicationRepo {
	return &PublicationRepo{NewRecords[models.Publication](db)}
}

type ApplicationRepo struct {
	Records[models.Application]
}

func NewApplicationRepo(db *gorm.DB) *ApplicationRepo {
	return &ApplicationRepo{NewRecords[models.Application](db)}
}

type InterfaceRepo struct {
	Records[models.Interface]
}

func NewInterfaceRepo(db *gorm.DB) *InterfaceRepo {
	return &InterfaceRepo{NewRecords[models.Interface](db)}
}

// Params returns the parameters documented for the interface
func (r *InterfaceRepo) Params(api *models.Interface) ([]models.Parameter, error) {
	var params []models.Parameter
	err := r.db.Where("api_id = ?", api.ID).Order("id").Find(&params).Error
	return params, err
}

// DeleteWithParams removes the interface together with its parameters. Nothing is removed
// if either statement fails.
func (r *InterfaceRepo) DeleteWithParams(api *models.Interface) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("api_id = ?", api.ID).Delete(&models.Parameter{}).Error; err != nil {
			return err
		}
		return tx.Delete(api).Error
	})
}

type ParameterRepo struct {
	Records[models.Parameter]
}

func NewParameterRepo(db *gorm.DB) *ParameterRepo {
	return &ParameterRepo{NewRecords[models.Parameter](db)}
}

type DownloadRepo struct {
	Records[models.Download]
}

func NewDownloadRepo(db *gorm.DB) *DownloadRepo {
	return &DownloadRepo{NewRecords[models.Download](db)}
}

type ContactRepo struct {
	Records[models.Contact]
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{NewRecords[models.Contact](db)}
}
