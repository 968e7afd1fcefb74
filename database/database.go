package database

import (
	"context"
	"fmt"

	"github.com/rpupo63/research-project-pages/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Database struct {
	db              *gorm.DB
	projectRepo     *ProjectRepo
	userRepo        *UserRepo
	publicationRepo *PublicationRepo
	applicationRepo *ApplicationRepo
	interfaceRepo   *InterfaceRepo
	parameterRepo   *ParameterRepo
	downloadRepo    *DownloadRepo
	contactRepo     *ContactRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:              db,
		projectRepo:     NewProjectRepo(db),
		userRepo:        NewUserRepo(db),
		publicationRepo: NewPublicationRepo(db),
		applicationRepo: NewApplicationRepo(db),
		interfaceRepo:   NewInterfaceRepo(db),
		parameterRepo:   NewParameterRepo(db),
		downloadRepo:    NewDownloadRepo(db),
		contactRepo:     NewContactRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) PublicationRepo() *PublicationRepo {
	return d.publicationRepo
}

func (d Database) ApplicationRepo() *ApplicationRepo {
	return d.applicationRepo
}

func (d Database) InterfaceRepo() *InterfaceRepo {
	return d.interfaceRepo
}

func (d Database) ParameterRepo() *ParameterRepo {
	return d.parameterRepo
}

func (d Database) DownloadRepo() *DownloadRepo {
	return d.downloadRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

// Migrate creates or alters every table, parents first.
func (d Database) Migrate() error {
	if err := d.db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrating: %w", err)
	}
	return nil
}

// EnsureAdmin creates an admin account for email unless one exists, and promotes an existing
// account to admin. It is a no-op when email or pwd is empty.
func (d Database) EnsureAdmin(email, name, pwd string) error {
	if email == "" || pwd == "" {
		return nil
	}
	user, err := d.userRepo.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("looking up admin %s: %w", email, err)
	}
	if user != nil {
		if user.IsAdmin {
			return nil
		}
		user.IsAdmin = true
		log.Info().Str("email", email).Msg("Promoting existing user to admin")
		return d.userRepo.Save(user)
	}

	user = &models.User{Email: email, Name: name, IsAdmin: true}
	if err := user.SetPassword(pwd); err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	log.Info().Str("email", email).Msg("Creating admin user")
	return d.userRepo.Create(user)
}

// Ping checks that the database answers.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (d Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
