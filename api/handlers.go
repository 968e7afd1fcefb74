package api

import (
	"time"

	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, sessions *auth.Manager, views *views, uploader storage.Uploader, startupTime time.Time) *routeHandlers {
	access := newAccess(database.ProjectRepo())
	return &routeHandlers{
		projectHandler: newProjectHandler(database, access, sessions, views),
		itemHandler:    newItemHandler(database, access, sessions, views, uploader),
		userHandler:    newUserHandler(database, sessions, views),
		authHandler:    newAuthHandler(database.UserRepo(), sessions, views),
		healthHandler:  newHealthHandler(database, startupTime, views),
	}
}
