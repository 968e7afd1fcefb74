package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes registers the public pages, the sign-in flow and the editing routes
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, csrfGuard csrfGuard) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(csrfGuard.Middleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/healthz", handlers.healthHandler.healthz())

		// Public pages
		r.Get("/", handlers.projectHandler.index())
		r.Get("/project/{slug}", handlers.projectHandler.showProject())

		r.Get("/signin", handlers.authHandler.signin())
		r.Post("/signin", handlers.authHandler.signin())

		// Signed-in routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireLogin)

			r.Get("/signout", handlers.authHandler.signout())

			r.Get("/projects", handlers.projectHandler.listProjects())
			r.Get("/project/new", handlers.projectHandler.createProject())
			r.Post("/project/new", handlers.projectHandler.createProject())
			r.Get("/project/{slug}/edit", handlers.projectHandler.editProject())
			r.Post("/project/{slug}/edit", handlers.projectHandler.editProject())

			r.Get("/project/{slug}/edit/{itemType}", handlers.itemHandler.editItem())
			r.Post("/project/{slug}/edit/{itemType}", handlers.itemHandler.editItem())
			r.Get("/project/{slug}/delete/{itemType}", handlers.itemHandler.deleteItem())

			r.Get("/users", handlers.userHandler.listUsers())
			r.Get("/user/new", handlers.userHandler.createUser())
			r.Post("/user/new", handlers.userHandler.createUser())
			r.Get("/user/{userID}/edit", handlers.userHandler.editUser())
			r.Post("/user/{userID}/edit", handlers.userHandler.editUser())
		})
	})
}
