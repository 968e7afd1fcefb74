package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	itemHandler    itemHandler
	userHandler    userHandler
	authHandler    authHandler
	healthHandler  healthHandler
}

// viewData is the template context of a page. The responder adds CurrentUser and Flashes.
type viewData map[string]any

// section lists the children of one type on an edit page.
type section struct {
	Title  string
	AddURL string
	Items  []sectionItem
}

type sectionItem struct {
	Label     string
	EditURL   string
	DeleteURL string
}

// healthResponse is returned by /healthz
type healthResponse struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}
