// Package routes declares every HTTP route of the admin API.
package routes

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bizadmin/app/controllers"
	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/pkg/auth"
	"github.com/shashiranjanraj/bizadmin/pkg/ctx"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
	"github.com/shashiranjanraj/bizadmin/pkg/middleware"
	"github.com/shashiranjanraj/bizadmin/pkg/rbac"
	"github.com/shashiranjanraj/bizadmin/pkg/router"
)

// Deps are the collaborators the routes hand requests to. Nil handlers
// leave their route unmounted.
type Deps struct {
	DB       *gorm.DB
	Services *services.Services
	Auth     bool // require an admin token on mutations

	Events  http.Handler // SSE change feed
	History http.Handler // websocket chat feed
	GraphQL http.Handler
	Storage http.Handler // local disk files
}

// Register mounts the API on r.
func Register(r *router.Router, d Deps) {
	home := controllers.NewHomeController(d.DB)
	foods := controllers.NewFoodController(d.Services.Foods)
	leads := controllers.NewLeadController(d.Services.Leads)
	products := controllers.NewProductController(d.Services.Products)
	chat := controllers.NewChatController(d.Services.Chat)

	var mutating []router.Middleware
	if d.Auth {
		mutating = []router.Middleware{middleware.Authenticate, rbac.HasRole(auth.RoleAdmin)}
	}

	r.Get("/", "home", ctx.Wrap(home.Index))
	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api")
	if d.Auth {
		login := controllers.NewAuthController(d.Services.Auth)
		api.Post("/auth/login", "auth.login", ctx.Handle(login.Login))
	}
	api.Resource("/food", "food", foods.Handlers(), mutating...)
	api.Resource("/leads", "leads", leads.Handlers(), mutating...)
	api.Resource("/products", "products", products.Handlers(), mutating...)
	api.Post("/products/{id}/image", "products.image", ctx.Handle(products.UploadImage), mutating...)

	r.Post("/session", "chat.session", ctx.Handle(chat.NewSession))
	r.Post("/chat", "chat.send", ctx.Handle(chat.Chat))
	r.Get("/history", "chat.history", ctx.Handle(chat.History))
	r.Get("/sessions-summary", "chat.summary", ctx.Handle(chat.SessionsSummary))
	r.Get("/session/{id}", "chat.show", ctx.Handle(chat.Session))

	if d.Events != nil {
		r.Get("/events", "events", d.Events.ServeHTTP)
	}
	if d.History != nil {
		r.Get("/ws/history", "history.ws", d.History.ServeHTTP)
	}
	if d.GraphQL != nil {
		r.Get("/graphql", "graphql.get", d.GraphQL.ServeHTTP)
		r.Post("/graphql", "graphql", d.GraphQL.ServeHTTP)
	}
	if d.Storage != nil {
		r.Mount("/storage", "storage", d.Storage)
	}
}
