package app

import (
	"net/http"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/metrics"
	"github.com/shashiranjanraj/bizadmin/pkg/middleware"
	"github.com/shashiranjanraj/bizadmin/pkg/reqid"
	"github.com/shashiranjanraj/bizadmin/pkg/response"
	"github.com/shashiranjanraj/bizadmin/pkg/router"
)

// Router builds a router with the global middleware and every registered
// route.
func (a *Application) Router() *router.Router {
	r := router.New()

	// Outermost first:
	//  1. metrics, so latency includes everything below
	//  2. recovery, before anything can panic
	//  3. request id, before anything logs
	//  4. request logger
	//  5. CORS, so preflights are answered before the limiter
	//  6. rate limiter
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.CORSAllowedOrigins())))
	r.Use(a.limiter.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	for _, fn := range a.routesFns {
		fn(r)
	}
	return r
}

func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}
