// Package app builds the HTTP application: global middleware, route
// callbacks and the graceful listen/serve loop.
//
//	a := app.New().Routes(func(r *router.Router) {
//	    routes.Register(r, deps)
//	})
//	err := app.Serve(ctx, ":3001", a.Handler())
package app

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/pkg/middleware"
	"github.com/shashiranjanraj/bizadmin/pkg/router"
)

// Application collects route callbacks; build the handler with Handler.
type Application struct {
	routesFns []func(*router.Router)
	limiter   *middleware.RateLimiter
}

// New returns an application limited to RATE_LIMIT_PER_MINUTE requests per
// client IP.
func New() *Application {
	return &Application{
		limiter: middleware.NewRateLimiter(config.RateLimitPerMin(), time.Minute),
	}
}

// Routes registers a callback run when the router is built. Callbacks run
// in registration order.
func (a *Application) Routes(fn func(*router.Router)) *Application {
	a.routesFns = append(a.routesFns, fn)
	return a
}

// Limiter is the rate limiter used by the handler; run its sweeper for the
// lifetime of the server.
func (a *Application) Limiter() *middleware.RateLimiter { return a.limiter }

// PrintRoutes writes r's routes as a table (route:list).
func PrintRoutes(w io.Writer, r *router.Router) error {
	routes := r.Routes()
	if len(routes) == 0 {
		_, err := fmt.Fprintln(w, "No routes registered.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "METHOD\tPATH\tNAME")
	fmt.Fprintln(tw, "------\t----\t----")
	for _, ri := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return tw.Flush()
}
