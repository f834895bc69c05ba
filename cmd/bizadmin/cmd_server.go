package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bizadmin/app/routes"
	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/internal/server"
	"github.com/shashiranjanraj/bizadmin/pkg/app"
	"github.com/shashiranjanraj/bizadmin/pkg/router"
)

// bizadmin serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server (and gRPC health server when GRPC_PORT is set)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := server.Boot(ctx)
		if err != nil {
			return err
		}
		return s.Run(ctx)
	},
}

// bizadmin route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every registered route",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Only the route table is needed, so nothing is connected.
		svcs := services.New(nil)
		a := app.New().Routes(func(r *router.Router) {
			routes.Register(r, routes.Deps{Services: svcs, Auth: config.AuthEnabled()})
		})
		return app.PrintRoutes(os.Stdout, a.Router())
	},
}
