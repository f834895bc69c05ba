package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bizadmin/app/services"
	"github.com/shashiranjanraj/bizadmin/config"
	"github.com/shashiranjanraj/bizadmin/internal/server"
	"github.com/shashiranjanraj/bizadmin/pkg/broker"
	"github.com/shashiranjanraj/bizadmin/pkg/cache"
	"github.com/shashiranjanraj/bizadmin/pkg/database"
	"github.com/shashiranjanraj/bizadmin/pkg/queue"

	_ "github.com/shashiranjanraj/bizadmin/app/jobs"
)

var queueWorkersFlag int

// bizadmin queue:work runs workers against the redis queue shared with the
// server.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start queue workers on the redis queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cache.Connect(ctx); err != nil {
			return err
		}
		if cache.RDB == nil {
			return fmt.Errorf("queue:work needs REDIS_ADDR; the memory queue only lives inside serve")
		}
		if err := broker.Connect(config.KafkaBrokers(), config.KafkaTopic()); err != nil {
			return err
		}
		defer broker.Default.Close()

		q := queue.Default()
		q.SetDriver(queue.NewRedisDriver(ctx, cache.RDB))
		if err := bootDB(); err == nil {
			q.UseStore(queue.GormFailedStore{DB: database.DB})
			defer database.Close()
		}

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 4
		}
		fmt.Printf("Queue worker started (%d workers). Press Ctrl+C to stop.\n", workers)
		q.StartWorkers(ctx, workers).Wait()
		fmt.Println("Queue worker stopped.")
		return nil
	},
}

// bizadmin schedule:run
var scheduleRunCmd = &cobra.Command{
	Use:   "schedule:run",
	Short: "Start the task scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		sched := server.Schedule(database.DB, services.New(database.DB))
		fmt.Println("Registered scheduled tasks:")
		for _, t := range sched.List() {
			fmt.Println("  -", t)
		}
		sched.Start(ctx)
		<-ctx.Done()
		sched.Wait()
		fmt.Println("Scheduler stopped.")
		return nil
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 4, "number of concurrent workers")
}
