package cmd

import (
	"context"
	"fmt"
	"log"

	"archoops/config"
	"archoops/database"
	"archoops/events"
	"archoops/repository"
	"archoops/scheduler"
	"archoops/scoring"
	"archoops/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting archoops settlement service...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	settlementService := service.NewSettlementService(uowFactory, scoring.Score)
	completionService := service.NewCompletionService(uowFactory, settlementService)

	// Initialize the settlement sweep scheduler
	sched, err := scheduler.New(completionService, cfg.SweepCronSpec, cfg.StaleReportCronSpec)
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}
	sched.Start()

	// Wait for context cancellation
	log.Printf("Settlement service is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down...")
	sched.Stop()

	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
