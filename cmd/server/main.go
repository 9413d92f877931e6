package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goenv "github.com/Netflix/go-env"
	"github.com/gin-gonic/gin"
	"github.com/mama165/sdk-go/logs"

	"matchroom/api"
	"matchroom/domain"
	"matchroom/gateway"
	"matchroom/runtime"
	"matchroom/runtime/workers"
	"matchroom/services"
	"matchroom/sink"
	"matchroom/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	var config Config
	if _, err := goenv.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	charReplacement, err := config.CharacterRune()
	if err != nil {
		return err
	}

	// 2. Pools: one store per surface, same component, different policy.
	realtimeStore := store.New(store.Options{Capacity: config.RoomCapacity})
	restStore := store.New(store.Options{
		Capacity:    config.RestCapacity,
		GlobalNames: true,
		DeleteEmpty: true,
	})

	// 3. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(
		log, sup, registry, realtimeStore,
		config.BufferSize, config.SinkTimeout, config.HeartbeatPeriod,
		charReplacement,
	)
	timeline := sink.NewTimeline(domain.HistoryLimit)
	orchestrator.Add(timeline)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the Engine
	if err = orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}

	// 6. HTTP Server Setup: REST pool routes + the websocket endpoint.
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	roomService := services.NewRoomService(log, restStore)
	api.NewHandler(log, roomService).RegisterRoutes(router)

	wsHandler := gateway.NewHandler(log, orchestrator, gateway.SocketConfig{
		WriteWait:      config.WriteWait,
		PongWait:       config.PongWait,
		PingInterval:   config.PingInterval,
		MaxMessageSize: config.MaxMessageSize,
		SendBufferSize: config.SendBufferSize,
	})
	router.GET("/ws", gin.WrapH(wsHandler))

	// Debug surfaces for the realtime pool.
	router.GET("/debug/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, orchestrator.Stats())
	})
	router.GET("/debug/timeline", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"messages": timeline.Messages()})
	})

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: router}

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	orchestrator.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
