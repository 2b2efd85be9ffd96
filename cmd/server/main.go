package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"circle-arena/internal/api"
	"circle-arena/internal/config"
	"circle-arena/internal/game"
	"circle-arena/internal/render"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	} else {
		log.Println("✅ Loaded environment from ../.env")
	}

	log.Println("🎮 ================================")
	log.Println("🎮  CIRCLE ARENA - MATCH SERVER")
	log.Println("🎮 ================================")

	appConfig := config.Load()
	serverCfg := appConfig.Server
	limits := appConfig.Limits

	rules := game.DefaultRules()
	rules.MaxWalls = limits.MaxWalls

	engine := game.NewEngine(rules, game.EngineOptions{
		Seed:              appConfig.Match.Seed,
		MaxPendingActions: limits.MaxPendingActions,
	})
	engine.OnTick = api.RecordTick
	api.RecordMatchStarted()

	log.Printf("🎮 Config: %d TPS, %.0fx%.0f arena, %d weapons", rules.TickRate, rules.Width, rules.Height, rules.Catalog.Len())
	log.Printf("🛡️ Resource limits: %d walls, %d pending actions, %d viewers",
		limits.MaxWalls, limits.MaxPendingActions, limits.MaxWSClients)

	if path := appConfig.Match.EventLogPath; path != "" {
		if err := engine.StartEventLog(path); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", path)
		}
	}

	debugCfg := api.DefaultObservabilityConfig()
	debugCfg.Enabled = appConfig.Debug.Enabled
	debugCfg.ListenAddr = appConfig.Debug.Addr
	if err := api.StartDebugServer(debugCfg); err != nil {
		log.Printf("⚠️ Debug server disabled: %v", err)
	}

	server := api.NewServer(engine, api.ServerOptions{
		BroadcastInterval: serverCfg.BroadcastInterval(),
		MaxWSClients:      limits.MaxWSClients,
		Frames:            render.NewRasterizer(int(rules.Width), int(rules.Height)),
	})
	engine.SetCallbacks(server.Hub().BroadcastEvent)

	// Event log counters are pulled, not pushed from the flush goroutine
	statsDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				api.UpdateEventLogStats(engine.GetEventLogStats())
			case <-statsDone:
				return
			}
		}
	}()

	engine.Start()
	log.Println("✅ Game Engine started")

	go func() {
		addr := ":" + strconv.Itoa(serverCfg.Port)
		log.Printf("🌐 API server on http://localhost%s", addr)
		log.Printf("🖼️ Live frame: http://localhost%s/api/frame.png", addr)
		log.Printf("📡 WebSocket: ws://localhost%s/ws", addr)

		if err := server.Start(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Server ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}

	engine.Stop()
	close(statsDone)
	engine.StopEventLog()
	api.UpdateEventLogStats(engine.GetEventLogStats())

	info := engine.Info()
	log.Printf("📊 Match %s: %s after %d ticks, %d shots, %d hits", info.ID, info.State, info.Tick, info.Shots, info.Hits)
	log.Println("👋 Goodbye!")
}
