package main

import (
	"errors"
	"log"

	"circle-arena/internal/config"
	"circle-arena/internal/game"
	"circle-arena/internal/sfx"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("💡 No .env file found, using environment variables only")
		}
	}

	appConfig := config.Load()

	rules := game.DefaultRules()
	rules.MaxWalls = appConfig.Limits.MaxWalls

	engine := game.NewEngine(rules, game.EngineOptions{Seed: appConfig.Match.Seed})

	if path := appConfig.Match.EventLogPath; path != "" {
		if err := engine.StartEventLog(path); err != nil {
			log.Printf("⚠️ Event log disabled: %v", err)
		} else {
			log.Printf("📝 Event log: %s", path)
		}
	}
	defer engine.StopEventLog()

	sounds := sfx.NewPlayer(appConfig.Audio)
	if err := sounds.Init(); err != nil {
		log.Printf("⚠️ Audio disabled: %v", err)
	}
	defer sounds.Close()
	engine.SetCallbacks(sounds.HandleEvent)

	scale := appConfig.Render.WindowScale
	ebiten.SetWindowSize(int(rules.Width*scale), int(rules.Height*scale))
	ebiten.SetWindowTitle(appConfig.Render.Title)
	ebiten.SetWindowResizable(true)
	ebiten.SetTPS(rules.TickRate)

	log.Printf("🎮 Match %s: WASD move, click fire, E build, G phase, 1/2 weapons, Esc quit", engine.MatchID())

	if err := ebiten.RunGame(newArenaGame(engine)); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}

	info := engine.Info()
	log.Printf("📊 Match %s: %s after %d ticks, %d shots, %d hits", info.ID, info.State, info.Tick, info.Shots, info.Hits)
}
