package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/cyberwarfare/assets"
	"github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/server/core"
	"github.com/automoto/cyberwarfare/shared/protocol"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Persisted tuning first, so flags still win over it
	store, err := config.OpenStore("cyberwarfare")
	if err != nil {
		log.Printf("Tuning store unavailable: %v", err)
	} else if err := store.Load(); err != nil {
		log.Printf("Failed to load tuning overrides: %v", err)
	}

	port := flag.Uint("port", config.Server.Port, "Server port")
	tickRate := flag.Int("tickrate", config.Server.TickRate, "Server tick rate (updates per second)")
	name := flag.String("name", config.Server.Name, "Server display name")
	version := flag.String("version", config.Server.Version, "Required client version (empty = accept any)")
	arenaDir := flag.String("assets", config.Server.ArenaDir, "Directory containing the arenas/ folder (empty = embedded arenas)")
	arena := flag.String("arena", config.Server.Arena, "Arena to host")
	master := flag.String("master", config.Server.MasterURL, "Master server URL (empty = do not register)")
	address := flag.String("address", "", "Public address announced to the master server")
	region := flag.String("region", config.Server.Region, "Region announced to the master server")
	record := flag.String("record", "", "Write a msgpack recording of every snapshot delta to this file")
	saveTuning := flag.Bool("save-tuning", false, "Persist the effective tuning to the settings store and continue")
	flag.Parse()

	if *saveTuning && store != nil {
		if err := store.Save(); err != nil {
			log.Printf("Failed to save tuning: %v", err)
		}
	}

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	arenaFS := assets.Arenas()
	if *arenaDir != "" {
		arenaFS = os.DirFS(*arenaDir)
	}
	levels, names, err := core.LoadAllServerLevels(arenaFS)
	if err != nil {
		log.Fatalf("Failed to load arenas: %v", err)
	}
	level, ok := levels[*arena]
	if !ok {
		log.Fatalf("Unknown arena %q, available: %v", *arena, names)
	}

	server := core.NewServer(level, *tickRate, *name, *version)

	if *record != "" {
		f, err := os.Create(*record)
		if err != nil {
			log.Fatalf("Failed to create recording: %v", err)
		}
		defer f.Close()
		server.SetRecorder(core.NewRecorder(f))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx, *port)
	})

	if *master != "" {
		addr := *address
		if addr == "" {
			addr = fmt.Sprintf("localhost:%d", *port)
		}
		reg := core.NewRegistration(*master, *name, addr, *version, *region,
			config.Server.MaxCombatants, time.Duration(config.Server.Heartbeat*float64(time.Second)), server)
		reg.SetMatch(*arena, server.Authority().MatchID())
		g.Go(func() error {
			return reg.Run(ctx)
		})
	}

	log.Printf("Starting Cyberwarfare server %q on port %d (arena: %s, tick rate: %d/s, version: %s)",
		*name, *port, *arena, *tickRate, *version)

	if err := g.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Shutting down server...")
}
