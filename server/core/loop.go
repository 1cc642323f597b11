package core

import (
	"context"
	"log"
	"time"
)

// GameLoop drives the server tick at a fixed rate. Each tick advances the
// authority clock by exactly one tick interval.
type GameLoop struct {
	server   *Server
	tickRate int
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	if tickRate < 1 {
		tickRate = 1
	}
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
	}
}

// Interval is the simulated time covered by one tick, in seconds.
func (g *GameLoop) Interval() float64 {
	return 1 / float64(g.tickRate)
}

func (g *GameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	log.Printf("Game loop started at %d ticks/second", g.tickRate)

	dt := g.Interval()
	for {
		select {
		case <-ctx.Done():
			log.Println("Game loop stopped")
			return nil
		case <-ticker.C:
			g.server.tick(dt)
		}
	}
}
