package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/cyberwarfare/master"
	"golang.org/x/sync/errgroup"
)

func main() {
	port := flag.Int("port", 8080, "HTTP listen port")
	ttl := flag.Duration("ttl", 90*time.Second, "Server TTL before expiry")
	flag.Parse()

	reg := master.NewRegistry(*ttl)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: master.NewMux(reg),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return reg.Run(ctx, 30*time.Second)
	})
	g.Go(func() error {
		log.Printf("[master] starting on %s (TTL=%s)", srv.Addr, *ttl)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("[master] fatal: %v", err)
	}
}
