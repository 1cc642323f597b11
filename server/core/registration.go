package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// PlayerCounter reports how many participants the server currently hosts.
type PlayerCounter interface {
	PlayerCount() int
}

// Registration handles registering and heartbeating with the master server.
type Registration struct {
	masterURL  string
	mu         sync.Mutex
	serverID   string
	name       string
	address    string
	version    string
	region     string
	arena      string
	matchID    string
	maxPlayers int
	interval   time.Duration
	counter    PlayerCounter
	client     *http.Client
}

type regRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Arena      string `json:"arena"`
	MatchID    string `json:"matchId"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type regResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

func NewRegistration(masterURL, name, address, version, region string, maxPlayers int, interval time.Duration, counter PlayerCounter) *Registration {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Registration{
		masterURL:  masterURL,
		name:       name,
		address:    address,
		version:    version,
		region:     region,
		maxPlayers: maxPlayers,
		interval:   interval,
		counter:    counter,
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// SetMatch announces the hosted arena and match alongside the server.
func (r *Registration) SetMatch(arena, matchID string) {
	r.arena = arena
	r.matchID = matchID
}

// ServerID is the id the master assigned, or "" before registration succeeds.
func (r *Registration) ServerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.serverID
}

// Run registers and then heartbeats until ctx is cancelled. Master failures
// are logged, never returned.
func (r *Registration) Run(ctx context.Context) error {
	if err := r.register(ctx); err != nil {
		log.Printf("[registration] initial registration failed: %v", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.sendHeartbeat(ctx); err != nil {
				log.Printf("[registration] heartbeat failed: %v", err)
			}
		}
	}
}

func (r *Registration) register(ctx context.Context) error {
	body, err := json.Marshal(regRequest{
		Name:       r.name,
		Address:    r.address,
		Arena:      r.arena,
		MatchID:    r.matchID,
		Players:    r.counter.PlayerCount(),
		MaxPlayers: r.maxPlayers,
		Version:    r.version,
		Region:     r.region,
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.post(ctx, "/servers/register", body)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result regResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	r.mu.Lock()
	r.serverID = result.ID
	r.mu.Unlock()
	log.Printf("[registration] registered with master (id=%s)", result.ID)
	return nil
}

func (r *Registration) sendHeartbeat(ctx context.Context) error {
	id := r.ServerID()
	if id == "" {
		return r.register(ctx)
	}

	body, err := json.Marshal(heartbeatRequest{
		ID:      id,
		Players: r.counter.PlayerCount(),
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.post(ctx, "/servers/heartbeat", body)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		log.Println("[registration] master lost our registration, re-registering")
		return r.register(ctx)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return nil
}

func (r *Registration) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.masterURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return r.client.Do(req)
}
