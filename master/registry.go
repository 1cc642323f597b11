// Package master is the match directory combat servers register with and
// observers browse.
package master

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ServerInfo describes a combat server visible to observers.
type ServerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Arena      string `json:"arena"`
	MatchID    string `json:"matchId"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type serverRecord struct {
	ServerInfo
	LastSeen time.Time
}

// Registry is an in-memory store of active combat servers with TTL-based expiry.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*serverRecord
	ttl     time.Duration
	now     func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		servers: make(map[string]*serverRecord),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *Registry) Register(info ServerInfo) string {
	info.ID = uuid.NewString()

	r.mu.Lock()
	r.servers[info.ID] = &serverRecord{
		ServerInfo: info,
		LastSeen:   r.now(),
	}
	r.mu.Unlock()

	return info.ID
}

func (r *Registry) Heartbeat(id string, players int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.servers[id]
	if !ok {
		return false
	}
	rec.LastSeen = r.now()
	rec.Players = players
	return true
}

// List returns the registered servers sorted by name.
func (r *Registry) List() []ServerInfo {
	return r.ListArena("")
}

// ListArena returns the servers hosting arena, or every server when arena is
// empty, sorted by name.
func (r *Registry) ListArena(arena string) []ServerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ServerInfo, 0, len(r.servers))
	for _, rec := range r.servers {
		if arena != "" && rec.Arena != arena {
			continue
		}
		result = append(result, rec.ServerInfo)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Expire drops servers that have not sent a heartbeat within the TTL and
// returns how many were removed.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, rec := range r.servers {
		if now.Sub(rec.LastSeen) >= r.ttl {
			log.Printf("[master] expired server %q (id=%s, last seen %s ago)",
				rec.Name, id, now.Sub(rec.LastSeen).Round(time.Second))
			delete(r.servers, id)
			removed++
		}
	}
	return removed
}

// Run expires stale servers every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Expire()
		}
	}
}
