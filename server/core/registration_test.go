package core

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/automoto/cyberwarfare/master"
)

type fixedCount int

func (c fixedCount) PlayerCount() int { return int(c) }

func TestRegistrationRegistersAndHeartbeats(t *testing.T) {
	var mu sync.Mutex
	var registered regRequest
	heartbeats := make(chan heartbeatRequest, 8)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/servers/register":
			mu.Lock()
			_ = json.NewDecoder(r.Body).Decode(&registered)
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(regResponse{ID: "srv-1"})
		case "/servers/heartbeat":
			var hb heartbeatRequest
			_ = json.NewDecoder(r.Body).Decode(&hb)
			select {
			case heartbeats <- hb:
			default:
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	reg := NewRegistration(srv.URL, "arena", "127.0.0.1:7373", "1.0", "eu", 16, 10*time.Millisecond, fixedCount(3))
	reg.SetMatch("duel", "match-1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx) }()

	select {
	case hb := <-heartbeats:
		if hb.ID != "srv-1" || hb.Players != 3 {
			t.Fatalf("unexpected heartbeat %+v", hb)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no heartbeat received")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run returned %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if registered.Name != "arena" || registered.MaxPlayers != 16 || registered.Players != 3 ||
		registered.Arena != "duel" || registered.MatchID != "match-1" {
		t.Fatalf("unexpected registration %+v", registered)
	}
}

func TestRegistrationListedByDirectory(t *testing.T) {
	dir := master.NewRegistry(time.Minute)
	srv := httptest.NewServer(master.NewMux(dir))
	defer srv.Close()

	reg := NewRegistration(srv.URL, "arena", "127.0.0.1:7373", "1.0", "eu", 2, 10*time.Millisecond, fixedCount(1))
	reg.SetMatch("duel", "match-2")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		list := dir.List()
		if len(list) == 1 && list[0].ID == reg.ServerID() {
			if list[0].Arena != "duel" || list[0].MatchID != "match-2" || list[0].MaxPlayers != 2 {
				t.Fatalf("unexpected listing %+v", list[0])
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("server never listed, got %+v", list)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done
}
