package master

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRegistryExpiresSilentServers(t *testing.T) {
	reg := NewRegistry(time.Minute)
	now := time.Unix(1000, 0)
	reg.now = func() time.Time { return now }

	stale := reg.Register(ServerInfo{Name: "stale"})
	fresh := reg.Register(ServerInfo{Name: "fresh"})

	now = now.Add(45 * time.Second)
	if !reg.Heartbeat(fresh, 4) {
		t.Fatal("heartbeat for a known server failed")
	}
	now = now.Add(30 * time.Second)

	if n := reg.Expire(); n != 1 {
		t.Fatalf("expected 1 expiry, got %d", n)
	}
	list := reg.List()
	if len(list) != 1 || list[0].ID != fresh || list[0].Players != 4 {
		t.Fatalf("unexpected list %+v", list)
	}
	if reg.Heartbeat(stale, 1) {
		t.Fatal("heartbeat for an expired server succeeded")
	}
}

func TestHandlersRegisterListAndFilter(t *testing.T) {
	srv := httptest.NewServer(NewMux(NewRegistry(time.Minute)))
	defer srv.Close()

	for _, body := range []registerRequest{
		{Name: "a", Address: "a:1", Arena: "duel", MaxPlayers: 2},
		{Name: "b", Address: "b:1", Arena: "yard", MaxPlayers: 8},
	} {
		raw, _ := json.Marshal(body)
		resp, err := http.Post(srv.URL+"/servers/register", "application/json", bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
	}

	resp, err := http.Get(srv.URL + "/servers?arena=duel")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defer resp.Body.Close()
	var servers []ServerInfo
	if err := json.NewDecoder(resp.Body).Decode(&servers); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(servers) != 1 || servers[0].Name != "a" {
		t.Fatalf("unexpected filtered list %+v", servers)
	}
}

func TestHandlersRejectBadInput(t *testing.T) {
	srv := httptest.NewServer(NewMux(NewRegistry(time.Minute)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/servers/register", "application/json", bytes.NewReader([]byte(`{"name":""}`)))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/servers/heartbeat", "application/json", bytes.NewReader([]byte(`{"id":"nope"}`)))
	if err != nil {
		t.Fatalf("heartbeat: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListArenaFiltersAndSorts(t *testing.T) {
	reg := NewRegistry(time.Minute)
	reg.Register(ServerInfo{Name: "zulu", Arena: "duel"})
	reg.Register(ServerInfo{Name: "alpha", Arena: "duel"})
	reg.Register(ServerInfo{Name: "mike", Arena: "yard"})

	duel := reg.ListArena("duel")
	if len(duel) != 2 || duel[0].Name != "alpha" || duel[1].Name != "zulu" {
		t.Fatalf("unexpected duel listing %+v", duel)
	}
	if all := reg.List(); len(all) != 3 || all[1].Name != "mike" {
		t.Fatalf("unexpected full listing %+v", all)
	}
	if none := reg.ListArena("void"); len(none) != 0 {
		t.Fatalf("expected no servers, got %+v", none)
	}
}
