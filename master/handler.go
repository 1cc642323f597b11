package master

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

const maxRequestBody = 1 << 16

var errMissingFields = errors.New("name and address required")

type registerRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Arena      string `json:"arena"`
	MatchID    string `json:"matchId"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

func (r registerRequest) info() ServerInfo {
	return ServerInfo{
		Name:       r.Name,
		Address:    r.Address,
		Arena:      r.Arena,
		MatchID:    r.MatchID,
		Players:    r.Players,
		MaxPlayers: r.MaxPlayers,
		Version:    r.Version,
		Region:     r.Region,
	}
}

type registerResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

type statusResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// NewMux routes the directory API:
//
//	GET  /servers[?arena=name]  list servers, sorted by name
//	POST /servers/register      201 {id}
//	POST /servers/heartbeat     200, or 404 for an unknown or expired id
//	GET  /health
func NewMux(reg *Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /servers", ListServers(reg))
	mux.HandleFunc("POST /servers/register", RegisterServer(reg))
	mux.HandleFunc("POST /servers/heartbeat", Heartbeat(reg))
	mux.HandleFunc("GET /health", Health())
	return mux
}

func ListServers(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, reg.ListArena(r.URL.Query().Get("arena")))
	}
}

func RegisterServer(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Name == "" || req.Address == "" {
			writeJSON(w, http.StatusBadRequest, statusResponse{Error: errMissingFields.Error()})
			return
		}

		id := reg.Register(req.info())
		log.Printf("[master] registered server %q at %s arena=%s match=%s (id=%s)",
			req.Name, req.Address, req.Arena, req.MatchID, id)
		writeJSON(w, http.StatusCreated, registerResponse{ID: id})
	}
}

func Heartbeat(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req heartbeatRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !reg.Heartbeat(req.ID, req.Players) {
			writeJSON(w, http.StatusNotFound, statusResponse{Error: "unknown server"})
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	}
}

func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
	}
}

// decodeBody reads a size-limited JSON body into v, answering 400 itself on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, statusResponse{Error: "invalid json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[master] encode response: %v", err)
	}
}
