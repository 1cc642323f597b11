package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netconfig"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Server connects the authority to websocket clients. Router callbacks run on
// necs goroutines and only ever enqueue requests; the tick goroutine owns
// the world.
type Server struct {
	world     donburi.World
	authority *Authority
	loop      *GameLoop
	transport *transports.WsServerTransport
	recorder  *Recorder
	version   string

	clients map[string]*router.NetworkClient
	// Disconnects whose Leave request did not fit in the queue
	pendingLeaves []string
	mu            sync.RWMutex
}

// NewServer creates a server for the given arena. An empty version accepts
// any client.
func NewServer(level *ServerLevel, tickRate int, name, version string) *Server {
	world := donburi.NewWorld()

	// Set up the world for esync before any entity is created
	srvsync.UseEsync(world)

	s := &Server{
		world:     world,
		authority: NewAuthority(world, level),
		version:   version,
		clients:   make(map[string]*router.NetworkClient),
	}
	s.authority.SetServerInfo(name, tickRate)
	s.authority.EnableNetworkSync()
	s.loop = NewGameLoop(s, tickRate)

	s.setupRouterCallbacks()
	return s
}

// SetRecorder records every broadcast delta. Must be called before Run.
func (s *Server) SetRecorder(r *Recorder) {
	s.recorder = r
}

// Run starts the tick loop and the websocket transport and blocks until ctx
// is cancelled or the transport fails.
func (s *Server) Run(ctx context.Context, port uint) error {
	go func() {
		if err := s.loop.Run(ctx); err != nil {
			log.Printf("Game loop error: %v", err)
		}
	}()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.transport.Start()
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("transport: %w", err)
		}
		return nil
	}
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.onConnect(client)
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.onJoinRequest(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.StartFireRequest) {
		s.enqueue(client, Request{Kind: netconfig.RequestStartFire, Combatant: msg.Combatant, Sequence: msg.Sequence})
	})
	router.On(func(client *router.NetworkClient, msg messages.StopFireRequest) {
		s.enqueue(client, Request{Kind: netconfig.RequestStopFire, Combatant: msg.Combatant, Sequence: msg.Sequence})
	})
	router.On(func(client *router.NetworkClient, msg messages.ReloadRequest) {
		s.enqueue(client, Request{Kind: netconfig.RequestReload, Combatant: msg.Combatant, Sequence: msg.Sequence})
	})
	router.On(func(client *router.NetworkClient, msg messages.SwitchWeaponRequest) {
		s.enqueue(client, Request{
			Kind:      netconfig.RequestSwitchWeapon,
			Combatant: msg.Combatant,
			Sequence:  msg.Sequence,
			Direction: combat.Direction(msg.Direction),
		})
	})
	router.On(func(client *router.NetworkClient, msg messages.SpawnInventoryRequest) {
		s.enqueue(client, Request{Kind: netconfig.RequestSpawnInventory, Combatant: msg.Combatant, Sequence: msg.Sequence})
	})
	router.On(func(client *router.NetworkClient, msg messages.AimRequest) {
		s.enqueue(client, Request{
			Kind:      netconfig.RequestAim,
			Combatant: msg.Combatant,
			Sequence:  msg.Sequence,
			AimX:      msg.DirX,
			AimY:      msg.DirY,
		})
	})
	router.On(func(client *router.NetworkClient, msg messages.ZoomRequest) {
		s.enqueue(client, Request{
			Kind:      netconfig.RequestZoom,
			Combatant: msg.Combatant,
			Sequence:  msg.Sequence,
			Zoom:      msg.Enabled,
		})
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("Client error: %v", err)
	})
}

func (s *Server) onConnect(client *router.NetworkClient) {
	log.Printf("Client connected: %s", client.Id())

	s.mu.Lock()
	s.clients[client.Id()] = client
	s.mu.Unlock()
}

func (s *Server) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("Client %s disconnected with error: %v", client.Id(), err)
	} else {
		log.Printf("Client %s disconnected", client.Id())
	}

	s.disconnect(client.Id())
}

// disconnect forgets the client and queues its Leave. When the queue is full
// the detach is deferred to the start of the next tick instead of dropped.
func (s *Server) disconnect(clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, clientID)

	if err := s.authority.Enqueue(Request{Kind: netconfig.RequestLeave, Sender: clientID}); err != nil {
		log.Printf("Deferring leave: %v", err)
		s.pendingLeaves = append(s.pendingLeaves, clientID)
	}
}

func (s *Server) onJoinRequest(client *router.NetworkClient, msg messages.JoinRequest) {
	if s.version != "" && msg.Version != s.version {
		log.Printf("Rejecting client %s: version %q, want %q", client.Id(), msg.Version, s.version)
		if err := client.SendMessage(messages.JoinRejected{
			Reason: fmt.Sprintf("version mismatch: server requires %s", s.version),
		}); err != nil {
			log.Printf("Failed to send join rejection to %s: %v", client.Id(), err)
		}
		return
	}

	s.enqueue(client, Request{
		Kind:  netconfig.RequestJoin,
		Name:  msg.PlayerName,
		Token: msg.ReconnectToken,
	})
}

func (s *Server) enqueue(client *router.NetworkClient, req Request) {
	req.Sender = client.Id()
	if err := s.authority.Enqueue(req); err != nil {
		log.Printf("Dropping request: %v", err)
	}
}

// tick runs one authority tick and flushes everything it produced.
func (s *Server) tick(dt float64) {
	s.mu.Lock()
	leaves := s.pendingLeaves
	s.pendingLeaves = nil
	s.mu.Unlock()
	for _, id := range leaves {
		s.authority.Detach(id)
	}

	delta := s.authority.Tick(dt)

	for _, err := range Dispatch(s.authority.DrainEvents(), s) {
		log.Printf("Send error: %v", err)
	}

	if s.recorder != nil && delta != nil {
		if err := s.recorder.Record(*delta); err != nil {
			log.Printf("Recorder error: %v", err)
		}
	}

	if s.authority.KeyframeDue() {
		if err := srvsync.DoSync(); err != nil {
			log.Printf("Sync error: %v", err)
		}
	}
}

// Broadcast sends msg to every connected client.
func (s *Server) Broadcast(msg any) {
	for _, client := range s.connectedClients() {
		if err := client.SendMessage(msg); err != nil {
			log.Printf("Broadcast to %s failed: %v", client.Id(), err)
		}
	}
}

// SendTo sends msg to one client.
func (s *Server) SendTo(clientID string, msg any) error {
	s.mu.RLock()
	client, ok := s.clients[clientID]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("send to %s: client not connected", clientID)
	}
	if err := client.SendMessage(msg); err != nil {
		return fmt.Errorf("send to %s: %w", clientID, err)
	}
	return nil
}

func (s *Server) connectedClients() []*router.NetworkClient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*router.NetworkClient, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.clients[id])
	}
	return out
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// Authority returns the combat authority
func (s *Server) Authority() *Authority {
	return s.authority
}

// PlayerCount returns the number of connected clients
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
