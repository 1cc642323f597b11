package network

import (
	"context"
	"fmt"
	"log"
	"sync"

	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netconfig"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

// Client manages a WebSocket connection to the combat server. It mirrors
// replicated state and queues cosmetic events; it never decides outcomes.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state          ClientState
	lastError      error
	combatant      combat.Handle
	networkID      esync.NetworkId
	reconnectToken string
	serverName     string
	matchID        string
	tickRate       int
	conn           *websocket.Conn
	requests       RequestLog

	mirror *Mirror

	fireCh     chan messages.FireEvent
	damageCh   chan messages.DamageEvent
	deathCh    chan messages.DeathEvent
	reloadCh   chan messages.ReloadEvent
	rejectedCh chan Rejection
}

// Rejection is a RequestRejected matched against the request that caused it.
type Rejection struct {
	messages.RequestRejected
	Request SentRequest
	Known   bool
}

func NewClient() *Client {
	return &Client{
		state:      StateDisconnected,
		mirror:     NewMirror(cfg.Replication.TraceQuantum),
		fireCh:     make(chan messages.FireEvent, 64),
		damageCh:   make(chan messages.DamageEvent, 16),
		deathCh:    make(chan messages.DeathEvent, 8),
		reloadCh:   make(chan messages.ReloadEvent, 8),
		rejectedCh: make(chan Rejection, 8),
	}
}

// Connect dials the server in a background goroutine and initiates the join
// handshake. A token from an earlier session reclaims that combatant.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	token := c.reconnectToken
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.SendMessage(messages.JoinRequest{
			Version:        version,
			PlayerName:     playerName,
			ReconnectToken: token,
		}); err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: combatant=%d networkID=%d server=%s tickRate=%d",
			msg.Combatant, msg.NetworkID, msg.ServerName, msg.TickRate)
		c.mu.Lock()
		c.combatant = msg.Combatant
		c.networkID = msg.NetworkID
		c.reconnectToken = msg.ReconnectToken
		c.serverName = msg.ServerName
		c.matchID = msg.MatchID
		c.tickRate = msg.TickRate
		c.state = StateJoinedGame
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, delta messages.SnapshotDelta) {
		c.mirror.Apply(delta)
	})

	router.On(func(_ *router.NetworkClient, evt messages.DespawnEvent) {
		c.mirror.Remove(evt.Handle)
	})

	router.On(func(_ *router.NetworkClient, evt messages.FireEvent) {
		push(c.fireCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.DamageEvent) {
		push(c.damageCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.DeathEvent) {
		push(c.deathCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.ReloadEvent) {
		push(c.reloadCh, evt)
	})

	router.On(func(_ *router.NetworkClient, msg messages.RequestRejected) {
		push(c.rejectedCh, c.matchRejection(msg))
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) matchRejection(msg messages.RequestRejected) Rejection {
	c.mu.RLock()
	sent, ok := c.requests.Get(msg.Sequence)
	c.mu.RUnlock()
	log.Printf("[client] %s #%d rejected: %s", msg.Kind, msg.Sequence, msg.Reason)
	return Rejection{RequestRejected: msg, Request: sent, Known: ok}
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) Combatant() combat.Handle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.combatant
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

func (c *Client) MatchID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matchID
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

// Mirror is the replicated state received so far.
func (c *Client) Mirror() *Mirror {
	return c.mirror
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// nextRequest stamps a request for the local combatant.
func (c *Client) nextRequest(kind netconfig.RequestKind) (combat.Handle, uint32) {
	tick := c.mirror.LastTick()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.combatant, c.requests.Next(kind, tick)
}

func (c *Client) StartFire() error {
	h, seq := c.nextRequest(netconfig.RequestStartFire)
	return c.SendMessage(messages.StartFireRequest{Combatant: h, Sequence: seq})
}

func (c *Client) StopFire() error {
	h, seq := c.nextRequest(netconfig.RequestStopFire)
	return c.SendMessage(messages.StopFireRequest{Combatant: h, Sequence: seq})
}

func (c *Client) Reload() error {
	h, seq := c.nextRequest(netconfig.RequestReload)
	return c.SendMessage(messages.ReloadRequest{Combatant: h, Sequence: seq})
}

func (c *Client) SwitchWeapon(dir combat.Direction) error {
	h, seq := c.nextRequest(netconfig.RequestSwitchWeapon)
	return c.SendMessage(messages.SwitchWeaponRequest{Combatant: h, Direction: int(dir), Sequence: seq})
}

// SpawnInventory asks the authority to populate the combatant's loadout. It
// is a no-op on the server once the inventory exists.
func (c *Client) SpawnInventory() error {
	h, seq := c.nextRequest(netconfig.RequestSpawnInventory)
	return c.SendMessage(messages.SpawnInventoryRequest{Combatant: h, Sequence: seq})
}

func (c *Client) Aim(x, y float64) error {
	h, seq := c.nextRequest(netconfig.RequestAim)
	return c.SendMessage(messages.AimRequest{Combatant: h, DirX: x, DirY: y, Sequence: seq})
}

func (c *Client) Zoom(enabled bool) error {
	h, seq := c.nextRequest(netconfig.RequestZoom)
	return c.SendMessage(messages.ZoomRequest{Combatant: h, Enabled: enabled, Sequence: seq})
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// DrainFireEvents returns all pending shot cosmetics, non-blocking.
func (c *Client) DrainFireEvents() []messages.FireEvent {
	return drainChan(c.fireCh)
}

// DrainDamageEvents returns all pending damage events, non-blocking.
func (c *Client) DrainDamageEvents() []messages.DamageEvent {
	return drainChan(c.damageCh)
}

// DrainDeathEvents returns all pending death events, non-blocking.
func (c *Client) DrainDeathEvents() []messages.DeathEvent {
	return drainChan(c.deathCh)
}

// DrainReloadEvents returns all pending reload events, non-blocking.
func (c *Client) DrainReloadEvents() []messages.ReloadEvent {
	return drainChan(c.reloadCh)
}

// DrainRejections returns all pending request rejections, non-blocking.
func (c *Client) DrainRejections() []Rejection {
	return drainChan(c.rejectedCh)
}

// push drops the event when the consumer has fallen behind.
func push[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
