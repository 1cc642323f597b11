package core

import (
	"errors"
	"log"

	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/components"
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/automoto/cyberwarfare/shared/gamemath"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netconfig"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	dmath "github.com/yohamta/donburi/features/math"
)

// Handle runs one request through validation and, if it passes, execution.
func (a *Authority) Handle(req Request) {
	if err := a.Validate(req); err != nil {
		a.rejectRequest(req, err)
		return
	}
	a.Execute(req)
}

// Validate checks that a request is well formed and that its sender owns the
// combatant it names. It never mutates state.
func (a *Authority) Validate(req Request) error {
	switch req.Kind {
	case netconfig.RequestJoin, netconfig.RequestLeave:
		if !req.Forwarded() {
			return reject(req.Kind, "missing sender")
		}
		if req.Kind == netconfig.RequestJoin && a.owns(req.Sender) {
			return reject(req.Kind, "sender already controls a combatant")
		}
		return nil

	case netconfig.RequestStartFire, netconfig.RequestStopFire, netconfig.RequestReload,
		netconfig.RequestSpawnInventory, netconfig.RequestZoom:

	case netconfig.RequestSwitchWeapon:
		if !req.Direction.Valid() {
			return reject(req.Kind, "invalid direction")
		}

	case netconfig.RequestAim:
		if !gamemath.IsFinite(req.AimX) || !gamemath.IsFinite(req.AimY) {
			return reject(req.Kind, "non-finite aim")
		}
		if _, _, ok := gamemath.Normalize(req.AimX, req.AimY); !ok {
			return reject(req.Kind, "zero aim")
		}

	default:
		return reject(req.Kind, "unknown request kind")
	}

	_, c, ok := a.combatant(req.Combatant)
	if !ok {
		e := reject(req.Kind, "no such combatant")
		e.Err = ErrUnknownCombatant
		return e
	}
	if req.Forwarded() && c.ClientID != req.Sender {
		return reject(req.Kind, "combatant not owned by sender")
	}
	return nil
}

func (a *Authority) rejectRequest(req Request, err error) {
	var rej *RejectionError
	reason := err.Error()
	if errors.As(err, &rej) {
		reason = rej.Reason
	}

	log.Printf("[authority] rejected %s from %q (combatant %d): %v", req.Kind, req.Sender, req.Combatant, err)
	if !req.Forwarded() {
		return
	}

	a.addRejections(req.Sender, 1)
	a.events.SendTo(req.Sender, messages.RequestRejected{
		Kind:     req.Kind,
		Sequence: req.Sequence,
		Reason:   reason,
	})
}

// addRejections counts n validation failures against sender and flags it
// once the total reaches MaxRejections.
func (a *Authority) addRejections(sender string, n int) {
	if n <= 0 {
		return
	}
	before := a.rejections[sender]
	after := before + n
	a.rejections[sender] = after
	if limit := cfg.Combatant.MaxRejections; limit > 0 && before < limit && after >= limit {
		log.Printf("[authority] flagging %q: %d rejected requests", sender, after)
	}
}

// owns reports whether clientID controls any combatant.
func (a *Authority) owns(clientID string) bool {
	for _, entry := range a.combatantEntries() {
		if components.Combatant.Get(entry).ClientID == clientID {
			return true
		}
	}
	return false
}

// Rejections returns how many requests from sender failed validation.
func (a *Authority) Rejections(sender string) int {
	return a.rejections[sender]
}

// Execute applies a validated request. Requests whose preconditions do not
// hold are silent no-ops.
func (a *Authority) Execute(req Request) {
	switch req.Kind {
	case netconfig.RequestJoin:
		a.join(req)
		return
	case netconfig.RequestLeave:
		a.leave(req.Sender)
		return
	}

	entry, c, ok := a.combatant(req.Combatant)
	if !ok {
		return
	}
	if req.Forwarded() && c.InputDisabled {
		return
	}

	switch req.Kind {
	case netconfig.RequestStartFire:
		a.startFire(entry)
	case netconfig.RequestStopFire:
		a.stopFire(entry)
	case netconfig.RequestReload:
		a.reload(entry)
	case netconfig.RequestSwitchWeapon:
		a.switchWeapon(entry, req.Direction)
	case netconfig.RequestSpawnInventory:
		if err := a.spawnInventory(entry); err != nil && !errors.Is(err, combat.ErrInventorySpawned) {
			log.Printf("[authority] spawn inventory for %d: %v", c.Handle, err)
		}
	case netconfig.RequestAim:
		if c.IsDead {
			return
		}
		x, y, _ := gamemath.Normalize(req.AimX, req.AimY)
		c.Aim = dmath.Vec2{X: x, Y: y}
	case netconfig.RequestZoom:
		if c.IsDead {
			return
		}
		c.WantsToZoom = req.Zoom
	}
}

func (a *Authority) join(req Request) {
	if req.Token != "" {
		if h, ok := a.tokens[req.Token]; ok {
			if entry, c, ok := a.combatant(h); ok && c.Detached && !c.IsDead {
				c.Detached = false
				c.DetachedFor = 0
				c.ClientID = req.Sender
				a.addRejections(req.Sender, c.Rejections)
				c.Rejections = 0
				log.Printf("[authority] client %q reclaimed combatant %d", req.Sender, h)
				a.acceptJoin(req.Sender, entry, req.Token)
				return
			}
		}
	}

	name := req.Name
	if name == "" {
		name = "player"
	}
	h, err := a.SpawnCombatant(name, req.Sender)
	if err != nil {
		log.Printf("[authority] join from %q failed: %v", req.Sender, err)
		a.events.SendTo(req.Sender, messages.JoinRejected{Reason: err.Error()})
		return
	}

	entry, _, _ := a.combatant(h)
	if err := a.spawnInventory(entry); err != nil {
		log.Printf("[authority] spawn inventory for %d: %v", h, err)
	}

	token := uuid.NewString()
	a.tokens[token] = h
	a.acceptJoin(req.Sender, entry, token)
}

func (a *Authority) acceptJoin(clientID string, entry *donburi.Entry, token string) {
	c := components.Combatant.Get(entry)
	msg := messages.JoinAccepted{
		Combatant:      c.Handle,
		ReconnectToken: token,
		MatchID:        a.matchID,
		ServerName:     a.serverName,
		TickRate:       a.tickRate,
	}
	if nid := esync.GetNetworkId(entry); nid != nil {
		msg.NetworkID = *nid
	}
	a.events.SendTo(clientID, msg)
}

// Detach releases clientID's combatants without going through the request
// queue. Tick goroutine only.
func (a *Authority) Detach(clientID string) {
	a.leave(clientID)
}

// leave detaches every combatant owned by clientID. Detached combatants stay
// in the arena for DetachedGrace seconds waiting for a reconnect and keep the
// sender's rejection count for whoever reclaims them.
func (a *Authority) leave(clientID string) {
	n := a.rejections[clientID]
	for _, entry := range a.combatantEntries() {
		c := components.Combatant.Get(entry)
		if c.ClientID != clientID {
			continue
		}
		c.ClientID = ""
		c.Detached = true
		c.DetachedFor = 0
		c.Rejections += n
		n = 0
		a.stopFire(entry)
		log.Printf("[authority] combatant %d detached from %q", c.Handle, clientID)
	}
	delete(a.rejections, clientID)
}
