package messages

import (
	"github.com/automoto/cyberwarfare/shared/combat"
	"github.com/leap-fish/necs/esync"
)

// JoinRequest is sent by a client after connecting to request a combatant.
// A ReconnectToken from an earlier JoinAccepted reclaims that combatant if it
// is still in the arena.
type JoinRequest struct {
	Version        string
	PlayerName     string
	ReconnectToken string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	Combatant      combat.Handle
	NetworkID      esync.NetworkId
	ReconnectToken string
	MatchID        string
	ServerName     string
	TickRate       int
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}
