package core

import (
	"testing"

	cfg "github.com/automoto/cyberwarfare/config"
	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netconfig"
	"github.com/leap-fish/necs/router"
	"github.com/yohamta/donburi"
)

func TestDisconnectWithFullQueueStillDetaches(t *testing.T) {
	cfg.Reset()
	t.Cleanup(cfg.Reset)
	cfg.Combatant.RequestBacklog = 2

	a := NewAuthority(donburi.NewWorld(), newTestArena())
	a.Handle(Request{Kind: netconfig.RequestJoin, Sender: "c1", Name: "alpha"})
	h := eventsOf[messages.JoinAccepted](a.DrainEvents())[0].Combatant

	for i := 0; i < 2; i++ {
		if err := a.Enqueue(Request{Kind: netconfig.RequestStopFire, Sender: "c1", Combatant: h}); err != nil {
			t.Fatalf("setup enqueue: %v", err)
		}
	}

	s := &Server{authority: a, clients: make(map[string]*router.NetworkClient)}
	s.disconnect("c1")
	if len(s.pendingLeaves) != 1 {
		t.Fatalf("expected the leave to be deferred, got %v", s.pendingLeaves)
	}

	s.tick(tickDt)
	_, c, ok := a.combatant(h)
	if !ok || !c.Detached || c.ClientID != "" {
		t.Fatalf("expected combatant detached, got %+v", c)
	}
	if len(s.pendingLeaves) != 0 {
		t.Fatalf("deferred leave not consumed: %v", s.pendingLeaves)
	}
}
