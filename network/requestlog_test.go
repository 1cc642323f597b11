package network

import (
	"testing"

	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/automoto/cyberwarfare/shared/netconfig"
)

func TestRequestLogStampsSequences(t *testing.T) {
	var rl RequestLog
	a := rl.Next(netconfig.RequestStartFire, 10)
	b := rl.Next(netconfig.RequestStopFire, 11)
	if a != 1 || b != 2 || rl.LastSeq() != 2 {
		t.Fatalf("unexpected sequences %d %d", a, b)
	}

	got, ok := rl.Get(b)
	if !ok || got.Kind != netconfig.RequestStopFire || got.SentTick != 11 {
		t.Fatalf("unexpected record %+v", got)
	}
	if _, ok := rl.Get(0); ok {
		t.Fatal("sequence 0 must never resolve")
	}
}

func TestRequestLogOverwritesOldSlots(t *testing.T) {
	var rl RequestLog
	first := rl.Next(netconfig.RequestAim, 0)
	for i := 0; i < requestLogSize; i++ {
		rl.Next(netconfig.RequestAim, 0)
	}
	if _, ok := rl.Get(first); ok {
		t.Fatal("overwritten request still resolvable")
	}
	if _, ok := rl.Get(rl.LastSeq()); !ok {
		t.Fatal("latest request not resolvable")
	}
}

func TestClientMatchesRejections(t *testing.T) {
	c := NewClient()
	_, seq := c.nextRequest(netconfig.RequestReload)

	r := c.matchRejection(messagesRejected(netconfig.RequestReload, seq))
	if !r.Known || r.Request.Kind != netconfig.RequestReload {
		t.Fatalf("expected match, got %+v", r)
	}
	if r := c.matchRejection(messagesRejected(netconfig.RequestReload, seq+5)); r.Known {
		t.Fatal("unsent sequence matched")
	}

	if err := c.StartFire(); err == nil {
		t.Fatal("expected send without a connection to fail")
	}

	if err := c.SpawnInventory(); err == nil {
		t.Fatal("expected send without a connection to fail")
	}
	sent, ok := c.requests.Get(c.requests.LastSeq())
	if !ok || sent.Kind != netconfig.RequestSpawnInventory {
		t.Fatalf("spawn inventory not logged, got %+v", sent)
	}
}

func messagesRejected(kind netconfig.RequestKind, seq uint32) messages.RequestRejected {
	return messages.RequestRejected{Kind: kind, Sequence: seq, Reason: "test"}
}
