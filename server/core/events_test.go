package core

import (
	"errors"
	"testing"

	"github.com/automoto/cyberwarfare/server/core/mocks"
	"github.com/automoto/cyberwarfare/shared/messages"
	"go.uber.org/mock/gomock"
)

func TestEventQueueDrainsInOrder(t *testing.T) {
	var q EventQueue
	q.Broadcast(messages.DeathEvent{Victim: 1})
	q.SendTo("c1", messages.JoinRejected{Reason: "full"})

	if q.Len() != 2 {
		t.Fatalf("expected 2 pending, got %d", q.Len())
	}
	out := q.Drain()
	if out[0].To != "" || out[1].To != "c1" {
		t.Fatalf("unexpected routing: %+v", out)
	}
	if q.Len() != 0 {
		t.Fatal("drain did not empty the queue")
	}
}

func TestDispatchRoutesBroadcastsAndDirectSends(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBroadcaster(ctrl)

	death := messages.DeathEvent{Victim: 3, Killer: 1}
	rejected := messages.RequestRejected{Sequence: 4, Reason: "nope"}
	sendErr := errors.New("closed")

	gomock.InOrder(
		b.EXPECT().Broadcast(death),
		b.EXPECT().SendTo("c2", rejected).Return(sendErr),
		b.EXPECT().SendTo("c3", rejected).Return(nil),
	)

	errs := Dispatch([]Outbound{
		{Msg: death},
		{To: "c2", Msg: rejected},
		{To: "c3", Msg: rejected},
	}, b)

	if len(errs) != 1 || !errors.Is(errs[0], sendErr) {
		t.Fatalf("expected the single send error, got %v", errs)
	}
}

func TestDispatchEmptyIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	b := mocks.NewMockBroadcaster(ctrl)

	if errs := Dispatch(nil, b); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
