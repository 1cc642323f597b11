package network

import "github.com/automoto/cyberwarfare/shared/netconfig"

const requestLogSize = 64

// SentRequest is a request the client sent, kept so a later rejection can be
// matched to it.
type SentRequest struct {
	Kind     netconfig.RequestKind
	Sequence uint32
	SentTick uint64 // latest server tick seen when it was sent
}

// RequestLog is a ring buffer of recently sent requests indexed by sequence.
type RequestLog struct {
	history [requestLogSize]SentRequest
	nextSeq uint32
}

// Next stamps a new request with the next sequence number and stores it.
// Sequence 0 is never issued.
func (rl *RequestLog) Next(kind netconfig.RequestKind, tick uint64) uint32 {
	rl.nextSeq++
	seq := rl.nextSeq
	rl.history[seq%requestLogSize] = SentRequest{Kind: kind, Sequence: seq, SentTick: tick}
	return seq
}

// Get retrieves a stored request by sequence number. Returns false if not found
// or if the slot has been overwritten.
func (rl *RequestLog) Get(seq uint32) (SentRequest, bool) {
	record := rl.history[seq%requestLogSize]
	if seq == 0 || record.Sequence != seq {
		return SentRequest{}, false
	}
	return record, true
}

// LastSeq returns the most recently issued sequence number.
func (rl *RequestLog) LastSeq() uint32 {
	return rl.nextSeq
}
