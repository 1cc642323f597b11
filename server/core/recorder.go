package core

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/automoto/cyberwarfare/shared/messages"
	"github.com/hashicorp/go-msgpack/v2/codec"
)

// Recorder appends every broadcast snapshot delta to w as a stream of
// msgpack frames, one frame per tick that produced a delta.
type Recorder struct {
	mu     sync.Mutex
	enc    *codec.Encoder
	frames int
}

func NewRecorder(w io.Writer) *Recorder {
	var mh codec.MsgpackHandle
	return &Recorder{enc: codec.NewEncoder(w, &mh)}
}

func (r *Recorder) Record(delta messages.SnapshotDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.enc.Encode(delta); err != nil {
		return fmt.Errorf("record tick %d: %w", delta.Tick, err)
	}
	r.frames++
	return nil
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// ReadFrames decodes a recording back into deltas, in tick order.
func ReadFrames(rd io.Reader) ([]messages.SnapshotDelta, error) {
	var mh codec.MsgpackHandle
	dec := codec.NewDecoder(rd, &mh)

	var out []messages.SnapshotDelta
	for {
		var delta messages.SnapshotDelta
		err := dec.Decode(&delta)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read frame %d: %w", len(out), err)
		}
		out = append(out, delta)
	}
}
