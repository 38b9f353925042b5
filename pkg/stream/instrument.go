package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"
)

// TokenMarker is the literal counted once per generated token. Each
// chat-completion stream event carries one "delta" object, so its count is a
// close approximation of the number of generated tokens.
var TokenMarker = []byte(`"delta"`)

// Epsilon is the floor, in seconds, of the generation window used for the
// token rate. It keeps a single-chunk stream from dividing by zero.
const Epsilon = 1e-6

// Source yields the raw chunks of a response body.
type Source interface {
	// Next returns the next chunk. It returns io.EOF once the stream has
	// ended normally. The returned slice is only valid until the next call.
	Next(ctx context.Context) ([]byte, error)
}

// Observer receives the measurements of an instrumented stream.
type Observer interface {
	// ObserveTTFT records the delay between the start of a request and its
	// first chunk.
	ObserveTTFT(time.Duration)

	// ObserveTokenRate records the tokens per second of a completed stream.
	ObserveTokenRate(float64)
}

// Observation is a snapshot of what an Instrumented stream has seen so far.
type Observation struct {
	// Started is when the request was accepted.
	Started time.Time

	// FirstChunkAt is when the first chunk arrived. It is zero until then.
	FirstChunkAt time.Time

	// Chunks is the number of chunks relayed.
	Chunks int

	// Tokens is the number of token markers seen.
	Tokens int

	// Completed reports whether the source ended with io.EOF.
	Completed bool
}

// TTFT returns the time to first token, or zero if no chunk arrived.
func (o Observation) TTFT() time.Duration {
	if o.FirstChunkAt.IsZero() {
		return 0
	}
	return o.FirstChunkAt.Sub(o.Started)
}

// Option configures an Instrumented stream.
type Option func(*Instrumented)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Instrumented) {
		s.now = now
	}
}

// WithMarker replaces TokenMarker. An empty marker is ignored.
func WithMarker(marker []byte) Option {
	return func(s *Instrumented) {
		if len(marker) > 0 {
			s.marker = marker
		}
	}
}

// Instrumented passes a Source through unchanged while measuring it.
// It is not safe for concurrent use.
type Instrumented struct {
	src    Source
	obs    Observer
	now    func() time.Time
	marker []byte

	state Observation
	done  bool
}

// Instrument wraps src so that every chunk is measured on its way through.
// started is the moment the request was accepted and anchors the TTFT.
func Instrument(src Source, obs Observer, started time.Time, opts ...Option) *Instrumented {
	s := &Instrumented{
		src:    src,
		obs:    obs,
		now:    time.Now,
		marker: TokenMarker,
		state:  Observation{Started: started},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns exactly what the wrapped Source returns.
//
// The first chunk records the TTFT. Every chunk adds its token markers to the
// running count. On io.EOF, if at least one chunk was seen, the token rate is
// recorded as tokens divided by the time since the first chunk, floored at
// Epsilon. Any other error ends the stream without a rate.
func (s *Instrumented) Next(ctx context.Context) ([]byte, error) {
	chunk, err := s.src.Next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			s.finish()
		}
		s.done = true
		return chunk, err
	}

	if s.state.FirstChunkAt.IsZero() {
		s.state.FirstChunkAt = s.now()
		s.obs.ObserveTTFT(s.state.FirstChunkAt.Sub(s.state.Started))
	}
	s.state.Chunks++
	s.state.Tokens += bytes.Count(chunk, s.marker)

	return chunk, nil
}

func (s *Instrumented) finish() {
	if s.done {
		return
	}
	s.state.Completed = true
	if s.state.FirstChunkAt.IsZero() {
		return
	}

	elapsed := s.now().Sub(s.state.FirstChunkAt).Seconds()
	s.obs.ObserveTokenRate(float64(s.state.Tokens) / max(Epsilon, elapsed))
}

// Observation returns a snapshot of the measurements so far.
func (s *Instrumented) Observation() Observation {
	return s.state
}
