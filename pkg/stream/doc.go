// Package stream measures a streamed chat-completion response as it is
// relayed.
//
// Instrument wraps a chunk Source and returns every chunk untouched, in
// order, one at a time. While doing so it records two measurements through
// an Observer: the time to first token, taken when the first chunk arrives,
// and the token rate, taken when the stream ends normally. Tokens are counted
// as occurrences of a byte marker rather than by parsing events, which keeps
// the cost linear in the chunk size and independent of event framing.
//
// Basic usage:
//
//	src := stream.Instrument(backendStream, collector, started)
//	for {
//	    chunk, err := src.Next(ctx)
//	    if err != nil {
//	        break
//	    }
//	    w.Write(chunk)
//	}
package stream
