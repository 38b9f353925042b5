package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// Stream is an open backend response read as a sequence of raw chunks.
// Each chunk is exactly what one read of the body returned, so chunk
// boundaries follow the network rather than event framing.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	resp    *http.Response
	buf     []byte
	read    int64
	pending error
	closed  bool
}

func newStream(resp *http.Response, bufSize int) *Stream {
	return &Stream{
		resp: resp,
		buf:  make([]byte, bufSize),
	}
}

// StatusCode returns the HTTP status the backend answered with.
func (s *Stream) StatusCode() int {
	return s.resp.StatusCode
}

// Header returns the backend response headers.
func (s *Stream) Header() http.Header {
	return s.resp.Header
}

// Next returns the next chunk of the body. The slice is reused by the
// following call. Next returns io.EOF at the natural end of the body and after
// Close; any other failure is a *StreamError.
func (s *Stream) Next(ctx context.Context) ([]byte, error) {
	if s.closed {
		return nil, io.EOF
	}
	if s.pending != nil {
		return nil, s.fail(s.pending)
	}
	if err := ctx.Err(); err != nil {
		return nil, s.fail(err)
	}

	for {
		n, err := s.resp.Body.Read(s.buf)
		if n > 0 {
			s.read += int64(n)
			s.pending = err
			return s.buf[:n], nil
		}
		if err != nil {
			return nil, s.fail(err)
		}
	}
}

func (s *Stream) fail(err error) error {
	if errors.Is(err, io.EOF) {
		s.pending = io.EOF
		return io.EOF
	}
	s.pending = err
	return &StreamError{Read: s.read, Cause: err}
}

// Close releases the response body. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.resp.Body.Close()
}
