// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"bufio"
	"fmt"
	"io"
)

// EndUnknown is reported by the End method of a Buffer whose total input
// size cannot be determined, as with a stream whose reader does not seek.
// Callers should treat such input as unbounded.
const EndUnknown = -1

// A source supplies raw bytes to a Buffer. Implementations only read and
// skip; lookahead is handled entirely by the Buffer.
type source interface {
	// readByte returns the next byte, or io.EOF at the end of input.
	readByte() (byte, error)

	// readFull fills p entirely, reporting the count filled. At the end of
	// input it reports io.EOF if no bytes were read, io.ErrUnexpectedEOF if
	// only some were.
	readFull(p []byte) (int, error)

	// skip discards up to n bytes, reporting the count discarded.
	skip(n int) (int, error)

	// size returns the total size of the input in bytes, or EndUnknown.
	size() int64
}

// A Buffer is a cursor over a byte source with two bytes of lookahead.  The
// same interface serves in-memory slices and byte streams, so a consumer
// never needs to know which kind of input it is reading. Peeked bytes are
// cached in the Buffer and do not move the read position.
type Buffer struct {
	src source
	pos int64 // bytes consumed so far

	win  [2]byte // lookahead window
	nwin int     // valid bytes in win

	last    byte // most recently consumed byte
	hasLast bool
}

// NewBuffer constructs a Buffer that reads from data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{src: &sliceSource{data: data}}
}

// NewReaderBuffer constructs a Buffer that reads from r. If r is also an
// io.Seeker the total input size is measured once at construction;
// otherwise End reports EndUnknown. If the measurement cannot restore the
// read position, every read from the Buffer reports the seek failure.
func NewReaderBuffer(r io.Reader) *Buffer {
	total := int64(EndUnknown)
	var serr error
	if rs, ok := r.(io.Seeker); ok {
		if cur, err := rs.Seek(0, io.SeekCurrent); err == nil {
			end, err2 := rs.Seek(0, io.SeekEnd)
			if _, err := rs.Seek(cur, io.SeekStart); err != nil {
				// The stream is stranded at the wrong position.
				serr = fmt.Errorf("restore read position: %w", err)
			} else if err2 == nil {
				total = end - cur
			}
		}
	}
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Buffer{src: &readerSource{r: br, total: total, err: serr}}
}

// Pos returns the number of bytes consumed so far.
func (b *Buffer) Pos() int64 { return b.pos }

// End returns the total size of the input in bytes, or EndUnknown if the
// source cannot report it.
func (b *Buffer) End() int64 { return b.src.size() }

// Peek returns the byte at the read position without consuming it.
// At the end of input it returns io.EOF.
func (b *Buffer) Peek() (byte, error) {
	if err := b.fill(1); err != nil {
		return 0, err
	}
	return b.win[0], nil
}

// PeekNext returns the byte one past the read position without consuming
// anything. It does not require a prior call of Peek.
func (b *Buffer) PeekNext() (byte, error) {
	if err := b.fill(2); err != nil {
		return 0, err
	}
	return b.win[1], nil
}

// fill tops the lookahead window up to n valid bytes, 0 <= n <= 2.
func (b *Buffer) fill(n int) error {
	for b.nwin < n {
		ch, err := b.src.readByte()
		if err != nil {
			return err
		}
		b.win[b.nwin] = ch
		b.nwin++
	}
	return nil
}

// ReadByte consumes and returns the next byte, serving the lookahead window
// first. At the end of input it returns io.EOF.
func (b *Buffer) ReadByte() (byte, error) {
	ch, err := b.Peek()
	if err != nil {
		return 0, err
	}
	b.win[0] = b.win[1]
	b.nwin--
	b.pos++
	b.last, b.hasLast = ch, true
	return ch, nil
}

// Read fills p completely with the next len(p) bytes of input. If the input
// ends first it reports io.EOF when nothing was consumed, otherwise
// io.ErrUnexpectedEOF; in that case the position reflects only the bytes
// actually consumed.
func (b *Buffer) Read(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	n := copy(p, b.win[:b.nwin])
	if n == 1 && b.nwin == 2 {
		b.win[0] = b.win[1]
	}
	b.nwin -= n
	b.pos += int64(n)
	if n < len(p) {
		m, err := b.src.readFull(p[n:])
		b.pos += int64(m)
		if err != nil {
			if n > 0 && err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return err
		}
	}
	b.last, b.hasLast = p[len(p)-1], true
	return nil
}

// Skip discards the next n bytes of input, and for n > 0 clears the
// last-read marker. Skipping past the end of input is an error.
func (b *Buffer) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	b.last, b.hasLast = 0, false
	if b.nwin > 0 {
		d := min(n, b.nwin)
		if d == 1 && b.nwin == 2 {
			b.win[0] = b.win[1]
		}
		b.nwin -= d
		b.pos += int64(d)
		n -= d
	}
	if n == 0 {
		return nil
	}
	m, err := b.src.skip(n)
	b.pos += int64(m)
	return err
}

// Last returns the byte most recently consumed by ReadByte or Read, or
// false if none has been, or if the marker was cleared by Skip.
func (b *Buffer) Last() (byte, bool) { return b.last, b.hasLast }

type sliceSource struct {
	data []byte
	off  int
}

func (s *sliceSource) readByte() (byte, error) {
	if s.off >= len(s.data) {
		return 0, io.EOF
	}
	ch := s.data[s.off]
	s.off++
	return ch, nil
}

func (s *sliceSource) readFull(p []byte) (int, error) {
	n := copy(p, s.data[s.off:])
	s.off += n
	if n < len(p) {
		if n == 0 {
			return 0, io.EOF
		}
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

func (s *sliceSource) skip(n int) (int, error) {
	if rest := len(s.data) - s.off; n > rest {
		s.off = len(s.data)
		return rest, fmt.Errorf("skip %d bytes: %w", n-rest, io.ErrUnexpectedEOF)
	}
	s.off += n
	return n, nil
}

func (s *sliceSource) size() int64 { return int64(len(s.data)) }

type readerSource struct {
	r     *bufio.Reader
	total int64
	err   error // construction failure, reported by every read
}

func (s *readerSource) readByte() (byte, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.r.ReadByte()
}

func (s *readerSource) readFull(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return io.ReadFull(s.r, p)
}

func (s *readerSource) skip(n int) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	d, err := s.r.Discard(n)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF // a short skip is never a clean end
	}
	if err != nil {
		return d, fmt.Errorf("skip %d bytes: %w", n-d, err)
	}
	return d, nil
}

func (s *readerSource) size() int64 { return s.total }
