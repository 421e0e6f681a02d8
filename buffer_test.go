// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jval_test

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/berdon/jval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSlice(t *testing.T) {
	t.Run("Lookahead", func(t *testing.T) {
		b := jval.NewBuffer([]byte("hello"))
		assert.Equal(t, int64(5), b.End())
		assert.Equal(t, int64(0), b.Pos())

		ch, err := b.Peek()
		require.NoError(t, err)
		assert.Equal(t, byte('h'), ch)

		ch, err = b.PeekNext()
		require.NoError(t, err)
		assert.Equal(t, byte('e'), ch)

		// Peeking does not move the read position.
		assert.Equal(t, int64(0), b.Pos())

		ch, err = b.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte('h'), ch)
		assert.Equal(t, int64(1), b.Pos())

		last, ok := b.Last()
		assert.True(t, ok)
		assert.Equal(t, byte('h'), last)
	})

	t.Run("Empty", func(t *testing.T) {
		b := jval.NewBuffer(nil)
		assert.Equal(t, int64(0), b.End())

		_, err := b.Peek()
		assert.ErrorIs(t, err, io.EOF)
		_, err = b.PeekNext()
		assert.ErrorIs(t, err, io.EOF)
		_, err = b.ReadByte()
		assert.ErrorIs(t, err, io.EOF)

		_, ok := b.Last()
		assert.False(t, ok)
	})

	t.Run("SingleByte", func(t *testing.T) {
		b := jval.NewBuffer([]byte("x"))

		ch, err := b.Peek()
		require.NoError(t, err)
		assert.Equal(t, byte('x'), ch)

		// The second lookahead slot is past the end of input, but the first
		// remains readable.
		_, err = b.PeekNext()
		assert.ErrorIs(t, err, io.EOF)

		ch, err = b.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte('x'), ch)

		_, err = b.Peek()
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("ReadDrainsLookahead", func(t *testing.T) {
		b := jval.NewBuffer([]byte("abcdef"))
		_, err := b.PeekNext() // cache "ab"
		require.NoError(t, err)

		p := make([]byte, 4)
		require.NoError(t, b.Read(p))
		assert.Equal(t, "abcd", string(p))
		assert.Equal(t, int64(4), b.Pos())

		last, ok := b.Last()
		assert.True(t, ok)
		assert.Equal(t, byte('d'), last)

		ch, err := b.Peek()
		require.NoError(t, err)
		assert.Equal(t, byte('e'), ch)
	})

	t.Run("ReadShort", func(t *testing.T) {
		b := jval.NewBuffer([]byte("ab"))

		p := make([]byte, 4)
		err := b.Read(p)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, int64(2), b.Pos(), "position reflects the bytes consumed")

		// Nothing left at all: plain EOF.
		err = b.Read(p[:1])
		assert.ErrorIs(t, err, io.EOF)
		assert.Equal(t, int64(2), b.Pos())
	})

	t.Run("ReadEmpty", func(t *testing.T) {
		b := jval.NewBuffer([]byte("ab"))
		require.NoError(t, b.Read(nil))
		assert.Equal(t, int64(0), b.Pos())
		_, ok := b.Last()
		assert.False(t, ok)
	})

	t.Run("SkipCrossesLookahead", func(t *testing.T) {
		b := jval.NewBuffer([]byte("abcdef"))
		_, err := b.PeekNext() // cache "ab"
		require.NoError(t, err)

		require.NoError(t, b.Skip(3))
		assert.Equal(t, int64(3), b.Pos())

		_, ok := b.Last()
		assert.False(t, ok, "Skip clears the last-read marker")

		ch, err := b.Peek()
		require.NoError(t, err)
		assert.Equal(t, byte('d'), ch)
	})

	t.Run("SkipPastEnd", func(t *testing.T) {
		b := jval.NewBuffer([]byte("abc"))
		err := b.Skip(5)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, int64(3), b.Pos())
	})

	t.Run("SkipNone", func(t *testing.T) {
		b := jval.NewBuffer([]byte("abc"))
		_, err := b.ReadByte()
		require.NoError(t, err)

		require.NoError(t, b.Skip(0))
		require.NoError(t, b.Skip(-1))

		last, ok := b.Last()
		assert.True(t, ok, "a no-op Skip keeps the last-read marker")
		assert.Equal(t, byte('a'), last)
	})
}

func TestBufferReader(t *testing.T) {
	t.Run("SeekableSize", func(t *testing.T) {
		b := jval.NewReaderBuffer(strings.NewReader("hello"))
		assert.Equal(t, int64(5), b.End())

		p := make([]byte, 5)
		require.NoError(t, b.Read(p))
		assert.Equal(t, "hello", string(p))
		assert.Equal(t, int64(5), b.Pos())
	})

	t.Run("SeekableOffset", func(t *testing.T) {
		// Only the part after the reader's current position counts.
		r := strings.NewReader("hello")
		_, err := io.CopyN(io.Discard, r, 2)
		require.NoError(t, err)

		b := jval.NewReaderBuffer(r)
		assert.Equal(t, int64(3), b.End())

		ch, err := b.Peek()
		require.NoError(t, err)
		assert.Equal(t, byte('l'), ch)
	})

	t.Run("RestoreFails", func(t *testing.T) {
		// The measurement seeks to the end and the restoring seek fails,
		// leaving the stream stuck there. Reads must report the seek failure,
		// not a clean end of input.
		b := jval.NewReaderBuffer(&jammedSeeker{Reader: strings.NewReader("hello")})
		assert.Equal(t, int64(jval.EndUnknown), b.End())

		_, err := b.Peek()
		require.Error(t, err)
		assert.NotErrorIs(t, err, io.EOF)
		assert.ErrorContains(t, err, "seek jammed")

		_, err = b.ReadByte()
		assert.ErrorContains(t, err, "seek jammed")
		err = b.Skip(2)
		assert.ErrorContains(t, err, "seek jammed")
		assert.Equal(t, int64(0), b.Pos())
	})

	t.Run("UnknownSize", func(t *testing.T) {
		b := jval.NewReaderBuffer(bytes.NewBufferString("stream"))
		assert.Equal(t, int64(jval.EndUnknown), b.End())

		ch, err := b.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte('s'), ch)
	})

	t.Run("BufioReader", func(t *testing.T) {
		// An existing bufio.Reader is used as is. It hides the Seek method of
		// the underlying reader, so the size is unknown.
		br := bufio.NewReader(strings.NewReader("buffered"))
		b := jval.NewReaderBuffer(br)
		assert.Equal(t, int64(jval.EndUnknown), b.End())

		p := make([]byte, 8)
		require.NoError(t, b.Read(p))
		assert.Equal(t, "buffered", string(p))
	})

	t.Run("ReadShort", func(t *testing.T) {
		b := jval.NewReaderBuffer(bytes.NewBufferString("ab"))

		p := make([]byte, 4)
		err := b.Read(p)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, int64(2), b.Pos())
	})

	t.Run("SkipPastEnd", func(t *testing.T) {
		b := jval.NewReaderBuffer(bytes.NewBufferString("abc"))
		err := b.Skip(5)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
		assert.Equal(t, int64(3), b.Pos())
	})

	t.Run("Lookahead", func(t *testing.T) {
		b := jval.NewReaderBuffer(strings.NewReader("xy"))

		ch, err := b.PeekNext()
		require.NoError(t, err)
		assert.Equal(t, byte('y'), ch)

		ch, err = b.Peek()
		require.NoError(t, err)
		assert.Equal(t, byte('x'), ch)
		assert.Equal(t, int64(0), b.Pos())

		ch, err = b.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte('x'), ch)

		ch, err = b.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte('y'), ch)

		_, err = b.ReadByte()
		assert.ErrorIs(t, err, io.EOF)
	})
}

// jammedSeeker seeks normally twice and then refuses, so a size measurement
// can reach the end of the stream but not restore the read position.
type jammedSeeker struct {
	*strings.Reader
	seeks int
}

func (j *jammedSeeker) Seek(offset int64, whence int) (int64, error) {
	j.seeks++
	if j.seeks > 2 {
		return 0, errors.New("seek jammed")
	}
	return j.Reader.Seek(offset, whence)
}
