// Package wire implements the binary encoding of the core's external
// messages (§6): fixed-length points and scalars, big-endian length
// prefixes, and the composite request/response envelopes collaborators
// exchange with a coordinator.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/wabierr"
)

func writeUint32(w io.Writer, n uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	_, err := w.Write(b[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func writeScalar(w io.Writer, s group.Scalar) error {
	b := s.Bytes()
	_, err := w.Write(b[:])
	return err
}

func readScalar(r io.Reader) (group.Scalar, error) {
	var b [32]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return group.Scalar{}, err
	}
	s, ok := group.ScalarFromBytes(b[:])
	if !ok {
		return group.Scalar{}, wabierr.ErrScalarOverflow
	}
	return s, nil
}

func writePoint(w io.Writer, e group.Element) error {
	b := e.Bytes()
	_, err := w.Write(b[:])
	return err
}

func readPoint(r io.Reader) (group.Element, error) {
	var b [33]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return group.Element{}, err
	}
	e, ok := group.ElementFromBytes(b[:])
	if !ok {
		return group.Element{}, fmt.Errorf("wire: invalid point encoding")
	}
	return e, nil
}

func writePoints(w io.Writer, pts []group.Element) error {
	if err := writeUint32(w, uint32(len(pts))); err != nil {
		return err
	}
	for _, p := range pts {
		if err := writePoint(w, p); err != nil {
			return err
		}
	}
	return nil
}

func readPoints(r io.Reader) ([]group.Element, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make([]group.Element, n)
	for i := range out {
		p, err := readPoint(r)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func writeInt64(w io.Writer, n int64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(n))
	_, err := w.Write(b[:])
	return err
}

func readInt64(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b[:])), nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}
	return out, nil
}

func newBuffer() *bytes.Buffer {
	return new(bytes.Buffer)
}
