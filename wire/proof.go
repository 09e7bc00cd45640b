package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/sigma"
)

const (
	proofTagLeaf byte = iota
	proofTagAnd
	proofTagOr
)

func writeLeafProof(w io.Writer, lp sigma.LeafProof) error {
	if err := writePoints(w, lp.PublicNonces); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(lp.Responses))); err != nil {
		return err
	}
	for _, s := range lp.Responses {
		if err := writeScalar(w, s); err != nil {
			return err
		}
	}
	return nil
}

func readLeafProof(r io.Reader) (sigma.LeafProof, error) {
	nonces, err := readPoints(r)
	if err != nil {
		return sigma.LeafProof{}, err
	}
	n, err := readUint32(r)
	if err != nil {
		return sigma.LeafProof{}, err
	}
	resp := make(group.ScalarVector, n)
	for i := range resp {
		s, err := readScalar(r)
		if err != nil {
			return sigma.LeafProof{}, err
		}
		resp[i] = s
	}
	return sigma.LeafProof{PublicNonces: nonces, Responses: resp}, nil
}

// writeProof encodes a proof tree onto w: a tag byte followed by the
// tag-specific payload, recursing into And/Or children.
func writeProof(w io.Writer, p sigma.Proof) error {
	switch {
	case p.Leaf != nil:
		if _, err := w.Write([]byte{proofTagLeaf}); err != nil {
			return err
		}
		return writeLeafProof(w, *p.Leaf)
	case p.Or != nil:
		if _, err := w.Write([]byte{proofTagOr}); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(len(p.Or.Rings))); err != nil {
			return err
		}
		for _, ring := range p.Or.Rings {
			if err := writeLeafProof(w, ring); err != nil {
				return err
			}
		}
		return nil
	case p.And != nil:
		if _, err := w.Write([]byte{proofTagAnd}); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(len(p.And))); err != nil {
			return err
		}
		for _, sub := range p.And {
			if err := writeProof(w, sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("wire: empty proof node")
	}
}

func readProof(r io.Reader) (sigma.Proof, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return sigma.Proof{}, err
	}
	switch tag[0] {
	case proofTagLeaf:
		lp, err := readLeafProof(r)
		if err != nil {
			return sigma.Proof{}, err
		}
		return sigma.Proof{Leaf: &lp}, nil
	case proofTagOr:
		n, err := readUint32(r)
		if err != nil {
			return sigma.Proof{}, err
		}
		rings := make([]sigma.LeafProof, n)
		for i := range rings {
			lp, err := readLeafProof(r)
			if err != nil {
				return sigma.Proof{}, err
			}
			rings[i] = lp
		}
		return sigma.Proof{Or: &sigma.OrProof{Rings: rings}}, nil
	case proofTagAnd:
		n, err := readUint32(r)
		if err != nil {
			return sigma.Proof{}, err
		}
		subs := make([]sigma.Proof, n)
		for i := range subs {
			sub, err := readProof(r)
			if err != nil {
				return sigma.Proof{}, err
			}
			subs[i] = sub
		}
		return sigma.Proof{And: subs}, nil
	default:
		return sigma.Proof{}, fmt.Errorf("wire: unknown proof tag %d", tag[0])
	}
}

// MarshalProof encodes a proof tree to a standalone byte slice.
func MarshalProof(p sigma.Proof) ([]byte, error) {
	buf := newBuffer()
	if err := writeProof(buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalProof decodes a proof tree previously produced by MarshalProof.
func UnmarshalProof(b []byte) (sigma.Proof, error) {
	return readProof(bytes.NewReader(b))
}
