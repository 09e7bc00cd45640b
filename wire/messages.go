package wire

import (
	"bytes"

	"github.com/wabisabi-go/core/credential"
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/kvac"
)

func writeMAC(w *bytes.Buffer, m kvac.MAC) error {
	if err := writeScalar(w, m.T); err != nil {
		return err
	}
	return writePoint(w, m.V)
}

func readMAC(r *bytes.Reader) (kvac.MAC, error) {
	t, err := readScalar(r)
	if err != nil {
		return kvac.MAC{}, err
	}
	v, err := readPoint(r)
	if err != nil {
		return kvac.MAC{}, err
	}
	return kvac.MAC{T: t, V: v}, nil
}

func writePresentation(w *bytes.Buffer, p kvac.Presentation) error {
	for _, e := range []group.Element{p.Z, p.Ca, p.Cv, p.Cx0, p.Cx1} {
		if err := writePoint(w, e); err != nil {
			return err
		}
	}
	return nil
}

func readPresentation(r *bytes.Reader) (kvac.Presentation, error) {
	var pts [5]group.Element
	for i := range pts {
		p, err := readPoint(r)
		if err != nil {
			return kvac.Presentation{}, err
		}
		pts[i] = p
	}
	return kvac.Presentation{Z: pts[0], Ca: pts[1], Cv: pts[2], Cx0: pts[3], Cx1: pts[4]}, nil
}

// MarshalZeroCredentialsRequest encodes a zero-valued credential request.
func MarshalZeroCredentialsRequest(req credential.ZeroCredentialsRequest) ([]byte, error) {
	buf := newBuffer()
	if err := writeUint32(buf, uint32(len(req.Requested))); err != nil {
		return nil, err
	}
	for _, pair := range req.Requested {
		if err := writePoint(buf, pair.Ma); err != nil {
			return nil, err
		}
		if err := writePoint(buf, pair.Mv); err != nil {
			return nil, err
		}
	}
	if err := writeProof(buf, req.Proof); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalZeroCredentialsRequest decodes a zero-valued credential request.
func UnmarshalZeroCredentialsRequest(b []byte) (credential.ZeroCredentialsRequest, error) {
	r := bytes.NewReader(b)
	n, err := readUint32(r)
	if err != nil {
		return credential.ZeroCredentialsRequest{}, err
	}
	pairs := make([]credential.AttributePair, n)
	for i := range pairs {
		ma, err := readPoint(r)
		if err != nil {
			return credential.ZeroCredentialsRequest{}, err
		}
		mv, err := readPoint(r)
		if err != nil {
			return credential.ZeroCredentialsRequest{}, err
		}
		pairs[i] = credential.AttributePair{Ma: ma, Mv: mv}
	}
	proof, err := readProof(r)
	if err != nil {
		return credential.ZeroCredentialsRequest{}, err
	}
	return credential.ZeroCredentialsRequest{Requested: pairs, Proof: proof}, nil
}

// MarshalRealCredentialsRequest encodes a real-valued credential request.
func MarshalRealCredentialsRequest(req credential.RealCredentialsRequest) ([]byte, error) {
	buf := newBuffer()
	if err := writeInt64(buf, req.DeltaAmount); err != nil {
		return nil, err
	}
	if err := writeUint32(buf, uint32(len(req.Presentations))); err != nil {
		return nil, err
	}
	for _, p := range req.Presentations {
		if err := writePresentation(buf, p); err != nil {
			return nil, err
		}
	}
	if err := writeUint32(buf, uint32(len(req.Requested))); err != nil {
		return nil, err
	}
	for _, slot := range req.Requested {
		if err := writePoint(buf, slot.Ma); err != nil {
			return nil, err
		}
		if err := writePoint(buf, slot.Mv); err != nil {
			return nil, err
		}
		if err := writePoints(buf, slot.BitCommitments); err != nil {
			return nil, err
		}
	}
	if err := writeProof(buf, req.Proof); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalRealCredentialsRequest decodes a real-valued credential request.
func UnmarshalRealCredentialsRequest(b []byte) (credential.RealCredentialsRequest, error) {
	r := bytes.NewReader(b)
	delta, err := readInt64(r)
	if err != nil {
		return credential.RealCredentialsRequest{}, err
	}
	np, err := readUint32(r)
	if err != nil {
		return credential.RealCredentialsRequest{}, err
	}
	presentations := make([]kvac.Presentation, np)
	for i := range presentations {
		p, err := readPresentation(r)
		if err != nil {
			return credential.RealCredentialsRequest{}, err
		}
		presentations[i] = p
	}
	nr, err := readUint32(r)
	if err != nil {
		return credential.RealCredentialsRequest{}, err
	}
	requested := make([]credential.RequestedCredential, nr)
	for i := range requested {
		ma, err := readPoint(r)
		if err != nil {
			return credential.RealCredentialsRequest{}, err
		}
		mv, err := readPoint(r)
		if err != nil {
			return credential.RealCredentialsRequest{}, err
		}
		bits, err := readPoints(r)
		if err != nil {
			return credential.RealCredentialsRequest{}, err
		}
		requested[i] = credential.RequestedCredential{Ma: ma, Mv: mv, BitCommitments: bits}
	}
	proof, err := readProof(r)
	if err != nil {
		return credential.RealCredentialsRequest{}, err
	}
	return credential.RealCredentialsRequest{
		DeltaAmount:   delta,
		Presentations: presentations,
		Requested:     requested,
		Proof:         proof,
	}, nil
}

// MarshalCredentialsResponse encodes a coordinator's issuance response.
func MarshalCredentialsResponse(resp credential.CredentialsResponse) ([]byte, error) {
	buf := newBuffer()
	if err := writeUint32(buf, uint32(len(resp.Issued))); err != nil {
		return nil, err
	}
	for _, mac := range resp.Issued {
		if err := writeMAC(buf, mac); err != nil {
			return nil, err
		}
	}
	if err := writeProof(buf, resp.Proof); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalCredentialsResponse decodes a coordinator's issuance response.
func UnmarshalCredentialsResponse(b []byte) (credential.CredentialsResponse, error) {
	r := bytes.NewReader(b)
	n, err := readUint32(r)
	if err != nil {
		return credential.CredentialsResponse{}, err
	}
	issued := make([]kvac.MAC, n)
	for i := range issued {
		mac, err := readMAC(r)
		if err != nil {
			return credential.CredentialsResponse{}, err
		}
		issued[i] = mac
	}
	proof, err := readProof(r)
	if err != nil {
		return credential.CredentialsResponse{}, err
	}
	return credential.CredentialsResponse{Issued: issued, Proof: proof}, nil
}
