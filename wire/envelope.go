package wire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/google/uuid"

	"github.com/wabisabi-go/core/credential"
)

// RoundID and ParticipantID identify a mixing round and a participant
// within it, matching §6's envelope headers.
type RoundID = uuid.UUID
type ParticipantID = uuid.UUID

func writeUUID(w *bytes.Buffer, id uuid.UUID) error {
	_, err := w.Write(id[:])
	return err
}

func readUUID(r *bytes.Reader) (uuid.UUID, error) {
	var b [16]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return uuid.UUID{}, err
	}
	return uuid.UUID(b), nil
}

// InputRegistration is the first-round envelope: a participant registers an
// input and requests fresh credentials for the coins it contributes; the
// coin itself funds them, so no funded credentials are presented.
type InputRegistration struct {
	RoundID       RoundID
	ParticipantID ParticipantID
	Request       credential.RealCredentialsRequest
}

// MarshalBinary encodes an InputRegistration envelope.
func (m InputRegistration) MarshalBinary() ([]byte, error) {
	buf := newBuffer()
	if err := writeUUID(buf, m.RoundID); err != nil {
		return nil, err
	}
	if err := writeUUID(buf, m.ParticipantID); err != nil {
		return nil, err
	}
	reqBytes, err := MarshalRealCredentialsRequest(m.Request)
	if err != nil {
		return nil, err
	}
	if err := writeBytes(buf, reqBytes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes an InputRegistration envelope.
func (m *InputRegistration) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)
	roundID, err := readUUID(r)
	if err != nil {
		return err
	}
	partID, err := readUUID(r)
	if err != nil {
		return err
	}
	reqBytes, err := readBytes(r)
	if err != nil {
		return err
	}
	req, err := UnmarshalRealCredentialsRequest(reqBytes)
	if err != nil {
		return err
	}
	m.RoundID, m.ParticipantID, m.Request = roundID, partID, req
	return nil
}

// ConnectionConfirmation is the envelope a participant sends to acknowledge
// it is still connected for the round, seeding its credential pool with
// zero-valued credentials.
type ConnectionConfirmation struct {
	RoundID       RoundID
	ParticipantID ParticipantID
	ZeroRequest   credential.ZeroCredentialsRequest
}

// MarshalBinary encodes a ConnectionConfirmation envelope.
func (m ConnectionConfirmation) MarshalBinary() ([]byte, error) {
	buf := newBuffer()
	if err := writeUUID(buf, m.RoundID); err != nil {
		return nil, err
	}
	if err := writeUUID(buf, m.ParticipantID); err != nil {
		return nil, err
	}
	reqBytes, err := MarshalZeroCredentialsRequest(m.ZeroRequest)
	if err != nil {
		return nil, err
	}
	if err := writeBytes(buf, reqBytes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a ConnectionConfirmation envelope.
func (m *ConnectionConfirmation) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)
	roundID, err := readUUID(r)
	if err != nil {
		return err
	}
	partID, err := readUUID(r)
	if err != nil {
		return err
	}
	reqBytes, err := readBytes(r)
	if err != nil {
		return err
	}
	req, err := UnmarshalZeroCredentialsRequest(reqBytes)
	if err != nil {
		return err
	}
	m.RoundID, m.ParticipantID, m.ZeroRequest = roundID, partID, req
	return nil
}

// Reissuance is the envelope exchanged during the graph-resolution phase:
// a participant splits or merges previously issued credentials.
type Reissuance struct {
	RoundID       RoundID
	ParticipantID ParticipantID
	Request       credential.RealCredentialsRequest
}

// MarshalBinary encodes a Reissuance envelope.
func (m Reissuance) MarshalBinary() ([]byte, error) {
	buf := newBuffer()
	if err := writeUUID(buf, m.RoundID); err != nil {
		return nil, err
	}
	if err := writeUUID(buf, m.ParticipantID); err != nil {
		return nil, err
	}
	reqBytes, err := MarshalRealCredentialsRequest(m.Request)
	if err != nil {
		return nil, err
	}
	if err := writeBytes(buf, reqBytes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a Reissuance envelope.
func (m *Reissuance) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)
	roundID, err := readUUID(r)
	if err != nil {
		return err
	}
	partID, err := readUUID(r)
	if err != nil {
		return err
	}
	reqBytes, err := readBytes(r)
	if err != nil {
		return err
	}
	req, err := UnmarshalRealCredentialsRequest(reqBytes)
	if err != nil {
		return err
	}
	m.RoundID, m.ParticipantID, m.Request = roundID, partID, req
	return nil
}

// OutputRegistration is the envelope a participant sends to register an
// output address, presenting the credentials that fund it.
type OutputRegistration struct {
	RoundID       RoundID
	ParticipantID ParticipantID
	ScriptPubKey  []byte
	Request       credential.RealCredentialsRequest
}

// MarshalBinary encodes an OutputRegistration envelope.
func (m OutputRegistration) MarshalBinary() ([]byte, error) {
	buf := newBuffer()
	if err := writeUUID(buf, m.RoundID); err != nil {
		return nil, err
	}
	if err := writeUUID(buf, m.ParticipantID); err != nil {
		return nil, err
	}
	if err := writeBytes(buf, m.ScriptPubKey); err != nil {
		return nil, err
	}
	reqBytes, err := MarshalRealCredentialsRequest(m.Request)
	if err != nil {
		return nil, err
	}
	if err := writeBytes(buf, reqBytes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes an OutputRegistration envelope.
func (m *OutputRegistration) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)
	roundID, err := readUUID(r)
	if err != nil {
		return err
	}
	partID, err := readUUID(r)
	if err != nil {
		return err
	}
	spk, err := readBytes(r)
	if err != nil {
		return err
	}
	reqBytes, err := readBytes(r)
	if err != nil {
		return err
	}
	req, err := UnmarshalRealCredentialsRequest(reqBytes)
	if err != nil {
		return err
	}
	m.RoundID, m.ParticipantID, m.ScriptPubKey, m.Request = roundID, partID, spk, req
	return nil
}

// TransactionSignatures is the final-round envelope carrying a
// participant's witness data for its registered inputs. Signature
// production itself is out of scope; these are opaque wallet-produced
// bytes carried unmodified to the coordinator.
type TransactionSignatures struct {
	RoundID       RoundID
	ParticipantID ParticipantID
	Witnesses     [][]byte
}

// MarshalBinary encodes a TransactionSignatures envelope.
func (m TransactionSignatures) MarshalBinary() ([]byte, error) {
	buf := newBuffer()
	if err := writeUUID(buf, m.RoundID); err != nil {
		return nil, err
	}
	if err := writeUUID(buf, m.ParticipantID); err != nil {
		return nil, err
	}
	if err := writeUint32(buf, uint32(len(m.Witnesses))); err != nil {
		return nil, err
	}
	for _, w := range m.Witnesses {
		if err := writeBytes(buf, w); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a TransactionSignatures envelope.
func (m *TransactionSignatures) UnmarshalBinary(b []byte) error {
	r := bytes.NewReader(b)
	roundID, err := readUUID(r)
	if err != nil {
		return err
	}
	partID, err := readUUID(r)
	if err != nil {
		return err
	}
	n, err := readUint32(r)
	if err != nil {
		return err
	}
	witnesses := make([][]byte, n)
	for i := range witnesses {
		w, err := readBytes(r)
		if err != nil {
			return err
		}
		witnesses[i] = w
	}
	m.RoundID, m.ParticipantID, m.Witnesses = roundID, partID, witnesses
	return nil
}

// FormatAmount renders a satoshi amount the way diagnostics and CLI output
// display it, reusing btcutil's BTC/satoshi formatting rules.
func FormatAmount(sats int64) string {
	return btcutil.Amount(sats).String()
}
