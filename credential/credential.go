// Package credential implements the credential client (component C6):
// zero-value and real credential requests, response verification, and the
// client-held credential pool.
package credential

import (
	"github.com/wabisabi-go/core/group"
	"github.com/wabisabi-go/core/kvac"
)

// Credential is a client-held, single-use KVAC credential over the two
// attributes every credential carries jointly: amount and vsize.
type Credential struct {
	Amount uint64
	Vsize  uint64
	Ra, Rv group.Scalar
	Ma, Mv group.Element
	MAC    kvac.MAC
}

// macKey returns the canonical bytes identifying this credential's MAC, used
// to detect two presented credentials sharing the same MAC.
func (c Credential) macKey() [33]byte {
	return c.MAC.V.Bytes()
}

// Pool holds the credentials a client currently has available to present.
// Take removes credentials for spending; the pool does not replace them
// itself, so reissued successors enter it only through Add.
type Pool struct {
	credentials []Credential
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Add deposits newly issued credentials into the pool.
func (p *Pool) Add(creds ...Credential) {
	p.credentials = append(p.credentials, creds...)
}

// Take removes and returns n credentials from the pool for presentation.
func (p *Pool) Take(n int) ([]Credential, bool) {
	if n > len(p.credentials) {
		return nil, false
	}
	taken := append([]Credential(nil), p.credentials[:n]...)
	p.credentials = p.credentials[n:]
	return taken, true
}

// Len reports how many credentials remain in the pool.
func (p *Pool) Len() int {
	return len(p.credentials)
}
