// Package certification holds the Certification Registry: the certifier
// roster managed by the registry owner, and at most one certification record
// per batch. A revoked certification permanently blocks re-certification;
// compliance failure means a new batch identity, not a renewal.
package certification

import "oreledger/pkg/domain"

// Certifier is a roster entry. Removal deactivates, never deletes, so the
// roster itself is an audit trail.
type Certifier struct {
	Address domain.Identity
	Active  bool
}

// Status of a certification.
type Status string

const (
	StatusValid   Status = "valid"
	StatusRevoked Status = "revoked"
)

// Certification is a time-bounded compliance attestation for one batch.
// Revocation overwrites Notes with the revocation reason; the prior notes are
// preserved on the emitted audit event.
type Certification struct {
	BatchID           string
	Certifier         domain.Identity
	CertificationDate domain.LogicalTime
	ExpirationDate    domain.LogicalTime
	Standards         []string
	Status            Status
	Notes             string
}

// Expired reports whether the validity window has passed at the given height.
func (c Certification) Expired(now domain.LogicalTime) bool {
	return now > c.ExpirationDate
}
