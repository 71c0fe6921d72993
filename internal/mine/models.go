// Package mine holds the Mine Registry: extraction sites, their owners, and
// their verification state. A mine is created unverified and may be verified
// by its owner; nothing in the system deletes a mine.
package mine

import "oreledger/pkg/domain"

// Mine is one extraction site. VerificationDate stays 0 and Verifier holds
// the registering owner as a placeholder until the mine is verified.
type Mine struct {
	ID               string
	Owner            domain.Identity
	Location         string
	Minerals         []string
	Verified         bool
	VerificationDate domain.LogicalTime
	Verifier         domain.Identity
}
