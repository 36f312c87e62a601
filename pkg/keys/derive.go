package keys

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
)

// derivedAddressMarker is appended to the seed material so derived addresses
// can never collide with hashes produced outside the derivation scheme.
const derivedAddressMarker = "ProgramDerivedAddress"

// ErrNoDerivedAddress is returned when no off-curve address exists for the
// given seeds. The probability of exhausting all 256 bump seeds is negligible.
var ErrNoDerivedAddress = errors.New("keys: unable to find a derived address for the given seeds")

// Derive computes the storage address for a journal entry from its natural
// key and owner identity. The scheme matches the remote program's own
// derivation: seeds are the raw title bytes followed by the owner address,
// and the first bump seed (searching 255 down to 0) whose hash is not a
// valid curve point wins. Deterministic and pure; no length validation is
// performed here, an oversized title is the remote program's rejection to
// raise.
func Derive(title string, owner Address, programID Address) (Address, uint8, error) {
	return deriveFromSeeds([][]byte{[]byte(title), owner[:]}, programID)
}

func deriveFromSeeds(seeds [][]byte, programID Address) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{uint8(bump)})
		h.Write(programID[:])
		h.Write([]byte(derivedAddressMarker))

		var candidate Address
		copy(candidate[:], h.Sum(nil))
		if !onCurve(candidate) {
			return candidate, uint8(bump), nil
		}
	}
	return Zero, 0, ErrNoDerivedAddress
}

// onCurve reports whether the 32 bytes decode to a valid edwards25519 point.
// Derived addresses must be off-curve so no private key can ever sign for
// them.
func onCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}
