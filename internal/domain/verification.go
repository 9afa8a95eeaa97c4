package domain

import "fmt"

// VerificationLevel is the ordered KYC axis. Each level is a strict superset
// of the grants of the level below it; the integer values are stored in the
// database and carried in token claims, so they must never be renumbered.
type VerificationLevel int

const (
	LevelGuest      VerificationLevel = 0
	LevelRegistered VerificationLevel = 1
	LevelVerified   VerificationLevel = 2
	LevelMandated   VerificationLevel = 3
)

// Levels returns all verification levels in ascending order.
func Levels() []VerificationLevel {
	return []VerificationLevel{LevelGuest, LevelRegistered, LevelVerified, LevelMandated}
}

// String returns the canonical name of the level.
func (l VerificationLevel) String() string {
	switch l {
	case LevelGuest:
		return "guest"
	case LevelRegistered:
		return "registered"
	case LevelVerified:
		return "verified"
	case LevelMandated:
		return "mandated"
	}
	return fmt.Sprintf("unknown(%d)", int(l))
}

// AtLeast reports whether l meets the given minimum level.
func (l VerificationLevel) AtLeast(min VerificationLevel) bool {
	return l >= min
}

// IsValidVerificationLevel checks that the given level maps to a defined ordinal.
func IsValidVerificationLevel(l VerificationLevel) bool {
	return l >= LevelGuest && l <= LevelMandated
}
