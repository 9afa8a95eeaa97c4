package access

import (
	"github.com/avialex/AeroMarketGo/internal/domain"
)

// VisibilityMask is the fixed bundle of per-field visibility booleans for a
// listing. Visibility gates individual fields; permissions gate whole
// sections. The two are deliberately separate axes.
type VisibilityMask struct {
	// Public fields, visible to everyone including guests.
	Manufacturer       bool `json:"manufacturer"`
	Model              bool `json:"model"`
	Year               bool `json:"year"`
	BasicConfiguration bool `json:"basicConfiguration"`
	PriceRange         bool `json:"priceRange"`
	GeneralLocation    bool `json:"generalLocation"`
	Status             bool `json:"status"`

	// Extended fields, visible from the registered level.
	ExactPrice           bool `json:"exactPrice"`
	TotalFlightHours     bool `json:"totalFlightHours"`
	TotalCycles          bool `json:"totalCycles"`
	BasicCharacteristics bool `json:"basicCharacteristics"`
	MaintenanceHistory   bool `json:"maintenanceHistory"`

	// Confidential fields, visible only at the mandated level or to the owner.
	SerialNumber               bool `json:"serialNumber"`
	RegistrationNumber         bool `json:"registrationNumber"`
	ExactLocation              bool `json:"exactLocation"`
	DetailedMaintenanceHistory bool `json:"detailedMaintenanceHistory"`
	TechnicalDocumentation     bool `json:"technicalDocumentation"`
	SellerContactInfo          bool `json:"sellerContactInfo"`
	EngineHours                bool `json:"engineHours"`
}

// publicMask returns the subset every requester sees.
func publicMask() VisibilityMask {
	return VisibilityMask{
		Manufacturer:       true,
		Model:              true,
		Year:               true,
		BasicConfiguration: true,
		PriceRange:         true,
		GeneralLocation:    true,
		Status:             true,
	}
}

// fullMask returns the mask with every field visible.
func fullMask() VisibilityMask {
	return VisibilityMask{
		Manufacturer:       true,
		Model:              true,
		Year:               true,
		BasicConfiguration: true,
		PriceRange:         true,
		GeneralLocation:    true,
		Status:             true,

		ExactPrice:           true,
		TotalFlightHours:     true,
		TotalCycles:          true,
		BasicCharacteristics: true,
		MaintenanceHistory:   true,

		SerialNumber:               true,
		RegistrationNumber:         true,
		ExactLocation:              true,
		DetailedMaintenanceHistory: true,
		TechnicalDocumentation:     true,
		SellerContactInfo:          true,
		EngineHours:                true,
	}
}

// ResolveVisibility computes the per-field visibility mask for a requester.
// Ownership is an unconditional override: the owner of a resource sees every
// field regardless of verification level. Otherwise visibility grows
// monotonically with the level; the verified level adds nothing over
// registered here because technical-spec gating is expressed through
// permissions, not field visibility.
func ResolveVisibility(level domain.VerificationLevel, isOwner bool) VisibilityMask {
	if isOwner {
		return fullMask()
	}

	if level >= domain.LevelMandated {
		return fullMask()
	}

	m := publicMask()
	if level >= domain.LevelRegistered {
		m.ExactPrice = true
		m.TotalFlightHours = true
		m.TotalCycles = true
		m.BasicCharacteristics = true
		m.MaintenanceHistory = true
	}
	return m
}
