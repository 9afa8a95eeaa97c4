package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avialex/AeroMarketGo/internal/domain"
)

// publicFields are the mask fields granted to every requester.
var publicFields = func(m VisibilityMask) []bool {
	return []bool{m.Manufacturer, m.Model, m.Year, m.BasicConfiguration, m.PriceRange, m.GeneralLocation, m.Status}
}

var extendedFields = func(m VisibilityMask) []bool {
	return []bool{m.ExactPrice, m.TotalFlightHours, m.TotalCycles, m.BasicCharacteristics, m.MaintenanceHistory}
}

var confidentialFields = func(m VisibilityMask) []bool {
	return []bool{
		m.SerialNumber, m.RegistrationNumber, m.ExactLocation,
		m.DetailedMaintenanceHistory, m.TechnicalDocumentation, m.SellerContactInfo, m.EngineHours,
	}
}

func assertAll(t *testing.T, fields []bool, want bool, label string) {
	t.Helper()
	for i, f := range fields {
		assert.Equal(t, want, f, "%s field index %d", label, i)
	}
}

func TestResolveVisibility_Guest(t *testing.T) {
	m := ResolveVisibility(domain.LevelGuest, false)

	assertAll(t, publicFields(m), true, "public")
	assertAll(t, extendedFields(m), false, "extended")
	assertAll(t, confidentialFields(m), false, "confidential")
}

func TestResolveVisibility_RegisteredAddsExtendedFields(t *testing.T) {
	m := ResolveVisibility(domain.LevelRegistered, false)

	assertAll(t, publicFields(m), true, "public")
	assertAll(t, extendedFields(m), true, "extended")
	assertAll(t, confidentialFields(m), false, "confidential")
}

func TestResolveVisibility_VerifiedMatchesRegistered(t *testing.T) {
	// Technical-spec gating is a permission concern; field visibility does not
	// change between registered and verified.
	assert.Equal(t,
		ResolveVisibility(domain.LevelRegistered, false),
		ResolveVisibility(domain.LevelVerified, false),
	)
}

func TestResolveVisibility_MandatedSeesEverything(t *testing.T) {
	m := ResolveVisibility(domain.LevelMandated, false)

	assertAll(t, publicFields(m), true, "public")
	assertAll(t, extendedFields(m), true, "extended")
	assertAll(t, confidentialFields(m), true, "confidential")
}

func TestResolveVisibility_OwnerOverridesLevel(t *testing.T) {
	for _, level := range domain.Levels() {
		m := ResolveVisibility(level, true)

		assertAll(t, publicFields(m), true, "public")
		assertAll(t, extendedFields(m), true, "extended")
		assertAll(t, confidentialFields(m), true, "confidential")
	}
}

func TestResolveVisibility_MonotonicAcrossLevels(t *testing.T) {
	prev := ResolveVisibility(domain.LevelGuest, false)
	for _, level := range domain.Levels()[1:] {
		cur := ResolveVisibility(level, false)

		prevCount := countVisible(prev)
		curCount := countVisible(cur)
		assert.GreaterOrEqual(t, curCount, prevCount, "level %s lost fields", level)
		prev = cur
	}
}

func countVisible(m VisibilityMask) int {
	n := 0
	for _, f := range append(append(publicFields(m), extendedFields(m)...), confidentialFields(m)...) {
		if f {
			n++
		}
	}
	return n
}
