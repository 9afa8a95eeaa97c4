package access

import (
	"strings"

	"github.com/avialex/AeroMarketGo/internal/domain"
)

// flagToGrant maps permission flags to the "resource:action" grant strings
// carried in access-token claims and checked by RequirePermission guards.
var flagToGrant = map[Flag]string{
	FlagViewBasicInfo:       "listing:view-basic",
	FlagViewExtendedInfo:    "listing:view-extended",
	FlagViewTechnicalSpecs:  "listing:view-technical",
	FlagViewConfidential:    "listing:view-confidential",
	FlagViewSellerContacts:  "listing:view-seller-contacts",
	FlagListAircraft:        "listing:create",
	FlagEditListings:        "listing:edit",
	FlagDeleteListings:      "listing:delete",
	FlagContactSellers:      "listing:contact-seller",
	FlagSubmitRequests:      "request:submit",
	FlagUploadDocuments:     "document:upload",
	FlagDownloadDocuments:   "document:download",
	FlagViewDocumentHistory: "document:history",
	FlagModerateContent:     "content:moderate",
	FlagVerifyUsers:         "users:verify",
	FlagAccessAnalytics:     "analytics:view",
	FlagManageSystem:        "system:manage",
}

// grantToFlag is the inverse of flagToGrant, built once at init.
var grantToFlag = func() map[string]Flag {
	m := make(map[string]Flag, len(flagToGrant))
	for f, g := range flagToGrant {
		m[g] = f
	}
	return m
}()

// FlagForGrant resolves a (resource, action) pair to its permission flag.
// The second return is false for unknown pairs.
func FlagForGrant(resource, action string) (Flag, bool) {
	f, ok := grantToFlag[resource+":"+action]
	return f, ok
}

// Grant returns the "resource:action" string for a flag, or "" for unknown flags.
func Grant(flag Flag) string {
	return flagToGrant[flag]
}

// requiredLevels is the static inverse lookup from permission flag to the
// minimum verification level that grants it for a non-privileged role.
var requiredLevels = map[Flag]domain.VerificationLevel{
	FlagViewBasicInfo:       domain.LevelGuest,
	FlagViewExtendedInfo:    domain.LevelRegistered,
	FlagViewTechnicalSpecs:  domain.LevelVerified,
	FlagViewConfidential:    domain.LevelMandated,
	FlagViewSellerContacts:  domain.LevelMandated,
	FlagContactSellers:      domain.LevelRegistered,
	FlagSubmitRequests:      domain.LevelRegistered,
	FlagListAircraft:        domain.LevelVerified,
	FlagEditListings:        domain.LevelVerified,
	FlagDeleteListings:      domain.LevelVerified,
	FlagUploadDocuments:     domain.LevelRegistered,
	FlagDownloadDocuments:   domain.LevelVerified,
	FlagViewDocumentHistory: domain.LevelVerified,
}

// RequiredLevel returns the minimum verification level needed for the given
// permission flag. Flags absent from the table (the administrative ones)
// default to the highest level: fail closed.
func RequiredLevel(flag Flag) domain.VerificationLevel {
	if lvl, ok := requiredLevels[flag]; ok {
		return lvl
	}
	return domain.LevelMandated
}

// RequiredLevels returns a copy of the full inverse table, keyed by flag
// name, for the client advisory endpoint.
func RequiredLevels() map[Flag]domain.VerificationLevel {
	out := make(map[Flag]domain.VerificationLevel, len(AllFlags()))
	for _, f := range AllFlags() {
		out[f] = RequiredLevel(f)
	}
	return out
}

// verificationSteps lists the full KYC workflow in order. Each verification
// level corresponds to having completed a prefix of this list.
var verificationSteps = []string{
	"Email verification",
	"Phone verification",
	"Document upload",
	"KYC review",
	"Mandate submission",
	"Final approval",
}

// VerificationSteps returns the steps remaining to reach the mandated level
// from the given one.
func VerificationSteps(current domain.VerificationLevel) []string {
	switch current {
	case domain.LevelRegistered:
		return append([]string(nil), verificationSteps[2:]...)
	case domain.LevelVerified:
		return append([]string(nil), verificationSteps[4:]...)
	case domain.LevelMandated:
		return []string{}
	default:
		return append([]string(nil), verificationSteps...)
	}
}

// ParseGrant splits a "resource:action" grant string. Returns empty strings
// when the input is malformed.
func ParseGrant(grant string) (resource, action string) {
	parts := strings.SplitN(grant, ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], parts[1]
}
