// Package access is the canonical access-control resolver for the
// marketplace. Permissions and data visibility are pure functions of
// (role, verification level, business type, ownership): the same package
// backs the server-side enforcement middleware and the client advisory
// endpoint, so the two can never drift.
package access

import (
	"github.com/avialex/AeroMarketGo/internal/domain"
)

// Flag identifies a single permission in the fixed permission bundle.
type Flag string

const (
	FlagViewBasicInfo       Flag = "canViewBasicInfo"
	FlagViewExtendedInfo    Flag = "canViewExtendedInfo"
	FlagViewTechnicalSpecs  Flag = "canViewTechnicalSpecs"
	FlagViewConfidential    Flag = "canViewConfidentialData"
	FlagViewSellerContacts  Flag = "canViewSellerContacts"
	FlagListAircraft        Flag = "canListAircraft"
	FlagEditListings        Flag = "canEditListings"
	FlagDeleteListings      Flag = "canDeleteListings"
	FlagContactSellers      Flag = "canContactSellers"
	FlagSubmitRequests      Flag = "canSubmitRequests"
	FlagUploadDocuments     Flag = "canUploadDocuments"
	FlagDownloadDocuments   Flag = "canDownloadDocuments"
	FlagViewDocumentHistory Flag = "canViewDocumentHistory"
	FlagModerateContent     Flag = "canModerateContent"
	FlagVerifyUsers         Flag = "canVerifyUsers"
	FlagAccessAnalytics     Flag = "canAccessAnalytics"
	FlagManageSystem        Flag = "canManageSystem"
)

// AllFlags returns every permission flag in declaration order.
func AllFlags() []Flag {
	return []Flag{
		FlagViewBasicInfo, FlagViewExtendedInfo, FlagViewTechnicalSpecs,
		FlagViewConfidential, FlagViewSellerContacts,
		FlagListAircraft, FlagEditListings, FlagDeleteListings,
		FlagContactSellers, FlagSubmitRequests,
		FlagUploadDocuments, FlagDownloadDocuments, FlagViewDocumentHistory,
		FlagModerateContent, FlagVerifyUsers, FlagAccessAnalytics, FlagManageSystem,
	}
}

// PermissionSet is the fixed bundle of permission booleans. It is derived,
// never stored; callers recompute it per request from live user state.
type PermissionSet struct {
	CanViewBasicInfo        bool `json:"canViewBasicInfo"`
	CanViewExtendedInfo     bool `json:"canViewExtendedInfo"`
	CanViewTechnicalSpecs   bool `json:"canViewTechnicalSpecs"`
	CanViewConfidentialData bool `json:"canViewConfidentialData"`
	CanViewSellerContacts   bool `json:"canViewSellerContacts"`

	CanListAircraft   bool `json:"canListAircraft"`
	CanEditListings   bool `json:"canEditListings"`
	CanDeleteListings bool `json:"canDeleteListings"`
	CanContactSellers bool `json:"canContactSellers"`
	CanSubmitRequests bool `json:"canSubmitRequests"`

	CanUploadDocuments     bool `json:"canUploadDocuments"`
	CanDownloadDocuments   bool `json:"canDownloadDocuments"`
	CanViewDocumentHistory bool `json:"canViewDocumentHistory"`

	CanModerateContent bool `json:"canModerateContent"`
	CanVerifyUsers     bool `json:"canVerifyUsers"`
	CanAccessAnalytics bool `json:"canAccessAnalytics"`
	CanManageSystem    bool `json:"canManageSystem"`
}

// Has reports whether the set grants the given flag. Unknown flags are
// never granted.
func (p PermissionSet) Has(flag Flag) bool {
	switch flag {
	case FlagViewBasicInfo:
		return p.CanViewBasicInfo
	case FlagViewExtendedInfo:
		return p.CanViewExtendedInfo
	case FlagViewTechnicalSpecs:
		return p.CanViewTechnicalSpecs
	case FlagViewConfidential:
		return p.CanViewConfidentialData
	case FlagViewSellerContacts:
		return p.CanViewSellerContacts
	case FlagListAircraft:
		return p.CanListAircraft
	case FlagEditListings:
		return p.CanEditListings
	case FlagDeleteListings:
		return p.CanDeleteListings
	case FlagContactSellers:
		return p.CanContactSellers
	case FlagSubmitRequests:
		return p.CanSubmitRequests
	case FlagUploadDocuments:
		return p.CanUploadDocuments
	case FlagDownloadDocuments:
		return p.CanDownloadDocuments
	case FlagViewDocumentHistory:
		return p.CanViewDocumentHistory
	case FlagModerateContent:
		return p.CanModerateContent
	case FlagVerifyUsers:
		return p.CanVerifyUsers
	case FlagAccessAnalytics:
		return p.CanAccessAnalytics
	case FlagManageSystem:
		return p.CanManageSystem
	}
	return false
}

// Union returns the flag-wise OR of two permission sets.
func (p PermissionSet) Union(other PermissionSet) PermissionSet {
	return PermissionSet{
		CanViewBasicInfo:        p.CanViewBasicInfo || other.CanViewBasicInfo,
		CanViewExtendedInfo:     p.CanViewExtendedInfo || other.CanViewExtendedInfo,
		CanViewTechnicalSpecs:   p.CanViewTechnicalSpecs || other.CanViewTechnicalSpecs,
		CanViewConfidentialData: p.CanViewConfidentialData || other.CanViewConfidentialData,
		CanViewSellerContacts:   p.CanViewSellerContacts || other.CanViewSellerContacts,
		CanListAircraft:         p.CanListAircraft || other.CanListAircraft,
		CanEditListings:         p.CanEditListings || other.CanEditListings,
		CanDeleteListings:       p.CanDeleteListings || other.CanDeleteListings,
		CanContactSellers:       p.CanContactSellers || other.CanContactSellers,
		CanSubmitRequests:       p.CanSubmitRequests || other.CanSubmitRequests,
		CanUploadDocuments:      p.CanUploadDocuments || other.CanUploadDocuments,
		CanDownloadDocuments:    p.CanDownloadDocuments || other.CanDownloadDocuments,
		CanViewDocumentHistory:  p.CanViewDocumentHistory || other.CanViewDocumentHistory,
		CanModerateContent:      p.CanModerateContent || other.CanModerateContent,
		CanVerifyUsers:          p.CanVerifyUsers || other.CanVerifyUsers,
		CanAccessAnalytics:      p.CanAccessAnalytics || other.CanAccessAnalytics,
		CanManageSystem:         p.CanManageSystem || other.CanManageSystem,
	}
}

// Strings returns the granted permissions as "resource:action" strings for
// embedding in token claims.
func (p PermissionSet) Strings() []string {
	var out []string
	for _, f := range AllFlags() {
		if p.Has(f) {
			out = append(out, flagToGrant[f])
		}
	}
	return out
}

// levelPermissions returns the grants contributed by the verification level
// alone. Each level is the union of all lower levels plus its own additions,
// which keeps the monotonicity property mechanically checkable.
func levelPermissions(level domain.VerificationLevel) PermissionSet {
	p := PermissionSet{CanViewBasicInfo: true}

	if level >= domain.LevelRegistered {
		p.CanViewExtendedInfo = true
		p.CanContactSellers = true
		p.CanSubmitRequests = true
		p.CanUploadDocuments = true
	}

	if level >= domain.LevelVerified {
		p.CanViewTechnicalSpecs = true
		p.CanDownloadDocuments = true
		p.CanViewDocumentHistory = true
	}

	if level >= domain.LevelMandated {
		p.CanViewConfidentialData = true
		p.CanViewSellerContacts = true
	}

	return p
}

// rolePermissions returns the overlay contributed by the role alone.
// Admin and moderator grants are deliberately independent of the
// verification level: a low level must never restrict a privileged role.
func rolePermissions(role domain.Role, level domain.VerificationLevel) PermissionSet {
	switch role {
	case domain.RoleAdmin:
		return PermissionSet{
			CanViewBasicInfo:        true,
			CanViewExtendedInfo:     true,
			CanViewTechnicalSpecs:   true,
			CanViewConfidentialData: true,
			CanViewSellerContacts:   true,
			CanListAircraft:         true,
			CanEditListings:         true,
			CanDeleteListings:       true,
			CanContactSellers:       true,
			CanSubmitRequests:       true,
			CanUploadDocuments:      true,
			CanDownloadDocuments:    true,
			CanViewDocumentHistory:  true,
			CanModerateContent:      true,
			CanVerifyUsers:          true,
			CanAccessAnalytics:      true,
			CanManageSystem:         true,
		}
	case domain.RoleModerator:
		return PermissionSet{
			CanViewBasicInfo:       true,
			CanViewExtendedInfo:    true,
			CanViewTechnicalSpecs:  true,
			CanContactSellers:      true,
			CanSubmitRequests:      true,
			CanUploadDocuments:     true,
			CanDownloadDocuments:   true,
			CanViewDocumentHistory: true,
			CanModerateContent:     true,
			CanVerifyUsers:         true,
		}
	case domain.RoleSeller, domain.RoleBroker:
		// Listing management requires a completed KYC on top of the role.
		if level >= domain.LevelVerified {
			return PermissionSet{
				CanViewBasicInfo:  true,
				CanListAircraft:   true,
				CanEditListings:   true,
				CanDeleteListings: true,
			}
		}
	}
	return PermissionSet{CanViewBasicInfo: true}
}

// ResolvePermissions computes the effective permission set from the role and
// verification-level axes. The two contributions combine by union: grants are
// additive across axes, never subtractive. The businessType input is accepted
// for interface completeness; no current permission depends on it.
func ResolvePermissions(level domain.VerificationLevel, role domain.Role, _ domain.BusinessType) PermissionSet {
	return levelPermissions(level).Union(rolePermissions(role, level))
}

// CanAccessFeature reports whether the given flag is granted for the inputs.
func CanAccessFeature(flag Flag, level domain.VerificationLevel, role domain.Role, bt domain.BusinessType) bool {
	return ResolvePermissions(level, role, bt).Has(flag)
}
