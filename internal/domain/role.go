package domain

// Role represents a user's marketplace role. Roles are an unordered axis;
// the ordered verification level axis lives in VerificationLevel.
type Role string

const (
	RoleBuyer     Role = "buyer"
	RoleSeller    Role = "seller"
	RoleBroker    Role = "broker"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// ValidRoles returns the set of valid user roles.
func ValidRoles() []Role {
	return []Role{RoleBuyer, RoleSeller, RoleBroker, RoleAdmin, RoleModerator}
}

// IsValidRole checks whether the given string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == Role(role) {
			return true
		}
	}
	return false
}

// BusinessType categorizes the organization behind an account. Optional;
// empty means not declared.
type BusinessType string

const (
	BusinessBroker               BusinessType = "broker"
	BusinessAirline              BusinessType = "airline"
	BusinessLeasingCompany       BusinessType = "leasingCompany"
	BusinessIndividual           BusinessType = "individual"
	BusinessFinancialInstitution BusinessType = "financialInstitution"
	BusinessManufacturer         BusinessType = "manufacturer"
	BusinessMRO                  BusinessType = "mro"
	BusinessOther                BusinessType = "other"
)

// IsValidBusinessType checks whether the given string is a known business
// type. The empty string is valid (undeclared).
func IsValidBusinessType(bt BusinessType) bool {
	switch bt {
	case "", BusinessBroker, BusinessAirline, BusinessLeasingCompany, BusinessIndividual,
		BusinessFinancialInstitution, BusinessManufacturer, BusinessMRO, BusinessOther:
		return true
	}
	return false
}
