package domain

// Role is the closed set of platform roles. Authorization decisions are made
// against the capability table below, never against ad-hoc string compares.
type Role string

const (
	RoleArtist              Role = "artist"
	RoleLabelAdmin          Role = "label_admin"
	RoleCompanyAdmin        Role = "company_admin"
	RoleDistributionPartner Role = "distribution_partner"
	RoleSuperAdmin          Role = "super_admin"
)

// Capability names a single guarded operation class.
type Capability string

const (
	CapReleaseSubmit        Capability = "release:submit"
	CapDistributionWriteAny Capability = "distribution:write:any"
	CapSplitConfigWrite     Capability = "finance:split_configuration:write"
	CapRevenueIngest        Capability = "revenue:ingest"
	CapPayoutApprove        Capability = "payout:approve"
	CapWalletReadAny        Capability = "wallet:read:any"
	CapWalletAdjust         Capability = "wallet:adjust"
)

// capabilityTable maps role x capability -> allowed. Checked once inside the
// core services; handlers never make authorization decisions.
var capabilityTable = map[Role]map[Capability]bool{
	RoleArtist: {
		CapReleaseSubmit: true,
	},
	RoleLabelAdmin: {
		CapReleaseSubmit: true,
	},
	RoleDistributionPartner: {
		CapDistributionWriteAny: true,
		CapRevenueIngest:        true,
	},
	RoleCompanyAdmin: {
		CapDistributionWriteAny: true,
		CapSplitConfigWrite:     true,
		CapRevenueIngest:        true,
		CapPayoutApprove:        true,
		CapWalletReadAny:        true,
		CapWalletAdjust:         true,
	},
	RoleSuperAdmin: {
		CapReleaseSubmit:        true,
		CapDistributionWriteAny: true,
		CapSplitConfigWrite:     true,
		CapRevenueIngest:        true,
		CapPayoutApprove:        true,
		CapWalletReadAny:        true,
		CapWalletAdjust:         true,
	},
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := capabilityTable[r]
	return ok
}

// Can reports whether the role holds the given capability.
func (r Role) Can(c Capability) bool {
	return capabilityTable[r][c]
}

// Principal is the authenticated caller as seen by the core: an opaque user
// ID plus its platform role. It is extracted from the access token by the
// auth middleware.
type Principal struct {
	UserID string `json:"userID"`
	Role   Role   `json:"role"`
}
