package constants

// Role user di token JWT (claim "role")
const (
	RoleOwner   = "owner"
	RoleAdmin   = "admin"
	RoleFinance = "finance"
	RoleUser    = "user"
)

// AllowedToApproveCancellation: role yang boleh menyetujui pembatalan order
var AllowedToApproveCancellation = []string{RoleOwner, RoleAdmin}

// AllowedToManageInvoice: role yang boleh generate/submit/revert invoice
var AllowedToManageInvoice = []string{RoleOwner, RoleAdmin, RoleFinance}
