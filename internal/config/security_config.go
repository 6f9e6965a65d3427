// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

const ledgerServicePrefix = "/cyclerent.ledger.v1.LedgerService/"

// EndpointSecurityConfig maps methods to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Health
	"/grpc.health.v1.Health/Check": SecurityPublic,
	"/grpc.health.v1.Health/Watch": SecurityPublic,

	// Cycles - Public queries
	ledgerServicePrefix + "GetCycle":              SecurityPublic,
	ledgerServicePrefix + "GetOwnerCycles":        SecurityPublic,
	ledgerServicePrefix + "GetAllAvailableCycles": SecurityPublic,
	ledgerServicePrefix + "GetTotalCycles":        SecurityPublic,

	// Cycles - Access Protected
	ledgerServicePrefix + "ListCycle":        SecurityAccess,
	ledgerServicePrefix + "UpdateCyclePrice": SecurityAccess,
	ledgerServicePrefix + "RemoveCycle":      SecurityAccess,

	// Rentals - Public queries
	ledgerServicePrefix + "GetRental":          SecurityPublic,
	ledgerServicePrefix + "GetUserRentals":     SecurityPublic,
	ledgerServicePrefix + "GetTotalRentals":    SecurityPublic,
	ledgerServicePrefix + "ListOverdueRentals": SecurityPublic,

	// Rentals - Access Protected
	ledgerServicePrefix + "RentCycle":   SecurityAccess,
	ledgerServicePrefix + "ReturnCycle": SecurityAccess,

	// Disputes
	ledgerServicePrefix + "GetIssueReport": SecurityPublic,
	ledgerServicePrefix + "ListOpenIssues": SecurityPublic,
	ledgerServicePrefix + "ReportIssue":    SecurityAccess,
	ledgerServicePrefix + "ProcessRefund":  SecurityAccess,

	// Balances
	ledgerServicePrefix + "GetBalance":       SecurityPublic,
	ledgerServicePrefix + "GetRentalEntries": SecurityPublic,
	ledgerServicePrefix + "GetEscrowBalance": SecurityPublic,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
