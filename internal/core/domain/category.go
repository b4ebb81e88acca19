package domain

// Category is a label from the closed chunk classification scheme.
type Category string

// Available categories.
const (
	CategoryGRPC      Category = "grpc"
	CategoryGNMI      Category = "gnmi"
	CategoryYANG      Category = "yang"
	CategoryDebugging Category = "debugging"
	CategoryNetwork   Category = "network"

	// CategoryGeneral is the fallback when no rule matches.
	CategoryGeneral Category = "general"
)

// Categories returns every label in the scheme.
func Categories() []Category {
	return []Category{
		CategoryGRPC,
		CategoryGNMI,
		CategoryYANG,
		CategoryDebugging,
		CategoryNetwork,
		CategoryGeneral,
	}
}

// IsValid returns true if the category belongs to the scheme.
func (c Category) IsValid() bool {
	switch c {
	case CategoryGRPC, CategoryGNMI, CategoryYANG, CategoryDebugging, CategoryNetwork, CategoryGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}
