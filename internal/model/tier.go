package model

// Tier identifies a refine quota bucket and its upstream model.
type Tier string

const (
	// TierBasic is the free single-rewrite tier.
	TierBasic Tier = "basic"
	// TierPro is the structured project-decomposition tier.
	TierPro Tier = "pro"
)

// IsValid reports whether the tier is one of the known values.
func (t Tier) IsValid() bool {
	return t == TierBasic || t == TierPro
}

// QuotaColumn returns the users table column holding this tier's counter.
func (t Tier) QuotaColumn() string {
	if t == TierPro {
		return "pro_remaining"
	}
	return "basic_remaining"
}
