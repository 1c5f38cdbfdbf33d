package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// SplitConfiguration is the contractual percentage agreement for a release
// (or a whole label). It is immutable once revenue has been split against
// it; superseding creates a new version and retains the old one for audit.
type SplitConfiguration struct {
	ConfigID       string          `json:"configID"` // Primary Key (UUID)
	ReleaseID      *string         `json:"releaseID,omitempty"`
	LabelID        *string         `json:"labelID,omitempty"`
	PartnerFeeRate decimal.Decimal `json:"partnerFeeRate"` // 0 <= rate < 1
	ArtistPct      decimal.Decimal `json:"artistPct"`
	LabelPct       decimal.Decimal `json:"labelPct"`
	CompanyPct     decimal.Decimal `json:"companyPct"`
	Version        int64           `json:"version"`
	Active         bool            `json:"active"`
	AuditFields
}

// Validate enforces the write-time invariants: fee rate in [0, 1), no
// negative percentage, and percentages summing to exactly 1. Ingestion
// trusts these and does not re-check per record.
func (c *SplitConfiguration) Validate() error {
	if c.PartnerFeeRate.IsNegative() || c.PartnerFeeRate.GreaterThanOrEqual(one) {
		return fmt.Errorf("partner fee rate %s must be in [0, 1)", c.PartnerFeeRate)
	}
	if c.ReleaseID == nil && c.LabelID == nil {
		return fmt.Errorf("configuration must be scoped to a release or a label")
	}
	for name, pct := range map[string]decimal.Decimal{
		"artist":  c.ArtistPct,
		"label":   c.LabelPct,
		"company": c.CompanyPct,
	} {
		if pct.IsNegative() {
			return fmt.Errorf("%s percentage %s must not be negative", name, pct)
		}
	}
	if sum := c.ArtistPct.Add(c.LabelPct).Add(c.CompanyPct); !sum.Equal(one) {
		return fmt.Errorf("stakeholder percentages sum to %s, want exactly 1", sum)
	}
	return nil
}

// SplitResult is the exact decomposition of one gross revenue amount.
// PartnerFee + ArtistShare + LabelShare + CompanyShare == gross, always.
type SplitResult struct {
	PartnerFee   decimal.Decimal
	NetRevenue   decimal.Decimal
	ArtistShare  decimal.Decimal
	LabelShare   decimal.Decimal
	CompanyShare decimal.Decimal
}

// Split decomposes a gross amount. Fee and the non-final shares are rounded
// half-up to cents; the company share, last in the fixed stakeholder order,
// absorbs the rounding remainder so that the shares sum to net exactly.
func (c *SplitConfiguration) Split(gross decimal.Decimal) SplitResult {
	fee := gross.Mul(c.PartnerFeeRate).Round(2)
	net := gross.Sub(fee)
	artist := net.Mul(c.ArtistPct).Round(2)
	label := net.Mul(c.LabelPct).Round(2)
	company := net.Sub(artist).Sub(label)
	return SplitResult{
		PartnerFee:   fee,
		NetRevenue:   net,
		ArtistShare:  artist,
		LabelShare:   label,
		CompanyShare: company,
	}
}
