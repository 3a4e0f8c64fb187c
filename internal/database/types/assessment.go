package types

import (
	"errors"
	"fmt"
	"time"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// RiskTier classifies how likely a profile is participating in coordinated
// review farming. Tiers only increase while rules fire during an assessment.
type RiskTier int

const (
	RiskTierLow RiskTier = iota
	RiskTierMedium
	RiskTierHigh
	RiskTierCritical
)

// riskTierNames maps tiers to their wire representation.
var riskTierNames = map[RiskTier]string{
	RiskTierLow:      "low",
	RiskTierMedium:   "medium",
	RiskTierHigh:     "high",
	RiskTierCritical: "critical",
}

// String returns the lowercase tier name used in JSON payloads and logs.
func (t RiskTier) String() string {
	if name, ok := riskTierNames[t]; ok {
		return name
	}

	return fmt.Sprintf("RiskTier(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler for JSON serialization.
func (t RiskTier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *RiskTier) UnmarshalText(data []byte) error {
	for tier, name := range riskTierNames {
		if name == string(data) {
			*t = tier
			return nil
		}
	}

	return fmt.Errorf("unknown risk tier %q", string(data))
}

// Assessment is the farm checker's verdict for one (profile, stats) pair.
// The four lists preserve rule-evaluation order.
type Assessment struct {
	ProfileID         int64     `bun:",pk"           json:"profileId"`
	Score             float64   `bun:",notnull"      json:"score"`
	RiskTier          RiskTier  `bun:",notnull"      json:"riskTier"`
	FarmingIndicators []string  `bun:",notnull,type:jsonb" json:"farmingIndicators"`
	PositiveFactors   []string  `bun:",notnull,type:jsonb" json:"positiveFactors"`
	Recommendations   []string  `bun:",notnull,type:jsonb" json:"recommendations"`
	Eligible          bool      `bun:",notnull"      json:"eligible"`
	AssessedAt        time.Time `bun:",notnull"      json:"assessedAt"`
}
