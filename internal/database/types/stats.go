package types

import "time"

// HourlyTierStats records how many assessments landed in each risk tier
// during one hour. Used by the stats worker and the distribution chart.
type HourlyTierStats struct {
	Hour          time.Time `bun:",pk"      json:"hour"`
	LowCount      int64     `bun:",notnull" json:"lowCount"`
	MediumCount   int64     `bun:",notnull" json:"mediumCount"`
	HighCount     int64     `bun:",notnull" json:"highCount"`
	CriticalCount int64     `bun:",notnull" json:"criticalCount"`
	AverageScore  float64   `bun:",notnull" json:"averageScore"`
}

// ScoreBucket is one bar of the score distribution histogram.
type ScoreBucket struct {
	Lower int   `json:"lower"`
	Upper int   `json:"upper"`
	Count int64 `json:"count"`
}
