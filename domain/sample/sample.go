package sample

import "time"

// RawSample is one measurement row as delivered by the dataset loaders.
// Field names vary between exports; the connectors map whatever they find
// onto this shape. Optional fields stay zero-valued when absent.
type RawSample struct {
	EntityID string     `json:"entityId"`
	KPIName  string     `json:"kpiName"`
	Year     int        `json:"year"`
	Month    int        `json:"month"` // 1-12 when set; 0 means "use Date"
	Date     *time.Time `json:"date,omitempty"`
	Value    float64    `json:"value"`
	Province string     `json:"province,omitempty"`
	GroupID  string     `json:"groupId,omitempty"` // processor / caseificio identifier
}

// CanonicalRecord is a validated measurement for one KPI: finite value,
// month normalized to 0-11.
type CanonicalRecord struct {
	EntityID string
	Year     int
	Month    int // 0-11
	Value    float64
}

// MonthlyAggregate is the collapsed value for one (entity, year, month)
// triple. At most one exists per key.
type MonthlyAggregate struct {
	EntityID string
	Year     int
	Month    int // 0-11
	Value    float64
}
