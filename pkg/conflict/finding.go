// Package conflict evaluates operational conflicts across the pilot roster,
// drone fleet, and mission book. Every detector is a pure function of one
// snapshot: no caching, no mutation, deterministic output for identical input.
package conflict

import "fmt"

// Kind identifies one conflict class. Declaration order is the report order.
type Kind int

const (
	KindDoubleBooking Kind = iota
	KindCertMismatch
	KindBudgetOverrun
	KindMaintenance
	KindWeatherRisk
	KindLocationMismatch
	KindPilotLocationMismatch
	KindDroneLocationMismatch
	KindUnknownPilot
	KindUnknownDrone
	KindSkillMismatch
)

var kindNames = map[Kind]string{
	KindDoubleBooking:         "pilot_double_booking",
	KindCertMismatch:          "cert_mismatch",
	KindBudgetOverrun:         "budget_overrun",
	KindMaintenance:           "drone_in_maintenance",
	KindWeatherRisk:           "weather_risk",
	KindLocationMismatch:      "location_mismatch",
	KindPilotLocationMismatch: "pilot_location_mismatch",
	KindDroneLocationMismatch: "drone_location_mismatch",
	KindUnknownPilot:          "unknown_pilot",
	KindUnknownDrone:          "unknown_drone",
	KindSkillMismatch:         "skill_mismatch",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a detector name to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// KindNames lists every detector name in report order.
func KindNames() []string {
	names := make([]string, 0, len(allKinds))
	for _, k := range allKinds {
		names = append(names, k.String())
	}
	return names
}

// Severity of a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Finding is a single detected conflict, tagged with the records involved.
// Pilot, Drone, and OtherMission are set only when the conflict class needs
// them.
type Finding struct {
	Kind         Kind     `json:"-"`
	Type         string   `json:"type"`
	Severity     Severity `json:"severity"`
	Mission      string   `json:"mission"`
	OtherMission string   `json:"other_mission,omitempty"`
	Pilot        string   `json:"pilot,omitempty"`
	Drone        string   `json:"drone,omitempty"`
	Detail       string   `json:"detail"`
}

func newFinding(kind Kind, severity Severity, mission string) Finding {
	return Finding{Kind: kind, Type: kind.String(), Severity: severity, Mission: mission}
}
