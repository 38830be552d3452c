package conflict

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skylark-aero/skylark/pkg/fleet"
)

// Detector evaluates one conflict class against a snapshot.
type Detector func(snap *fleet.Snapshot) []Finding

// allKinds fixes the report order of the detector battery.
var allKinds = []Kind{
	KindDoubleBooking,
	KindCertMismatch,
	KindBudgetOverrun,
	KindMaintenance,
	KindWeatherRisk,
	KindLocationMismatch,
	KindPilotLocationMismatch,
	KindDroneLocationMismatch,
	KindUnknownPilot,
	KindUnknownDrone,
	KindSkillMismatch,
}

var detectors = map[Kind]Detector{
	KindDoubleBooking:         detectDoubleBooking,
	KindCertMismatch:          detectCertMismatch,
	KindBudgetOverrun:         detectBudgetOverrun,
	KindMaintenance:           detectMaintenance,
	KindWeatherRisk:           detectWeatherRisk,
	KindLocationMismatch:      detectLocationMismatch,
	KindPilotLocationMismatch: detectPilotLocationMismatch,
	KindDroneLocationMismatch: detectDroneLocationMismatch,
	KindUnknownPilot:          detectUnknownPilot,
	KindUnknownDrone:          detectUnknownDrone,
	KindSkillMismatch:         detectSkillMismatch,
}

// Scan runs the full detector battery. Findings come back in detector
// declaration order, then by mission ID, so repeated scans over identical
// snapshots produce identical output.
func Scan(snap *fleet.Snapshot) []Finding {
	var all []Finding
	for _, kind := range allKinds {
		all = append(all, Detect(kind, snap)...)
	}
	return all
}

// Detect runs a single detector class.
func Detect(kind Kind, snap *fleet.Snapshot) []Finding {
	det, ok := detectors[kind]
	if !ok {
		return nil
	}
	findings := det(snap)
	sortFindings(findings)
	return findings
}

// MissionFindings filters a full scan down to one mission. Pair findings
// count for both missions involved.
func MissionFindings(snap *fleet.Snapshot, projectID string) []Finding {
	var mine []Finding
	for _, f := range Scan(snap) {
		if f.Mission == projectID || f.OtherMission == projectID {
			mine = append(mine, f)
		}
	}
	return mine
}

func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Mission != findings[j].Mission {
			return findings[i].Mission < findings[j].Mission
		}
		if findings[i].Pilot != findings[j].Pilot {
			return findings[i].Pilot < findings[j].Pilot
		}
		return findings[i].Drone < findings[j].Drone
	})
}

// detectDoubleBooking flags every unordered pair of active missions sharing
// an assigned pilot whose date windows overlap. Each pair is reported once,
// keyed on the lower project ID.
func detectDoubleBooking(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	missions := snap.Missions
	for i := range missions {
		m1 := &missions[i]
		if m1.AssignedPilot == "" || !m1.Active() {
			continue
		}
		for j := i + 1; j < len(missions); j++ {
			m2 := &missions[j]
			if m2.AssignedPilot != m1.AssignedPilot || !m2.Active() {
				continue
			}
			if m1.ProjectID == m2.ProjectID {
				continue
			}
			if !m1.Overlaps(m2) {
				continue
			}
			first, second := m1, m2
			if second.ProjectID < first.ProjectID {
				first, second = second, first
			}
			f := newFinding(KindDoubleBooking, SeverityCritical, first.ProjectID)
			f.OtherMission = second.ProjectID
			f.Pilot = m1.AssignedPilot
			f.Detail = fmt.Sprintf("pilot %s is booked on %s (%s to %s) and %s (%s to %s); dates overlap",
				m1.AssignedPilot,
				first.ProjectID, first.StartRaw, first.EndRaw,
				second.ProjectID, second.StartRaw, second.EndRaw)
			findings = append(findings, f)
		}
	}
	return findings
}

func detectCertMismatch(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedPilot == "" {
			continue
		}
		pilot, ok := snap.PilotByID(m.AssignedPilot)
		if !ok {
			continue // dangling reference is its own finding
		}
		missing := fleet.MissingItems(m.RequiredCerts, pilot.Certifications)
		if len(missing) == 0 {
			continue
		}
		sort.Strings(missing)
		f := newFinding(KindCertMismatch, SeverityCritical, m.ProjectID)
		f.Pilot = pilot.ID
		f.Detail = fmt.Sprintf("pilot %s lacks required certifications: %s",
			pilot.Name, strings.Join(missing, ", "))
		findings = append(findings, f)
	}
	return findings
}

func detectBudgetOverrun(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedPilot == "" {
			continue
		}
		pilot, ok := snap.PilotByID(m.AssignedPilot)
		if !ok {
			continue
		}
		cost := pilot.DailyRate * float64(m.DurationDays())
		if cost <= m.Budget {
			continue
		}
		f := newFinding(KindBudgetOverrun, SeverityWarning, m.ProjectID)
		f.Pilot = pilot.ID
		f.Detail = fmt.Sprintf("pilot cost INR %.0f (%.0f/day x %d days) exceeds mission budget INR %.0f by INR %.0f",
			cost, pilot.DailyRate, m.DurationDays(), m.Budget, cost-m.Budget)
		findings = append(findings, f)
	}
	return findings
}

func detectMaintenance(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedDrone == "" {
			continue
		}
		drone, ok := snap.DroneByID(m.AssignedDrone)
		if !ok {
			continue
		}
		if fleet.NormalizeStatus(drone.Status) != "maintenance" {
			continue
		}
		f := newFinding(KindMaintenance, SeverityCritical, m.ProjectID)
		f.Drone = drone.ID
		due := drone.MaintenanceRaw
		if due == "" {
			due = "unknown date"
		}
		f.Detail = fmt.Sprintf("drone %s (%s) is in maintenance until %s", drone.Model, drone.ID, due)
		findings = append(findings, f)
	}
	return findings
}

func detectWeatherRisk(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedDrone == "" || !fleet.RainForecast(m.Forecast) {
			continue
		}
		drone, ok := snap.DroneByID(m.AssignedDrone)
		if !ok {
			continue
		}
		if fleet.RainRated(drone.WeatherResistance) {
			continue
		}
		f := newFinding(KindWeatherRisk, SeverityCritical, m.ProjectID)
		f.Drone = drone.ID
		f.Detail = fmt.Sprintf("drone %s rated %q cannot fly in %q forecast",
			drone.ID, drone.WeatherResistance, m.Forecast)
		findings = append(findings, f)
	}
	return findings
}

func detectLocationMismatch(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedPilot == "" || m.AssignedDrone == "" {
			continue
		}
		pilot, pok := snap.PilotByID(m.AssignedPilot)
		drone, dok := snap.DroneByID(m.AssignedDrone)
		if !pok || !dok {
			continue
		}
		if fleet.SameLocation(pilot.Location, drone.Location) {
			continue
		}
		f := newFinding(KindLocationMismatch, SeverityWarning, m.ProjectID)
		f.Pilot = pilot.ID
		f.Drone = drone.ID
		f.Detail = fmt.Sprintf("pilot is in %s but drone is in %s; they cannot operate together without repositioning",
			pilot.Location, drone.Location)
		findings = append(findings, f)
	}
	return findings
}

func detectPilotLocationMismatch(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedPilot == "" || m.Location == "" {
			continue
		}
		pilot, ok := snap.PilotByID(m.AssignedPilot)
		if !ok || pilot.Location == "" {
			continue
		}
		if fleet.SameLocation(pilot.Location, m.Location) {
			continue
		}
		f := newFinding(KindPilotLocationMismatch, SeverityWarning, m.ProjectID)
		f.Pilot = pilot.ID
		f.Detail = fmt.Sprintf("pilot %s is based in %s but the mission is in %s; travel may be required",
			pilot.Name, pilot.Location, m.Location)
		findings = append(findings, f)
	}
	return findings
}

func detectDroneLocationMismatch(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedDrone == "" || m.Location == "" {
			continue
		}
		drone, ok := snap.DroneByID(m.AssignedDrone)
		if !ok || drone.Location == "" {
			continue
		}
		if fleet.SameLocation(drone.Location, m.Location) {
			continue
		}
		f := newFinding(KindDroneLocationMismatch, SeverityWarning, m.ProjectID)
		f.Drone = drone.ID
		f.Detail = fmt.Sprintf("drone %s is stationed in %s but the mission is in %s; transport may be required",
			drone.ID, drone.Location, m.Location)
		findings = append(findings, f)
	}
	return findings
}

func detectUnknownPilot(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedPilot == "" {
			continue
		}
		if _, ok := snap.PilotByID(m.AssignedPilot); ok {
			continue
		}
		f := newFinding(KindUnknownPilot, SeverityCritical, m.ProjectID)
		f.Pilot = m.AssignedPilot
		f.Detail = fmt.Sprintf("assigned pilot %q does not exist in the roster", m.AssignedPilot)
		findings = append(findings, f)
	}
	return findings
}

func detectUnknownDrone(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedDrone == "" {
			continue
		}
		if _, ok := snap.DroneByID(m.AssignedDrone); ok {
			continue
		}
		f := newFinding(KindUnknownDrone, SeverityCritical, m.ProjectID)
		f.Drone = m.AssignedDrone
		f.Detail = fmt.Sprintf("assigned drone %q does not exist in the fleet", m.AssignedDrone)
		findings = append(findings, f)
	}
	return findings
}

func detectSkillMismatch(snap *fleet.Snapshot) []Finding {
	var findings []Finding
	for i := range snap.Missions {
		m := &snap.Missions[i]
		if m.AssignedPilot == "" {
			continue
		}
		pilot, ok := snap.PilotByID(m.AssignedPilot)
		if !ok {
			continue
		}
		missing := fleet.MissingItems(m.RequiredSkill, pilot.Skills)
		if len(missing) == 0 {
			continue
		}
		sort.Strings(missing)
		f := newFinding(KindSkillMismatch, SeverityWarning, m.ProjectID)
		f.Pilot = pilot.ID
		f.Detail = fmt.Sprintf("pilot %s lacks required skills: %s", pilot.Name, strings.Join(missing, ", "))
		findings = append(findings, f)
	}
	return findings
}
