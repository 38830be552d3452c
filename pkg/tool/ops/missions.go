package ops

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/skylark-aero/skylark/pkg/fleet"
	"github.com/skylark-aero/skylark/pkg/sheets"
)

// pilotMatch is one roster entry evaluated against a mission. Issues block
// the assignment outright; warnings leave the pilot viable but flagged.
type pilotMatch struct {
	PilotID      string   `json:"pilot_id"`
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	Location     string   `json:"location"`
	LocationOK   bool     `json:"location_matches_mission"`
	Skills       string   `json:"skills"`
	Certs        string   `json:"certifications"`
	DailyRate    float64  `json:"daily_rate_inr"`
	TotalCost    float64  `json:"estimated_total_cost_inr"`
	WithinBudget bool     `json:"within_budget"`
	Issues       []string `json:"issues"`
	Warnings     []string `json:"warnings"`
}

func evaluatePilot(snap *fleet.Snapshot, p *fleet.Pilot, m *fleet.Mission) pilotMatch {
	entry := pilotMatch{
		PilotID:    p.ID,
		Name:       p.Name,
		Status:     p.Status,
		Location:   p.Location,
		LocationOK: fleet.SameLocation(p.Location, m.Location),
		Skills:     p.Skills,
		Certs:      p.Certifications,
		DailyRate:  p.DailyRate,
	}

	switch fleet.NormalizeStatus(p.Status) {
	case fleet.NormalizeStatus(fleet.PilotOnLeave):
		entry.Issues = append(entry.Issues, "pilot is on leave")
	case fleet.NormalizeStatus(fleet.PilotUnavailable):
		entry.Issues = append(entry.Issues, "pilot is unavailable")
	}

	if !p.AvailableFrom.IsZero() && !m.Start.IsZero() && p.AvailableFrom.After(m.Start) {
		entry.Issues = append(entry.Issues, fmt.Sprintf(
			"not available until %s (mission starts %s)", p.AvailableRaw, m.StartRaw))
	}

	// Double-booking against the pilot's current assignment.
	if fleet.NormalizeStatus(p.Status) == fleet.NormalizeStatus(fleet.PilotAssigned) && p.Assignment != "" {
		if existing, ok := snap.MissionByID(p.Assignment); ok && existing.ProjectID != m.ProjectID {
			if m.Overlaps(existing) {
				entry.Issues = append(entry.Issues, fmt.Sprintf(
					"double-booking: already assigned to %s which overlaps these dates", p.Assignment))
			}
		}
	}

	if missing := fleet.MissingItems(m.RequiredCerts, p.Certifications); len(missing) > 0 {
		sort.Strings(missing)
		entry.Issues = append(entry.Issues, "missing certifications: "+strings.Join(missing, ", "))
	}
	if missing := fleet.MissingItems(m.RequiredSkill, p.Skills); len(missing) > 0 {
		sort.Strings(missing)
		entry.Issues = append(entry.Issues, "missing skills: "+strings.Join(missing, ", "))
	}

	cost := costBreakdown(p, m)
	entry.TotalCost = cost["total_cost_inr"].(float64)
	entry.WithinBudget = cost["within_budget"].(bool)
	if warning, ok := cost["budget_warning"].(string); ok {
		entry.Warnings = append(entry.Warnings, warning)
	}
	if !entry.LocationOK {
		entry.Warnings = append(entry.Warnings, fmt.Sprintf(
			"pilot in %s, mission in %s; relocation needed", p.Location, m.Location))
	}
	return entry
}

// MatchPilotsTool buckets every pilot into perfect / viable-with-warnings /
// ineligible for one mission.
type MatchPilotsTool struct {
	Facade *sheets.Facade
}

func (t *MatchPilotsTool) Name() string { return "match_pilots_to_mission" }

func (t *MatchPilotsTool) Description() string {
	return "Find pilots matching a mission's skill and certification requirements. Flags cert mismatch, budget overrun, double-booking, and location mismatch per pilot."
}

func (t *MatchPilotsTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"mission_id": {Type: "string", Description: "Mission project ID, e.g. PRJ001"},
		},
		Required: []string{"mission_id"},
	}
}

func (t *MatchPilotsTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	snap, err := t.Facade.Snapshot(ctx)
	if err != nil {
		return Fail("could not load fleet data: %v", err), nil
	}
	missionID := StringParam(params, "mission_id")
	mission, ok := snap.MissionByID(missionID)
	if !ok {
		return Fail("mission %s not found", missionID), nil
	}

	var perfect, partial, ineligible []pilotMatch
	for i := range snap.Pilots {
		entry := evaluatePilot(snap, &snap.Pilots[i], mission)
		switch {
		case len(entry.Issues) == 0 && len(entry.Warnings) == 0:
			perfect = append(perfect, entry)
		case len(entry.Issues) == 0:
			partial = append(partial, entry)
		default:
			ineligible = append(ineligible, entry)
		}
	}

	return OK(map[string]any{
		"mission_id":            missionID,
		"mission_location":      mission.Location,
		"required_skills":       mission.RequiredSkill,
		"required_certs":        mission.RequiredCerts,
		"budget_inr":            mission.Budget,
		"weather_forecast":      mission.Forecast,
		"perfect_matches":       perfect,
		"matches_with_warnings": partial,
		"ineligible":            ineligible,
	}), nil
}

// droneMatch mirrors pilotMatch for airframes.
type droneMatch struct {
	DroneID     string   `json:"drone_id"`
	Model       string   `json:"model"`
	Caps        string   `json:"capabilities"`
	Resistance  string   `json:"weather_resistance"`
	Status      string   `json:"status"`
	Location    string   `json:"location"`
	LocationOK  bool     `json:"location_matches_mission"`
	MatchedCaps []string `json:"matching_capabilities"`
	MissingCaps []string `json:"missing_capabilities"`
	WeatherOK   bool     `json:"weather_ok"`
	Issues      []string `json:"issues"`
	Warnings    []string `json:"warnings"`
}

func evaluateDrone(d *fleet.Drone, m *fleet.Mission) droneMatch {
	entry := droneMatch{
		DroneID:    d.ID,
		Model:      d.Model,
		Caps:       d.Capabilities,
		Resistance: d.WeatherResistance,
		Status:     d.Status,
		Location:   d.Location,
		LocationOK: fleet.SameLocation(d.Location, m.Location),
		WeatherOK:  !fleet.RainForecast(m.Forecast) || fleet.RainRated(d.WeatherResistance),
	}

	if fleet.NormalizeStatus(d.Status) == fleet.NormalizeStatus(fleet.DroneMaintenance) {
		due := d.MaintenanceRaw
		if due == "" {
			due = "unknown date"
		}
		entry.Issues = append(entry.Issues, "drone in maintenance, unavailable until "+due)
	}
	if !entry.WeatherOK {
		entry.Issues = append(entry.Issues, fmt.Sprintf(
			"weather mismatch: drone rated %q cannot fly in %q conditions",
			d.WeatherResistance, m.Forecast))
	}
	if !entry.LocationOK {
		entry.Warnings = append(entry.Warnings, fmt.Sprintf(
			"drone in %s, mission in %s; needs transport", d.Location, m.Location))
	}

	req := fleet.SplitSet(m.RequiredSkill)
	caps := fleet.SplitSet(d.Capabilities)
	for item := range req {
		if caps[item] {
			entry.MatchedCaps = append(entry.MatchedCaps, item)
		} else {
			entry.MissingCaps = append(entry.MissingCaps, item)
		}
	}
	sort.Strings(entry.MatchedCaps)
	sort.Strings(entry.MissingCaps)
	return entry
}

// MatchDronesTool buckets every drone into suitable / warnings-only /
// blocked for one mission.
type MatchDronesTool struct {
	Facade *sheets.Facade
}

func (t *MatchDronesTool) Name() string { return "match_drones_to_mission" }

func (t *MatchDronesTool) Description() string {
	return "Find drones suitable for a mission. Flags maintenance, weather incompatibility, and location mismatch per drone."
}

func (t *MatchDronesTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"mission_id": {Type: "string", Description: "Mission project ID, e.g. PRJ001"},
		},
		Required: []string{"mission_id"},
	}
}

func (t *MatchDronesTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	snap, err := t.Facade.Snapshot(ctx)
	if err != nil {
		return Fail("could not load fleet data: %v", err), nil
	}
	missionID := StringParam(params, "mission_id")
	mission, ok := snap.MissionByID(missionID)
	if !ok {
		return Fail("mission %s not found", missionID), nil
	}

	var suitable, partial, blocked []droneMatch
	for i := range snap.Drones {
		entry := evaluateDrone(&snap.Drones[i], mission)
		switch {
		case len(entry.Issues) == 0 && len(entry.Warnings) == 0:
			suitable = append(suitable, entry)
		case len(entry.Issues) == 0:
			partial = append(partial, entry)
		default:
			blocked = append(blocked, entry)
		}
	}

	return OK(map[string]any{
		"mission_id":           missionID,
		"weather_forecast":     mission.Forecast,
		"suitable_drones":      suitable,
		"drones_with_warnings": partial,
		"blocked_drones":       blocked,
	}), nil
}

// AssignPilotTool assigns a pilot to a mission with a conflict pre-check.
// The coordinator may override conflicts, so the writes happen regardless
// and any detected conflicts ride along in the result.
type AssignPilotTool struct {
	Facade *sheets.Facade
}

func (t *AssignPilotTool) Name() string { return "assign_pilot_to_mission" }

func (t *AssignPilotTool) Description() string {
	return "Assign a pilot to a mission. Runs a conflict pre-check first; the assignment is written even when conflicts are found, and the conflicts are reported for review."
}

func (t *AssignPilotTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"pilot_id":   {Type: "string", Description: "Pilot ID, e.g. P001"},
			"mission_id": {Type: "string", Description: "Mission project ID, e.g. PRJ001"},
		},
		Required: []string{"pilot_id", "mission_id"},
	}
}

func (t *AssignPilotTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	snap, err := t.Facade.Snapshot(ctx)
	if err != nil {
		return Fail("could not load fleet data: %v", err), nil
	}
	pilotID := StringParam(params, "pilot_id")
	missionID := StringParam(params, "mission_id")

	mission, ok := snap.MissionByID(missionID)
	if !ok {
		return Fail("mission %s not found", missionID), nil
	}
	pilot, ok := snap.PilotByID(pilotID)
	if !ok {
		return Fail("pilot %s not found", pilotID), nil
	}

	conflicts := evaluatePilot(snap, pilot, mission).Issues

	pilotErr := t.Facade.UpdateRow(ctx, fleet.TablePilots, fleet.KeyPilots, pilotID, map[string]string{
		"status":             fleet.PilotAssigned,
		"current_assignment": missionID,
	})
	missionErr := t.Facade.UpdateRow(ctx, fleet.TableMissions, fleet.KeyMissions, missionID, map[string]string{
		"assigned_pilot": pilotID,
	})

	data := map[string]any{
		"pilot_id":           pilotID,
		"mission_id":         missionID,
		"conflicts_detected": conflicts,
		"pilot_update":       writeOutcome(pilotErr),
		"mission_update":     writeOutcome(missionErr),
	}
	if len(conflicts) > 0 {
		data["warning"] = "assignment made despite conflicts; please review"
	}
	if pilotErr != nil || missionErr != nil {
		res := Fail("assignment not fully synced: %v", firstErr(pilotErr, missionErr))
		res.Data = data
		return res, nil
	}
	return OK(data), nil
}

// AssignDroneTool assigns a drone to a mission with a conflict pre-check.
type AssignDroneTool struct {
	Facade *sheets.Facade
}

func (t *AssignDroneTool) Name() string { return "assign_drone_to_mission" }

func (t *AssignDroneTool) Description() string {
	return "Assign a drone to a mission. Runs a conflict pre-check first; the assignment is written even when conflicts are found, and the drone relocates to the mission site."
}

func (t *AssignDroneTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"drone_id":   {Type: "string", Description: "Drone ID, e.g. D001"},
			"mission_id": {Type: "string", Description: "Mission project ID, e.g. PRJ001"},
		},
		Required: []string{"drone_id", "mission_id"},
	}
}

func (t *AssignDroneTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	snap, err := t.Facade.Snapshot(ctx)
	if err != nil {
		return Fail("could not load fleet data: %v", err), nil
	}
	droneID := StringParam(params, "drone_id")
	missionID := StringParam(params, "mission_id")

	mission, ok := snap.MissionByID(missionID)
	if !ok {
		return Fail("mission %s not found", missionID), nil
	}
	drone, ok := snap.DroneByID(droneID)
	if !ok {
		return Fail("drone %s not found", droneID), nil
	}

	conflicts := evaluateDrone(drone, mission).Issues

	droneErr := t.Facade.UpdateRow(ctx, fleet.TableDrones, fleet.KeyDrones, droneID, map[string]string{
		"status":             fleet.DroneDeployed,
		"current_assignment": missionID,
		"location":           mission.Location,
	})
	missionErr := t.Facade.UpdateRow(ctx, fleet.TableMissions, fleet.KeyMissions, missionID, map[string]string{
		"assigned_drone": droneID,
	})

	data := map[string]any{
		"drone_id":           droneID,
		"mission_id":         missionID,
		"conflicts_detected": conflicts,
		"drone_update":       writeOutcome(droneErr),
		"mission_update":     writeOutcome(missionErr),
	}
	if len(conflicts) > 0 {
		data["warning"] = "assignment made despite conflicts; please review"
	}
	if droneErr != nil || missionErr != nil {
		res := Fail("assignment not fully synced: %v", firstErr(droneErr, missionErr))
		res.Data = data
		return res, nil
	}
	return OK(data), nil
}

// ActiveAssignmentsTool lists every mission with a pilot or drone assigned.
type ActiveAssignmentsTool struct {
	Facade *sheets.Facade
}

func (t *ActiveAssignmentsTool) Name() string { return "get_active_assignments" }

func (t *ActiveAssignmentsTool) Description() string {
	return "Get all missions that have a pilot or drone assigned."
}

func (t *ActiveAssignmentsTool) Parameters() ParameterSchema {
	return ParameterSchema{Type: "object", Properties: map[string]PropertySchema{}}
}

func (t *ActiveAssignmentsTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	missions, err := t.Facade.Missions(ctx)
	if err != nil {
		return Fail("could not load missions: %v", err), nil
	}
	var active []fleet.Mission
	for _, m := range missions {
		if m.AssignedPilot != "" || m.AssignedDrone != "" {
			active = append(active, m)
		}
	}
	return OK(map[string]any{"count": len(active), "missions": active}), nil
}

func writeOutcome(err error) map[string]any {
	if err != nil {
		return map[string]any{"success": false, "error": err.Error()}
	}
	return map[string]any{"success": true}
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
