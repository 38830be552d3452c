package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/skylark-aero/skylark/pkg/fleet"
	"github.com/skylark-aero/skylark/pkg/sheets"
)

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// QueryPilotsTool searches the pilot roster.
type QueryPilotsTool struct {
	Facade *sheets.Facade
}

func (t *QueryPilotsTool) Name() string { return "query_pilots" }

func (t *QueryPilotsTool) Description() string {
	return "Search the pilot roster by skill, certification, location, or status. All filters are optional and combine."
}

func (t *QueryPilotsTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"skill":         {Type: "string", Description: "Skill to search for, e.g. 'Mapping' or 'Survey'"},
			"certification": {Type: "string", Description: "Certification to search for, e.g. 'DGCA'"},
			"location":      {Type: "string", Description: "Home location filter"},
			"status":        {Type: "string", Description: "Exact status: Available, Assigned, On Leave, Unavailable"},
		},
	}
}

func (t *QueryPilotsTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	pilots, err := t.Facade.Pilots(ctx)
	if err != nil {
		return Fail("could not load pilot roster: %v", err), nil
	}

	skill := StringParam(params, "skill")
	cert := StringParam(params, "certification")
	location := StringParam(params, "location")
	status := StringParam(params, "status")

	var matched []fleet.Pilot
	for _, p := range pilots {
		if skill != "" && !containsFold(p.Skills, skill) {
			continue
		}
		if cert != "" && !containsFold(p.Certifications, cert) {
			continue
		}
		if location != "" && !containsFold(p.Location, location) {
			continue
		}
		if status != "" && fleet.NormalizeStatus(p.Status) != fleet.NormalizeStatus(status) {
			continue
		}
		matched = append(matched, p)
	}
	return OK(map[string]any{"count": len(matched), "pilots": matched}), nil
}

// PilotCostTool prices a pilot against a mission's duration and budget.
type PilotCostTool struct {
	Facade *sheets.Facade
}

func (t *PilotCostTool) Name() string { return "calculate_pilot_cost" }

func (t *PilotCostTool) Description() string {
	return "Calculate the total cost of a pilot for a mission (daily rate times inclusive mission days) and check it against the mission budget."
}

func (t *PilotCostTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"pilot_id":   {Type: "string", Description: "Pilot ID, e.g. P001"},
			"mission_id": {Type: "string", Description: "Mission project ID, e.g. PRJ001"},
		},
		Required: []string{"pilot_id", "mission_id"},
	}
}

func (t *PilotCostTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	snap, err := t.Facade.Snapshot(ctx)
	if err != nil {
		return Fail("could not load fleet data: %v", err), nil
	}
	pilotID := StringParam(params, "pilot_id")
	missionID := StringParam(params, "mission_id")

	pilot, ok := snap.PilotByID(pilotID)
	if !ok {
		return Fail("pilot %s not found", pilotID), nil
	}
	mission, ok := snap.MissionByID(missionID)
	if !ok {
		return Fail("mission %s not found", missionID), nil
	}

	data := costBreakdown(pilot, mission)
	return OK(data), nil
}

// costBreakdown is shared by the cost tool and the matching tools.
func costBreakdown(pilot *fleet.Pilot, mission *fleet.Mission) map[string]any {
	duration := mission.DurationDays()
	total := pilot.DailyRate * float64(duration)
	data := map[string]any{
		"pilot_id":               pilot.ID,
		"pilot_name":             pilot.Name,
		"mission_id":             mission.ProjectID,
		"daily_rate_inr":         pilot.DailyRate,
		"duration_days":          duration,
		"total_cost_inr":         total,
		"mission_budget_inr":     mission.Budget,
		"within_budget":          total <= mission.Budget,
		"surplus_or_deficit_inr": mission.Budget - total,
	}
	if total > mission.Budget {
		data["budget_warning"] = fmt.Sprintf(
			"pilot cost INR %.0f exceeds mission budget INR %.0f by INR %.0f",
			total, mission.Budget, total-mission.Budget)
	}
	return data
}

// PilotAssignmentsTool lists currently assigned pilots with their mission
// details.
type PilotAssignmentsTool struct {
	Facade *sheets.Facade
}

func (t *PilotAssignmentsTool) Name() string { return "get_pilot_assignments" }

func (t *PilotAssignmentsTool) Description() string {
	return "View all currently assigned pilots together with the client, location, dates, and priority of their missions."
}

func (t *PilotAssignmentsTool) Parameters() ParameterSchema {
	return ParameterSchema{Type: "object", Properties: map[string]PropertySchema{}}
}

func (t *PilotAssignmentsTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	snap, err := t.Facade.Snapshot(ctx)
	if err != nil {
		return Fail("could not load fleet data: %v", err), nil
	}

	var assignments []map[string]any
	for _, p := range snap.Pilots {
		if fleet.NormalizeStatus(p.Status) != fleet.NormalizeStatus(fleet.PilotAssigned) {
			continue
		}
		entry := map[string]any{"pilot": p}
		if m, ok := snap.MissionByID(p.Assignment); ok {
			entry["mission_details"] = map[string]any{
				"client":     m.Client,
				"location":   m.Location,
				"start_date": m.StartRaw,
				"end_date":   m.EndRaw,
				"priority":   m.Priority,
			}
		}
		assignments = append(assignments, entry)
	}
	return OK(map[string]any{"assigned_count": len(assignments), "assignments": assignments}), nil
}

// UpdatePilotStatusTool writes a pilot's status (and optionally assignment)
// back to the roster.
type UpdatePilotStatusTool struct {
	Facade *sheets.Facade
}

func (t *UpdatePilotStatusTool) Name() string { return "update_pilot_status" }

func (t *UpdatePilotStatusTool) Description() string {
	return "Update a pilot's status and current assignment in the roster. Status must be one of Available, Assigned, On Leave, Unavailable."
}

func (t *UpdatePilotStatusTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"pilot_id":   {Type: "string", Description: "Pilot ID, e.g. P001"},
			"new_status": {Type: "string", Description: "New status", Enum: []string{fleet.PilotAvailable, fleet.PilotAssigned, fleet.PilotOnLeave, fleet.PilotUnavailable}},
			"assignment": {Type: "string", Description: "Project ID of the current assignment; empty to clear"},
		},
		Required: []string{"pilot_id", "new_status"},
	}
}

func (t *UpdatePilotStatusTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	pilotID := StringParam(params, "pilot_id")
	status, ok := canonicalStatus(StringParam(params, "new_status"),
		fleet.PilotAvailable, fleet.PilotAssigned, fleet.PilotOnLeave, fleet.PilotUnavailable)
	if !ok {
		return Fail("invalid status %q; choose from Available, Assigned, On Leave, Unavailable",
			StringParam(params, "new_status")), nil
	}

	updates := map[string]string{
		"status":             status,
		"current_assignment": StringParam(params, "assignment"),
	}
	if err := t.Facade.UpdateRow(ctx, fleet.TablePilots, fleet.KeyPilots, pilotID, updates); err != nil {
		return Fail("update failed: %v", err), nil
	}
	return OK(map[string]any{
		"pilot_id": pilotID,
		"status":   status,
		"message":  fmt.Sprintf("pilot %s set to %s", pilotID, status),
	}), nil
}

// canonicalStatus matches a submitted status against the allowed set,
// case-insensitively, returning the canonical spelling.
func canonicalStatus(raw string, allowed ...string) (string, bool) {
	for _, s := range allowed {
		if fleet.NormalizeStatus(raw) == fleet.NormalizeStatus(s) {
			return s, true
		}
	}
	return "", false
}
