package ops

import (
	"context"
	"fmt"
	"time"

	"github.com/skylark-aero/skylark/pkg/conflict"
	"github.com/skylark-aero/skylark/pkg/fleet"
	"github.com/skylark-aero/skylark/pkg/sheets"
)

// QueryDronesTool searches the drone fleet.
type QueryDronesTool struct {
	Facade *sheets.Facade
}

func (t *QueryDronesTool) Name() string { return "query_drones" }

func (t *QueryDronesTool) Description() string {
	return "Search the drone fleet by capability, status, location, or weather resistance. All filters are optional and combine."
}

func (t *QueryDronesTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"capability":         {Type: "string", Description: "Capability to search for, e.g. 'Thermal'"},
			"status":             {Type: "string", Description: "Exact status: Available, Deployed, Maintenance"},
			"location":           {Type: "string", Description: "Home location filter"},
			"weather_resistance": {Type: "string", Description: "Weather rating filter, e.g. 'IP43'"},
		},
	}
}

func (t *QueryDronesTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	drones, err := t.Facade.Drones(ctx)
	if err != nil {
		return Fail("could not load drone fleet: %v", err), nil
	}

	capability := StringParam(params, "capability")
	status := StringParam(params, "status")
	location := StringParam(params, "location")
	weather := StringParam(params, "weather_resistance")

	var matched []fleet.Drone
	for _, d := range drones {
		if capability != "" && !containsFold(d.Capabilities, capability) {
			continue
		}
		if status != "" && fleet.NormalizeStatus(d.Status) != fleet.NormalizeStatus(status) {
			continue
		}
		if location != "" && !containsFold(d.Location, location) {
			continue
		}
		if weather != "" && !containsFold(d.WeatherResistance, weather) {
			continue
		}
		matched = append(matched, d)
	}
	return OK(map[string]any{"count": len(matched), "drones": matched}), nil
}

// MaintenanceTool flags overdue and soon-due maintenance across the fleet.
type MaintenanceTool struct {
	Facade *sheets.Facade

	// Now overrides the clock in tests.
	Now func() time.Time
}

func (t *MaintenanceTool) Name() string { return "flag_maintenance_issues" }

func (t *MaintenanceTool) Description() string {
	return "Flag drones whose scheduled maintenance is overdue or due within the next 30 days."
}

func (t *MaintenanceTool) Parameters() ParameterSchema {
	return ParameterSchema{Type: "object", Properties: map[string]PropertySchema{}}
}

func (t *MaintenanceTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	drones, err := t.Facade.Drones(ctx)
	if err != nil {
		return Fail("could not load drone fleet: %v", err), nil
	}
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	report := conflict.CheckMaintenance(&fleet.Snapshot{Drones: drones}, now())
	return OK(map[string]any{
		"overdue_count":           len(report.Overdue),
		"upcoming_count":          len(report.Upcoming),
		"overdue":                 report.Overdue,
		"upcoming_within_30_days": report.Upcoming,
	}), nil
}

// UpdateDroneStatusTool writes a drone's status back to the fleet sheet.
type UpdateDroneStatusTool struct {
	Facade *sheets.Facade
}

func (t *UpdateDroneStatusTool) Name() string { return "update_drone_status" }

func (t *UpdateDroneStatusTool) Description() string {
	return "Update a drone's status (Available, Deployed, Maintenance) and optionally its location. Setting a drone Available clears its assignment."
}

func (t *UpdateDroneStatusTool) Parameters() ParameterSchema {
	return ParameterSchema{
		Type: "object",
		Properties: map[string]PropertySchema{
			"drone_id":   {Type: "string", Description: "Drone ID, e.g. D001"},
			"new_status": {Type: "string", Description: "New status", Enum: []string{fleet.DroneAvailable, fleet.DroneDeployed, fleet.DroneMaintenance}},
			"location":   {Type: "string", Description: "New location, if the drone moved"},
		},
		Required: []string{"drone_id", "new_status"},
	}
}

func (t *UpdateDroneStatusTool) Execute(ctx context.Context, params map[string]any) (*Result, error) {
	droneID := StringParam(params, "drone_id")
	status, ok := canonicalStatus(StringParam(params, "new_status"),
		fleet.DroneAvailable, fleet.DroneDeployed, fleet.DroneMaintenance)
	if !ok {
		return Fail("invalid status %q; choose from Available, Deployed, Maintenance",
			StringParam(params, "new_status")), nil
	}

	updates := map[string]string{"status": status}
	if status == fleet.DroneAvailable {
		updates["current_assignment"] = ""
	}
	if loc := StringParam(params, "location"); loc != "" {
		updates["location"] = loc
	}
	if err := t.Facade.UpdateRow(ctx, fleet.TableDrones, fleet.KeyDrones, droneID, updates); err != nil {
		return Fail("update failed: %v", err), nil
	}
	return OK(map[string]any{
		"drone_id": droneID,
		"status":   status,
		"message":  fmt.Sprintf("drone %s set to %s", droneID, status),
	}), nil
}
