package fleet

import "strings"

// Row is one record of a table keyed by column header. Headers are matched
// case-insensitively so sheet edits that re-case a column do not break reads.
type Row map[string]string

// Get returns the value for a column, tolerating header case differences.
func (r Row) Get(col string) string {
	if v, ok := r[col]; ok {
		return strings.TrimSpace(v)
	}
	for k, v := range r {
		if strings.EqualFold(strings.TrimSpace(k), col) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// DecodePilot maps a pilot_roster row onto a Pilot.
func DecodePilot(r Row) Pilot {
	availRaw := r.Get("available_from")
	return Pilot{
		ID:             r.Get("pilot_id"),
		Name:           r.Get("name"),
		Skills:         r.Get("skills"),
		Certifications: r.Get("certifications"),
		Location:       r.Get("location"),
		Status:         r.Get("status"),
		Assignment:     r.Get("current_assignment"),
		AvailableFrom:  ParseDate(availRaw),
		AvailableRaw:   availRaw,
		DailyRate:      ParseAmount(r.Get("daily_rate_inr")),
	}
}

// DecodeDrone maps a drone_fleet row onto a Drone.
func DecodeDrone(r Row) Drone {
	dueRaw := r.Get("maintenance_due")
	return Drone{
		ID:                r.Get("drone_id"),
		Model:             r.Get("model"),
		Capabilities:      r.Get("capabilities"),
		Status:            r.Get("status"),
		Location:          r.Get("location"),
		Assignment:        r.Get("current_assignment"),
		MaintenanceDue:    ParseDate(dueRaw),
		MaintenanceRaw:    dueRaw,
		WeatherResistance: r.Get("weather_resistance"),
	}
}

// DecodeMission maps a missions row onto a Mission.
func DecodeMission(r Row) Mission {
	startRaw := r.Get("start_date")
	endRaw := r.Get("end_date")
	return Mission{
		ProjectID:     r.Get("project_id"),
		Client:        r.Get("client"),
		Location:      r.Get("location"),
		RequiredSkill: r.Get("required_skills"),
		RequiredCerts: r.Get("required_certs"),
		Start:         ParseDate(startRaw),
		End:           ParseDate(endRaw),
		StartRaw:      startRaw,
		EndRaw:        endRaw,
		Priority:      r.Get("priority"),
		Budget:        ParseAmount(r.Get("mission_budget_inr")),
		Forecast:      r.Get("weather_forecast"),
		AssignedPilot: r.Get("assigned_pilot"),
		AssignedDrone: r.Get("assigned_drone"),
		Status:        r.Get("status"),
	}
}

// DecodePilots converts raw rows, dropping rows without a pilot ID.
func DecodePilots(rows []Row) []Pilot {
	out := make([]Pilot, 0, len(rows))
	for _, r := range rows {
		p := DecodePilot(r)
		if p.ID != "" {
			out = append(out, p)
		}
	}
	return out
}

// DecodeDrones converts raw rows, dropping rows without a drone ID.
func DecodeDrones(rows []Row) []Drone {
	out := make([]Drone, 0, len(rows))
	for _, r := range rows {
		d := DecodeDrone(r)
		if d.ID != "" {
			out = append(out, d)
		}
	}
	return out
}

// DecodeMissions converts raw rows, dropping rows without a project ID.
func DecodeMissions(rows []Row) []Mission {
	out := make([]Mission, 0, len(rows))
	for _, r := range rows {
		m := DecodeMission(r)
		if m.ProjectID != "" {
			out = append(out, m)
		}
	}
	return out
}
