package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowGetCaseInsensitive(t *testing.T) {
	r := Row{"Pilot_ID": " P007 ", "name": "Ravi"}
	assert.Equal(t, "P007", r.Get("pilot_id"))
	assert.Equal(t, "Ravi", r.Get("NAME"))
	assert.Equal(t, "", r.Get("location"))
}

func TestDecodePilot(t *testing.T) {
	p := DecodePilot(Row{
		"pilot_id":           "P001",
		"name":               "Asha Verma",
		"skills":             "Thermal Imaging; Mapping",
		"certifications":     "DGCA-Advanced",
		"location":           "Bangalore",
		"status":             "Available",
		"current_assignment": "",
		"available_from":     "2025-04-01",
		"daily_rate_inr":     "12,000",
	})
	assert.Equal(t, "P001", p.ID)
	assert.Equal(t, 12000.0, p.DailyRate)
	assert.False(t, p.AvailableFrom.IsZero())
	assert.Equal(t, "2025-04-01", p.AvailableRaw)
}

func TestDecodeMission(t *testing.T) {
	m := DecodeMission(Row{
		"project_id":         "PRJ-101",
		"client":             "GridCo",
		"location":           "Pune",
		"required_skills":    "LiDAR",
		"required_certs":     "DGCA-Advanced; Night-Ops",
		"start_date":         "15/01/2025",
		"end_date":           "2025-01-20",
		"mission_budget_inr": "80,000",
		"weather_forecast":   "Rainy",
		"status":             "Open",
	})
	assert.Equal(t, "PRJ-101", m.ProjectID)
	assert.Equal(t, 80000.0, m.Budget)
	assert.Equal(t, 6, m.DurationDays())
	assert.True(t, m.Active())
}

func TestDecodeBatchesDropEmptyKeys(t *testing.T) {
	pilots := DecodePilots([]Row{
		{"pilot_id": "P1", "name": "A"},
		{"pilot_id": "", "name": "ghost"},
	})
	assert.Len(t, pilots, 1)

	drones := DecodeDrones([]Row{{"drone_id": "D1"}, {}})
	assert.Len(t, drones, 1)

	missions := DecodeMissions([]Row{{"project_id": "M1"}, {"client": "noid"}})
	assert.Len(t, missions, 1)
}
