// Package fleet defines the drone-operations domain records and the parsing
// rules for the tabular data they are loaded from.
package fleet

import "time"

// Table names and their natural key columns in the backing store.
const (
	TablePilots   = "pilot_roster"
	TableDrones   = "drone_fleet"
	TableMissions = "missions"

	KeyPilots   = "pilot_id"
	KeyDrones   = "drone_id"
	KeyMissions = "project_id"
)

// Pilot statuses as stored in the roster.
const (
	PilotAvailable   = "Available"
	PilotAssigned    = "Assigned"
	PilotOnLeave     = "On Leave"
	PilotUnavailable = "Unavailable"
)

// Drone statuses as stored in the fleet sheet.
const (
	DroneAvailable   = "Available"
	DroneDeployed    = "Deployed"
	DroneMaintenance = "Maintenance"
)

// Mission statuses. Open and in-progress missions are the ones that matter
// for scheduling checks.
const (
	MissionOpen       = "Open"
	MissionInProgress = "In Progress"
	MissionCompleted  = "Completed"
	MissionCancelled  = "Cancelled"
)

// Pilot is one row of the pilot roster.
type Pilot struct {
	ID             string    `json:"pilot_id"`
	Name           string    `json:"name"`
	Skills         string    `json:"skills"`         // semicolon/comma separated
	Certifications string    `json:"certifications"` // semicolon/comma separated
	Location       string    `json:"location"`
	Status         string    `json:"status"`
	Assignment     string    `json:"current_assignment"` // project ID, empty when unassigned
	AvailableFrom  time.Time `json:"-"`
	AvailableRaw   string    `json:"available_from"`
	DailyRate      float64   `json:"daily_rate_inr"`
}

// Drone is one row of the drone fleet sheet.
type Drone struct {
	ID                string    `json:"drone_id"`
	Model             string    `json:"model"`
	Capabilities      string    `json:"capabilities"`
	Status            string    `json:"status"`
	Location          string    `json:"location"`
	Assignment        string    `json:"current_assignment"`
	MaintenanceDue    time.Time `json:"-"`
	MaintenanceRaw    string    `json:"maintenance_due"`
	WeatherResistance string    `json:"weather_resistance"`
}

// Mission is one row of the missions sheet.
type Mission struct {
	ProjectID     string    `json:"project_id"`
	Client        string    `json:"client"`
	Location      string    `json:"location"`
	RequiredSkill string    `json:"required_skills"`
	RequiredCerts string    `json:"required_certs"`
	Start         time.Time `json:"-"`
	End           time.Time `json:"-"`
	StartRaw      string    `json:"start_date"`
	EndRaw        string    `json:"end_date"`
	Priority      string    `json:"priority"`
	Budget        float64   `json:"mission_budget_inr"`
	Forecast      string    `json:"weather_forecast"`
	AssignedPilot string    `json:"assigned_pilot"`
	AssignedDrone string    `json:"assigned_drone"`
	Status        string    `json:"status"`
}

// Snapshot is the full contents of the three tables at the moment of a read.
// A snapshot is fetched, evaluated, and discarded; nothing caches one across
// calls.
type Snapshot struct {
	Pilots   []Pilot
	Drones   []Drone
	Missions []Mission
}

// PilotByID returns the pilot with the given ID, if present.
func (s *Snapshot) PilotByID(id string) (*Pilot, bool) {
	for i := range s.Pilots {
		if s.Pilots[i].ID == id {
			return &s.Pilots[i], true
		}
	}
	return nil, false
}

// DroneByID returns the drone with the given ID, if present.
func (s *Snapshot) DroneByID(id string) (*Drone, bool) {
	for i := range s.Drones {
		if s.Drones[i].ID == id {
			return &s.Drones[i], true
		}
	}
	return nil, false
}

// MissionByID returns the mission with the given project ID, if present.
func (s *Snapshot) MissionByID(id string) (*Mission, bool) {
	for i := range s.Missions {
		if s.Missions[i].ProjectID == id {
			return &s.Missions[i], true
		}
	}
	return nil, false
}

// Active reports whether the mission should participate in scheduling checks.
func (m *Mission) Active() bool {
	switch NormalizeStatus(m.Status) {
	case "open", "in progress", "in-progress":
		return true
	}
	return false
}

// DurationDays is the inclusive day count of the mission window. A mission
// that starts and ends on the same day is one billable day. Missions with
// unparseable dates bill as a single day, matching the costing rules the
// coordinators already use.
func (m *Mission) DurationDays() int {
	if m.Start.IsZero() || m.End.IsZero() {
		return 1
	}
	days := int(m.End.Sub(m.Start).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Overlaps reports whether two mission date windows intersect. Missions with
// missing dates never overlap anything.
func (m *Mission) Overlaps(other *Mission) bool {
	if m.Start.IsZero() || m.End.IsZero() || other.Start.IsZero() || other.End.IsZero() {
		return false
	}
	return !m.Start.After(other.End) && !other.Start.After(m.End)
}
