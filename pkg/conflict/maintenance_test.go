package conflict

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylark-aero/skylark/pkg/fleet"
)

func TestCheckMaintenance(t *testing.T) {
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	drone := func(id, due string) fleet.Drone {
		return fleet.Drone{ID: id, MaintenanceDue: fleet.ParseDate(due), MaintenanceRaw: due}
	}
	snap := &fleet.Snapshot{
		Drones: []fleet.Drone{
			drone("D3", "2025-03-01"), // overdue
			drone("D1", "2025-02-20"), // overdue
			drone("D2", "2025-04-01"), // within 30 days
			drone("D4", "2025-06-01"), // far out
			{ID: "D5"},                // no due date
		},
	}

	report := CheckMaintenance(snap, now)

	require.Len(t, report.Overdue, 2)
	assert.Equal(t, "D1", report.Overdue[0].DroneID, "sorted by drone ID")
	assert.Equal(t, "D3", report.Overdue[1].DroneID)
	assert.Negative(t, report.Overdue[0].DaysUntilDue)

	require.Len(t, report.Upcoming, 1)
	assert.Equal(t, "D2", report.Upcoming[0].DroneID)
	assert.Equal(t, 17, report.Upcoming[0].DaysUntilDue)
}

func TestCheckMaintenanceEmptyFleet(t *testing.T) {
	report := CheckMaintenance(&fleet.Snapshot{}, time.Now())
	assert.Empty(t, report.Overdue)
	assert.Empty(t, report.Upcoming)
}
