package fleet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mission(id, start, end, status string) *Mission {
	return &Mission{
		ProjectID: id,
		StartRaw:  start,
		EndRaw:    end,
		Start:     ParseDate(start),
		End:       ParseDate(end),
		Status:    status,
	}
}

func TestMissionActive(t *testing.T) {
	assert.True(t, mission("M1", "", "", "Open").Active())
	assert.True(t, mission("M1", "", "", "in progress").Active())
	assert.True(t, mission("M1", "", "", "In-Progress").Active())
	assert.False(t, mission("M1", "", "", "Completed").Active())
	assert.False(t, mission("M1", "", "", "Cancelled").Active())
	assert.False(t, mission("M1", "", "", "").Active())
}

func TestMissionDurationDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       int
	}{
		{"same day", "2025-02-01", "2025-02-01", 1},
		{"inclusive week", "2025-02-01", "2025-02-07", 7},
		{"reversed window", "2025-02-07", "2025-02-01", 1},
		{"missing dates", "", "", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mission("M1", tt.start, tt.end, "Open")
			assert.Equal(t, tt.want, m.DurationDays())
		})
	}
}

func TestMissionOverlaps(t *testing.T) {
	a := mission("A", "2025-03-01", "2025-03-10", "Open")
	b := mission("B", "2025-03-10", "2025-03-20", "Open")
	c := mission("C", "2025-03-11", "2025-03-20", "Open")
	undated := mission("D", "", "", "Open")

	assert.True(t, a.Overlaps(b), "shared boundary day overlaps")
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, a.Overlaps(undated))
	assert.False(t, undated.Overlaps(a))
}

func TestSnapshotLookups(t *testing.T) {
	snap := &Snapshot{
		Pilots:   []Pilot{{ID: "P1", Name: "Asha"}},
		Drones:   []Drone{{ID: "D1", Model: "Matrice"}},
		Missions: []Mission{{ProjectID: "M1"}},
	}

	p, ok := snap.PilotByID("P1")
	assert.True(t, ok)
	assert.Equal(t, "Asha", p.Name)
	_, ok = snap.PilotByID("P9")
	assert.False(t, ok)

	d, ok := snap.DroneByID("D1")
	assert.True(t, ok)
	assert.Equal(t, "Matrice", d.Model)

	m, ok := snap.MissionByID("M1")
	assert.True(t, ok)
	assert.Equal(t, "M1", m.ProjectID)
}
