package conflict

import (
	"sort"
	"time"

	"github.com/skylark-aero/skylark/pkg/fleet"
)

// MaintenanceWindow is how far ahead upcoming maintenance is flagged.
const MaintenanceWindow = 30 * 24 * time.Hour

// MaintenanceItem describes one drone with maintenance due.
type MaintenanceItem struct {
	DroneID      string `json:"drone_id"`
	Model        string `json:"model"`
	Location     string `json:"location"`
	Status       string `json:"status"`
	DueDate      string `json:"maintenance_due"`
	DaysUntilDue int    `json:"days_until_due"`
}

// MaintenanceReport lists overdue and soon-due drones.
type MaintenanceReport struct {
	Overdue  []MaintenanceItem `json:"overdue"`
	Upcoming []MaintenanceItem `json:"upcoming_within_30_days"`
}

// CheckMaintenance flags drones whose maintenance is overdue or due within
// the next 30 days, relative to now. Drones without a parseable due date are
// skipped.
func CheckMaintenance(snap *fleet.Snapshot, now time.Time) MaintenanceReport {
	var report MaintenanceReport
	for i := range snap.Drones {
		d := &snap.Drones[i]
		if d.MaintenanceDue.IsZero() {
			continue
		}
		days := int(d.MaintenanceDue.Sub(now).Hours() / 24)
		item := MaintenanceItem{
			DroneID:      d.ID,
			Model:        d.Model,
			Location:     d.Location,
			Status:       d.Status,
			DueDate:      d.MaintenanceRaw,
			DaysUntilDue: days,
		}
		switch {
		case days < 0:
			report.Overdue = append(report.Overdue, item)
		case d.MaintenanceDue.Sub(now) <= MaintenanceWindow:
			report.Upcoming = append(report.Upcoming, item)
		}
	}
	sort.Slice(report.Overdue, func(i, j int) bool { return report.Overdue[i].DroneID < report.Overdue[j].DroneID })
	sort.Slice(report.Upcoming, func(i, j int) bool { return report.Upcoming[i].DroneID < report.Upcoming[j].DroneID })
	return report
}
