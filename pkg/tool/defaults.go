package tool

import (
	"github.com/skylark-aero/skylark/pkg/sheets"
	"github.com/skylark-aero/skylark/pkg/tool/ops"
)

// NewDefaultRegistry builds the full operations catalog backed by the given
// data facade. The catalog is fixed; plugins and dynamic registration are
// deliberately absent.
func NewDefaultRegistry(facade *sheets.Facade) *Registry {
	r := NewRegistry()

	// Roster management
	r.Register(&ops.QueryPilotsTool{Facade: facade})
	r.Register(&ops.PilotCostTool{Facade: facade})
	r.Register(&ops.PilotAssignmentsTool{Facade: facade})
	r.Register(&ops.UpdatePilotStatusTool{Facade: facade})

	// Assignment tracking
	r.Register(&ops.MatchPilotsTool{Facade: facade})
	r.Register(&ops.MatchDronesTool{Facade: facade})
	r.Register(&ops.AssignPilotTool{Facade: facade})
	r.Register(&ops.AssignDroneTool{Facade: facade})
	r.Register(&ops.ActiveAssignmentsTool{Facade: facade})

	// Drone inventory
	r.Register(&ops.QueryDronesTool{Facade: facade})
	r.Register(&ops.MaintenanceTool{Facade: facade})
	r.Register(&ops.UpdateDroneStatusTool{Facade: facade})

	// Conflict detection
	r.Register(&ops.DetectConflictsTool{Facade: facade})
	r.Register(&ops.CheckMissionConflictsTool{Facade: facade})

	return r
}
