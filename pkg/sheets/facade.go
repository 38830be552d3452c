package sheets

import (
	"context"
	"fmt"

	"github.com/skylark-aero/skylark/pkg/fleet"
	"github.com/skylark-aero/skylark/pkg/logging"
)

// Facade fronts a primary store with an optional read-only fallback. Every
// read fetches a fresh snapshot; nothing is cached between calls, so a scan
// always sees the current sheet contents (or the fallback snapshot when the
// remote side is down).
type Facade struct {
	primary  Store
	fallback Store
	log      *logging.Logger
}

// NewFacade wires a facade. Either store may be nil; at least one must be
// set for reads to succeed.
func NewFacade(primary, fallback Store, log *logging.Logger) *Facade {
	return &Facade{primary: primary, fallback: fallback, log: log}
}

// ReadTable tries the primary store first and transparently substitutes the
// fallback snapshot when it fails.
func (f *Facade) ReadTable(ctx context.Context, name string) (*Table, error) {
	var primaryErr error
	if f.primary != nil {
		table, err := f.primary.ReadTable(ctx, name)
		if err == nil {
			return table, nil
		}
		primaryErr = err
		if f.log != nil {
			f.log.Warn(logging.CategorySheets, "primary_read_failed",
				"falling back to local snapshot",
				map[string]any{"table": name, "error": err.Error()})
		}
	}
	if f.fallback != nil {
		table, err := f.fallback.ReadTable(ctx, name)
		if err == nil {
			return table, nil
		}
		return nil, fmt.Errorf("%w: %s (primary: %v, fallback: %v)", ErrDataUnavailable, name, primaryErr, err)
	}
	if primaryErr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, name, primaryErr)
	}
	return nil, fmt.Errorf("%w: %s: no store configured", ErrDataUnavailable, name)
}

// UpdateRow writes through the primary store only. Fallback snapshots are
// read-only, so when the primary side is missing or unreachable the write
// fails and the caller surfaces that failure; it is never silently dropped.
func (f *Facade) UpdateRow(ctx context.Context, name, keyCol, key string, updates map[string]string) error {
	if f.primary == nil {
		return fmt.Errorf("%w: no writable store configured", ErrReadOnly)
	}
	if err := f.primary.UpdateRow(ctx, name, keyCol, key, updates); err != nil {
		if f.log != nil {
			f.log.Error(logging.CategorySheets, "write_failed", "row update failed",
				map[string]any{"table": name, "key": key, "error": err.Error()})
		}
		return err
	}
	if f.log != nil {
		f.log.Info(logging.CategorySheets, "row_updated", "row updated",
			map[string]any{"table": name, "key": key, "columns": len(updates)})
	}
	return nil
}

// Pilots reads and decodes the pilot roster.
func (f *Facade) Pilots(ctx context.Context) ([]fleet.Pilot, error) {
	table, err := f.ReadTable(ctx, fleet.TablePilots)
	if err != nil {
		return nil, err
	}
	return fleet.DecodePilots(table.Rows), nil
}

// Drones reads and decodes the drone fleet.
func (f *Facade) Drones(ctx context.Context) ([]fleet.Drone, error) {
	table, err := f.ReadTable(ctx, fleet.TableDrones)
	if err != nil {
		return nil, err
	}
	return fleet.DecodeDrones(table.Rows), nil
}

// Missions reads and decodes the mission book.
func (f *Facade) Missions(ctx context.Context) ([]fleet.Mission, error) {
	table, err := f.ReadTable(ctx, fleet.TableMissions)
	if err != nil {
		return nil, err
	}
	return fleet.DecodeMissions(table.Rows), nil
}

// Snapshot reads all three tables in one pass. Each call re-reads current
// state; there is no read-after-write guarantee across the fallback path.
func (f *Facade) Snapshot(ctx context.Context) (*fleet.Snapshot, error) {
	pilots, err := f.Pilots(ctx)
	if err != nil {
		return nil, err
	}
	drones, err := f.Drones(ctx)
	if err != nil {
		return nil, err
	}
	missions, err := f.Missions(ctx)
	if err != nil {
		return nil, err
	}
	return &fleet.Snapshot{Pilots: pilots, Drones: drones, Missions: missions}, nil
}
