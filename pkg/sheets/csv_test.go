package sheets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylark-aero/skylark/pkg/fleet"
)

func TestCSVReadTable(t *testing.T) {
	dir := t.TempDir()
	data := "drone_id,model,status\nD001,Matrice 350,Available\nD002,Anafi,Maintenance\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, fleet.TableDrones+".csv"), []byte(data), 0o644))

	store := NewCSVStore(dir)
	table, err := store.ReadTable(context.Background(), fleet.TableDrones)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Matrice 350", table.Rows[0].Get("model"))
	assert.Equal(t, "Maintenance", table.Rows[1].Get("status"))
}

func TestCSVShortRowsPadded(t *testing.T) {
	dir := t.TempDir()
	data := "pilot_id,name,current_assignment\nP001,Asha\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, fleet.TablePilots+".csv"), []byte(data), 0o644))

	store := NewCSVStore(dir)
	table, err := store.ReadTable(context.Background(), fleet.TablePilots)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "", table.Rows[0].Get("current_assignment"))
}

func TestCSVUpdateRowReadOnly(t *testing.T) {
	store := NewCSVStore(t.TempDir())
	err := store.UpdateRow(context.Background(), fleet.TablePilots, "pilot_id", "P001", map[string]string{"status": "Assigned"})
	assert.ErrorIs(t, err, ErrReadOnly)
}

func TestCSVMissingFile(t *testing.T) {
	store := NewCSVStore(t.TempDir())
	_, err := store.ReadTable(context.Background(), "missions")
	assert.Error(t, err)
}
