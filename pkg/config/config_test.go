package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultProvider, cfg.Provider.Name)
	assert.Equal(t, DefaultModel, cfg.Provider.Model)
	assert.Equal(t, DefaultMaxRounds, cfg.Agent.MaxRounds)
	assert.Equal(t, DefaultTurnTimeout, cfg.Agent.TurnTimeout)
	assert.NotEmpty(t, cfg.Storage.DatabasePath)
	assert.NotEmpty(t, cfg.Logging.Dir)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
provider:
  model: llama-3.1-8b-instant
  temperature: 0.5
sheets:
  spreadsheet_id: sheet-abc
agent:
  max_rounds: 10
  turn_timeout: 90s
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "llama-3.1-8b-instant", cfg.Provider.Model)
	assert.Equal(t, 0.5, cfg.Provider.Temperature)
	assert.Equal(t, "sheet-abc", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, 10, cfg.Agent.MaxRounds)
	assert.Equal(t, 90*time.Second, cfg.Agent.TurnTimeout.Std())
	assert.Equal(t, DefaultProvider, cfg.Provider.Name, "unset fields keep their defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  api_key: from-file\n"), 0o644))
	t.Setenv("GROQ_API_KEY", "from-env")
	t.Setenv("SKYLARK_SHEET_ID", "env-sheet")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Provider.APIKey)
	assert.Equal(t, "env-sheet", cfg.Sheets.SpreadsheetID)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [not a map"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(), "missing API key fails validation")

	cfg.Provider.APIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.Provider.Model = ""
	assert.Error(t, cfg.Validate())

	cfg.Provider.Model = "m"
	cfg.Agent.MaxRounds = -1
	assert.Error(t, cfg.Validate())
}
