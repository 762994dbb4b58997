package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlabs-ec/gridplan/internal/cost"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "./data", cfg.Server.DataDir)
	assert.Equal(t, cost.DefaultRates(), cfg.Rates)
}

func TestLoadYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridplan.yaml")
	yaml := `
server:
  addr: ":9090"
  datadir: /var/lib/gridplan
rates:
  constructionbase: 10000
  operationdeficit: 5000
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/var/lib/gridplan", cfg.Server.DataDir)
	assert.Equal(t, 10_000.0, cfg.Rates.ConstructionBase)
	assert.Equal(t, 5_000.0, cfg.Rates.OperationDeficit)

	// Untouched keys keep their defaults.
	assert.Equal(t, cost.DefaultRates().OperationNormal, cfg.Rates.OperationNormal)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsInvertedPenalties(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridplan.yaml")
	yaml := `
rates:
  operationdeficit: 10
  operationidle: 20
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operationdeficit")
}

func TestLoadRejectsNegativeRate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gridplan.yaml")
	yaml := `
rates:
  constructionunit: -5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateEmptyAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	require.Error(t, cfg.Validate())
}
