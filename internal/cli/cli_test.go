package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/elestrals/internal/config"
)

const cardDoc = `{
  "id": "%s", "base_name": "Ember", "title": null, "set_number": "001",
  "sort_number": "1", "name": "Ember", "alias": null, "card_type": "elestral",
  "rarity": "common", "canvas": "standard", "frame_material": "paper",
  "artist": "Someone", "set": "Base Set", "set_id": "base", "subset": "",
  "series": "Genesis", "series_id": "genesis", "image": "ember.png",
  "render": null, "creature_id": null, "total_cost": 1, "attack": 2,
  "defense": 1, "serialized_stellar": false, "serialized_population": null,
  "is_prize_card": false, "prize_rank": null, "printed_effect": null,
  "effect": null, "elements": ["fire"], "cost": ["fire"],
  "subclasses": ["Dragon"], "varaints": ["base"]
}`

// env isolates a test from the caller's environment and returns a config
// dir, a data dir and a database path under one temp root.
func env(t *testing.T) (configDir, dataDir, dbPath string) {
	t.Helper()
	root := t.TempDir()
	for _, k := range []string{"ELESTRALS_CONFIG_DIR", "ELESTRALS_DATA_DIR", "DB", "ELESTRALS_ADDR", "ELESTRALS_LOG_LEVEL", "ELESTRALS_LOG_FORMAT"} {
		t.Setenv(k, "")
	}
	return filepath.Join(root, "config"), filepath.Join(root, "data"), filepath.Join(root, "db", "catalog.sqlite")
}

func writeCards(t *testing.T, dataDir string, ids ...string) {
	t.Helper()
	dir := filepath.Join(dataDir, "cards")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, id := range ids {
		doc := fmt.Sprintf(cardDoc, id)
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(doc), 0o644))
	}
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "elestrals v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestInit(t *testing.T) {
	configDir, dataDir, dbPath := env(t)
	args := []string{"init", "--config-dir", configDir, "--data-dir", dataDir, "--db", dbPath}

	out, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	for _, sub := range []string{"cards", "sets", "series"} {
		assert.DirExists(t, filepath.Join(dataDir, sub))
	}
	assert.FileExists(t, dbPath)

	cfg, err := config.Load(configDir, config.EnvOverrides{})
	require.NoError(t, err)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, dbPath, cfg.DBPath)

	out, err = run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, "Kept existing")
}

func TestImportExportLoad(t *testing.T) {
	configDir, dataDir, dbPath := env(t)
	writeCards(t, dataDir, "ember-001", "ember-002")
	common := []string{"--config-dir", configDir, "--db", dbPath}

	out, err := run(t, append([]string{"import", dataDir}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 of 2 cards (0 failed)")

	exportDir := filepath.Join(t.TempDir(), "export")
	out, err = run(t, append([]string{"export", exportDir}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 cards")
	assert.FileExists(t, filepath.Join(exportDir, "cards.jsonl"))

	freshDB := filepath.Join(t.TempDir(), "fresh.sqlite")
	out, err = run(t, "load", exportDir, "--config-dir", configDir, "--db", freshDB, "--json")
	require.NoError(t, err)
	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	assert.Equal(t, 2, counts["cards"])
	assert.Equal(t, 2, counts["variants"])
}

func TestImportUsesDataDirFlag(t *testing.T) {
	configDir, dataDir, dbPath := env(t)
	writeCards(t, dataDir, "ember-001")

	out, err := run(t, "import", "--dry-run", "--json", "--config-dir", configDir, "--data-dir", dataDir, "--db", dbPath)
	require.NoError(t, err)

	var sum struct {
		DryRun   bool `json:"dry_run"`
		Imported int  `json:"imported"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.True(t, sum.DryRun)
	assert.Equal(t, 1, sum.Imported)
}

func TestImportFailsWithoutCardsDir(t *testing.T) {
	configDir, dataDir, dbPath := env(t)

	_, err := run(t, "import", dataDir, "--config-dir", configDir, "--db", dbPath)
	assert.Error(t, err)
}

func TestImportRejectsExtraArgs(t *testing.T) {
	configDir, _, dbPath := env(t)

	_, err := run(t, "import", "a", "b", "--config-dir", configDir, "--db", dbPath)
	assert.Error(t, err)
}

func TestServeRejectsBadAddr(t *testing.T) {
	configDir, dataDir, dbPath := env(t)

	_, err := run(t, "serve", "--addr", "not-an-address", "--config-dir", configDir, "--data-dir", dataDir, "--db", dbPath)
	assert.Error(t, err)
}

func TestBadLogLevel(t *testing.T) {
	configDir, dataDir, dbPath := env(t)

	_, err := run(t, "init", "--log-level", "loud", "--config-dir", configDir, "--data-dir", dataDir, "--db", dbPath)
	assert.Error(t, err)
}
