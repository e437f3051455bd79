package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSnapshot = `{
  "game_version": "1.29.0",
  "items": [
    {"id": "11111111111111111111111111111111", "name": "IronOre", "display_name": "Iron Ore", "max_stack": 100},
    {"id": "22222222222222222222222222222222", "name": "IronPlate", "display_name": "Iron Plate", "max_stack": 50},
    {"id": "33333333333333333333333333333333", "name": "RefineryModule", "kind": "module", "display_name": "Refinery Module",
     "has_prefab": true,
     "components": {"producer": {"categories": ["RefinementTier2"]}, "packable_module": {"core_slot_count": 1}}},
    {"id": "44444444444444444444444444444444", "name": "IronSchematic", "display_name": "Iron Schematic"}
  ],
  "recipes": [
    {"id": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "name": "IronPlateRecipe", "output": "22222222222222222222222222222222",
     "output_amount": 1, "production_time": 4,
     "inputs": [{"item": "11111111111111111111111111111111", "amount": 2}],
     "required_upgrades": ["44444444444444444444444444444444"],
     "categories": ["RefinementTier2"]}
  ],
  "unlock_groups": [
    {"name": "Plates", "recipes": ["aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"], "items": ["11111111111111111111111111111111"]}
  ]
}`

// setupProject writes a snapshot and config into a temp dir and changes into it
func setupProject(t *testing.T, writeSnapshot bool) string {
	t.Helper()

	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(oldWd) })

	configContent := `
snapshot: snapshot.json
log:
  level: error
watch:
  delay: 20ms
`
	if err := os.WriteFile("wikiwriter.yml", []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if writeSnapshot {
		if err := os.WriteFile("snapshot.json", []byte(testSnapshot), 0644); err != nil {
			t.Fatalf("failed to write snapshot: %v", err)
		}
	}
	return tmpDir
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append(args, "--no-color"))

	if ctx == nil {
		ctx = context.Background()
	}
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "wikiwriter" {
		t.Errorf("expected Use to be 'wikiwriter', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	expectedCommands := []string{"version", "export", "watch", "classify", "recipe"}
	for _, expected := range expectedCommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command %s to be registered", expected)
		}
	}

	for _, flag := range []string{"config", "snapshot", "log-level", "no-color"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected persistent flag --%s", flag)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2026-01-01"
	GoVersion = "go1.23"

	stdout, _, err := execute(t, nil, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	for _, want := range []string{"1.0.0-test", "abc123", "2026-01-01", "go1.23"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in version output:\n%s", want, stdout)
		}
	}
}

func TestExportCommand(t *testing.T) {
	dir := setupProject(t, true)

	stdout, _, err := execute(t, nil, "export", "--out", "wiki")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if !strings.Contains(stdout, "Wrote") || !strings.Contains(stdout, "v1.29.0") {
		t.Errorf("expected export summary, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "items") || !strings.Contains(stdout, "recipes") {
		t.Errorf("expected namespace rows in summary, got:\n%s", stdout)
	}

	for _, path := range []string{
		filepath.Join(dir, "wiki", "_ReferenceWiki", "items", "iron_plate.txt"),
		filepath.Join(dir, "wiki", "_ReferenceWiki", "pages.json"),
		filepath.Join(dir, "wiki", "_FandomWiki", "items", "iron_plate.txt"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to be written: %v", path, err)
		}
	}
}

func TestExportCommandSelectedExporter(t *testing.T) {
	dir := setupProject(t, true)

	_, _, err := execute(t, nil, "export", "--exporter", "tables", "--format", "csv", "--quiet")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "_Wiki", "_ReferenceWiki")); !os.IsNotExist(err) {
		t.Error("expected reference wiki not to be written")
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "_Wiki", "*.csv"))
	if len(matches) == 0 {
		t.Error("expected csv tables to be written")
	}
}

func TestExportCommandInvalidFormat(t *testing.T) {
	setupProject(t, true)

	_, _, err := execute(t, nil, "export", "--format", "html")
	if err == nil {
		t.Error("expected error for invalid --format")
	}
}

func TestExportCommandMissingSnapshot(t *testing.T) {
	setupProject(t, false)

	_, stderr, err := execute(t, nil, "export")
	if err == nil {
		t.Fatal("expected error when the snapshot is missing")
	}
	if !strings.Contains(stderr, "SNAPSHOT UNREADABLE") {
		t.Errorf("expected formatted snapshot error, got:\n%s", stderr)
	}
}

func TestClassifyCommand(t *testing.T) {
	setupProject(t, true)

	stdout, _, err := execute(t, nil, "classify", "refinery module")
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	for _, want := range []string{"Refinery Module", "RefineryModule", "Modules", "module", "Core Slot Cost: 1"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestClassifyCommandList(t *testing.T) {
	setupProject(t, true)

	stdout, _, err := execute(t, nil, "classify", "--list", "--category", "schematics")
	if err != nil {
		t.Fatalf("classify --list failed: %v", err)
	}

	if !strings.Contains(stdout, "Iron Schematic") {
		t.Errorf("expected schematic listed, got:\n%s", stdout)
	}
	if strings.Contains(stdout, "Iron Ore") {
		t.Errorf("expected category filter to drop Iron Ore, got:\n%s", stdout)
	}
}

func TestClassifyCommandRequiresItem(t *testing.T) {
	setupProject(t, true)

	if _, _, err := execute(t, nil, "classify"); err == nil {
		t.Error("expected error without an item name")
	}
}

func TestClassifyCommandSuggestions(t *testing.T) {
	setupProject(t, true)

	_, stderr, err := execute(t, nil, "classify", "Iron Plat")
	if err == nil {
		t.Fatal("expected error for unknown item")
	}
	if !strings.Contains(stderr, "Did you mean: Iron Plate") {
		t.Errorf("expected suggestion, got:\n%s", stderr)
	}
}

func TestRecipeCommand(t *testing.T) {
	setupProject(t, true)

	stdout, _, err := execute(t, nil, "recipe", "Iron Plate")
	if err != nil {
		t.Fatalf("recipe failed: %v", err)
	}

	for _, want := range []string{
		"Refinery Module Tier 2",
		"Crafted in\n  Refinery Module",
		"Unlocked by\n  Iron Ore",
		"Schematics\n  Iron Schematic",
		"Ingredients\n  2x Iron Ore",
		"Production time: 4s",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestRecipeCommandUsedIn(t *testing.T) {
	setupProject(t, true)

	stdout, _, err := execute(t, nil, "recipe", "IronOre")
	if err != nil {
		t.Fatalf("recipe failed: %v", err)
	}

	if !strings.Contains(stdout, "No recipe produces Iron Ore") {
		t.Errorf("expected missing recipe warning, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Used in\n  Iron Plate") {
		t.Errorf("expected consuming recipe, got:\n%s", stdout)
	}
}

func TestWatchCommandExportsRewrittenSnapshot(t *testing.T) {
	dir := setupProject(t, false)
	pagesJSON := filepath.Join(dir, "_Wiki", "_ReferenceWiki", "pages.json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, _, err := execute(t, ctx, "watch", "--exporter", "reference")
		done <- err
	}()

	// Give the watcher time to register before the snapshot appears
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "snapshot.json"), []byte(testSnapshot), 0644); err != nil {
		t.Fatalf("failed to write snapshot: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(pagesJSON); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected the rewritten snapshot to be exported")
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watch returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestWatchCommandFlags(t *testing.T) {
	cmd := NewWatchCommand()

	delay := cmd.Flags().Lookup("delay")
	if delay == nil {
		t.Fatal("expected --delay flag to exist")
	}
	if delay.DefValue != "500ms" {
		t.Errorf("expected default delay 500ms, got %s", delay.DefValue)
	}

	for _, flag := range []string{"exporter", "format", "out", "game-version"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag to exist", flag)
		}
	}
}
