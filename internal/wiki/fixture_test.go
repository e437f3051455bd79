package wiki

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

type recordingObserver struct {
	mu       sync.Mutex
	written  []string
	failed   map[string]error
	warnings map[string]error
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{failed: map[string]error{}, warnings: map[string]error{}}
}

func (o *recordingObserver) PageWritten(ns, name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.written = append(o.written, ns+"/"+name)
}

func (o *recordingObserver) PageFailed(ns, name string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed[name] = err
}

func (o *recordingObserver) Warn(ns, name string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.warnings[name] = err
}

func id(s string) snapshot.AssetID {
	return snapshot.MustParseAssetID(s)
}

type fixture struct {
	snap   *snapshot.Snapshot
	config *Config
	idx    *Indexes
}

// newFixture builds a small snapshot with an icon for the iron plate and a broken
// icon for the rifle
func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	require.NoError(t, os.MkdirAll(assets, 0755))

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(assets, "plate.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(assets, "rifle.png"), []byte("not an image"), 0644))

	ore := &snapshot.Item{ID: id("10000000000000000000000000000001"), Name: "OreIron", Kind: snapshot.KindItem, DisplayName: "Raw Iron Ore", Description: "Heavy.", MaxStack: 50}
	plate := &snapshot.Item{ID: id("10000000000000000000000000000002"), Name: "IronPlate", Kind: snapshot.KindItem, DisplayName: "Iron Plate", Description: "Flat.\nShiny.", MaxStack: 100, Icon: "plate.png"}
	refinery := &snapshot.Item{
		ID: id("10000000000000000000000000000003"), Name: "Refinery", Kind: snapshot.KindModule, DisplayName: "Refinery", MaxStack: 1, HasPrefab: true,
		Components: snapshot.Components{
			Producer:             &snapshot.Producer{Categories: []string{"RefinementTier2"}},
			PackableModule:       &snapshot.PackableModule{CoreSlotCount: 2},
			PackableModuleHealth: &snapshot.ModuleHealth{MaxHP: 400, Armor: 0.5},
			EnergyConsumer:       &snapshot.EnergyConsumer{EnergyPerSecond: 3},
		},
	}
	shell := &snapshot.Item{
		ID: id("10000000000000000000000000000004"), Name: "AmmoShell", Kind: snapshot.KindAmmo, DisplayName: "Standard Shell", MaxStack: 20,
		Ammo: &snapshot.AmmoStats{Damage: 10, ProjectileCount: 1, RateOfFire: 2, Range: 50},
	}
	rifle := &snapshot.Item{
		ID: id("10000000000000000000000000000005"), Name: "Rifle", Kind: snapshot.KindTool, DisplayName: "Rifle", MaxStack: 1, HasPrefab: true, Icon: "rifle.png",
		Components: snapshot.Components{
			ToolFirstPerson: true,
			ReloaderAmmo:    &snapshot.Reloader{AmmoCapacity: 8, ReloadDuration: 1.5, Ammunition: []snapshot.AssetID{id("10000000000000000000000000000004")}},
			StatModifiers:   &snapshot.StatModifiers{DamageMultiplier: 2, ProjectileCountMultiplier: 1, RateOfFireMultiplier: 1},
		},
	}
	hidden := &snapshot.Item{ID: id("10000000000000000000000000000006"), Name: "MeleeAmmo", Kind: snapshot.KindAmmo}
	glitch := &snapshot.Item{ID: id("10000000000000000000000000000007"), Name: "Glitch", Kind: "mystery", DisplayName: "Glitch"}

	plateRecipe := &snapshot.Recipe{
		ID: id("20000000000000000000000000000001"), Name: "IronPlateRecipe", Output: plate, OutputAmount: 1,
		Inputs:     []snapshot.Ingredient{{Item: ore, Amount: 2}},
		Categories: []string{"RefinementTier2"}, ProductionTime: 4,
	}
	plateWorktable := &snapshot.Recipe{
		ID: id("20000000000000000000000000000002"), Name: "IronPlateWorktable5x", Output: plate, OutputAmount: 5,
		Inputs: []snapshot.Ingredient{{Item: ore, Amount: 10}}, Categories: []string{"Worktable"},
	}
	scrap := &snapshot.Recipe{
		ID: id("20000000000000000000000000000003"), Name: "ScrapRifle", Output: ore, OutputAmount: 3,
		Inputs: []snapshot.Ingredient{{Item: rifle, Amount: 1}}, Categories: []string{"ScrapTier0"},
	}

	groups := []*snapshot.UnlockGroup{{Name: "Metals", Recipes: []*snapshot.Recipe{plateRecipe}, Items: []*snapshot.Item{ore}}}

	snap := snapshot.New("1.2.3",
		[]*snapshot.Item{ore, plate, refinery, shell, rifle, hidden, glitch},
		[]*snapshot.Recipe{plateRecipe, plateWorktable, scrap},
		groups,
		snapshot.Extras{
			Modules:        []snapshot.Module{{ID: id("30000000000000000000000000000001"), Name: "Refinery"}},
			ItemCategories: []snapshot.Category{{ID: id("40000000000000000000000000000001"), Name: "Metal"}},
			Quests:         []snapshot.Quest{{Name: "Tutorial", Priority: 1, Type: "PlayerQuest"}},
			MapMarkers:     []snapshot.MapMarker{{Name: "Old Mine", Position: snapshot.Vec{X: 1, Y: 2, Z: 3}, Tooltip: "An old\nmine", Level: 1, Surface: true, Icon: "Mine_Icon"}},
			LandingSites:   []snapshot.LandingSite{{Name: "Ashlands", X: 10, Y: 20, Level: 2}},
			PhonographSongs: []snapshot.PhonographSong{
				{Item: id("10000000000000000000000000000002"), Position: snapshot.Vec{X: 5}, Layer: 8},
			},
		},
	)

	out := filepath.Join(dir, "out")
	return &fixture{
		snap: snap,
		config: &Config{
			ReferenceDir: filepath.Join(out, "_ReferenceWiki"),
			FandomDir:    filepath.Join(out, "_FandomWiki"),
			TablesDir:    out,
			GameVersion:  "1.2.3",
			TableFormat:  FormatMarkdown,
			AssetDir:     assets,
		},
		idx: BuildIndexes(snap),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newCollisionFixture holds two items sharing a display name and one item with
// an unparseable property set
func newCollisionFixture(t *testing.T) *fixture {
	t.Helper()
	out := t.TempDir()

	wireA := &snapshot.Item{ID: id("50000000000000000000000000000001"), Name: "CopperWire", Kind: snapshot.KindItem, DisplayName: "Copper Wire", Description: "First.", MaxStack: 50}
	wireB := &snapshot.Item{ID: id("50000000000000000000000000000002"), Name: "CopperWireOld", Kind: snapshot.KindItem, DisplayName: "Copper Wire", Description: "Second.", MaxStack: 50}
	heater := &snapshot.Item{
		ID: id("50000000000000000000000000000003"), Name: "Heater", Kind: snapshot.KindItem, DisplayName: "Heater", MaxStack: 5,
		Properties: []snapshot.Property{
			{Name: "Placement", Value: "Inside"},
			{Name: "Energy", Value: []any{1, 2}},
		},
	}

	snap := snapshot.New("1.2.3", []*snapshot.Item{wireA, wireB, heater}, nil, nil, snapshot.Extras{})
	return &fixture{
		snap: snap,
		config: &Config{
			ReferenceDir: filepath.Join(out, "_ReferenceWiki"),
			FandomDir:    filepath.Join(out, "_FandomWiki"),
			TablesDir:    out,
			GameVersion:  "1.2.3",
			TableFormat:  FormatMarkdown,
		},
		idx: BuildIndexes(snap),
	}
}
