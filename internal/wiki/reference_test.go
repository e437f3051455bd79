package wiki

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volcanoids-wiki/wikiwriter/internal/stats"
)

func TestReferenceGenerator_Generate(t *testing.T) {
	fx := newFixture(t)
	obs := newRecordingObserver()

	err := NewReferenceGenerator(fx.config, fx.snap, fx.idx, obs).Generate(context.Background())
	require.NoError(t, err)

	itemsDir := filepath.Join(fx.config.ReferenceDir, "items")
	recipesDir := filepath.Join(fx.config.ReferenceDir, "recipes")

	for _, name := range []string{"raw_iron_ore", "iron_plate", "refinery", "rifle", "standard_shell"} {
		assert.FileExists(t, filepath.Join(itemsDir, name+".txt"))
	}
	assert.NoFileExists(t, filepath.Join(itemsDir, "glitch.txt"))
	assert.NoFileExists(t, filepath.Join(itemsDir, ".txt"))

	t.Run("item page", func(t *testing.T) {
		content := readFile(t, filepath.Join(itemsDir, "iron_plate.txt"))
		assert.True(t, strings.HasPrefix(content, "{{ items:iron_plate.png?200}}\n====== Iron Plate ====\n"))
		assert.Contains(t, content, "| AssetId | 10000000000000000000000000000002 |")
		assert.Contains(t, content, "| Type | ItemDefinition |")
		assert.Contains(t, content, "| Max Stack | 100 |")
		assert.Contains(t, content, "  * [[recipes:ironplaterecipe|Iron Plate]]")
		assert.Contains(t, content, "  * [[recipes:ironplateworktable5x|Iron Plate (Worktable, x5)]]")
		assert.True(t, strings.HasSuffix(content, "\nFor Volcanoids v1.2.3"))
	})

	t.Run("weapon page", func(t *testing.T) {
		content := readFile(t, filepath.Join(itemsDir, "rifle.txt"))
		assert.Contains(t, content, "| Ammo Capacity | 8 |")
		assert.Contains(t, content, "==== Stats Modifiers ====\n| Damage Multiplier | 2 |")
		assert.Contains(t, content, "==== Ammo Types ====\n  * [[items:standard_shell|Standard Shell]]")
	})

	t.Run("ammo page", func(t *testing.T) {
		content := readFile(t, filepath.Join(itemsDir, "standard_shell.txt"))
		assert.Contains(t, content, "| Aim Accuracy | Bloom | 0 |")
		assert.Contains(t, content, "| Hip Accuracy | Bloom | 0 |")
		assert.Contains(t, content, "| ::: | Horizontal Min/Max | 0/0 |")
	})

	t.Run("recipe page", func(t *testing.T) {
		content := readFile(t, filepath.Join(recipesDir, "ironplaterecipe.txt"))
		assert.Contains(t, content, "====== Iron Plate Recipe ====")
		assert.Contains(t, content, "==== Required Items [Quantity] ====\n  * [[items:raw_iron_ore|Raw Iron Ore]] [2]")
		assert.Contains(t, content, "==== Can Be Crafted In ====\n  * [[items:refinery|Refinery]]")
		assert.Contains(t, content, "==== Crafting Categories ====\n  * RefinementTier2")
	})

	t.Run("scrap meta page", func(t *testing.T) {
		content := readFile(t, filepath.Join(recipesDir, "raw_iron_ore_scrap_recipes.txt"))
		assert.Contains(t, content, "====== Raw Iron Ore Scrap Recipes ====")
		assert.Contains(t, content, "  * [[recipes:scraprifle|Raw Iron Ore]]")
	})

	t.Run("index pages", func(t *testing.T) {
		content := readFile(t, filepath.Join(itemsDir, "All_Items.txt"))
		lines := strings.Split(content, "\n")
		assert.Equal(t, []string{
			"====== All Items ====",
			"  * [[items:iron_plate|Iron Plate]]",
			"  * [[items:raw_iron_ore|Raw Iron Ore]]",
			"  * [[items:refinery|Refinery]]",
			"  * [[items:rifle|Rifle]]",
			"  * [[items:standard_shell|Standard Shell]]",
		}, lines[:6])

		recipes := readFile(t, filepath.Join(recipesDir, "All_Recipes.txt"))
		assert.Contains(t, recipes, "  * [[recipes:ironplaterecipe|Iron Plate]]\n  * [[recipes:ironplateworktable5x|Iron Plate (Worktable, x5)]]\n  * [[recipes:scraprifle|Raw Iron Ore]]")
	})

	t.Run("pages.json", func(t *testing.T) {
		raw := readFile(t, filepath.Join(fx.config.ReferenceDir, "pages.json"))
		assert.NotContains(t, raw, "null")

		var pages []Page
		require.NoError(t, json.Unmarshal([]byte(raw), &pages))

		byKey := map[string]Page{}
		for _, p := range pages {
			byKey[p.Type+":"+p.Name] = p
		}
		assert.NotContains(t, byKey, "recipe:Raw Iron Ore")
		assert.Contains(t, byKey, "recipe:Raw Iron Ore Scrap Recipes")

		recipe := byKey["recipe:Iron Plate"]
		assert.Equal(t, []string{"Refinery"}, recipe.CraftedIn)
		assert.Equal(t, []string{"Raw Iron Ore"}, recipe.RequiredItems)
		assert.Equal(t, "items:iron_plate.png", recipe.ImagePath)

		item := byKey["item:Refinery"]
		assert.Equal(t, "-3", item.Stats["Energy Per Second"])
		assert.Equal(t, "50%", item.Stats["Closed Armor"])

		rifle := byKey["item:Rifle"]
		assert.Equal(t, "Standard Shell", rifle.Stats["Ammo Types"])
	})

	t.Run("icons", func(t *testing.T) {
		assert.FileExists(t, filepath.Join(fx.config.ReferenceDir, "media", "items", "iron_plate.png"))
		require.Contains(t, obs.warnings, "Rifle")
		assert.ErrorIs(t, obs.warnings["Rifle"], ErrIconDecode)
	})

	t.Run("failures are isolated", func(t *testing.T) {
		require.Contains(t, obs.failed, "Glitch")
		assert.ErrorIs(t, obs.failed["Glitch"], ErrUnknownNamespace)
		assert.Contains(t, obs.written, "items/Rifle")
		assert.NotContains(t, obs.failed, "MeleeAmmo")
	})
}

func TestReferenceGenerator_BadPropertyIsRecoverable(t *testing.T) {
	fx := newCollisionFixture(t)
	obs := newRecordingObserver()

	require.NoError(t, NewReferenceGenerator(fx.config, fx.snap, fx.idx, obs).Generate(context.Background()))

	content := readFile(t, filepath.Join(fx.config.ReferenceDir, "items", "heater.txt"))
	assert.Contains(t, content, "====== Heater ====")
	assert.Contains(t, content, "| Max Stack | 5 |")
	assert.NotContains(t, content, "| Placement |")
	assert.Contains(t, obs.written, "items/Heater")
	assert.Empty(t, obs.failed)

	var propErr *stats.PropertyError
	require.ErrorAs(t, obs.warnings["Heater"], &propErr)
	assert.Equal(t, "Heater", propErr.Item)
	assert.Equal(t, "Energy", propErr.Property)
}

func TestReferenceGenerator_ErasesOutput(t *testing.T) {
	fx := newFixture(t)
	stale := filepath.Join(fx.config.ReferenceDir, "items", "stale.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	require.NoError(t, NewReferenceGenerator(fx.config, fx.snap, fx.idx, nil).Generate(context.Background()))
	assert.NoFileExists(t, stale)
}

func TestReferenceGenerator_Cancelled(t *testing.T) {
	fx := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewReferenceGenerator(fx.config, fx.snap, fx.idx, nil).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
