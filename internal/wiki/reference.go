package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/volcanoids-wiki/wikiwriter/internal/crafting"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
	"github.com/volcanoids-wiki/wikiwriter/internal/stats"
)

// ReferenceGenerator writes the DokuWiki reference wiki
type ReferenceGenerator struct {
	config *Config
	snap   *snapshot.Snapshot
	idx    *Indexes
	obs    Observer
}

// NewReferenceGenerator creates a new reference wiki generator
func NewReferenceGenerator(config *Config, snap *snapshot.Snapshot, idx *Indexes, obs Observer) *ReferenceGenerator {
	if obs == nil {
		obs = NopObserver{}
	}
	return &ReferenceGenerator{config: config, snap: snap, idx: idx, obs: obs}
}

type indexEntry struct {
	text string
	line string
}

// Generate writes item pages, recipe pages, scrap meta pages, the All_* index
// pages, icons and pages.json
func (g *ReferenceGenerator) Generate(ctx context.Context) error {
	itemsDir := filepath.Join(g.config.ReferenceDir, NamespaceItems)
	recipesDir := filepath.Join(g.config.ReferenceDir, NamespaceRecipes)
	mediaDir := filepath.Join(g.config.ReferenceDir, "media", NamespaceItems)
	for _, dir := range []string{itemsDir, recipesDir, mediaDir} {
		if err := EraseAndCreateDir(dir); err != nil {
			return err
		}
	}

	var pages []Page

	var items []indexEntry
	for _, item := range g.snap.Items() {
		if err := ctx.Err(); err != nil {
			return err
		}
		wp, err := g.writeItem(item, itemsDir, mediaDir)
		if errors.Is(err, ErrMissingText) {
			continue
		}
		if err != nil {
			g.obs.PageFailed(NamespaceItems, item.Name, err)
			continue
		}
		g.obs.PageWritten(NamespaceItems, item.Name)
		pages = append(pages, *wp)
		items = append(items, indexEntry{text: item.DisplayName, line: "  * " + ItemLink(item)})
	}

	var recipes []indexEntry
	for _, recipe := range g.snap.Recipes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		wp, err := g.writeRecipe(recipe, recipesDir)
		if err != nil {
			g.obs.PageFailed(NamespaceRecipes, recipe.Name, err)
			continue
		}
		g.obs.PageWritten(NamespaceRecipes, recipe.Name)
		// individual scrap recipes are only tracked through their meta page
		if !crafting.IsScrapRecipe(recipe) {
			pages = append(pages, *wp)
		}
		recipes = append(recipes, indexEntry{text: RecipeDisplayName(recipe), line: "  * " + RecipeLink(recipe, true)})
	}

	for _, group := range crafting.ScrapGroups(g.snap.Recipes()) {
		wp, err := g.writeScrapGroup(group, recipesDir)
		if err != nil {
			g.obs.PageFailed(NamespaceRecipes, group.OutputName, err)
			continue
		}
		g.obs.PageWritten(NamespaceRecipes, wp.Name)
		pages = append(pages, *wp)
	}

	if err := g.writeAllPage(itemsDir, "Items", items); err != nil {
		return err
	}
	if err := g.writeAllPage(recipesDir, "Recipes", recipes); err != nil {
		return err
	}

	return g.writePagesJSON(pages)
}

func (g *ReferenceGenerator) writeItem(item *snapshot.Item, dir, mediaDir string) (*Page, error) {
	if !item.Documented() {
		return nil, ErrMissingText
	}
	path, err := ItemPath(item)
	if err != nil {
		return nil, err
	}
	safe := SafeName(item.DisplayName)

	if item.Icon != "" {
		if err := WriteIcon(g.config.AssetDir, item.Icon, filepath.Join(mediaDir, safe+".png")); err != nil {
			g.obs.Warn(NamespaceItems, item.Name, err)
		}
	}

	wp := &Page{
		GUID:        item.ID.String(),
		Name:        item.DisplayName,
		Description: item.Description,
		Type:        "item",
		Path:        path,
		ImagePath:   path + ".png",
	}

	var p page
	// the leading space aligns the image
	p.line("{{ %s.png?200}}", path)
	p.line("====== %s ====", item.DisplayName)
	p.line("| Internal name | %s |", item.Name)
	p.line("| AssetId | %s |", item.ID)
	p.line("| Type | %s |", item.Kind.TypeName())

	p.blank()
	p.line("==== Description ====")
	p.line("%s", item.Description)

	block, err := stats.Collect(item)
	if err != nil {
		g.obs.Warn(NamespaceItems, item.Name, err)
	}
	writeStats(&p, block)
	wp.Stats = block.Tracked()

	recipes := g.snap.Recipes()
	sections := []struct {
		title   string
		recipes []*snapshot.Recipe
	}{
		{"Recipes Outputting This Item", crafting.RecipesOutputting(item, recipes)},
		{"Recipes Using This Item As Input", crafting.RecipesConsuming(item, recipes)},
		{"Recipes Requiring This Item", crafting.RecipesRequiring(item, recipes)},
	}
	for _, s := range sections {
		p.blank()
		p.line("==== %s ====", s.title)
		for _, recipe := range s.recipes {
			p.line("  * %s", RecipeLink(recipe, true))
		}
	}

	p.blank()
	p.raw(g.config.Footer())

	if err := writeFile(filepath.Join(dir, safe+".txt"), p.String()); err != nil {
		return nil, err
	}
	return wp, nil
}

func writeStats(p *page, block *stats.Block) {
	p.blank()
	p.line("==== Stats ====")
	for _, s := range block.Stats {
		p.line("| %s | %s |", s.Name, s.Value)
	}

	if a := block.Ammo; a != nil {
		p.blank()
		writeAccuracy(p, "Aim Accuracy", a.AimAccuracy)
		writeAccuracy(p, "Hip Accuracy", a.HipAccuracy)
		p.line("| Recoil | Vertical | %s |", stats.Format(a.Recoil.Vertical))
		p.line("| ::: | Horizontal Min/Max | %s/%s |", stats.Format(a.Recoil.HorizontalMin), stats.Format(a.Recoil.HorizontalMax))
		p.line("| ::: | First Shot Multiplier | %s |", stats.Format(a.Recoil.FirstShotMultiplier))
		p.line("| ::: | Minimum Burst Length | %s |", stats.Format(a.Recoil.MinimumBurstLength))
	}

	if len(block.Modifiers) > 0 {
		p.blank()
		p.line("==== Stats Modifiers ====")
		for _, s := range block.Modifiers {
			p.line("| %s | %s |", s.Name, s.Value)
		}
	}

	if len(block.AmmoTypes) > 0 {
		p.blank()
		p.line("==== Ammo Types ====")
		for _, ammo := range block.AmmoTypes {
			p.line("  * %s", ItemLink(ammo))
		}
	}
}

func writeAccuracy(p *page, name string, a snapshot.Accuracy) {
	p.line("| %s | Bloom | %s |", name, stats.Format(a.Bloom))
	p.line("| ::: | Cone | %s |", stats.Format(a.Cone))
	p.line("| ::: | Cone (Moving) | %s |", stats.Format(a.ConeMoving))
	p.line("| ::: | Cone (Crouched) | %s |", stats.Format(a.ConeCrouch))
	p.line("| ::: | Cone (Crouched, Moving) | %s |", stats.Format(a.ConeCrouchMoving))
	p.line("| ::: | Max Cone Angle | %s |", stats.Format(a.MaxConeAngle))
}

func (g *ReferenceGenerator) writeRecipe(recipe *snapshot.Recipe, dir string) (*Page, error) {
	output := recipe.Output
	outputPath, err := ItemPath(output)
	if err != nil {
		return nil, err
	}

	wp := &Page{
		GUID:        recipe.ID.String(),
		Name:        RecipeDisplayName(recipe),
		Description: output.Description,
		Type:        "recipe",
		Path:        RecipePath(recipe),
		ImagePath:   outputPath + ".png",
	}

	var p page
	p.line("{{ %s.png?200}}", outputPath)
	p.line("====== %s Recipe ====", output.DisplayName)
	p.line("| Internal name | %s |", recipe.Name)
	p.line("| AssetId | %s |", recipe.ID)
	p.line("| Output | %s |", ItemLink(output))

	p.blank()
	p.line("==== Description ====")
	p.line("%s", output.Description)

	p.blank()
	p.line("==== Required Schematics ====")
	for _, upgrade := range recipe.RequiredUpgrades {
		p.line("  * %s", ItemLink(upgrade))
		wp.RequiredUpgrades = append(wp.RequiredUpgrades, upgrade.DisplayName)
	}

	p.blank()
	p.line("==== Required Items [Quantity] ====")
	for _, input := range recipe.Inputs {
		p.line("  * %s [%d]", ItemLink(input.Item), input.Amount)
		wp.RequiredItems = append(wp.RequiredItems, input.Item.DisplayName)
	}

	p.blank()
	p.line("==== Can Be Crafted In ====")
	for _, category := range recipe.Categories {
		for _, crafter := range g.idx.Crafters.Crafters(category) {
			p.line("  * %s", ItemLink(crafter))
			wp.CraftedIn = append(wp.CraftedIn, crafter.DisplayName)
		}
	}

	p.blank()
	p.line("==== Crafting Categories ====")
	for _, category := range recipe.Categories {
		p.line("  * %s", category)
	}

	p.blank()
	p.raw(g.config.Footer())

	if err := writeFile(filepath.Join(dir, SafeName(recipe.Name)+".txt"), p.String()); err != nil {
		return nil, err
	}
	return wp, nil
}

func (g *ReferenceGenerator) writeScrapGroup(group *crafting.ScrapGroup, dir string) (*Page, error) {
	metaName := group.OutputName + " Scrap Recipes"
	output := group.Recipes[0].Output
	outputPath, err := ItemPath(output)
	if err != nil {
		return nil, err
	}

	wp := &Page{
		Name:        metaName,
		Description: output.Description,
		Type:        "recipe",
		Path:        WikiPath(NamespaceRecipes, metaName),
		ImagePath:   outputPath + ".png",
	}

	var p page
	p.line("{{ %s.png?200}}", outputPath)
	p.line("====== %s ====", metaName)
	p.line(`This is an meta page to link to all the scrap recipes for %s.\\`, group.OutputName)
	p.line(`See the individual recipes for AssetIds and such.\\`)
	p.line("Output: %s", ItemLink(output))
	p.blank()
	for _, recipe := range group.Recipes {
		p.line("  * %s", RecipeLink(recipe, true))
	}
	p.blank()
	p.raw(g.config.Footer())

	if err := writeFile(filepath.Join(dir, SafeName(metaName)+".txt"), p.String()); err != nil {
		return nil, err
	}
	return wp, nil
}

// writeAllPage writes the namespace index sorted by display name, ordinal
func (g *ReferenceGenerator) writeAllPage(dir, what string, entries []indexEntry) error {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].text < entries[j].text
	})

	var p page
	p.line("====== All %s ====", what)
	for _, e := range entries {
		p.line("%s", e.line)
	}
	p.blank()
	p.raw(g.config.Footer())

	return writeFile(filepath.Join(dir, fmt.Sprintf("All_%s.txt", what)), p.String())
}

func (g *ReferenceGenerator) writePagesJSON(pages []Page) error {
	if pages == nil {
		pages = []Page{}
	}
	data, err := json.Marshal(pages)
	if err != nil {
		return fmt.Errorf("failed to encode pages.json: %w", err)
	}
	return writeFile(filepath.Join(g.config.ReferenceDir, "pages.json"), string(data))
}
