package wiki

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/volcanoids-wiki/wikiwriter/internal/classify"
	"github.com/volcanoids-wiki/wikiwriter/internal/crafting"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
	"github.com/volcanoids-wiki/wikiwriter/internal/stats"
)

// tablePad widens the last table column so the collapse toggle does not overlap it
const tablePad = "⠀⠀⠀⠀"

// FandomGenerator writes the MediaWiki item pages
type FandomGenerator struct {
	config *Config
	snap   *snapshot.Snapshot
	idx    *Indexes
	obs    Observer
}

// NewFandomGenerator creates a new fandom wiki generator
func NewFandomGenerator(config *Config, snap *snapshot.Snapshot, idx *Indexes, obs Observer) *FandomGenerator {
	if obs == nil {
		obs = NopObserver{}
	}
	return &FandomGenerator{config: config, snap: snap, idx: idx, obs: obs}
}

// Generate writes one page per documented item plus the Categorized/ links
func (g *FandomGenerator) Generate(ctx context.Context) error {
	dir := filepath.Join(g.config.FandomDir, NamespaceItems)
	if err := EraseAndCreateDir(dir); err != nil {
		return err
	}

	for _, item := range g.snap.Items() {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := g.writeItem(item, dir)
		if errors.Is(err, ErrMissingText) {
			continue
		}
		if err != nil {
			g.obs.PageFailed(NamespaceItems, item.Name, err)
			continue
		}
		g.obs.PageWritten(NamespaceItems, item.Name)
	}
	return nil
}

func (g *FandomGenerator) writeItem(item *snapshot.Item, dir string) error {
	if !item.Documented() {
		return ErrMissingText
	}
	if _, err := ItemNamespace(item); err != nil {
		return err
	}
	safe := SafeName(item.DisplayName)

	box := Infobox(item)
	if err := g.fillStats(item, box); err != nil {
		g.obs.Warn(NamespaceItems, item.Name, err)
	}

	facts, _ := crafting.Resolve(item, g.snap.Recipes(), g.idx.Crafters, g.idx.Unlocks)
	FillRecipe(box, facts)

	categories := classify.Classify(item)
	craftedWith := classify.CraftedWith(facts)

	var p page
	if len(categories) > 0 {
		for _, category := range categories {
			p.line("[[Category:%s]]", category)
		}
		p.blank()
	}
	if len(craftedWith) > 0 {
		p.line("<!-- Crafted with categories (none if next line is blank): -->")
		for _, name := range craftedWith {
			p.line("[[Category:Crafted with %s]]", name)
		}
		p.blank()
	}

	p.line("{{Infobox %s", classify.InfoboxType(item))
	for _, kv := range box.Entries() {
		p.line("%s", strings.TrimSpace(fmt.Sprintf("| %s = %s", kv[0], kv[1])))
	}
	p.line("}}")

	writeAmmoTable(&p, item.Ammunition(), item.Components.StatModifiers)
	writeModifierTable(&p, item.Components.StatModifiers)

	file := filepath.Join(dir, safe+".txt")
	if err := writeFile(file, p.String()); err != nil {
		return err
	}

	for _, category := range categories {
		catDir := filepath.Join(dir, "Categorized", category)
		if err := os.MkdirAll(catDir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", catDir, err)
		}
		if err := linkOrCopy(file, filepath.Join(catDir, safe+".txt")); err != nil {
			g.obs.Warn(NamespaceItems, item.Name, fmt.Errorf("failed to link into %s: %w", category, err))
		}
	}
	return nil
}

// InfoboxProps is an insertion-ordered set of infobox properties. Setting an
// existing key keeps its position.
type InfoboxProps struct {
	keys   []string
	values map[string]string
}

func NewInfoboxProps() *InfoboxProps {
	return &InfoboxProps{values: make(map[string]string)}
}

func (b *InfoboxProps) Set(key string, value any) {
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = stats.Format(value)
}

func (b *InfoboxProps) Get(key string) (string, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Entries returns key/value pairs in insertion order
func (b *InfoboxProps) Entries() [][2]string {
	out := make([][2]string, 0, len(b.keys))
	for _, k := range b.keys {
		out = append(out, [2]string{k, b.values[k]})
	}
	return out
}

// Infobox builds the base infobox properties of item from its components
func Infobox(item *snapshot.Item) *InfoboxProps {
	box := NewInfoboxProps()
	box.Set("name", item.DisplayName)
	box.Set("image", SafeName(item.DisplayName)+".png")
	box.Set("description", strings.ReplaceAll(item.Description, "\n", "<br>"))
	box.Set("stackSize", item.MaxStack)

	c := &item.Components
	if r := c.ReloaderAmmo; r != nil {
		box.Set("ammo_capacity", r.AmmoCapacity)
		box.Set("reload_duration", r.ReloadDuration)
	}
	if c.ReloaderNoAmmo != nil {
		if loaded := item.LoadedAmmo(); len(loaded) > 0 && loaded[0].Ammo != nil {
			box.Set("damage", loaded[0].Ammo.Damage)
			box.Set("range", loaded[0].Ammo.Range)
		}
	}
	if r := c.ReloaderBattery; r != nil {
		box.Set("ammo_capacity", r.AmmoCapacity)
		box.Set("reload_duration", r.ReloadDuration)
	}
	if c.PowerPlant != nil {
		box.Set("energy", c.PowerPlant.EnergyPerSecond)
		box.Set("fuel_efficiency", c.PowerPlant.FuelEfficiency)
	}
	if c.EnergyConsumer != nil {
		box.Set("energy", -c.EnergyConsumer.EnergyPerSecond)
	}
	if c.HeatRibs != nil {
		box.Set("energy", c.HeatRibs.EnergyOutput)
	}
	if c.PackableModule != nil {
		box.Set("corePoints", c.PackableModule.CoreSlotCount)
	}
	if h := c.PackableModuleHealth; h != nil {
		box.Set("health", h.MaxHP)
		box.Set("closedArmor", stats.Percent(h.Armor))
	}
	if c.DrillshipObjectHealth != nil {
		box.Set("health", c.DrillshipObjectHealth.MaxHP)
	}
	if c.Inventory != nil {
		box.Set("inventorySlots", c.Inventory.Capacity)
	}
	if c.GridModule != nil {
		box.Set("size", c.GridModule.ModuleCount)
	}
	return box
}

// fillStats copies the property-set stats the infobox knows about
func (g *FandomGenerator) fillStats(item *snapshot.Item, box *InfoboxProps) error {
	rows, err := stats.PropertyStats(item)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.Name == "Placement" {
			box.Set("placement", row.Value)
		}
	}
	return nil
}

// FillRecipe adds the crafting facts of the item's producing recipe. A nil facts
// adds nothing.
func FillRecipe(box *InfoboxProps, facts *crafting.RecipeFacts) {
	if facts == nil {
		return
	}

	box.Set("craftedIn", joinLinks(facts.CraftedIn))
	if len(facts.UnlockItems) > 0 {
		box.Set("item_req", joinLinks(facts.UnlockItems))
	}
	if len(facts.Schematics) > 0 {
		box.Set("schematics", joinLinks(facts.Schematics))
	}
	if facts.ProductionRequirement != "" {
		box.Set("production_req", facts.ProductionRequirement)
	}
	for i, ingredient := range facts.Ingredients {
		box.Set(fmt.Sprintf("ingredient%d", i+1), ingredient.Item.DisplayName)
		box.Set(fmt.Sprintf("quantity%d", i+1), ingredient.Amount)
	}
}

func joinLinks(items []*snapshot.Item) string {
	links := make([]string, 0, len(items))
	for _, item := range items {
		links = append(links, "[["+item.DisplayName+"]]")
	}
	return strings.Join(links, "<br>")
}

func tableBreak(p *page) {
	for i := 0; i < 10; i++ {
		p.blank()
	}
}

// writeAmmoTable writes one column per accepted ammo, scaled by the weapon's modifiers
func writeAmmoTable(p *page, ammo []*snapshot.Item, mods *snapshot.StatModifiers) {
	var defs []*snapshot.Item
	for _, a := range ammo {
		if a.Ammo != nil {
			defs = append(defs, a)
		}
	}
	if len(defs) == 0 {
		return
	}

	tableBreak(p)
	p.line("==Ammo==")
	p.line(`{|class="article-table mw-collapsible"`)
	p.line("!Stat")
	columns := make([][]stats.Stat, 0, len(defs))
	for i, def := range defs {
		header := "![[" + def.DisplayName + "]]"
		if i == len(defs)-1 {
			header += tablePad
		}
		p.line("%s", header)
		columns = append(columns, stats.Modify(*def.Ammo, mods).Rows())
	}

	for row := range columns[0] {
		p.line("|-")
		p.line("!%s", columns[0][row].Name)
		for _, col := range columns {
			p.line("|%s", col[row].Value)
		}
	}
	p.line("|}")
}

func writeModifierTable(p *page, mods *snapshot.StatModifiers) {
	if mods == nil {
		return
	}

	tableBreak(p)
	p.line("==Modifiers==")
	p.line(`{|class="article-table mw-collapsible"`)
	p.line("!Stat")
	p.line("!Value" + tablePad)
	for _, s := range stats.ModifierRows(mods) {
		p.line("|-")
		p.line("!%s", s.Name)
		p.line("|%s", s.Value)
	}
	p.line("|}")
}
