// Package classify sorts items into the wiki's display categories
package classify

import (
	"strings"

	"github.com/volcanoids-wiki/wikiwriter/internal/crafting"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

// CopperLeversID is the lever item that is a crafting component rather than a device
var CopperLeversID = snapshot.MustParseAssetID("3b42ca843c8036b4087c1584eee1e406")

// Display categories, in evaluation order
const (
	CategoryAmmo           = "Ammo"
	CategoryComponents     = "Components"
	CategoryDevices        = "Devices"
	CategoryDrillshipParts = "Drillship Parts"
	CategoryIntel          = "Intel"
	CategoryMaterials      = "Materials"
	CategoryModules        = "Modules"
	CategorySchematics     = "Schematics"
	CategoryStructures     = "Structures"
	CategoryTools          = "Tools"
	CategoryTurrets        = "Turrets"
	CategoryUpgrades       = "Upgrades"
	CategoryWeapons        = "Weapons"
)

// Infobox template variants
const (
	InfoboxMaterial = "material"
	InfoboxWeapon   = "weapon"
	InfoboxMelee    = "melee"
	InfoboxModule   = "module"
)

type rule struct {
	label string
	match func(item *snapshot.Item, name string) bool
}

var rules = []rule{
	{CategoryAmmo, func(item *snapshot.Item, _ string) bool {
		return item.Kind == snapshot.KindAmmo
	}},
	{CategoryComponents, isComponent},
	{CategoryDevices, func(item *snapshot.Item, name string) bool {
		c := &item.Components
		return (c.GridModule != nil || containsFold(name, "Lever")) &&
			!(c.IsModule() || item.ID == CopperLeversID)
	}},
	{CategoryDrillshipParts, func(_ *snapshot.Item, name string) bool {
		return containsFold(name, "Parts")
	}},
	{CategoryIntel, func(_ *snapshot.Item, name string) bool {
		return containsFold(name, "Intel")
	}},
	{CategoryMaterials, func(_ *snapshot.Item, name string) bool {
		return isMaterialName(name)
	}},
	{CategoryModules, func(item *snapshot.Item, _ string) bool {
		return item.Components.IsModule()
	}},
	{CategorySchematics, func(_ *snapshot.Item, name string) bool {
		return containsFold(name, "Schematic")
	}},
	{CategoryStructures, func(item *snapshot.Item, _ string) bool {
		return item.Components.Subpart
	}},
	{CategoryTools, func(item *snapshot.Item, _ string) bool {
		return item.Components.ToolFirstPerson && !item.Components.IsWeapon()
	}},
	{CategoryTurrets, func(item *snapshot.Item, _ string) bool {
		return item.Components.Turret && item.Components.PackableModule != nil
	}},
	{CategoryUpgrades, func(item *snapshot.Item, _ string) bool {
		return item.Kind.IsTrainPart()
	}},
	{CategoryWeapons, func(item *snapshot.Item, _ string) bool {
		return item.Components.IsWeapon()
	}},
}

// Classify returns the display categories of item in rule order. Every rule is
// evaluated; each contributes its label at most once.
func Classify(item *snapshot.Item) []string {
	name := item.DisplayName
	categories := make([]string, 0, 2)
	for _, r := range rules {
		if r.match(item, name) {
			categories = append(categories, r.label)
		}
	}
	return categories
}

// Categories lists every display category in evaluation order
func Categories() []string {
	labels := make([]string, len(rules))
	for i, r := range rules {
		labels[i] = r.label
	}
	return labels
}

// isComponent matches prefab-less crafting parts that no other rule claims
func isComponent(item *snapshot.Item, name string) bool {
	c := &item.Components
	return !item.HasPrefab &&
		!containsFold(name, "Parts") &&
		!containsFold(name, "Intel") &&
		!isMaterialName(name) &&
		!containsFold(name, "Schematic") &&
		!(containsFold(name, "Lever") && item.ID != CopperLeversID) &&
		item.Kind != snapshot.KindAmmo &&
		!item.Kind.IsTrainPart() &&
		!c.ToolFirstPerson &&
		!c.IsWeapon()
}

// isMaterialName matches " Ore" (leading space so "core" is excluded) or "Raw"
func isMaterialName(name string) bool {
	return containsFold(name, " Ore") || containsFold(name, "Raw")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// InfoboxType picks the infobox template for item. Later checks override earlier ones.
func InfoboxType(item *snapshot.Item) string {
	c := &item.Components
	infobox := InfoboxMaterial
	if c.HasWeaponReloader() {
		infobox = InfoboxWeapon
	}
	if c.Mining {
		infobox = InfoboxMelee
	}
	if c.IsModule() {
		infobox = InfoboxModule
	}
	return infobox
}

// CraftedWith returns the "Crafted with" category suffixes for an item's recipe:
// one per ingredient, in recipe order
func CraftedWith(facts *crafting.RecipeFacts) []string {
	if facts == nil {
		return nil
	}
	names := make([]string, 0, len(facts.Ingredients))
	for _, ingredient := range facts.Ingredients {
		names = append(names, ingredient.Item.DisplayName)
	}
	return names
}
