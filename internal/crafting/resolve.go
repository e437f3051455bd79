package crafting

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

// WorktableMarker identifies the generic worktable recipes in a recipe's internal name
const WorktableMarker = "Worktable"

// Production families used in tiered category names
const (
	FamilyProduction = "Production"
	FamilyRefinement = "Refinement"
	FamilyResearch   = "Research"
	FamilyScrap      = "Scrap"
)

var tierCategoryPattern = regexp.MustCompile(`([A-Za-z]+)Tier(\d+)`)

// RecipeFacts are the crafting facts documented for an item
type RecipeFacts struct {
	Recipe *snapshot.Recipe

	// CraftedIn lists crafters by recipe category, then by index order
	CraftedIn []*snapshot.Item

	// UnlockItems is empty when the recipe needs no unlock
	UnlockItems []*snapshot.Item

	// Schematics are the recipe's required upgrades in declared order
	Schematics []*snapshot.Item

	// ProductionRequirement is e.g. "Refinery Module Tier 2", or empty
	ProductionRequirement string

	Ingredients []snapshot.Ingredient
}

// IsWorktableRecipe reports whether the recipe name marks a worktable recipe
func IsWorktableRecipe(name string) bool {
	return strings.Contains(name, WorktableMarker)
}

// ProducingRecipe returns the first recipe outputting item that is not a worktable
// recipe. Selection follows the order of recipes.
func ProducingRecipe(item *snapshot.Item, recipes []*snapshot.Recipe) (*snapshot.Recipe, bool) {
	for _, recipe := range recipes {
		if recipe.Output == nil || recipe.Output.ID != item.ID {
			continue
		}
		if IsWorktableRecipe(recipe.Name) {
			continue
		}
		return recipe, true
	}
	return nil, false
}

// Resolve computes the crafting facts of item. It returns false when no
// non-worktable recipe produces the item.
func Resolve(item *snapshot.Item, recipes []*snapshot.Recipe, crafters *CrafterIndex, unlocks *UnlockIndex) (*RecipeFacts, bool) {
	recipe, ok := ProducingRecipe(item, recipes)
	if !ok {
		return nil, false
	}

	facts := &RecipeFacts{
		Recipe:                recipe,
		ProductionRequirement: ProductionRequirement(recipe.Categories),
	}

	for _, category := range recipe.Categories {
		facts.CraftedIn = append(facts.CraftedIn, crafters.Crafters(category)...)
	}

	facts.UnlockItems = unlocks.UnlockItems(recipe)

	if len(recipe.RequiredUpgrades) > 0 {
		facts.Schematics = append([]*snapshot.Item(nil), recipe.RequiredUpgrades...)
	}
	if len(recipe.Inputs) > 0 {
		facts.Ingredients = append([]snapshot.Ingredient(nil), recipe.Inputs...)
	}

	return facts, true
}

// ProductionRequirement derives the module tier needed from tiered category names
// such as "RefinementTier2". Tier 0 means no requirement. When several categories
// match, the last one wins.
func ProductionRequirement(categories []string) string {
	requirement := ""
	for _, category := range categories {
		family, tier, ok := ParseTierCategory(category)
		if !ok || tier == 0 {
			continue
		}
		requirement = fmt.Sprintf("%s Module Tier %d", ModuleName(family), tier)
	}
	return requirement
}

// ParseTierCategory splits a "<Family>Tier<N>" category name
func ParseTierCategory(category string) (family string, tier int, ok bool) {
	match := tierCategoryPattern.FindStringSubmatch(category)
	if match == nil {
		return "", 0, false
	}
	tier, err := strconv.Atoi(match[2])
	if err != nil {
		return "", 0, false
	}
	return match[1], tier, true
}

// ModuleName is the drillship module that serves a production family
func ModuleName(family string) string {
	if family == FamilyRefinement {
		return "Refinery"
	}
	return family
}

// Resolver binds the indexes of one run so callers resolve by item alone
type Resolver struct {
	recipes  []*snapshot.Recipe
	crafters *CrafterIndex
	unlocks  *UnlockIndex
}

// NewResolver builds the crafter and unlock indexes for snap
func NewResolver(snap *snapshot.Snapshot) *Resolver {
	return &Resolver{
		recipes:  snap.Recipes(),
		crafters: BuildCrafterIndex(snap.Items()),
		unlocks:  BuildUnlockIndex(snap.UnlockGroups()),
	}
}

// Resolve is Resolve with the bound indexes
func (r *Resolver) Resolve(item *snapshot.Item) (*RecipeFacts, bool) {
	return Resolve(item, r.recipes, r.crafters, r.unlocks)
}
