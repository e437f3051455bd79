package crafting

import (
	"strings"

	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

// RecipesOutputting returns every recipe whose output is item, worktable recipes included
func RecipesOutputting(item *snapshot.Item, recipes []*snapshot.Recipe) []*snapshot.Recipe {
	var out []*snapshot.Recipe
	for _, recipe := range recipes {
		if recipe.Output != nil && recipe.Output.ID == item.ID {
			out = append(out, recipe)
		}
	}
	return out
}

// RecipesConsuming returns recipes using item as an input, once per matching input
func RecipesConsuming(item *snapshot.Item, recipes []*snapshot.Recipe) []*snapshot.Recipe {
	var out []*snapshot.Recipe
	for _, recipe := range recipes {
		for _, input := range recipe.Inputs {
			if input.Item.ID == item.ID {
				out = append(out, recipe)
			}
		}
	}
	return out
}

// RecipesRequiring returns recipes listing item as a required upgrade
func RecipesRequiring(item *snapshot.Item, recipes []*snapshot.Recipe) []*snapshot.Recipe {
	var out []*snapshot.Recipe
	for _, recipe := range recipes {
		for _, upgrade := range recipe.RequiredUpgrades {
			if upgrade.ID == item.ID {
				out = append(out, recipe)
			}
		}
	}
	return out
}

// IsScrapRecipe reports a recipe crafted under any Scrap category
func IsScrapRecipe(recipe *snapshot.Recipe) bool {
	for _, category := range recipe.Categories {
		if strings.HasPrefix(category, FamilyScrap) {
			return true
		}
	}
	return false
}

// ScrapGroup collects the scrap recipes that output the same item
type ScrapGroup struct {
	OutputName string
	Recipes    []*snapshot.Recipe
}

// ScrapGroups groups scrap recipes by output display name in first-seen order
func ScrapGroups(recipes []*snapshot.Recipe) []*ScrapGroup {
	var groups []*ScrapGroup
	byName := make(map[string]*ScrapGroup)

	for _, recipe := range recipes {
		if !IsScrapRecipe(recipe) {
			continue
		}
		name := recipe.Output.DisplayName
		group, ok := byName[name]
		if !ok {
			group = &ScrapGroup{OutputName: name}
			byName[name] = group
			groups = append(groups, group)
		}
		group.Recipes = append(group.Recipes, recipe)
	}

	return groups
}

// RecipeCategoryNames returns the distinct non-empty category names across recipes
func RecipeCategoryNames(recipes []*snapshot.Recipe) []string {
	seen := make(map[string]bool)
	var names []string
	for _, recipe := range recipes {
		for _, category := range recipe.Categories {
			if category == "" || seen[category] {
				continue
			}
			seen[category] = true
			names = append(names, category)
		}
	}
	return names
}
