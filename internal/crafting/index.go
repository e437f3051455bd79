// Package crafting answers where and how an item is made: which crafters serve
// each production category, which items unlock a recipe, and the canonical
// producing recipe of an item.
package crafting

import (
	"sort"

	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

// CrafterIndex maps a production category name to the items that can craft in it.
// It is built once per run and not modified afterwards.
type CrafterIndex struct {
	byCategory map[string][]*snapshot.Item
}

// BuildCrafterIndex registers every item with a producer component under each
// category it declares. Crafters keep first-seen order and appear once per category.
func BuildCrafterIndex(items []*snapshot.Item) *CrafterIndex {
	idx := &CrafterIndex{byCategory: make(map[string][]*snapshot.Item)}

	for _, item := range items {
		producer := item.Components.Producer
		if producer == nil {
			continue
		}
		for _, category := range producer.Categories {
			if containsItem(idx.byCategory[category], item) {
				continue
			}
			idx.byCategory[category] = append(idx.byCategory[category], item)
		}
	}

	return idx
}

// Crafters returns the crafters registered for category, or nil
func (idx *CrafterIndex) Crafters(category string) []*snapshot.Item {
	if idx == nil {
		return nil
	}
	crafters := idx.byCategory[category]
	if len(crafters) == 0 {
		return nil
	}
	out := make([]*snapshot.Item, len(crafters))
	copy(out, crafters)
	return out
}

// Categories returns the indexed category names, sorted
func (idx *CrafterIndex) Categories() []string {
	names := make([]string, 0, len(idx.byCategory))
	for name := range idx.byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len is the number of indexed categories
func (idx *CrafterIndex) Len() int {
	return len(idx.byCategory)
}

// UnlockIndex maps a recipe to the items whose discovery unlocks it
type UnlockIndex struct {
	byRecipe map[*snapshot.Recipe][]*snapshot.Item
}

// BuildUnlockIndex unions, per recipe, the items of every group listing it
func BuildUnlockIndex(groups []*snapshot.UnlockGroup) *UnlockIndex {
	idx := &UnlockIndex{byRecipe: make(map[*snapshot.Recipe][]*snapshot.Item)}

	for _, group := range groups {
		for _, recipe := range group.Recipes {
			items := idx.byRecipe[recipe]
			for _, item := range group.Items {
				if containsItem(items, item) {
					continue
				}
				items = append(items, item)
			}
			idx.byRecipe[recipe] = items
		}
	}

	return idx
}

// UnlockItems returns the items that unlock recipe. A nil result means no unlock
// is required.
func (idx *UnlockIndex) UnlockItems(recipe *snapshot.Recipe) []*snapshot.Item {
	if idx == nil {
		return nil
	}
	items := idx.byRecipe[recipe]
	if len(items) == 0 {
		return nil
	}
	out := make([]*snapshot.Item, len(items))
	copy(out, items)
	return out
}

func containsItem(items []*snapshot.Item, item *snapshot.Item) bool {
	for _, existing := range items {
		if existing.ID == item.ID {
			return true
		}
	}
	return false
}
