package wiki

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/volcanoids-wiki/wikiwriter/internal/crafting"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

// SafeName lowercases name and replaces spaces with underscores
func SafeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// WikiPath joins a namespace and a page name the way DokuWiki expects
func WikiPath(namespace, name string) string {
	return namespace + ":" + SafeName(name)
}

// Link renders a DokuWiki link
func Link(path, text string) string {
	return fmt.Sprintf("[[%s|%s]]", path, text)
}

// ItemNamespace returns the namespace item pages live in
func ItemNamespace(item *snapshot.Item) (string, error) {
	switch item.Kind {
	case snapshot.KindItem, snapshot.KindAmmo, snapshot.KindTool, snapshot.KindModule,
		snapshot.KindTrainCore, snapshot.KindTrainDrill, snapshot.KindTrainEngine,
		snapshot.KindTrainHull, snapshot.KindTrainSegment, snapshot.KindTrainTracks:
		return NamespaceItems, nil
	default:
		return "", fmt.Errorf("%w: item %s has kind %q", ErrUnknownNamespace, item.Name, item.Kind)
	}
}

// ItemPath returns the wiki path of an item page
func ItemPath(item *snapshot.Item) (string, error) {
	ns, err := ItemNamespace(item)
	if err != nil {
		return "", err
	}
	return WikiPath(ns, item.DisplayName), nil
}

// ItemLink links to an item page, falling back to plain text
func ItemLink(item *snapshot.Item) string {
	path, err := ItemPath(item)
	if err != nil {
		return item.DisplayName
	}
	return Link(path, item.DisplayName)
}

// RecipePath returns the wiki path of a recipe page. Recipes are keyed by internal
// name since many recipes share an output.
func RecipePath(recipe *snapshot.Recipe) string {
	return WikiPath(NamespaceRecipes, recipe.Name)
}

// RecipeDisplayName is the output's name, suffixed for worktable variants
func RecipeDisplayName(recipe *snapshot.Recipe) string {
	name := recipe.Output.DisplayName
	if crafting.IsWorktableRecipe(recipe.Name) && recipe.Name != "WorktableRecipe" {
		if strings.Contains(recipe.Name, "5x") {
			return name + " (Worktable, x5)"
		}
		return name + " (Worktable)"
	}
	return name
}

// RecipeLink links to a recipe page. Detailed links carry the worktable suffix.
func RecipeLink(recipe *snapshot.Recipe, detailed bool) string {
	text := recipe.Output.DisplayName
	if detailed {
		text = RecipeDisplayName(recipe)
	}
	return Link(RecipePath(recipe), text)
}

// GoIdentifier turns an asset name into an exported Go identifier
func GoIdentifier(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	id := b.String()
	if id == "" {
		return "NoName"
	}
	if unicode.IsDigit(rune(id[0])) {
		return "X" + id
	}
	return id
}
