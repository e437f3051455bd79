package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/volcanoids-wiki/wikiwriter/internal/cli/ui"
	"github.com/volcanoids-wiki/wikiwriter/internal/crafting"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
	"github.com/volcanoids-wiki/wikiwriter/internal/stats"
	"github.com/volcanoids-wiki/wikiwriter/internal/wiki"
)

// NewRecipeCommand creates the recipe command
func NewRecipeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recipe <item>",
		Short: "Show how an item is crafted",
		Long: `Resolve the recipe that produces an item: where it is crafted, what unlocks
it, which schematics and module tier it needs, and its ingredients. Recipes
that consume the item are listed after it.

Examples:
  wikiwriter recipe "Iron Plate"
  wikiwriter recipe RefineryModule
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cmd, cfg.Snapshot)
			if err != nil {
				return err
			}
			item, err := findItem(cmd, snap, args[0])
			if err != nil {
				return err
			}

			describeRecipe(cmd, snap, item)
			return nil
		},
	}
}

func describeRecipe(cmd *cobra.Command, snap *snapshot.Snapshot, item *snapshot.Item) {
	out := cmd.OutOrStdout()
	nc := noColor(cmd)

	ui.Header(out, item.DisplayName, nc)

	facts, ok := crafting.NewResolver(snap).Resolve(item)
	if !ok {
		ui.Warning(fmt.Sprintf("No recipe produces %s", item.DisplayName), nc).Write(out)
	} else {
		recipe := facts.Recipe

		kv := ui.NewKeyValueTable(out, nc)
		kv.AddRow("Recipe", wiki.RecipeDisplayName(recipe))
		kv.AddRow("Output amount", fmt.Sprint(recipe.OutputAmount))
		kv.AddRow("Production time", stats.Format(recipe.ProductionTime)+"s")
		if facts.ProductionRequirement != "" {
			kv.AddRow("Requires", facts.ProductionRequirement)
		}
		kv.Render()
		fmt.Fprintln(out)

		itemSection(out, "Crafted in", facts.CraftedIn, nc)
		itemSection(out, "Unlocked by", facts.UnlockItems, nc)
		itemSection(out, "Schematics", facts.Schematics, nc)

		ingredients := ui.NewSection(out, "Ingredients", nc)
		for _, in := range facts.Ingredients {
			ingredients.AddLine("%dx %s", in.Amount, in.Item.DisplayName)
		}
		ingredients.Render()
	}

	usedIn := ui.NewSection(out, "Used in", nc)
	seen := make(map[*snapshot.Recipe]bool)
	for _, recipe := range crafting.RecipesConsuming(item, snap.Recipes()) {
		if seen[recipe] {
			continue
		}
		seen[recipe] = true
		usedIn.AddLine("%s", wiki.RecipeDisplayName(recipe))
	}
	usedIn.Render()
}

func itemSection(out io.Writer, title string, items []*snapshot.Item, noColor bool) {
	section := ui.NewSection(out, title, noColor)
	for _, name := range itemNames(items) {
		section.AddLine("%s", name)
	}
	section.Render()
}
