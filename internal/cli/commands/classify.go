package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/volcanoids-wiki/wikiwriter/internal/classify"
	"github.com/volcanoids-wiki/wikiwriter/internal/cli/ui"
	"github.com/volcanoids-wiki/wikiwriter/internal/crafting"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
	"github.com/volcanoids-wiki/wikiwriter/internal/stats"
)

// NewClassifyCommand creates the classify command
func NewClassifyCommand() *cobra.Command {
	var (
		list     bool
		category string
	)

	cmd := &cobra.Command{
		Use:   "classify [item]",
		Short: "Show how an item is categorized on the wiki",
		Long: `Show the display categories, infobox type and stats of one item, or list
every documented item with its categories.

Item names match display or internal names, ignoring case.

Examples:
  wikiwriter classify "Iron Plate"
  wikiwriter classify --list
  wikiwriter classify --list --category Weapons
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list && len(args) == 0 {
				return errors.New("an item name is required unless --list is set")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot(cmd, cfg.Snapshot)
			if err != nil {
				return err
			}

			if list {
				listItems(cmd, snap, category)
				return nil
			}

			item, err := findItem(cmd, snap, args[0])
			if err != nil {
				return err
			}
			describeItem(cmd, snap, item)
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list every documented item")
	cmd.Flags().StringVar(&category, "category", "", "with --list, only items in this category")

	return cmd
}

func listItems(cmd *cobra.Command, snap *snapshot.Snapshot, category string) {
	items := make([]*snapshot.Item, 0, len(snap.Items()))
	for _, item := range snap.Items() {
		if item.Documented() {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DisplayName < items[j].DisplayName
	})

	table := ui.NewTable(cmd.OutOrStdout(), noColor(cmd), "Item", "Type", "Categories")
	for _, item := range items {
		categories := classify.Classify(item)
		if category != "" && !containsFold(categories, category) {
			continue
		}
		table.AddRow(item.DisplayName, item.Kind.TypeName(), strings.Join(categories, ", "))
	}
	table.Render()
}

func describeItem(cmd *cobra.Command, snap *snapshot.Snapshot, item *snapshot.Item) {
	out := cmd.OutOrStdout()
	nc := noColor(cmd)

	ui.Header(out, item.DisplayName, nc)

	kv := ui.NewKeyValueTable(out, nc)
	kv.AddRow("Internal name", item.Name)
	kv.AddRow("Asset id", item.ID.String())
	kv.AddRow("Type", item.Kind.TypeName())
	kv.AddRow("Categories", strings.Join(classify.Classify(item), ", "))
	kv.AddRow("Infobox", classify.InfoboxType(item))
	if facts, ok := crafting.NewResolver(snap).Resolve(item); ok {
		kv.AddRow("Crafted with", strings.Join(classify.CraftedWith(facts), ", "))
	}
	kv.Render()
	fmt.Fprintln(out)

	block, err := stats.Collect(item)
	section := ui.NewSection(out, "Stats", nc)
	for _, s := range block.Stats {
		section.AddLine("%s: %s", s.Name, s.Value)
	}
	for _, s := range block.Modifiers {
		section.AddLine("%s: %s", s.Name, s.Value)
	}
	if len(block.AmmoTypes) > 0 {
		section.AddLine("Ammo Types: %s", strings.Join(itemNames(block.AmmoTypes), ", "))
	}
	section.Render()

	if err != nil {
		ui.Warning(err.Error(), nc).Write(cmd.ErrOrStderr())
	}
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
