package wiki

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/volcanoids-wiki/wikiwriter/internal/crafting"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
	"github.com/volcanoids-wiki/wikiwriter/internal/stats"
)

// NoName stands in for assets with a blank internal name
const NoName = "{no name}"

// Table is one flat reference table
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// FileName returns the output file name of the table for format
func (t *Table) FileName(format Format) string {
	if format == FormatCSV {
		return t.Name + ".csv"
	}
	return t.Name + ".txt"
}

// Render renders the table. Markdown tables are preceded by header.
func (t *Table) Render(format Format, header string) (string, error) {
	switch format {
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(t.Columns); err != nil {
			return "", err
		}
		if err := w.WriteAll(t.Rows); err != nil {
			return "", err
		}
		return buf.String(), nil
	case FormatMarkdown:
		var b strings.Builder
		b.WriteString(header)
		b.WriteString(markdownRow(t.Columns))
		b.WriteString("\n")
		sep := make([]string, len(t.Columns))
		for i := range sep {
			sep[i] = "---"
		}
		b.WriteString(strings.Join(sep, " | "))
		b.WriteString("\n")
		for _, row := range t.Rows {
			b.WriteString(markdownRow(row))
			b.WriteString("\n")
		}
		return b.String(), nil
	default:
		return "", fmt.Errorf("unsupported table format %q", format)
	}
}

var cellEscaper = strings.NewReplacer("|", `\|`)

func markdownRow(cells []string) string {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = cellEscaper.Replace(cell)
	}
	return strings.Join(escaped, " | ")
}

func nameOrNoName(name string) string {
	if strings.TrimSpace(name) == "" {
		return NoName
	}
	return strings.TrimSpace(name)
}

func sortedItems(snap *snapshot.Snapshot) []*snapshot.Item {
	items := append([]*snapshot.Item(nil), snap.Items()...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func sortedRecipes(snap *snapshot.Snapshot) []*snapshot.Recipe {
	recipes := append([]*snapshot.Recipe(nil), snap.Recipes()...)
	sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].Name < recipes[j].Name })
	return recipes
}

// ItemIDTable lists every item with its asset id and type
func ItemIDTable(snap *snapshot.Snapshot) *Table {
	t := &Table{Name: "Item Ids", Columns: []string{"Name", "AssetId (GUID)", "Type"}}
	for _, item := range sortedItems(snap) {
		t.Rows = append(t.Rows, []string{nameOrNoName(item.Name), item.ID.String(), item.Kind.TypeName()})
	}
	return t
}

// ModuleIDTable lists the drillship modules
func ModuleIDTable(snap *snapshot.Snapshot) *Table {
	modules := append([]snapshot.Module(nil), snap.Modules()...)
	sort.SliceStable(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })

	t := &Table{Name: "Module Ids", Columns: []string{"Name", "AssetId (GUID)"}}
	for _, m := range modules {
		t.Rows = append(t.Rows, []string{nameOrNoName(m.Name), m.ID.String()})
	}
	return t
}

// RecipeIDTable lists recipes with their output and required upgrades
func RecipeIDTable(snap *snapshot.Snapshot) *Table {
	t := &Table{Name: "Recipe Ids", Columns: []string{"Name", "Info"}}
	for _, recipe := range sortedRecipes(snap) {
		var info strings.Builder
		info.WriteString("<ul>")
		fmt.Fprintf(&info, "<li>AssetId: %s</li>", recipe.ID)
		info.WriteString("<li>Output Item:<ul>")
		fmt.Fprintf(&info, "<li>Name: %s</li>", nameOrNoName(recipe.Output.Name))
		fmt.Fprintf(&info, "<li>AssetId: %s</li>", recipe.Output.ID)
		info.WriteString("</ul></li>")
		if len(recipe.RequiredUpgrades) > 0 {
			names := make([]string, 0, len(recipe.RequiredUpgrades))
			for _, upgrade := range recipe.RequiredUpgrades {
				names = append(names, nameOrNoName(upgrade.Name))
			}
			fmt.Fprintf(&info, "<li>Requirements: %s</li>", strings.Join(names, ", "))
		}
		info.WriteString("</ul>")
		t.Rows = append(t.Rows, []string{nameOrNoName(recipe.Name), info.String()})
	}
	return t
}

// ItemCategoryIDTable lists the item categories
func ItemCategoryIDTable(snap *snapshot.Snapshot) *Table {
	categories := append([]snapshot.Category(nil), snap.ItemCategories()...)
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })

	t := &Table{Name: "Item Category Ids", Columns: []string{"Name", "AssetId (GUID)"}}
	for _, c := range categories {
		t.Rows = append(t.Rows, []string{nameOrNoName(c.Name), c.ID.String()})
	}
	return t
}

// RecipeCategoryIDTable lists the distinct recipe category names
func RecipeCategoryIDTable(snap *snapshot.Snapshot) *Table {
	names := crafting.RecipeCategoryNames(snap.Recipes())
	sort.Strings(names)

	t := &Table{Name: "Recipe Category Ids", Columns: []string{"Name"}}
	for _, name := range names {
		t.Rows = append(t.Rows, []string{name})
	}
	return t
}

// RecipeCategoryTable lists each recipe's categories
func RecipeCategoryTable(snap *snapshot.Snapshot) *Table {
	t := &Table{Name: "Recipe Categories", Columns: []string{"Name", "Category (s)"}}
	for _, recipe := range sortedRecipes(snap) {
		categories := "{null}"
		if len(recipe.Categories) > 0 {
			categories = strings.Join(recipe.Categories, ", ")
		}
		t.Rows = append(t.Rows, []string{nameOrNoName(recipe.Name), categories})
	}
	return t
}

// StackSizeTable lists each item's stack size
func StackSizeTable(snap *snapshot.Snapshot) *Table {
	t := &Table{Name: "Item Stack Sizes", Columns: []string{"Name", "Stack Size"}}
	for _, item := range sortedItems(snap) {
		t.Rows = append(t.Rows, []string{nameOrNoName(item.Name), stats.Format(item.MaxStack)})
	}
	return t
}

// ProductionTimeTable lists each recipe's production time in seconds
func ProductionTimeTable(snap *snapshot.Snapshot) *Table {
	t := &Table{Name: "Recipe Production Times", Columns: []string{"Name", "Production Time (s)"}}
	for _, recipe := range sortedRecipes(snap) {
		t.Rows = append(t.Rows, []string{nameOrNoName(recipe.Name), stats.Format(recipe.ProductionTime)})
	}
	return t
}

// AmmoStatTable lists every ammo definition's damage and range
func AmmoStatTable(snap *snapshot.Snapshot) *Table {
	t := &Table{Name: "Ammo Stats", Columns: []string{"Name", "AssetId (GUID)", "Damage", "Range"}}
	for _, item := range sortedItems(snap) {
		if item.Kind != snapshot.KindAmmo || item.Ammo == nil {
			continue
		}
		t.Rows = append(t.Rows, []string{
			nameOrNoName(item.Name), item.ID.String(), stats.Format(item.Ammo.Damage), stats.Format(item.Ammo.Range),
		})
	}
	return t
}

// QuestOrderTable lists quests in quest manager order
func QuestOrderTable(snap *snapshot.Snapshot) *Table {
	t := &Table{Name: "Quest Order", Columns: []string{"Name", "Priority", "Type"}}
	for _, q := range snap.Quests() {
		questType := q.Type
		if q.Subtype != "" && q.Subtype != q.Type {
			questType = fmt.Sprintf("%s (%s)", q.Type, q.Subtype)
		}
		t.Rows = append(t.Rows, []string{nameOrNoName(q.Name), stats.Format(q.Priority), questType})
	}
	return t
}

// Tables returns every reference table in output order
func Tables(snap *snapshot.Snapshot) []*Table {
	return []*Table{
		ItemIDTable(snap),
		ModuleIDTable(snap),
		RecipeIDTable(snap),
		ItemCategoryIDTable(snap),
		RecipeCategoryIDTable(snap),
		RecipeCategoryTable(snap),
		StackSizeTable(snap),
		ProductionTimeTable(snap),
		AmmoStatTable(snap),
		QuestOrderTable(snap),
	}
}

// GUIDFields renders Go variable declarations for every item, module and recipe id
func GUIDFields(snap *snapshot.Snapshot, header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("Table of Contents\n---\n\n")
	b.WriteString("- [Item Id Fields](#Item-Id-Fields)\n")
	b.WriteString("- [Module Id Fields](#Module-Id-Fields)\n")
	b.WriteString("- [Recipe Id Fields](#Recipe-Id-Fields)\n\n")

	// the sections share one scope once pasted into a package
	used := make(map[string]bool)
	ident := func(name string) string {
		base := GoIdentifier(nameOrNoName(name))
		candidate := base
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s%d", base, n)
		}
		used[candidate] = true
		return candidate
	}

	section := func(title string, names []string, ids []snapshot.AssetID) {
		fmt.Fprintf(&b, "%s:\n---\n\n```go\nvar (\n", title)
		for i := range names {
			fmt.Fprintf(&b, "\t%s = uuid.MustParse(%q)\n", ident(names[i]), ids[i].String())
		}
		b.WriteString(")\n```\n")
	}

	var names []string
	var ids []snapshot.AssetID
	for _, item := range sortedItems(snap) {
		names = append(names, item.Name)
		ids = append(ids, item.ID)
	}
	section("Item Id Fields", names, ids)

	modules := append([]snapshot.Module(nil), snap.Modules()...)
	sort.SliceStable(modules, func(i, j int) bool { return modules[i].Name < modules[j].Name })
	names, ids = nil, nil
	for _, m := range modules {
		names = append(names, m.Name)
		ids = append(ids, m.ID)
	}
	section("Module Id Fields", names, ids)

	names, ids = nil, nil
	for _, recipe := range sortedRecipes(snap) {
		names = append(names, recipe.Name)
		ids = append(ids, recipe.ID)
	}
	section("Recipe Id Fields", names, ids)

	return b.String()
}

// MarkerInfo is the machine-readable list of map markers, landing sites and
// phonograph songs
func MarkerInfo(snap *snapshot.Snapshot) []Location {
	out := Locations(snap)
	for _, song := range snap.PhonographSongs() {
		name := song.Item.String()
		if item, ok := snap.Item(song.Item); ok {
			name = item.DisplayName
		}
		out = append(out, Location{
			Name:         name,
			Position:     song.Position,
			Tooltip:      name,
			Level:        song.Layer,
			Surface:      true,
			Icon:         phonographIcon,
			IsPhonograph: true,
		})
	}
	return out
}

// TablesGenerator writes the flat reference tables
type TablesGenerator struct {
	config *Config
	snap   *snapshot.Snapshot
	obs    Observer
}

// NewTablesGenerator creates a new reference table generator
func NewTablesGenerator(config *Config, snap *snapshot.Snapshot, obs Observer) *TablesGenerator {
	if obs == nil {
		obs = NopObserver{}
	}
	return &TablesGenerator{config: config, snap: snap, obs: obs}
}

// Generate writes every table and the GUID field list into the tables directory
func (g *TablesGenerator) Generate(ctx context.Context) error {
	if err := os.MkdirAll(g.config.TablesDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", g.config.TablesDir, err)
	}

	format := g.config.TableFormat
	if format == "" {
		format = FormatMarkdown
	}

	for _, table := range Tables(g.snap) {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := table.Render(format, g.config.Header())
		if err == nil {
			err = writeFile(filepath.Join(g.config.TablesDir, table.FileName(format)), content)
		}
		if err != nil {
			g.obs.PageFailed(NamespaceTables, table.Name, err)
			continue
		}
		g.obs.PageWritten(NamespaceTables, table.Name)
	}

	const guidFields = "GUID Fields (Go)"
	if err := writeFile(filepath.Join(g.config.TablesDir, guidFields+".txt"), GUIDFields(g.snap, g.config.Header())); err != nil {
		g.obs.PageFailed(NamespaceTables, guidFields, err)
	} else {
		g.obs.PageWritten(NamespaceTables, guidFields)
	}
	return nil
}

// MarkerGenerator writes Map Markers/Map Marker Info.json and the marker icons
type MarkerGenerator struct {
	config *Config
	snap   *snapshot.Snapshot
	obs    Observer
}

// NewMarkerGenerator creates a new map marker info generator
func NewMarkerGenerator(config *Config, snap *snapshot.Snapshot, obs Observer) *MarkerGenerator {
	if obs == nil {
		obs = NopObserver{}
	}
	return &MarkerGenerator{config: config, snap: snap, obs: obs}
}

// Generate writes the marker info JSON
func (g *MarkerGenerator) Generate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Join(g.config.TablesDir, "Map Markers")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	info := MarkerInfo(g.snap)
	writeMarkerIcons(g.config.AssetDir, info, dir, g.obs)

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode marker info: %w", err)
	}
	const name = "Map Marker Info"
	if err := writeFile(filepath.Join(dir, name+".json"), string(data)); err != nil {
		g.obs.PageFailed(NamespaceMaps, name, err)
		return nil
	}
	g.obs.PageWritten(NamespaceMaps, name)
	return nil
}
