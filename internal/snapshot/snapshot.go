package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot is an immutable copy of the game's asset database
type Snapshot struct {
	GameVersion     string
	Dir             string
	items           []*Item
	itemsByID       map[AssetID]*Item
	recipes         []*Recipe
	unlockGroups    []*UnlockGroup
	itemCategories  []Category
	modules         []Module
	quests          []Quest
	markers         []MapMarker
	landingSites    []LandingSite
	phonographSongs []PhonographSong
}

// document is the on-disk layout written by the in-game dumper. Cross references
// are asset ids; Link turns them into pointers.
type document struct {
	GameVersion     string           `json:"game_version" yaml:"game_version"`
	Items           []*Item          `json:"items" yaml:"items"`
	Recipes         []recipeDoc      `json:"recipes" yaml:"recipes"`
	UnlockGroups    []unlockGroupDoc `json:"unlock_groups" yaml:"unlock_groups"`
	ItemCategories  []Category       `json:"item_categories" yaml:"item_categories"`
	Modules         []Module         `json:"modules" yaml:"modules"`
	Quests          []Quest          `json:"quests" yaml:"quests"`
	MapMarkers      []MapMarker      `json:"map_markers" yaml:"map_markers"`
	LandingSites    []LandingSite    `json:"landing_sites" yaml:"landing_sites"`
	PhonographSongs []PhonographSong `json:"phonograph_songs" yaml:"phonograph_songs"`
}

type recipeDoc struct {
	ID               AssetID         `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	Output           AssetID         `json:"output" yaml:"output"`
	OutputAmount     int             `json:"output_amount" yaml:"output_amount"`
	Inputs           []ingredientDoc `json:"inputs" yaml:"inputs"`
	RequiredUpgrades []AssetID       `json:"required_upgrades" yaml:"required_upgrades"`
	Categories       []string        `json:"categories" yaml:"categories"`
	ProductionTime   float64         `json:"production_time" yaml:"production_time"`
}

type ingredientDoc struct {
	Item   AssetID `json:"item" yaml:"item"`
	Amount int     `json:"amount" yaml:"amount"`
}

type unlockGroupDoc struct {
	Name    string    `json:"name" yaml:"name"`
	Recipes []AssetID `json:"recipes" yaml:"recipes"`
	Items   []AssetID `json:"items" yaml:"items"`
}

// Load reads a snapshot from a .json, .yaml or .yml file
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	snap, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	snap.Dir = filepath.Dir(path)
	return snap, nil
}

// Parse decodes snapshot data; format is a file extension such as ".json" or ".yaml"
func Parse(data []byte, format string) (*Snapshot, error) {
	var doc document
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot YAML: %w", err)
		}
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}

	return link(&doc)
}

// New assembles a snapshot from values that are already linked. Reloader
// ammunition ids that do not name one of items are dropped.
func New(gameVersion string, items []*Item, recipes []*Recipe, groups []*UnlockGroup, extras Extras) *Snapshot {
	snap := &Snapshot{
		GameVersion:     gameVersion,
		items:           items,
		itemsByID:       make(map[AssetID]*Item, len(items)),
		recipes:         recipes,
		unlockGroups:    groups,
		itemCategories:  extras.ItemCategories,
		modules:         extras.Modules,
		quests:          extras.Quests,
		markers:         extras.MapMarkers,
		landingSites:    extras.LandingSites,
		phonographSongs: extras.PhonographSongs,
	}
	for _, item := range items {
		snap.itemsByID[item.ID] = item
	}
	for _, item := range items {
		if r := item.Components.ReloaderAmmo; r != nil {
			item.ammunition = snap.knownItems(r.Ammunition)
		}
		if r := item.Components.ReloaderNoAmmo; r != nil {
			item.loadedAmmo = snap.knownItems(r.Ammunition)
		}
	}
	return snap
}

// Extras carries the auxiliary collections used by the reference tables and map pages
type Extras struct {
	ItemCategories  []Category
	Modules         []Module
	Quests          []Quest
	MapMarkers      []MapMarker
	LandingSites    []LandingSite
	PhonographSongs []PhonographSong
}

func (s *Snapshot) knownItems(ids []AssetID) []*Item {
	var items []*Item
	for _, id := range ids {
		if item, ok := s.itemsByID[id]; ok {
			items = append(items, item)
		}
	}
	return items
}

// link resolves every id reference in the document
func link(doc *document) (*Snapshot, error) {
	snap := &Snapshot{
		GameVersion:     doc.GameVersion,
		items:           make([]*Item, 0, len(doc.Items)),
		itemsByID:       make(map[AssetID]*Item, len(doc.Items)),
		itemCategories:  doc.ItemCategories,
		modules:         doc.Modules,
		quests:          doc.Quests,
		markers:         doc.MapMarkers,
		landingSites:    doc.LandingSites,
		phonographSongs: doc.PhonographSongs,
	}

	for _, item := range doc.Items {
		if item == nil {
			continue
		}
		if _, dup := snap.itemsByID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %s (%s)", item.ID, item.Name)
		}
		if item.Kind == "" {
			item.Kind = KindItem
		}
		snap.items = append(snap.items, item)
		snap.itemsByID[item.ID] = item
	}

	for _, item := range snap.items {
		if r := item.Components.ReloaderAmmo; r != nil {
			ammo, err := snap.lookupAll(r.Ammunition)
			if err != nil {
				return nil, fmt.Errorf("item %s ammunition: %w", item.Name, err)
			}
			item.ammunition = ammo
		}
		if r := item.Components.ReloaderNoAmmo; r != nil {
			ammo, err := snap.lookupAll(r.Ammunition)
			if err != nil {
				return nil, fmt.Errorf("item %s loaded ammo: %w", item.Name, err)
			}
			item.loadedAmmo = ammo
		}
	}

	recipesByID := make(map[AssetID]*Recipe, len(doc.Recipes))
	for _, rd := range doc.Recipes {
		output, err := snap.lookup(rd.Output)
		if err != nil {
			return nil, fmt.Errorf("recipe %s output: %w", rd.Name, err)
		}
		recipe := &Recipe{
			ID:             rd.ID,
			Name:           rd.Name,
			Output:         output,
			OutputAmount:   rd.OutputAmount,
			Categories:     rd.Categories,
			ProductionTime: rd.ProductionTime,
			Inputs:         make([]Ingredient, 0, len(rd.Inputs)),
		}
		for _, in := range rd.Inputs {
			item, err := snap.lookup(in.Item)
			if err != nil {
				return nil, fmt.Errorf("recipe %s input: %w", rd.Name, err)
			}
			recipe.Inputs = append(recipe.Inputs, Ingredient{Item: item, Amount: in.Amount})
		}
		if recipe.RequiredUpgrades, err = snap.lookupAll(rd.RequiredUpgrades); err != nil {
			return nil, fmt.Errorf("recipe %s required upgrade: %w", rd.Name, err)
		}
		snap.recipes = append(snap.recipes, recipe)
		recipesByID[recipe.ID] = recipe
	}

	for _, gd := range doc.UnlockGroups {
		group := &UnlockGroup{Name: gd.Name}
		for _, id := range gd.Recipes {
			recipe, ok := recipesByID[id]
			if !ok {
				return nil, fmt.Errorf("unlock group %s: unknown recipe %s", gd.Name, id)
			}
			group.Recipes = append(group.Recipes, recipe)
		}
		items, err := snap.lookupAll(gd.Items)
		if err != nil {
			return nil, fmt.Errorf("unlock group %s: %w", gd.Name, err)
		}
		group.Items = items
		snap.unlockGroups = append(snap.unlockGroups, group)
	}

	return snap, nil
}

func (s *Snapshot) lookup(id AssetID) (*Item, error) {
	item, ok := s.itemsByID[id]
	if !ok {
		return nil, fmt.Errorf("unknown item %s", id)
	}
	return item, nil
}

func (s *Snapshot) lookupAll(ids []AssetID) ([]*Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	items := make([]*Item, 0, len(ids))
	for _, id := range ids {
		item, err := s.lookup(id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Item returns the item with the given id
func (s *Snapshot) Item(id AssetID) (*Item, bool) {
	item, ok := s.itemsByID[id]
	return item, ok
}

// Items returns every item in dump order
func (s *Snapshot) Items() []*Item { return s.items }

// Recipes returns every recipe in dump order
func (s *Snapshot) Recipes() []*Recipe { return s.recipes }

// UnlockGroups returns every recipe unlock group
func (s *Snapshot) UnlockGroups() []*UnlockGroup { return s.unlockGroups }

func (s *Snapshot) ItemCategories() []Category { return s.itemCategories }

func (s *Snapshot) Modules() []Module { return s.modules }

func (s *Snapshot) Quests() []Quest { return s.quests }

func (s *Snapshot) MapMarkers() []MapMarker { return s.markers }

func (s *Snapshot) LandingSites() []LandingSite { return s.landingSites }

func (s *Snapshot) PhonographSongs() []PhonographSong { return s.phonographSongs }

// FindItem looks an item up by display name or internal name, ignoring case
func (s *Snapshot) FindItem(name string) (*Item, bool) {
	for _, item := range s.items {
		if strings.EqualFold(item.DisplayName, name) || strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return nil, false
}

// ItemNames returns the display names of documented items, for suggestions
func (s *Snapshot) ItemNames() []string {
	names := make([]string, 0, len(s.items))
	for _, item := range s.items {
		if item.Documented() {
			names = append(names, item.DisplayName)
		}
	}
	return names
}
