// Package snapshot holds the read-only copy of the game's asset database that a
// documentation run works from. A snapshot is produced by the in-game dumper when an
// island scene finishes loading and is never mutated once loaded.
package snapshot

import (
	"strings"

	"github.com/google/uuid"
)

// AssetID is the stable identity of an asset. Unity GUIDs are 32 hex characters
// without separators, which is also how they are printed.
type AssetID uuid.UUID

// NilID is the zero asset id
var NilID AssetID

// ParseAssetID parses a 32-hex GUID or a dashed UUID
func ParseAssetID(s string) (AssetID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return NilID, err
	}
	return AssetID(id), nil
}

// MustParseAssetID is ParseAssetID for constants; it panics on malformed input
func MustParseAssetID(s string) AssetID {
	id, err := ParseAssetID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (id AssetID) String() string {
	return strings.ReplaceAll(uuid.UUID(id).String(), "-", "")
}

// MarshalText implements encoding.TextMarshaler
func (id AssetID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *AssetID) UnmarshalText(text []byte) error {
	parsed, err := ParseAssetID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ItemKind is the concrete definition type of an item
type ItemKind string

const (
	KindItem         ItemKind = "item"
	KindAmmo         ItemKind = "ammo"
	KindTool         ItemKind = "tool"
	KindModule       ItemKind = "module"
	KindTrainCore    ItemKind = "train_core"
	KindTrainDrill   ItemKind = "train_drill"
	KindTrainEngine  ItemKind = "train_engine"
	KindTrainHull    ItemKind = "train_hull"
	KindTrainSegment ItemKind = "train_segment"
	KindTrainTracks  ItemKind = "train_tracks"
)

// IsTrainPart reports whether the kind is one of the drillship upgrade kinds
func (k ItemKind) IsTrainPart() bool {
	switch k {
	case KindTrainCore, KindTrainDrill, KindTrainEngine, KindTrainHull, KindTrainSegment, KindTrainTracks:
		return true
	}
	return false
}

// TypeName is the host type name shown on reference pages
func (k ItemKind) TypeName() string {
	switch k {
	case KindAmmo:
		return "AmmoDefinition"
	case KindTool:
		return "ToolItemDefinition"
	case KindModule:
		return "ModuleItemDefinition"
	case KindTrainCore:
		return "TrainCoreItemDefinition"
	case KindTrainDrill:
		return "TrainDrillItemDefinition"
	case KindTrainEngine:
		return "TrainEngineItemDefinition"
	case KindTrainHull:
		return "TrainHullItemDefinition"
	case KindTrainSegment:
		return "TrainSegmentDefinition"
	case KindTrainTracks:
		return "TrainTracksItemDefinition"
	default:
		return "ItemDefinition"
	}
}

// Item is a craftable or ownable game entity
type Item struct {
	ID          AssetID    `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Kind        ItemKind   `json:"kind" yaml:"kind"`
	DisplayName string     `json:"display_name" yaml:"display_name"`
	Description string     `json:"description" yaml:"description"`
	MaxStack    int        `json:"max_stack" yaml:"max_stack"`
	HasPrefab   bool       `json:"has_prefab" yaml:"has_prefab"`
	Icon        string     `json:"icon,omitempty" yaml:"icon,omitempty"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	Components  Components `json:"components" yaml:"components"`
	Ammo        *AmmoStats `json:"ammo,omitempty" yaml:"ammo,omitempty"`
	Properties  []Property `json:"properties,omitempty" yaml:"properties,omitempty"`

	// ammunition is filled in by Link from the reloader ammunition ids
	ammunition []*Item
	loadedAmmo []*Item
}

// Documented reports whether the item carries localized text worth a page.
// Melee weapon ammo is the usual case without one.
func (i *Item) Documented() bool {
	return strings.TrimSpace(i.DisplayName) != ""
}

// Ammunition returns the ammo definitions the item's ammo reloader accepts
func (i *Item) Ammunition() []*Item {
	return i.ammunition
}

// LoadedAmmo returns the built-in ammo of a no-ammo (melee) reloader
func (i *Item) LoadedAmmo() []*Item {
	return i.loadedAmmo
}

// Components are the capability flags attached to an item's prefab. A nil block
// means the component is absent.
type Components struct {
	Producer              *Producer         `json:"producer,omitempty" yaml:"producer,omitempty"`
	GridModule            *GridModule       `json:"grid_module,omitempty" yaml:"grid_module,omitempty"`
	PaintGridModule       bool              `json:"paint_grid_module,omitempty" yaml:"paint_grid_module,omitempty"`
	PackableModule        *PackableModule   `json:"packable_module,omitempty" yaml:"packable_module,omitempty"`
	PackableModuleHealth  *ModuleHealth     `json:"packable_module_health,omitempty" yaml:"packable_module_health,omitempty"`
	DrillshipObjectHealth *ObjectHealth     `json:"drillship_object_health,omitempty" yaml:"drillship_object_health,omitempty"`
	Subpart               bool              `json:"subpart,omitempty" yaml:"subpart,omitempty"`
	ToolFirstPerson       bool              `json:"tool_first_person,omitempty" yaml:"tool_first_person,omitempty"`
	Turret                bool              `json:"turret,omitempty" yaml:"turret,omitempty"`
	ReloaderAmmo          *Reloader         `json:"reloader_ammo,omitempty" yaml:"reloader_ammo,omitempty"`
	ReloaderBattery       *Reloader         `json:"reloader_battery,omitempty" yaml:"reloader_battery,omitempty"`
	ReloaderNoAmmo        *NoAmmoReloader   `json:"reloader_no_ammo,omitempty" yaml:"reloader_no_ammo,omitempty"`
	Mining                bool              `json:"mining,omitempty" yaml:"mining,omitempty"`
	StatModifiers         *StatModifiers    `json:"stat_modifiers,omitempty" yaml:"stat_modifiers,omitempty"`
	PowerPlant            *PowerPlant       `json:"power_plant,omitempty" yaml:"power_plant,omitempty"`
	EnergyConsumer        *EnergyConsumer   `json:"energy_consumer,omitempty" yaml:"energy_consumer,omitempty"`
	HeatRibs              *HeatRibs         `json:"heat_ribs,omitempty" yaml:"heat_ribs,omitempty"`
	ProductionModule      *ProductionModule `json:"production_module,omitempty" yaml:"production_module,omitempty"`
	Inventory             *Inventory        `json:"inventory,omitempty" yaml:"inventory,omitempty"`
}

// HasWeaponReloader reports an ammo or battery reloader
func (c *Components) HasWeaponReloader() bool {
	return c.ReloaderAmmo != nil || c.ReloaderBattery != nil
}

// IsWeapon reports a reloader or a mining component
func (c *Components) IsWeapon() bool {
	return c.HasWeaponReloader() || c.Mining
}

// IsModule reports a paint grid module or packable module component
func (c *Components) IsModule() bool {
	return c.PaintGridModule || c.PackableModule != nil
}

// Producer marks an item as a crafting station for the listed categories
type Producer struct {
	Categories []string `json:"categories" yaml:"categories"`
}

type GridModule struct {
	ModuleCount int `json:"module_count" yaml:"module_count"`
}

type PackableModule struct {
	CoreSlotCount int `json:"core_slot_count" yaml:"core_slot_count"`
}

type ModuleHealth struct {
	MaxHP float64 `json:"max_hp" yaml:"max_hp"`
	Armor float64 `json:"armor" yaml:"armor"`
}

type ObjectHealth struct {
	MaxHP float64 `json:"max_hp" yaml:"max_hp"`
}

// Reloader is shared by the ammo and battery reloaders
type Reloader struct {
	AmmoCapacity   int       `json:"ammo_capacity" yaml:"ammo_capacity"`
	ReloadCooldown float64   `json:"reload_cooldown" yaml:"reload_cooldown"`
	ReloadDuration float64   `json:"reload_duration" yaml:"reload_duration"`
	Ammunition     []AssetID `json:"ammunition,omitempty" yaml:"ammunition,omitempty"`
}

// NoAmmoReloader is used by melee weapons; the ammo is built in
type NoAmmoReloader struct {
	Ammunition []AssetID `json:"ammunition,omitempty" yaml:"ammunition,omitempty"`
}

// StatModifiers scale the stats of the ammo a weapon fires
type StatModifiers struct {
	DamageMultiplier                   float64 `json:"damage" yaml:"damage"`
	SpreadMultiplier                   float64 `json:"spread" yaml:"spread"`
	RecoilVerticalMultiplier           float64 `json:"recoil_vertical" yaml:"recoil_vertical"`
	RecoilHorizontalMultiplier         float64 `json:"recoil_horizontal" yaml:"recoil_horizontal"`
	RecoilFirstShotMultiplier          float64 `json:"recoil_first_shot" yaml:"recoil_first_shot"`
	RecoilMinimumBurstLengthMultiplier float64 `json:"recoil_minimum_burst_length" yaml:"recoil_minimum_burst_length"`
	ProjectileCountMultiplier          float64 `json:"projectile_count" yaml:"projectile_count"`
	RateOfFireMultiplier               float64 `json:"rate_of_fire" yaml:"rate_of_fire"`
	EffectiveRangeMultiplier           float64 `json:"effective_range" yaml:"effective_range"`
	RangeMultiplier                    float64 `json:"range" yaml:"range"`
	MuzzleVelocityMultiplier           float64 `json:"muzzle_velocity" yaml:"muzzle_velocity"`
	GravityFactorMultiplier            float64 `json:"gravity_factor" yaml:"gravity_factor"`
	NoiseMultiplier                    float64 `json:"noise" yaml:"noise"`
	HipConeMultiplier                  float64 `json:"hip_cone" yaml:"hip_cone"`
	AimConeMultiplier                  float64 `json:"aim_cone" yaml:"aim_cone"`
}

type PowerPlant struct {
	EnergyPerSecond float64 `json:"energy_per_second" yaml:"energy_per_second"`
	FuelEfficiency  float64 `json:"fuel_efficiency" yaml:"fuel_efficiency"`
}

type EnergyConsumer struct {
	EnergyPerSecond float64 `json:"energy_per_second" yaml:"energy_per_second"`
}

type HeatRibs struct {
	EnergyOutput float64 `json:"energy_output" yaml:"energy_output"`
}

type ProductionModule struct {
	FactoryType string  `json:"factory_type" yaml:"factory_type"`
	Points      float64 `json:"points" yaml:"points"`
}

type Inventory struct {
	Capacity int `json:"capacity" yaml:"capacity"`
}

// AmmoStats are the ballistic stats of an ammo definition
type AmmoStats struct {
	Damage            float64  `json:"damage" yaml:"damage"`
	DamageAtRangeMult float64  `json:"damage_at_range_mult" yaml:"damage_at_range_mult"`
	DamageType        string   `json:"damage_type" yaml:"damage_type"`
	EffectiveRange    float64  `json:"effective_range" yaml:"effective_range"`
	GravityFactor     float64  `json:"gravity_factor" yaml:"gravity_factor"`
	MuzzleVelocity    float64  `json:"muzzle_velocity" yaml:"muzzle_velocity"`
	Noise             float64  `json:"noise" yaml:"noise"`
	ProjectileCount   float64  `json:"projectile_count" yaml:"projectile_count"`
	Range             float64  `json:"range" yaml:"range"`
	RateOfFire        float64  `json:"rate_of_fire" yaml:"rate_of_fire"`
	Spread            float64  `json:"spread" yaml:"spread"`
	AimAccuracy       Accuracy `json:"aim_accuracy" yaml:"aim_accuracy"`
	HipAccuracy       Accuracy `json:"hip_accuracy" yaml:"hip_accuracy"`
	Recoil            Recoil   `json:"recoil" yaml:"recoil"`
}

type Accuracy struct {
	Bloom            float64 `json:"bloom" yaml:"bloom"`
	Cone             float64 `json:"cone" yaml:"cone"`
	ConeMoving       float64 `json:"cone_moving" yaml:"cone_moving"`
	ConeCrouch       float64 `json:"cone_crouch" yaml:"cone_crouch"`
	ConeCrouchMoving float64 `json:"cone_crouch_moving" yaml:"cone_crouch_moving"`
	MaxConeAngle     float64 `json:"max_cone_angle" yaml:"max_cone_angle"`
}

type Recoil struct {
	Vertical            float64 `json:"vertical" yaml:"vertical"`
	HorizontalMin       float64 `json:"horizontal_min" yaml:"horizontal_min"`
	HorizontalMax       float64 `json:"horizontal_max" yaml:"horizontal_max"`
	FirstShotMultiplier float64 `json:"first_shot_multiplier" yaml:"first_shot_multiplier"`
	MinimumBurstLength  float64 `json:"minimum_burst_length" yaml:"minimum_burst_length"`
}

// Property is one entry of an item's property set. Value is kept raw because the
// host serializes whatever the stat evaluates to; see stats.ParseProperty.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

// Ingredient is one input of a recipe
type Ingredient struct {
	Item   *Item
	Amount int
}

// Recipe transforms input items into one output item
type Recipe struct {
	ID               AssetID
	Name             string
	Output           *Item
	OutputAmount     int
	Inputs           []Ingredient
	RequiredUpgrades []*Item
	Categories       []string
	ProductionTime   float64
}

// UnlockGroup grants every recipe in the group once any of its items is found
type UnlockGroup struct {
	Name    string
	Recipes []*Recipe
	Items   []*Item
}

// Category is a named item category
type Category struct {
	ID   AssetID `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
}

// Module is a drillship module definition
type Module struct {
	ID   AssetID `json:"id" yaml:"id"`
	Name string  `json:"name" yaml:"name"`
}

// Quest is one quest in quest-manager order
type Quest struct {
	Name     string `json:"name" yaml:"name"`
	Priority int    `json:"priority" yaml:"priority"`
	Type     string `json:"type" yaml:"type"`
	Subtype  string `json:"subtype,omitempty" yaml:"subtype,omitempty"`
}

// Vec is a world position
type Vec struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// MapMarker is a marker placed on the island map
type MapMarker struct {
	Name     string `json:"name" yaml:"name"`
	Position Vec    `json:"position" yaml:"position"`
	Tooltip  string `json:"tooltip" yaml:"tooltip"`
	Level    int    `json:"level" yaml:"level"`
	Surface  bool   `json:"surface" yaml:"surface"`
	Icon     string `json:"icon" yaml:"icon"`
	IconPath string `json:"icon_path,omitempty" yaml:"icon_path,omitempty"`
}

// LandingSite is a drillship landing site; positions are 2D travel coordinates
type LandingSite struct {
	Name  string  `json:"name" yaml:"name"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
	Level int     `json:"level" yaml:"level"`
}

// PhonographSong is a collectible song cylinder placed in the world
type PhonographSong struct {
	Item     AssetID `json:"item" yaml:"item"`
	Position Vec     `json:"position" yaml:"position"`
	Layer    int     `json:"layer" yaml:"layer"`
}
