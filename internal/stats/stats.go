// Package stats turns an item's components into the ordered stat rows shown on
// reference pages and in the pages.json sidecar.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

// Stat is one row of a stat table. Untracked rows are rendered but left out of
// the JSON sidecar.
type Stat struct {
	Name    string
	Value   string
	Tracked bool
}

// Block is everything the stats section of an item page shows
type Block struct {
	Stats     []Stat
	Modifiers []Stat
	AmmoTypes []*snapshot.Item

	// Ammo is set for ammo definitions; its accuracy and recoil get detail tables
	Ammo *snapshot.AmmoStats
}

// Tracked returns the tracked stats and modifiers keyed by name. Later rows
// overwrite earlier ones with the same name.
func (b *Block) Tracked() map[string]string {
	out := make(map[string]string)
	for _, rows := range [][]Stat{b.Stats, b.Modifiers} {
		for _, s := range rows {
			if s.Tracked {
				out[s.Name] = s.Value
			}
		}
	}
	if len(b.AmmoTypes) > 0 {
		names := make([]string, 0, len(b.AmmoTypes))
		for _, ammo := range b.AmmoTypes {
			names = append(names, ammo.DisplayName)
		}
		out["Ammo Types"] = strings.Join(names, ", ")
	}
	return out
}

// PropertyError reports a property-set stat that could not be turned into text
type PropertyError struct {
	Item     string
	Property string
	Err      error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("failed to parse stat %q of %s: %v", e.Property, e.Item, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }

// Collect builds the stat block of item. A property-set failure drops the
// property-set rows only; the partial block is returned with a *PropertyError.
func Collect(item *snapshot.Item) (*Block, error) {
	b := &Block{}
	add := func(name string, value any) {
		b.Stats = append(b.Stats, Stat{Name: name, Value: Format(value), Tracked: true})
	}

	add("Max Stack", item.MaxStack)

	props, propErr := PropertyStats(item)
	b.Stats = append(b.Stats, props...)

	c := &item.Components
	if c.PowerPlant != nil {
		add("Energy Per Second", c.PowerPlant.EnergyPerSecond)
		add("Fuel Efficiency", c.PowerPlant.FuelEfficiency)
	}
	if c.EnergyConsumer != nil {
		add("Energy Per Second", -c.EnergyConsumer.EnergyPerSecond)
	}
	if c.HeatRibs != nil {
		add("Energy Per Second", c.HeatRibs.EnergyOutput)
	}
	if c.PackableModule != nil {
		add("Core Slot Cost", c.PackableModule.CoreSlotCount)
	}
	if c.PackableModuleHealth != nil {
		add("Module Health", c.PackableModuleHealth.MaxHP)
		add("Closed Armor", Percent(c.PackableModuleHealth.Armor))
	}
	if c.DrillshipObjectHealth != nil {
		add("Object Health", c.DrillshipObjectHealth.MaxHP)
	}
	if c.GridModule != nil {
		add("Size", c.GridModule.ModuleCount)
	}
	if c.ProductionModule != nil {
		add(c.ProductionModule.FactoryType+" Points", c.ProductionModule.Points)
	}
	if c.Inventory != nil {
		add("Inventory Size", c.Inventory.Capacity)
	}

	if item.Kind == snapshot.KindAmmo && item.Ammo != nil {
		b.Stats = append(b.Stats, AmmoRows(*item.Ammo)...)
		b.Ammo = item.Ammo
	}

	if r := c.ReloaderAmmo; r != nil {
		add("Ammo Capacity", r.AmmoCapacity)
		add("Reload Cooldown", r.ReloadCooldown)
		add("Reload Duration", r.ReloadDuration)
		b.AmmoTypes = item.Ammunition()
	}
	if r := c.ReloaderBattery; r != nil {
		add("Ammo (Battery) Capacity", r.AmmoCapacity)
		add("Reload Cooldown", r.ReloadCooldown)
		add("Reload Duration", r.ReloadDuration)
	}
	if c.ReloaderNoAmmo != nil {
		if loaded := item.LoadedAmmo(); len(loaded) > 0 && loaded[0].Ammo != nil {
			b.Stats = append(b.Stats, AmmoRows(*loaded[0].Ammo)...)
		}
	}

	if m := c.StatModifiers; m != nil {
		b.Modifiers = ModifierRows(m)
	}

	if propErr != nil {
		return b, propErr
	}
	return b, nil
}

// PropertyStats converts the item's property set. Zero energy is skipped. Any
// unparseable value abandons the whole property set.
func PropertyStats(item *snapshot.Item) ([]Stat, error) {
	rows := make([]Stat, 0, len(item.Properties))
	for _, p := range item.Properties {
		value, err := ParseProperty(p.Value)
		if err != nil {
			return nil, &PropertyError{Item: item.Name, Property: p.Name, Err: err}
		}
		if p.Name == "Energy" {
			if v, err := strconv.ParseFloat(value, 64); err == nil && v == 0 {
				continue
			}
		}
		rows = append(rows, Stat{Name: p.Name, Value: value, Tracked: true})
	}
	return rows, nil
}

// ParseProperty renders a raw property value. Only scalars are accepted.
func ParseProperty(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", fmt.Errorf("missing value")
	case string:
		return v, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return Format(n), nil
		}
		f, err := v.Float64()
		if err != nil {
			return "", fmt.Errorf("invalid number %q: %w", v, err)
		}
		return Format(f), nil
	case float64, float32, int, int64, int32, uint64, bool:
		return Format(v), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}

// AmmoRows are the stat rows of an ammo definition
func AmmoRows(a snapshot.AmmoStats) []Stat {
	return []Stat{
		{Name: "Damage", Value: Format(a.Damage), Tracked: true},
		{Name: "Damage at Range Multiplier", Value: Format(a.DamageAtRangeMult), Tracked: true},
		{Name: "Damage Type", Value: a.DamageType},
		{Name: "Effective Range", Value: Format(a.EffectiveRange), Tracked: true},
		{Name: "Gravity Factor", Value: Format(a.GravityFactor), Tracked: true},
		{Name: "Muzzle Velocity", Value: Format(a.MuzzleVelocity), Tracked: true},
		{Name: "Noise", Value: Format(a.Noise)},
		{Name: "Projectile Count", Value: Format(a.ProjectileCount), Tracked: true},
		{Name: "Range", Value: Format(a.Range), Tracked: true},
		{Name: "Rate of Fire", Value: Format(a.RateOfFire), Tracked: true},
		{Name: "Spread", Value: Format(a.Spread), Tracked: true},
	}
}

// ModifierRows are the weapon stat modification rows
func ModifierRows(m *snapshot.StatModifiers) []Stat {
	rows := []struct {
		name  string
		value float64
	}{
		{"Damage Multiplier", m.DamageMultiplier},
		{"Spread Multiplier", m.SpreadMultiplier},
		{"Recoil Vertical Multiplier", m.RecoilVerticalMultiplier},
		{"Recoil Horizontal Multiplier", m.RecoilHorizontalMultiplier},
		{"Recoil First-Shot Multiplier", m.RecoilFirstShotMultiplier},
		{"Recoil Minimum Burst Length Multiplier", m.RecoilMinimumBurstLengthMultiplier},
		{"Projectile Count Multiplier", m.ProjectileCountMultiplier},
		{"Rate of Fire Multiplier", m.RateOfFireMultiplier},
		{"Effective Range Multiplier", m.EffectiveRangeMultiplier},
		{"Range Multiplier", m.RangeMultiplier},
		{"Muzzle Velocity Multiplier", m.MuzzleVelocityMultiplier},
		{"Gravity Factor Multiplier", m.GravityFactorMultiplier},
		{"Noise Multiplier", m.NoiseMultiplier},
		{"Hip-Cone Multiplier", m.HipConeMultiplier},
		{"Aim-Cone Multiplier", m.AimConeMultiplier},
	}
	out := make([]Stat, 0, len(rows))
	for _, r := range rows {
		out = append(out, Stat{Name: r.name, Value: Format(r.value), Tracked: true})
	}
	return out
}

// Format renders numbers the way the game prints them: no trailing zeros
func Format(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Percent renders a 0..1 fraction as a percentage
func Percent(fraction float64) string {
	return Format(math.Round(fraction*100*1e4)/1e4) + "%"
}
