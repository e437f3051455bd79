package stats

import (
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

// Modified is an ammo definition as fired from a specific weapon
type Modified struct {
	Damage            float64
	DamageAtRangeMult float64
	DamageType        string
	EffectiveRange    float64
	GravityFactor     float64
	MuzzleVelocity    float64
	Noise             float64
	ProjectileCount   float64
	Range             float64
	RateOfFire        float64
	Spread            float64
	AimAccuracy       float64
	HipAccuracy       float64
	Recoil            float64
	DamagePerSecond   float64
}

// Modify scales ammo stats by a weapon's modifiers. A nil mods leaves them as is.
func Modify(a snapshot.AmmoStats, mods *snapshot.StatModifiers) Modified {
	m := identityModifiers
	if mods != nil {
		m = *mods
	}

	out := Modified{
		Damage:            a.Damage * m.DamageMultiplier,
		DamageAtRangeMult: a.DamageAtRangeMult,
		DamageType:        a.DamageType,
		EffectiveRange:    a.EffectiveRange * m.EffectiveRangeMultiplier,
		GravityFactor:     a.GravityFactor * m.GravityFactorMultiplier,
		MuzzleVelocity:    a.MuzzleVelocity * m.MuzzleVelocityMultiplier,
		Noise:             a.Noise * m.NoiseMultiplier,
		ProjectileCount:   a.ProjectileCount * m.ProjectileCountMultiplier,
		Range:             a.Range * m.RangeMultiplier,
		RateOfFire:        a.RateOfFire * m.RateOfFireMultiplier,
		Spread:            a.Spread * m.SpreadMultiplier,
		AimAccuracy:       a.AimAccuracy.Cone * m.AimConeMultiplier,
		HipAccuracy:       a.HipAccuracy.Cone * m.HipConeMultiplier,
	}

	vertical := a.Recoil.Vertical * m.RecoilVerticalMultiplier
	horizontal := (a.Recoil.HorizontalMin*m.RecoilHorizontalMultiplier + a.Recoil.HorizontalMax*m.RecoilHorizontalMultiplier) / 2
	out.Recoil = (vertical + horizontal) / 2

	out.DamagePerSecond = DamagePerSecond(out.Damage, out.ProjectileCount, out.RateOfFire)
	return out
}

// DamagePerSecond is damage per projectile times projectiles per shot times shots
// per second. A projectile count of zero counts as one.
func DamagePerSecond(damage, projectiles, rateOfFire float64) float64 {
	if projectiles == 0 {
		projectiles = 1
	}
	return damage * projectiles * rateOfFire
}

// Rows returns the ammo table rows in display order
func (m Modified) Rows() []Stat {
	return []Stat{
		{Name: "Damage", Value: Format(m.Damage)},
		{Name: "Damage at Range Multiplier", Value: Format(m.DamageAtRangeMult)},
		{Name: "Damage Type", Value: m.DamageType},
		{Name: "Effective Range", Value: Format(m.EffectiveRange)},
		{Name: "Gravity Factor", Value: Format(m.GravityFactor)},
		{Name: "Muzzle Velocity", Value: Format(m.MuzzleVelocity)},
		{Name: "Noise", Value: Format(m.Noise)},
		{Name: "Projectile Count", Value: Format(m.ProjectileCount)},
		{Name: "Range", Value: Format(m.Range)},
		{Name: "Rate of Fire", Value: Format(m.RateOfFire)},
		{Name: "Spread", Value: Format(m.Spread)},
		{Name: "Aim Accuracy", Value: Format(m.AimAccuracy)},
		{Name: "Hip Accuracy", Value: Format(m.HipAccuracy)},
		{Name: "Recoil", Value: Format(m.Recoil)},
		{Name: "Damage per Second", Value: Format(m.DamagePerSecond)},
	}
}

var identityModifiers = snapshot.StatModifiers{
	DamageMultiplier:                   1,
	SpreadMultiplier:                   1,
	RecoilVerticalMultiplier:           1,
	RecoilHorizontalMultiplier:         1,
	RecoilFirstShotMultiplier:          1,
	RecoilMinimumBurstLengthMultiplier: 1,
	ProjectileCountMultiplier:          1,
	RateOfFireMultiplier:               1,
	EffectiveRangeMultiplier:           1,
	RangeMultiplier:                    1,
	MuzzleVelocityMultiplier:           1,
	GravityFactorMultiplier:            1,
	NoiseMultiplier:                    1,
	HipConeMultiplier:                  1,
	AimConeMultiplier:                  1,
}
