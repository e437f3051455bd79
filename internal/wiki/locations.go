package wiki

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
	"github.com/volcanoids-wiki/wikiwriter/internal/stats"
)

const (
	landingSiteIcon = "LandingSite_Icon"
	phonographIcon  = "Phonograph_Icon"
)

// Location is a map marker or landing site as shown on the wiki
type Location struct {
	Name          string       `json:"name,omitempty"`
	Position      snapshot.Vec `json:"position"`
	Tooltip       string       `json:"tooltip"`
	Level         int          `json:"level"`
	Surface       bool         `json:"surface"`
	Icon          string       `json:"icon"`
	IsLandingSite bool         `json:"isLandingSite"`
	IsPhonograph  bool         `json:"isPhonographSong"`
	iconPath      string
}

// Locations lists the map markers followed by the landing sites. Landing sites
// are placed on the travel plane, so their height is zero.
func Locations(snap *snapshot.Snapshot) []Location {
	markers := snap.MapMarkers()
	sites := snap.LandingSites()
	out := make([]Location, 0, len(markers)+len(sites))

	for _, m := range markers {
		out = append(out, Location{
			Name:     m.Name,
			Position: m.Position,
			Tooltip:  m.Tooltip,
			Level:    m.Level,
			Surface:  m.Surface,
			Icon:     m.Icon,
			iconPath: m.IconPath,
		})
	}
	for _, s := range sites {
		out = append(out, Location{
			Name:          s.Name,
			Position:      snapshot.Vec{X: s.X, Y: 0, Z: s.Y},
			Tooltip:       s.Name,
			Level:         s.Level,
			Icon:          landingSiteIcon,
			IsLandingSite: true,
		})
	}
	return out
}

// LocationGenerator writes one fandom page per location under maps/
type LocationGenerator struct {
	config *Config
	snap   *snapshot.Snapshot
	obs    Observer
}

// NewLocationGenerator creates a new location page generator
func NewLocationGenerator(config *Config, snap *snapshot.Snapshot, obs Observer) *LocationGenerator {
	if obs == nil {
		obs = NopObserver{}
	}
	return &LocationGenerator{config: config, snap: snap, obs: obs}
}

// Generate writes the location pages and the marker icons
func (g *LocationGenerator) Generate(ctx context.Context) error {
	dir := filepath.Join(g.config.FandomDir, NamespaceMaps)
	iconDir := filepath.Join(dir, "Icons")
	sitesDir := filepath.Join(dir, "Landing Sites")
	otherDir := filepath.Join(dir, "Everything Else")
	if err := EraseAndCreateDir(dir); err != nil {
		return err
	}
	for _, d := range []string{iconDir, sitesDir, otherDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}

	locations := Locations(g.snap)
	writeMarkerIcons(g.config.AssetDir, locations, iconDir, g.obs)

	for _, loc := range locations {
		if err := ctx.Err(); err != nil {
			return err
		}
		target := otherDir
		if loc.IsLandingSite {
			target = sitesDir
		}
		if err := writeFile(filepath.Join(target, SafeName(loc.Name)+".txt"), LocationPage(loc)); err != nil {
			g.obs.PageFailed(NamespaceMaps, loc.Name, err)
			continue
		}
		g.obs.PageWritten(NamespaceMaps, loc.Name)
	}
	return nil
}

// LocationPage renders the infobox page of one location
func LocationPage(loc Location) string {
	var p page
	if loc.IsLandingSite {
		p.line("[[Category:Landing site]]")
	} else {
		p.line("[[Category:Location]]")
	}
	p.blank()

	tooltip := strings.ReplaceAll(strings.ReplaceAll(loc.Tooltip, "\n", " "), "  ", " ")

	p.line("{{Infobox location")
	p.line("%s", strings.TrimSpace("| name = "+loc.Name))
	p.line("%s", strings.TrimSpace("| tooltip = "+tooltip))
	p.line("%s", strings.TrimSpace("| icon = "+loc.Icon+".png"))
	p.line(`| coordinates = "x": %s<br>"y": %s<br>"z": %s`,
		stats.Format(loc.Position.X), stats.Format(loc.Position.Y), stats.Format(loc.Position.Z))
	p.line("| level = %d", loc.Level)
	p.line("| surface = %s", stats.Format(loc.Surface))
	p.line("| locationType = %s", stats.Format(loc.IsLandingSite))
	p.line("}}")
	return p.String()
}

// writeMarkerIcons writes each distinct marker icon once
func writeMarkerIcons(assetDir string, locations []Location, dir string, obs Observer) {
	seen := make(map[string]bool)
	for _, loc := range locations {
		if loc.iconPath == "" || seen[loc.Icon] {
			continue
		}
		seen[loc.Icon] = true
		if err := WriteIcon(assetDir, loc.iconPath, filepath.Join(dir, loc.Icon+".png")); err != nil {
			obs.Warn(NamespaceMaps, loc.Icon, err)
		}
	}
}
