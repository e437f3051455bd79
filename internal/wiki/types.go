// Package wiki renders the snapshot into the reference wiki (DokuWiki), the fandom
// wiki (MediaWiki), map location pages and the flat reference tables.
package wiki

import (
	"context"
	"errors"
	"fmt"

	"github.com/volcanoids-wiki/wikiwriter/internal/crafting"
	"github.com/volcanoids-wiki/wikiwriter/internal/snapshot"
)

// Namespaces used in wiki paths and output directories
const (
	NamespaceItems   = "items"
	NamespaceRecipes = "recipes"
	NamespaceMaps    = "maps"

	// NamespaceTables labels the flat reference tables; it has no wiki path
	NamespaceTables = "tables"
)

var (
	// ErrUnknownNamespace is returned when an item kind has no wiki namespace
	ErrUnknownNamespace = errors.New("unknown wiki namespace")

	// ErrIconDecode is returned when an icon file cannot be decoded as an image
	ErrIconDecode = errors.New("icon decode failed")

	// ErrMissingText marks an item without localized text; such items get no page
	ErrMissingText = errors.New("missing localized text")
)

// Config holds configuration shared by the generators
type Config struct {
	// ReferenceDir is the root of the DokuWiki output
	ReferenceDir string

	// FandomDir is the root of the MediaWiki output
	FandomDir string

	// TablesDir receives the reference tables and map marker info
	TablesDir string

	// GameVersion is printed in page headers and footers
	GameVersion string

	// TableFormat selects Markdown or CSV tables
	TableFormat Format

	// AssetDir resolves relative icon paths from the snapshot
	AssetDir string
}

// Format represents a reference table output format
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// Valid reports whether f is a known table format
func (f Format) Valid() bool {
	return f == FormatMarkdown || f == FormatCSV
}

// Observer is told about every page a generator writes. Warnings are recoverable
// problems on a page that was still written.
type Observer interface {
	PageWritten(namespace, name string)
	PageFailed(namespace, name string, err error)
	Warn(namespace, name string, err error)
}

// NopObserver discards all notifications
type NopObserver struct{}

func (NopObserver) PageWritten(string, string)       {}
func (NopObserver) PageFailed(string, string, error) {}
func (NopObserver) Warn(string, string, error)       {}

// Indexes are built once per run and shared by every generator
type Indexes struct {
	Crafters *crafting.CrafterIndex
	Unlocks  *crafting.UnlockIndex
}

// BuildIndexes builds the crafter and unlock indexes of snap
func BuildIndexes(snap *snapshot.Snapshot) *Indexes {
	return &Indexes{
		Crafters: crafting.BuildCrafterIndex(snap.Items()),
		Unlocks:  crafting.BuildUnlockIndex(snap.UnlockGroups()),
	}
}

// Page is one entry of the pages.json sidecar
type Page struct {
	GUID             string            `json:"guid,omitempty"`
	Name             string            `json:"name,omitempty"`
	Type             string            `json:"type,omitempty"`
	Path             string            `json:"path,omitempty"`
	ImagePath        string            `json:"imagePath,omitempty"`
	Description      string            `json:"description,omitempty"`
	RequiredUpgrades []string          `json:"requiredUpgrades,omitempty"`
	RequiredItems    []string          `json:"requiredItems,omitempty"`
	CraftedIn        []string          `json:"craftedIn,omitempty"`
	Stats            map[string]string `json:"stats,omitempty"`
}

// Header is printed at the top of the reference tables
func (c *Config) Header() string {
	return fmt.Sprintf("For Volcanoids v%s\n---\n\n", c.GameVersion)
}

// Footer is printed at the bottom of every wiki page
func (c *Config) Footer() string {
	return fmt.Sprintf("For Volcanoids v%s", c.GameVersion)
}

// Generator writes one part of the output tree
type Generator interface {
	Generate(ctx context.Context) error
}
