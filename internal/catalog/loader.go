package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/ssoriche/obsidian-slack-emoji/internal/emoji"
)

// The bundled dataset is the emojibase compact layout built from Unicode
// emoji-test.txt, with GitHub (gemoji) shortcodes keyed by hexcode.
//
//go:embed data/compact.json data/shortcodes.json
var bundled embed.FS

// DatasetVersion is the Unicode emoji version of the bundled dataset.
const DatasetVersion = "15.1"

// Default dataset locations inside the catalog filesystem.
const (
	DefaultRecordsPath    = "data/compact.json"
	DefaultShortcodesPath = "data/shortcodes.json"
)

// OtherCategory is assigned to records whose group is not recognized.
const OtherCategory = "other"

var groupCategories = map[int]string{
	0: "smileys-emotion",
	1: "people-body",
	2: "component",
	3: "animals-nature",
	4: "food-drink",
	5: "travel-places",
	6: "activities",
	7: "objects",
	8: "symbols",
	9: "flags",
}

// CategoryForGroup maps a dataset group number to its category name.
func CategoryForGroup(group int) string {
	if name, ok := groupCategories[group]; ok {
		return name
	}
	return OtherCategory
}

// record is one entry of the compact dataset.
type record struct {
	Label   string   `json:"label"`
	Hexcode string   `json:"hexcode"`
	Unicode string   `json:"unicode"`
	Group   *int     `json:"group"`
	Order   int      `json:"order"`
	Tags    []string `json:"tags"`
}

// shortcodeList accepts either a single string or a list of strings.
type shortcodeList []string

func (l *shortcodeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = shortcodeList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("shortcodes: %w", err)
	}
	*l = many
	return nil
}

// Loader loads and caches the standard entities.
//
// Thread-safety: Load and Invalidate are safe for concurrent use.
type Loader struct {
	fsys           fs.FS
	recordsPath    string
	shortcodesPath string

	mu    sync.Mutex
	cache []emoji.StandardEntity
}

// Option configures a Loader.
type Option func(*Loader)

// WithPaths overrides the dataset file locations inside the filesystem.
func WithPaths(records, shortcodes string) Option {
	return func(l *Loader) {
		l.recordsPath = records
		l.shortcodesPath = shortcodes
	}
}

// New returns a Loader over the embedded dataset.
func New() *Loader {
	return NewFromFS(bundled)
}

// NewFromFS returns a Loader reading the dataset from fsys.
func NewFromFS(fsys fs.FS, opts ...Option) *Loader {
	l := &Loader{
		fsys:           fsys,
		recordsPath:    DefaultRecordsPath,
		shortcodesPath: DefaultShortcodesPath,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the standard entities, reading the dataset on first use.
// Repeated calls return the same slice; callers must not modify it.
//
// Returns a DATA_UNAVAILABLE error if the dataset cannot be read or decoded.
// The cache is left empty on failure.
func (l *Loader) Load(ctx context.Context) ([]emoji.StandardEntity, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cache != nil {
		return l.cache, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []record
	if err := readJSON(l.fsys, l.recordsPath, &records); err != nil {
		slog.Error("failed to load emoji data", "path", l.recordsPath, "error", err)
		return nil, emoji.NewDataUnavailableError(err)
	}

	var shortcodes map[string]shortcodeList
	if err := readJSON(l.fsys, l.shortcodesPath, &shortcodes); err != nil {
		slog.Error("failed to load emoji shortcodes", "path", l.shortcodesPath, "error", err)
		return nil, emoji.NewDataUnavailableError(err)
	}

	entities := make([]emoji.StandardEntity, 0, len(records))
	aliases := 0
	for _, rec := range records {
		e := transform(rec, shortcodes[rec.Hexcode])
		aliases += len(e.Aliases)
		entities = append(entities, e)
	}

	l.cache = entities
	slog.Info("loaded standard emoji",
		"count", len(entities),
		"aliases", aliases,
		"records", l.recordsPath,
	)
	return l.cache, nil
}

// Invalidate clears the memoized result; the next Load re-reads the dataset.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = nil
}

func transform(rec record, codes shortcodeList) emoji.StandardEntity {
	glyph := norm.NFC.String(rec.Unicode)

	label := rec.Label
	if label == "" {
		label = glyph
	}

	shortcode := rec.Hexcode
	aliases := []string{}
	if len(codes) > 0 {
		shortcode = codes[0]
		aliases = append(aliases, codes[1:]...)
	}

	category := OtherCategory
	if rec.Group != nil {
		category = CategoryForGroup(*rec.Group)
	}

	return emoji.StandardEntity{
		Shortcode: shortcode,
		Aliases:   aliases,
		Category:  category,
		Glyph:     glyph,
		Label:     label,
		Codepoint: rec.Hexcode,
	}
}

func readJSON(fsys fs.FS, path string, v any) error {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
