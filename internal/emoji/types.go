package emoji

import "time"

// Kind tags the variant of an Entity.
type Kind string

const (
	// KindStandard marks entities sourced from the bundled catalog.
	KindStandard Kind = "unicode"
	// KindCustom marks user-supplied image entities.
	KindCustom Kind = "custom"
)

// Entity is the tagged union of StandardEntity and CustomEntity.
type Entity interface {
	Kind() Kind
	// Code returns the canonical shortcode.
	Code() string
	// AliasList returns the alternate shortcodes in declaration order.
	AliasList() []string
	// CategoryName returns the classification, or "" when unset.
	CategoryName() string
}

// StandardEntity is an entry of the bundled catalog.
type StandardEntity struct {
	Shortcode string   `json:"shortcode"`
	Aliases   []string `json:"aliases"`
	Category  string   `json:"category,omitempty"`
	Glyph     string   `json:"glyph"`     // literal character sequence, e.g. "👍"
	Label     string   `json:"label"`     // human readable name
	Codepoint string   `json:"codepoint"` // dataset hexcode, e.g. "1F44D"
}

func (e StandardEntity) Kind() Kind { return KindStandard }
func (e StandardEntity) Code() string { return e.Shortcode }
func (e StandardEntity) AliasList() []string { return e.Aliases }
func (e StandardEntity) CategoryName() string { return e.Category }

// CustomEntity is a user-supplied image registered from the watched folder.
type CustomEntity struct {
	Shortcode  string    `json:"shortcode"`
	Aliases    []string  `json:"aliases"`
	Category   string    `json:"category,omitempty"`
	SourceName string    `json:"source_name"` // file name, e.g. "logo.png"
	SourcePath string    `json:"source_path"` // vault-relative path, e.g. ".obsidian/emoji/logo.png"
	Payload    string    `json:"payload"`     // data URL
	CreatedAt  time.Time `json:"created_at"`
}

func (e CustomEntity) Kind() Kind { return KindCustom }
func (e CustomEntity) Code() string { return e.Shortcode }
func (e CustomEntity) AliasList() []string { return e.Aliases }
func (e CustomEntity) CategoryName() string { return e.Category }

// Metadata returns the persisted subset of the entity.
func (e CustomEntity) Metadata() Metadata {
	return Metadata{
		Shortcode:  e.Shortcode,
		SourceName: e.SourceName,
		Aliases:    append([]string(nil), e.Aliases...),
		CreatedAt:  e.CreatedAt,
	}
}

// CustomPatch carries the fields merged by a partial update.
//
// A nil Aliases leaves the alias list unchanged; an empty non-nil slice
// clears it. Nil pointers leave the corresponding field unchanged.
type CustomPatch struct {
	Aliases  []string
	Category *string
	Payload  *string
}

// Apply returns a copy of e with the patch merged in.
func (p CustomPatch) Apply(e CustomEntity) CustomEntity {
	if p.Aliases != nil {
		e.Aliases = append([]string{}, p.Aliases...)
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Payload != nil {
		e.Payload = *p.Payload
	}
	return e
}

// Metadata is the custom entity information persisted outside the registry.
// The payload is excluded; it is always re-read from the source file.
type Metadata struct {
	Shortcode  string    `json:"shortcode"`
	SourceName string    `json:"filename"`
	Aliases    []string  `json:"aliases"`
	CreatedAt  time.Time `json:"added_date"`
}

// Display returns the token form of a shortcode, e.g. ":thumbsup:".
func Display(shortcode string) string {
	return ":" + shortcode + ":"
}
