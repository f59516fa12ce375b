// Package seo resolves search-engine and social-preview metadata for entities
// that embed models.SEO.
package seo

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/BradenHooton/sitebase/internal/models"
)

const (
	TitleMaxLength = 64

	DefaultMediaURL     = "/media/"
	DefaultOGImage      = "/static/images/default_og.jpg"
	DefaultTwitterImage = "/static/images/default_twitter.jpg"
	DefaultSiteURL      = "/"

	structuredDataContext   = "https://schema.org"
	structuredDataType      = "WebPage"
	structuredDataLanguages = "sk, cz, en"
)

// Host is an entity carrying SEO metadata
type Host interface {
	SEOMeta() *models.SEO
	SEOFallbacks() models.SEOFallbacks
}

// AbsoluteURLer is implemented by hosts that know their own public URL
type AbsoluteURLer interface {
	AbsoluteURL() string
}

// Lifecycle is implemented by hosts that expose publish and modify times
type Lifecycle interface {
	PublishedAt() time.Time
	ModifiedAt() time.Time
}

// Settings are the process-wide defaults used by image and canonical resolution.
// Empty fields fall back to the package defaults.
type Settings struct {
	MediaURL            string
	DefaultOGImage      string
	DefaultTwitterImage string
	SiteURL             string
}

func (s Settings) withDefaults() Settings {
	if s.MediaURL == "" {
		s.MediaURL = DefaultMediaURL
	}
	if s.DefaultOGImage == "" {
		s.DefaultOGImage = DefaultOGImage
	}
	if s.DefaultTwitterImage == "" {
		s.DefaultTwitterImage = DefaultTwitterImage
	}
	if s.SiteURL == "" {
		s.SiteURL = DefaultSiteURL
	}
	return s
}

// Resolver computes derived metadata values
type Resolver struct {
	settings Settings
}

// NewResolver creates a Resolver with the given settings
func NewResolver(settings Settings) *Resolver {
	return &Resolver{settings: settings.withDefaults()}
}

func titleCandidates(h Host) []string {
	m, f := h.SEOMeta(), h.SEOFallbacks()
	return []string{m.SEOTitle, f.Title, f.Name, f.Heading, f.Label, m.OGTitle}
}

func descriptionCandidates(h Host) []string {
	m, f := h.SEOMeta(), h.SEOFallbacks()
	return []string{m.SEODescription, f.Description, f.Content, f.Text, f.Body, f.Summary, f.Information, f.Info}
}

func keywordCandidates(h Host) []string {
	m, f := h.SEOMeta(), h.SEOFallbacks()
	return []string{m.SEOKeywords, f.Keywords, f.Tags}
}

func firstNonBlank(candidates []string) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return ""
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Title returns the best available title, capped at TitleMaxLength characters
func Title(h Host) string {
	return truncateRunes(firstNonBlank(titleCandidates(h)), TitleMaxLength)
}

// Description returns the best available description
func Description(h Host) string {
	return firstNonBlank(descriptionCandidates(h))
}

// Keywords returns the best available keywords
func Keywords(h Host) string {
	return firstNonBlank(keywordCandidates(h))
}

// Prepare back-fills empty metadata fields ahead of a save. Title and description
// are resolved once and mirrored into the Open Graph and Twitter fields, so every
// preview uses the same values as the primary fields. Fields already set are kept.
func Prepare(h Host) {
	title := Title(h)
	description := Description(h)
	m := h.SEOMeta()

	if m.SEOTitle == "" {
		m.SEOTitle = title
	}
	if m.SEODescription == "" {
		m.SEODescription = description
	}
	if m.SEOKeywords == "" {
		m.SEOKeywords = Keywords(h)
	}

	if m.OGTitle == "" {
		m.OGTitle = title
	}
	if m.OGDescription == "" {
		m.OGDescription = description
	}
	if m.TwitterTitle == "" {
		m.TwitterTitle = title
	}
	if m.TwitterDescription == "" {
		m.TwitterDescription = description
	}

	if m.MetaRobots == "" {
		m.MetaRobots = models.DefaultRobots
	}
}

// OGImage returns the Open Graph image URL or the configured default
func (r *Resolver) OGImage(h Host) string {
	if name := h.SEOMeta().OGImage; name != "" {
		return r.MediaURL(name)
	}
	return r.settings.DefaultOGImage
}

// TwitterImage returns the Twitter card image URL or the configured default
func (r *Resolver) TwitterImage(h Host) string {
	if name := h.SEOMeta().TwitterImage; name != "" {
		return r.MediaURL(name)
	}
	return r.settings.DefaultTwitterImage
}

// MediaURL resolves a stored object name against the media base URL
func (r *Resolver) MediaURL(name string) string {
	base, err := url.Parse(r.settings.MediaURL)
	if err != nil {
		return r.settings.MediaURL + name
	}
	ref, err := url.Parse(name)
	if err != nil {
		return r.settings.MediaURL + name
	}
	return base.ResolveReference(ref).String()
}

// CanonicalURL returns the explicit canonical URL, then the host's own URL, then the site URL
func (r *Resolver) CanonicalURL(h Host) string {
	if c := h.SEOMeta().CanonicalURL; c != "" {
		return c
	}
	if u, ok := h.(AbsoluteURLer); ok {
		return u.AbsoluteURL()
	}
	return r.settings.SiteURL
}

// structuredData keeps the JSON-LD key order stable; omitempty drops empty values
type structuredData struct {
	Context       string `json:"@context,omitempty"`
	Type          string `json:"@type,omitempty"`
	URL           string `json:"url,omitempty"`
	Name          string `json:"name,omitempty"`
	Description   string `json:"description,omitempty"`
	DatePublished string `json:"datePublished,omitempty"`
	DateModified  string `json:"dateModified,omitempty"`
	InLanguage    string `json:"inLanguage,omitempty"`
}

// StructuredData returns the JSON-LD WebPage record for the host
func (r *Resolver) StructuredData(h Host) (string, error) {
	data := structuredData{
		Context:     structuredDataContext,
		Type:        structuredDataType,
		URL:         r.CanonicalURL(h),
		Name:        Title(h),
		Description: Description(h),
		InLanguage:  structuredDataLanguages,
	}

	if lc, ok := h.(Lifecycle); ok {
		data.DatePublished = formatTime(lc.PublishedAt())
		data.DateModified = formatTime(lc.ModifiedAt())
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// Meta is the fully resolved metadata for rendering a page head
type Meta struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Keywords       string          `json:"keywords"`
	OpenGraph      PreviewMeta     `json:"og"`
	Twitter        PreviewMeta     `json:"twitter"`
	CanonicalURL   string          `json:"canonical_url"`
	Robots         string          `json:"robots"`
	StructuredData json.RawMessage `json:"structured_data"`
}

// PreviewMeta is the metadata a social network reads for link previews
type PreviewMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Resolve gathers every derived value for the host
func (r *Resolver) Resolve(h Host) (*Meta, error) {
	m := h.SEOMeta()

	sd, err := r.StructuredData(h)
	if err != nil {
		return nil, err
	}

	robots := m.MetaRobots
	if robots == "" {
		robots = models.DefaultRobots
	}

	return &Meta{
		Title:       Title(h),
		Description: Description(h),
		Keywords:    Keywords(h),
		OpenGraph: PreviewMeta{
			Title:       firstNonBlank([]string{m.OGTitle, Title(h)}),
			Description: firstNonBlank([]string{m.OGDescription, Description(h)}),
			Image:       r.OGImage(h),
		},
		Twitter: PreviewMeta{
			Title:       firstNonBlank([]string{m.TwitterTitle, Title(h)}),
			Description: firstNonBlank([]string{m.TwitterDescription, Description(h)}),
			Image:       r.TwitterImage(h),
		},
		CanonicalURL:   r.CanonicalURL(h),
		Robots:         string(robots),
		StructuredData: json.RawMessage(sd),
	}, nil
}
