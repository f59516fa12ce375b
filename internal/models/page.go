package models

import "regexp"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsSlug reports whether s is a lowercase hyphenated slug
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Page is a content entity carrying both the timestamp and SEO capabilities.
type Page struct {
	ID      string `json:"id"`
	Slug    string `json:"slug" validate:"required,max=128,slug"`
	Title   string `json:"title" validate:"required,max=255"`
	Heading string `json:"heading" validate:"max=255"`
	Summary string `json:"summary"`
	Body    string `json:"body"`
	Tags    string `json:"tags"`

	Timestamps
	SEO
}

// SEOFallbacks offers the page's content fields to the metadata fallback chains
func (p *Page) SEOFallbacks() SEOFallbacks {
	return SEOFallbacks{
		Title:   p.Title,
		Heading: p.Heading,
		Body:    p.Body,
		Summary: p.Summary,
		Tags:    p.Tags,
	}
}

// AbsoluteURL is the public path of the page
func (p *Page) AbsoluteURL() string {
	return "/pages/" + p.Slug + "/"
}
