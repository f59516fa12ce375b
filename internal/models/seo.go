package models

// RobotsDirective is the value of the meta robots tag
type RobotsDirective string

const (
	RobotsIndexFollow     RobotsDirective = "index, follow"
	RobotsNoIndexFollow   RobotsDirective = "noindex, follow"
	RobotsIndexNoFollow   RobotsDirective = "index, nofollow"
	RobotsNoIndexNoFollow RobotsDirective = "noindex, nofollow"

	DefaultRobots = RobotsIndexFollow
)

// RobotsDirectives lists every accepted directive, default first
var RobotsDirectives = []RobotsDirective{
	RobotsIndexFollow,
	RobotsNoIndexFollow,
	RobotsIndexNoFollow,
	RobotsNoIndexNoFollow,
}

// Valid reports whether d is one of the four fixed directives
func (d RobotsDirective) Valid() bool {
	for _, known := range RobotsDirectives {
		if d == known {
			return true
		}
	}
	return false
}

// Label returns the back-office display name
func (d RobotsDirective) Label() string {
	switch d {
	case RobotsIndexFollow:
		return "Index, Follow (Default)"
	case RobotsNoIndexFollow:
		return "No Index, Follow"
	case RobotsIndexNoFollow:
		return "Index, No Follow"
	case RobotsNoIndexNoFollow:
		return "No Index, No Follow"
	}
	return string(d)
}

// SEO holds search-engine and social-preview metadata. Embed it in an entity and
// implement SEOFallbacks to make the entity an SEO host.
type SEO struct {
	SEOTitle       string `json:"seo_title" validate:"max=255"`
	SEODescription string `json:"seo_description"`
	SEOKeywords    string `json:"seo_keywords"`

	// Open Graph
	OGTitle       string `json:"og_title" validate:"max=255"`
	OGDescription string `json:"og_description"`
	OGImage       string `json:"og_image"`

	TwitterTitle       string `json:"twitter_title" validate:"max=255"`
	TwitterDescription string `json:"twitter_description"`
	TwitterImage       string `json:"twitter_image"`

	CanonicalURL string          `json:"canonical_url" validate:"omitempty,url,max=200"`
	MetaRobots   RobotsDirective `json:"meta_robots" validate:"omitempty,robots"`
}

// SEOMeta exposes the embedded metadata to the seo package
func (s *SEO) SEOMeta() *SEO {
	return s
}

// SEOFallbacks is the set of optional attributes a host entity offers to the
// title, description and keyword fallback chains. Unused fields stay empty.
type SEOFallbacks struct {
	Title   string
	Name    string
	Heading string
	Label   string

	Description string
	Content     string
	Text        string
	Body        string
	Summary     string
	Information string
	Info        string

	Keywords string
	Tags     string
}
