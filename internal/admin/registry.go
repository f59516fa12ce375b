package admin

import "github.com/BradenHooton/sitebase/internal/models"

const (
	UserModel     = "users"
	PageModel     = "pages"
	AdminLogModel = "admin_log"
)

// UserAdmin exposes users to the back office
func UserAdmin() ModelAdmin {
	return ModelAdmin{
		Name:       UserModel,
		Table:      "users",
		PrimaryKey: "id",
		Fields: []Field{
			{Name: "id", Kind: KindUUID},
			{Name: "email"},
			{Name: "password", Column: "password_hash", WriteOnly: true},
			{Name: "first_name"},
			{Name: "last_name"},
			{Name: "full_name"},
			{Name: "is_active", Kind: KindBool},
			{Name: "is_staff", Kind: KindBool},
			{Name: "is_superuser", Kind: KindBool},
			{Name: "date_joined", Kind: KindTime},
			{Name: "last_login", Kind: KindTime},
		},
		ListDisplay:  []string{"email", "full_name", "is_active", "is_staff"},
		SearchFields: []string{"email", "last_name"},
		ListFilter:   []string{"is_active", "is_staff"},
		Fieldsets: []Fieldset{
			{Name: "", Fields: []string{"email", "password"}},
			{Name: "Personal info", Fields: []string{"first_name", "last_name"}},
			{Name: "Permissions", Fields: []string{"is_active", "is_staff"}},
		},
		Ordering: []string{"email"},
	}
}

func robotsChoices() []Choice {
	choices := make([]Choice, 0, len(models.RobotsDirectives))
	for _, d := range models.RobotsDirectives {
		choices = append(choices, Choice{Value: string(d), Label: d.Label()})
	}
	return choices
}

// PageAdmin exposes pages, including their metadata, to the back office
func PageAdmin() ModelAdmin {
	return ModelAdmin{
		Name:       PageModel,
		Table:      "pages",
		PrimaryKey: "id",
		Fields: []Field{
			{Name: "id", Kind: KindUUID},
			{Name: "slug"},
			{Name: "title"},
			{Name: "heading"},
			{Name: "summary"},
			{Name: "body"},
			{Name: "tags"},
			{Name: "seo_title"},
			{Name: "seo_description"},
			{Name: "seo_keywords"},
			{Name: "og_title"},
			{Name: "og_description"},
			{Name: "og_image"},
			{Name: "twitter_title"},
			{Name: "twitter_description"},
			{Name: "twitter_image"},
			{Name: "canonical_url"},
			{Name: "meta_robots"},
			{Name: "created_at", Kind: KindTime},
			{Name: "updated_at", Kind: KindTime},
			{Name: "deleted_at", Kind: KindTime},
		},
		ListDisplay:  []string{"title", "slug", "meta_robots", "updated_at", "deleted_at"},
		SearchFields: []string{"title", "slug"},
		ListFilter:   []string{"meta_robots"},
		Fieldsets: []Fieldset{
			{Name: "", Fields: []string{"title", "slug", "heading", "summary", "body", "tags"}},
			{
				Name:    "SEO",
				Fields:  []string{"seo_title", "seo_description", "seo_keywords", "canonical_url", "meta_robots"},
				Choices: map[string][]Choice{"meta_robots": robotsChoices()},
			},
			{Name: "Open Graph", Fields: []string{"og_title", "og_description", "og_image"}},
			{Name: "Twitter", Fields: []string{"twitter_title", "twitter_description", "twitter_image"}},
		},
		Ordering:   []string{"-updated_at"},
		SoftDelete: true,
	}
}

// AdminLogAdmin exposes the record of back-office changes, newest first
func AdminLogAdmin() ModelAdmin {
	return ModelAdmin{
		Name:       AdminLogModel,
		Table:      "admin_log",
		PrimaryKey: "id",
		Fields: []Field{
			{Name: "id", Kind: KindUUID},
			{Name: "action_time", Kind: KindTime},
			{Name: "actor_id", Kind: KindUUID},
			{Name: "action"},
			{Name: "model"},
			{Name: "object_id"},
			{Name: "ip_address"},
		},
		ListDisplay:  []string{"action_time", "actor_id", "action", "model", "object_id"},
		SearchFields: []string{"object_id"},
		ListFilter:   []string{"action", "model"},
		Fieldsets: []Fieldset{
			{Name: "", Fields: []string{"action_time", "actor_id", "action", "model", "object_id", "ip_address"}},
		},
		Ordering: []string{"-action_time"},
	}
}

// NewDefaultSite returns a site with every entity registered
func NewDefaultSite() *Site {
	site := NewSite()
	site.MustRegister(UserAdmin())
	site.MustRegister(PageAdmin())
	site.MustRegister(AdminLogAdmin())
	return site
}
