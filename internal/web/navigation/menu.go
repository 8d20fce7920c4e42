package navigation

// Key identifies one entry in the admin navigation shell.
// The catalog of keys is fixed; menu allow-lists stored per user must be a
// subset of it.
type Key string

// The admin navigation catalog.
const (
	KeyDashboard     Key = "dashboard"
	KeyUsers         Key = "users"
	KeyRoles         Key = "roles"
	KeyPosts         Key = "posts"
	KeyJobs          Key = "jobs"
	KeyNotifications Key = "notifications"
	KeyPartners      Key = "partners"
	KeySettings      Key = "settings"
)

// Icon identifies the glyph rendered next to a navigation entry.
// Icons form a closed enumeration resolved through a static lookup table;
// unknown keys resolve to IconNone.
type Icon int

// The icon enumeration.
const (
	IconNone Icon = iota
	IconGauge
	IconUsers
	IconShield
	IconNewspaper
	IconBriefcase
	IconBell
	IconHandshake
	IconWrench
)

// String returns the stable identifier of the icon.
func (i Icon) String() string {
	if int(i) < 0 || int(i) >= len(iconNames) {
		return iconNames[IconNone]
	}

	return iconNames[i]
}

var iconNames = []string{
	"none",
	"gauge",
	"users",
	"shield",
	"newspaper",
	"briefcase",
	"bell",
	"handshake",
	"wrench",
}

// Item is one resolved navigation entry for the admin shell.
type Item struct {
	Key   Key    `json:"key"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon"`
}

// catalog defines the full admin navigation in display order.
var catalog = []Item{
	{Key: KeyDashboard, Title: "Dashboard", URL: "/admin/dashboard", Icon: IconGauge.String()},
	{Key: KeyUsers, Title: "Users", URL: "/admin/user", Icon: IconUsers.String()},
	{Key: KeyRoles, Title: "Roles", URL: "/admin/role", Icon: IconShield.String()},
	{Key: KeyPosts, Title: "Posts", URL: "/admin/post", Icon: IconNewspaper.String()},
	{Key: KeyJobs, Title: "Job Offers", URL: "/admin/job", Icon: IconBriefcase.String()},
	{Key: KeyNotifications, Title: "Notifications", URL: "/admin/notification", Icon: IconBell.String()},
	{Key: KeyPartners, Title: "Partners", URL: "/admin/partner", Icon: IconHandshake.String()},
	{Key: KeySettings, Title: "Settings", URL: "/admin/setting", Icon: IconWrench.String()},
}

// Keys returns all catalog keys in display order.
func Keys() []string {
	out := make([]string, 0, len(catalog))
	for _, item := range catalog {
		out = append(out, string(item.Key))
	}

	return out
}

// IsValidKey reports whether key belongs to the catalog.
func IsValidKey(key string) bool {
	for _, item := range catalog {
		if string(item.Key) == key {
			return true
		}
	}

	return false
}

// Items resolves the given menu keys to navigation entries, preserving the
// catalog's display order and dropping unknown keys.
func Items(keys []string) []Item {
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}

	out := make([]Item, 0, len(keys))

	for _, item := range catalog {
		if allowed[string(item.Key)] {
			out = append(out, item)
		}
	}

	return out
}

// AllItems returns the full catalog, as shown to holders of an admin role.
func AllItems() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)

	return out
}
