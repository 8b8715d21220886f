// Package menu holds the static navigation tree and its role filter.
package menu

import "github.com/portiva/portiva/internal/identity"

// Item is a single navigation link.
type Item struct {
	Key          string          `json:"key"`
	DisplayName  string          `json:"displayName"`
	AllowedRoles []identity.Role `json:"-"`
}

// Section groups items under a titled heading.
type Section struct {
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Tree is an ordered sequence of sections. The tree is defined once at
// process start and never mutated; Filter always returns a fresh copy.
type Tree []Section

var allRoles = []identity.Role{identity.RoleSiswa, identity.RoleGuru, identity.RoleAdmin}

// Default returns the portal navigation tree.
func Default() Tree {
	return Tree{
		{
			Title: "Dashboard",
			Items: []Item{
				{Key: "dashboard", DisplayName: "Dashboard", AllowedRoles: allRoles},
			},
		},
		{
			Title: "Portfolio Management",
			Items: []Item{
				{Key: "biodata", DisplayName: "Biodata", AllowedRoles: allRoles},
				{Key: "projects", DisplayName: "Projects", AllowedRoles: allRoles},
				{Key: "skills", DisplayName: "Skills", AllowedRoles: allRoles},
				{Key: "certificates", DisplayName: "Certificates", AllowedRoles: allRoles},
				{Key: "experience", DisplayName: "Experience", AllowedRoles: allRoles},
				{Key: "education", DisplayName: "Education", AllowedRoles: allRoles},
				{Key: "organizations", DisplayName: "Organizations", AllowedRoles: allRoles},
			},
		},
		{
			Title: "System",
			Items: []Item{
				{Key: "change-password", DisplayName: "Change Password", AllowedRoles: allRoles},
				{Key: "users", DisplayName: "Users", AllowedRoles: []identity.Role{identity.RoleAdmin}},
			},
		},
	}
}

// Filter returns the subset of tree visible to role. The filter is stable:
// surviving sections and items keep their source order. Sections left empty
// after filtering are dropped. An unknown role sees nothing.
func Filter(tree Tree, role identity.Role) Tree {
	visible := make(Tree, 0, len(tree))
	for _, section := range tree {
		items := make([]Item, 0, len(section.Items))
		for _, item := range section.Items {
			if item.allows(role) {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		visible = append(visible, Section{Title: section.Title, Items: items})
	}
	return visible
}

func (i Item) allows(role identity.Role) bool {
	if !role.Known() {
		return false
	}
	for _, allowed := range i.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}
