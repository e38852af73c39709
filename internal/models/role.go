package models

import "fmt"

// Role is the closed set of profile roles.
type Role string

const (
	RoleAdministrator Role = "admin"
	RoleManager       Role = "manager"
	RoleDeveloper     Role = "developer"
	RoleTester        Role = "tester"
	RoleDesigner      Role = "designer"
	RoleIntern        Role = "intern"
	RoleConsultant    Role = "consultant"
)

// Roles lists every role in display order.
var Roles = []Role{
	RoleAdministrator,
	RoleManager,
	RoleDeveloper,
	RoleTester,
	RoleDesigner,
	RoleIntern,
	RoleConsultant,
}

var roleDisplayNames = map[Role]string{
	RoleAdministrator: "Administrator",
	RoleManager:       "Project Manager",
	RoleDeveloper:     "Developer",
	RoleTester:        "Tester",
	RoleDesigner:      "Designer",
	RoleIntern:        "Intern",
	RoleConsultant:    "Consultant",
}

var roleColors = map[Role]string{
	RoleAdministrator: "#dc3545",
	RoleManager:       "#0d6efd",
	RoleDeveloper:     "#198754",
	RoleTester:        "#fd7e14",
	RoleDesigner:      "#6f42c1",
	RoleIntern:        "#6c757d",
	RoleConsultant:    "#16c1ae",
}

// ParseRole converts a raw value into a Role.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleDisplayNames[r]
	return ok
}

func (r Role) DisplayName() string {
	if name, ok := roleDisplayNames[r]; ok {
		return name
	}
	return string(r)
}

func (r Role) Color() string {
	if color, ok := roleColors[r]; ok {
		return color
	}
	return "#6c757d"
}

// Capabilities is the set of named permissions derived from a role.
type Capabilities struct {
	ManageTasks  bool `json:"can_manage_tasks"`
	AssignTasks  bool `json:"can_assign_tasks"`
	ViewAllTasks bool `json:"can_view_all_tasks"`
}

// Capabilities returns the permissions held by r. Only administrators and
// managers are elevated.
func (r Role) Capabilities() Capabilities {
	elevated := r == RoleAdministrator || r == RoleManager
	return Capabilities{
		ManageTasks:  elevated,
		AssignTasks:  elevated,
		ViewAllTasks: elevated,
	}
}

func (r Role) CanManageTasks() bool  { return r.Capabilities().ManageTasks }
func (r Role) CanAssignTasks() bool  { return r.Capabilities().AssignTasks }
func (r Role) CanViewAllTasks() bool { return r.Capabilities().ViewAllTasks }
