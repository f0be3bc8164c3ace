package domain

// Role роль пользователя, прошедшего аутентификацию во внешнем identity-сервисе
type Role string

const (
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleEmployee || r == RoleAdmin
}

// Actor identity of the caller, passed explicitly into every core operation
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin returns true for salon administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// IsStaff returns true for employees and admins
func (a Actor) IsStaff() bool {
	return a.Role == RoleEmployee || a.Role == RoleAdmin
}

// CanManageEmployee returns true if the actor may edit the employee's schedule or bookings
// Employee manages only himself, admin manages everyone
func (a Actor) CanManageEmployee(employeeID int64) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == RoleEmployee && a.UserID == employeeID
}
