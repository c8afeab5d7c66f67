package model

import "time"

// Role names as stored in users.role.  Access is scoped by role: customers
// buy tickets for themselves, cashiers process the ticket pipeline,
// managers additionally maintain the catalog, and admins administer users.
const (
    RoleCustomer = "CUSTOMER"
    RoleCashier  = "CASHIER"
    RoleManager  = "MANAGER"
    RoleAdmin    = "ADMIN"
)

// StaffRoles lists every role allowed to process tickets at the counter.
var StaffRoles = []string{RoleCashier, RoleManager, RoleAdmin}

// ValidRole reports whether the given string is one of the four roles.
func ValidRole(role string) bool {
    switch role {
    case RoleCustomer, RoleCashier, RoleManager, RoleAdmin:
        return true
    }
    return false
}

// User represents an application user record as stored in the `users`
// table.  The json tags are omitted because these structs are used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – given name, used in ticket search.
//  LastName     – family name, used in ticket search.
//  Role         – one of the role constants above.
//  IsActive     – whether the account is enabled.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
