package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	FirstName: "firstname",
	LastName:  "lastname",
	Bio:       "bio",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FirstName, t.LastName,
		t.Bio, t.Role, t.CreatedAt, t.UpdatedAt,
	}
}
