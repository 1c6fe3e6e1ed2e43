package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table        string
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Status       string
	PostIDs      string
	CreatedAt    string
	UpdatedAt    string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:        "users.account",
	ID:           "id",
	Email:        "email",
	Name:         "name",
	PasswordHash: "passwordhash",
	Status:       "status",
	PostIDs:      "postids",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// EmailKey is the unique constraint guarding users.account.email
const EmailKey = "account_email_key"
