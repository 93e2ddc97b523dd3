package userdata

// AccountStatus is the lifecycle state of a user account.
type AccountStatus string

const (
	StatusPendingValidation AccountStatus = "PENDING_VALIDATION"
	StatusVerified          AccountStatus = "VERIFIED"
	StatusDeleted           AccountStatus = "DELETED"
)

// User is the public view of a user record.
type User struct {
	ID            int64         `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	AccountStatus AccountStatus `json:"account_status"`
}

// Credentials is a user record including the stored password hash. It is
// only used for login and recovery and never leaves the service.
type Credentials struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Page is one page of users.
type Page struct {
	TotalItems  int    `json:"totalItems"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	PageSize    int    `json:"pageSize"`
	Users       []User `json:"users"`
}

// Registration creates a user. Password must already be hashed.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

// Update replaces a user's profile fields.
type Update struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PasswordRecovery sets a new (hashed) password, authorised by an OTP.
type PasswordRecovery struct {
	Email    string `json:"email"`
	Otp      string `json:"otp"`
	Password string `json:"password"`
}

// AccountStatusResult is the status after a verification.
type AccountStatusResult struct {
	AccountStatus AccountStatus `json:"account_status"`
}
