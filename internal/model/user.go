package model

// User is a branch-scoped operator account. Passwords are bcrypt hashes when
// hashing is available; legacy rows may hold plaintext (see auth package).
type User struct {
	ID       int64  `json:"id"`
	BranchID int64  `json:"branch_id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Role     string `json:"role"`
}
