package account

// PasswordResetPayload carries the already-hashed replacement password. The
// plaintext never enters the ledger.
type PasswordResetPayload struct {
	NewPasswordHash string `json:"newPasswordHash"`
}

// ConfirmEmailPayload carries the address being verified.
type ConfirmEmailPayload struct {
	Email string `json:"email"`
}

// ProfileUpdatePayload carries the staged profile fields. Empty fields are
// left untouched on apply.
type ProfileUpdatePayload struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
