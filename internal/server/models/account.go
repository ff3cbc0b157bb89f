package models

// Credentials is the plaintext email/password pair supplied on register and
// login. It is never stored.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account is a persisted account. PasswordHash always holds a codec hash,
// never plaintext. ID is zero until the store assigns one.
type Account struct {
	ID           AccountID `json:"id,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
}
