package service

// PasswordHasher is the one-way hash primitive used for stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// TokenIssuer mints and checks identity and password reset tokens.
type TokenIssuer interface {
	Mint(userID string) (string, error)
	Verify(token string) (string, error)
	MintReset(userID, passwordHash string) (string, error)
	VerifyReset(token, userID, passwordHash string) error
}
