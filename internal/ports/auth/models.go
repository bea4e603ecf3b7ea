package auth

// Claims representa la identidad verificada del usuario actual.
type Claims struct {
	UserID string
	Email  string

	// Token original; algunos adapters lo reenvían al backend.
	Token string
}
