package domain

// TokenTypeBearer is the scheme label returned with every issued pair.
const TokenTypeBearer = "Bearer"

// Session is the token pair handed to a caller after a successful register,
// login or refresh. Nothing is persisted server-side; authority derives from
// the token signatures and expiries alone.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Role         Role
	DisplayName  string
}
