package auth

const (
	ScopeOpenID       = "openid"
	ScopeProfile      = "profile"
	ScopeEmail        = "email"
	ScopeDatasetRead  = "dataset:read"
	ScopeDatasetWrite = "dataset:write"
)

// AllScopes defines the full set of scopes requested during login and
// by the Swagger UI.
var AllScopes = []string{
	ScopeOpenID,
	ScopeProfile,
	ScopeEmail,
	ScopeDatasetRead,
	ScopeDatasetWrite,
}
