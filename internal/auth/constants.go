package auth

const (
	ContextKeyIdentity = "identity"
	ContextKeyAuthType = "auth_type"

	jsonKeyError = "error"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2

	tokenSegments     = 3
	tokenSeparator    = "."
	viewLinkSeparator = "."
	queryParamExpires = "exp"
	queryParamSig     = "sig"
)

const (
	msgMissingAuthorization   = "missing authorization token"
	msgInvalidOrExpiredToken  = "invalid or expired token"
	msgInsufficientRole       = "insufficient role for this operation"
	msgUserNotAuthenticated   = "user not authenticated"
	msgInvalidIdentityCtx     = "invalid identity in context"
	msgEmptySecret            = "signing secret must not be empty"
	msgTokenSegments          = "token must have three non-empty segments"
	msgTokenHeader            = "unexpected token header"
	msgTokenPayloadEncoding   = "token payload is not base64url"
	msgTokenPayloadInvalid    = "token payload is not valid claims"
	msgTokenSignatureMismatch = "token signature mismatch"
	msgTokenWrongKind         = "token kind is not access_token"
	msgTokenExpired           = "token has expired"
	msgCredentialTTLTooShort  = "credential ttl must be at least one second"
	msgCredentialTTLFraction  = "credential ttl must be a whole number of seconds"
	msgEncodeClaimsFailedFmt  = "failed to encode claims: %w"
	msgViewLinkResourceEmpty  = "view link resource id must not be empty"
	msgViewLinkTTLNotPositive = "view link ttl must be positive"
	msgViewLinkMissingInput   = "view link is missing resource, exp or sig"
	msgViewLinkBadExpiry      = "view link exp is not a canonical decimal"
	msgViewLinkExpired        = "view link has expired"
	msgViewLinkSigMismatch    = "view link signature mismatch"
)

type AuthType string

const (
	AuthTypeCredential AuthType = "credential"
	AuthTypeViewLink   AuthType = "view_link"
)
