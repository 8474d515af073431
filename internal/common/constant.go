package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the scheme prefix expected in AuthorizationHeaderName.
	BearerPrefix = "Bearer "

	// SystemRecipientMarker is stored as the recipient of broadcast outbox records.
	SystemRecipientMarker = "all-users"
)
