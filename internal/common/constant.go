package common

// AccessTokenHeaderName is the HTTP header used to carry the access token on
// outbound requests.
const AccessTokenHeaderName = "Authorization"

// Names of the locally persisted collection documents. The client and the
// sync server agree on these as logical collection identifiers.
const (
	CollectionCharacters = "characters"
	CollectionPresets    = "presets"
	CollectionSettings   = "settings"
)
