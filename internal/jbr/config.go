package jbr

import "time"

// Config controls the HTTP/WebSocket façade.
type Config struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	HTTPServerTimeout time.Duration `koanf:"http_server_timeout"`
	OIDC              OIDCConfig    `koanf:"oidc"`
}

// OIDCConfig gates the façade behind bearer tokens when ProviderURL is set.
// Leaving it empty runs the façade unauthenticated, the common case for
// embedded/local use.
type OIDCConfig struct {
	ProviderURL string `koanf:"provider_url"`
	ClientID    string `koanf:"client_id"`
}
