package config

const (
	EnvPrefix = "STOREFRONT"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN       = "STOREFRONT_DB_DSN"
	EnvDBHost      = "STOREFRONT_DB_HOST"
	EnvDBUser      = "STOREFRONT_DB_USER"
	EnvDBName      = "STOREFRONT_DB_NAME"
	EnvEnvelopeKey = "STOREFRONT_ENVELOPE_KEY"

	// EnvelopeKeySize is the XChaCha20-Poly1305 key length.
	EnvelopeKeySize = 32

	DefaultShippingCharge = 50
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
