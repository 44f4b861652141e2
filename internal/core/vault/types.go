package vault

// Type represents the type of vault.
type Type string

const (
	// TypeDotEnv reads secrets from the process environment and .env files.
	TypeDotEnv Type = "dotenv"
)
