package config

import (
	"os"
	"sync"
)

// AuthConfig describes how tokens from the identity provider are verified.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

var (
	authConfig *AuthConfig
	authOnce   sync.Once
)

func LoadAuthConfig() *AuthConfig {
	authOnce.Do(func() {
		authConfig = &AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			Issuer:    os.Getenv("AUTH_JWT_ISSUER"),
		}
	})
	return authConfig
}
