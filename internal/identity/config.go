package identity

import (
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
)

// ForConfig picks the resolver matching AUTH_MODE.
func ForConfig(db *gorm.DB, cfg *config.Config) Resolver {
	if cfg.TokenMode() {
		return NewTokenResolver(db)
	}
	return NewAmbientResolver(db)
}

// IssuerForConfig returns nil in ambient mode, where sign-in issues no token.
func IssuerForConfig(cfg *config.Config) *Issuer {
	if !cfg.TokenMode() {
		return nil
	}
	return NewIssuer(cfg.JWTSecret, cfg.JWTExpiry)
}
