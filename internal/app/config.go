package app

import (
	"time"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/envutil"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	SeedFile       string
}

func LoadConfig() Config {
	return Config{
		Port:           envutil.String("PORT", "8080"),
		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL: envutil.Duration("ACCESS_TOKEN_TTL", time.Hour),
		SeedFile:       envutil.String("COURSE_SEED_FILE", ""),
	}
}
