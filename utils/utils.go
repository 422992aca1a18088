package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var jwtSecret = []byte(getEnvOrDefault("JWT_SECRET", "TSSSSS"))

func GetJWTSecret() []byte {
	return jwtSecret
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GenerateJWT issues a bearer token carrying userID and role in the
// "user_id"/"role" claims middleware.Authenticate expects. userID and
// role are caller-supplied strings rather than a models type: the
// scheduler's domain model has no notion of an authenticated account,
// only of the HostID/RefereeUserID/TeamRefereeID strings handlers
// compare a caller's identity against.
func GenerateJWT(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     now.Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(jwtSecret)
}
