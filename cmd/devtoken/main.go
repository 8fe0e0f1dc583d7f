// cmd/devtoken: prints a bearer token signed with JWT_SECRET for local calls
// against /v1. Production tokens come from the auth service.
// Usage: go run ./cmd/devtoken -user exec-1 -role sales -ttl 8h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"l2lsales/internal/config"
	"l2lsales/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	user := flag.String("user", "dev", "user id recorded as the audit actor")
	name := flag.String("name", "Developer", "display name")
	role := flag.String("role", "sales", "role claim")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is empty; /v1 is not authenticated")
		os.Exit(1)
	}

	claims := middleware.JWTClaims{
		UserID: *user,
		Name:   *name,
		Role:   *role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(*ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
