// Package main provides a CLI tool for generating test access tokens for the broker API.
// These tokens use the dev signing key and will NOT work in production.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	jwttoken "broker/internal/jwt_token"
	"broker/pkg/domain"
)

const (
	// Dev signing key - matches config.go when JWT_SIGNING_KEY is not set
	devSigningKey = "dev-secret-key-change-in-production"

	defaultIssuer   = "broker"
	defaultAudience = "broker"
	defaultTokenTTL = 15 * time.Minute
)

type tokenOutput struct {
	Token     string            `json:"token"`
	Type      string            `json:"type"`
	ExpiresIn string            `json:"expires_in"`
	Claims    map[string]any    `json:"claims,omitempty"`
	Usage     map[string]string `json:"usage"`
}

func main() {
	accessCmd := flag.NewFlagSet("access", flag.ExitOnError)
	consumer := accessCmd.String("consumer", "991825827", "Consumer organization number")
	clientID := accessCmd.String("client-id", "test-client", "OAuth2 client ID")
	scopes := accessCmd.String("scopes", "broker:read", "Comma-separated scopes")
	ttl := accessCmd.Duration("ttl", defaultTokenTTL, "Token time-to-live")
	signingKey := accessCmd.String("key", devSigningKey, "HMAC signing key")
	issuer := accessCmd.String("issuer", defaultIssuer, "Token issuer")
	jsonOut := accessCmd.Bool("json", false, "Output as JSON")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "access":
		_ = accessCmd.Parse(os.Args[2:])
		generateAccessToken(*consumer, *clientID, *scopes, *signingKey, *issuer, *ttl, *jsonOut)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tokengen - Generate test access tokens for the broker API

WARNING: These tokens use the dev signing key and will NOT work in production.

Usage:
  tokengen access [flags]

Examples:
  tokengen access
  tokengen access -consumer 974760673 -scopes broker:read,broker:admin
  tokengen access -ttl 1h -json`)
}

func generateAccessToken(consumerOrg, clientID, scopes, signingKey, issuer string, ttl time.Duration, jsonOutput bool) {
	party, err := domain.ParseParty(consumerOrg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid consumer: %v\n", err)
		os.Exit(1)
	}
	scopeList := parseScopes(scopes)

	svc := jwttoken.NewJWTService(signingKey, issuer, defaultAudience, ttl)
	token, jti, err := svc.GenerateAccessToken(context.Background(), party, clientID, scopeList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating token: %v\n", err)
		os.Exit(1)
	}

	if jsonOutput {
		printJSON(tokenOutput{
			Token:     token,
			Type:      "access_token",
			ExpiresIn: ttl.String(),
			Claims: map[string]any{
				"consumer":  "0192:" + party.NorwegianOrganizationNumber,
				"client_id": clientID,
				"scope":     strings.Join(scopeList, " "),
				"jti":       jti,
			},
			Usage: map[string]string{
				"header": "Authorization: Bearer <token>",
			},
		})
		return
	}

	fmt.Println("Access Token (JWT)")
	fmt.Println("==================")
	fmt.Printf("Expires In:  %s\n", ttl)
	fmt.Printf("Consumer:    %s\n", party.NorwegianOrganizationNumber)
	fmt.Printf("Client ID:   %s\n", clientID)
	fmt.Printf("Scopes:      %v\n", scopeList)
	fmt.Printf("JTI:         %s\n", jti)
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  curl -H \"Authorization: Bearer <token>\" http://localhost:8080/...")
}

func parseScopes(scopes string) []string {
	if scopes == "" {
		return []string{}
	}
	parts := strings.Split(scopes, ",")
	result := make([]string, 0, len(parts))
	for _, s := range parts {
		trimmed := strings.TrimSpace(s)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}
