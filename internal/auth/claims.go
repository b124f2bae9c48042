package auth

import (
	"slices"
	"strings"
)

// claimSetFromMap reads the standard OpenID Connect claims from a decoded payload.
func claimSetFromMap(m map[string]any) *ClaimSet {
	return &ClaimSet{
		Subject:       stringClaim(m, "sub"),
		Issuer:        stringClaim(m, "iss"),
		Audience:      audienceClaim(m),
		Email:         stringClaim(m, "email"),
		EmailVerified: boolClaim(m, "email_verified"),
		Name:          optionalStringClaim(m, "name"),
		Picture:       optionalStringClaim(m, "picture"),
	}
}

func stringClaim(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func optionalStringClaim(m map[string]any, key string) *string {
	s, ok := m[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// boolClaim accepts JSON booleans and the "true"/"false" strings some issuers emit.
func boolClaim(m map[string]any, key string) *bool {
	var b bool
	switch v := m[key].(type) {
	case bool:
		b = v
	case string:
		switch strings.ToLower(v) {
		case "true":
			b = true
		case "false":
			b = false
		default:
			return nil
		}
	default:
		return nil
	}
	return &b
}

// audienceClaim returns aud when it names exactly one audience.
func audienceClaim(m map[string]any) string {
	switch v := m["aud"].(type) {
	case string:
		return v
	case []string:
		if len(v) == 1 {
			return v[0]
		}
	case []any:
		if len(v) == 1 {
			s, _ := v[0].(string)
			return s
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	return s != "" && slices.Contains(list, s)
}
