/*
Copyright 2025 Tandem Payments Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package middleware resolves the caller identity for governance requests.
// Tokens are opaque bearer strings mapped to identities in configuration,
// standing in for the platform token service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tandempay/hubgov/auth"
	"github.com/tandempay/hubgov/config"
)

const securityContextKey = "hubgov.security_context"

// TokenAuthMiddleware authenticates the bearer token against the configured
// token identities and installs the resolved SecurityContext on the request.
func TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		cnf, err := config.Fetch()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "configuration not loaded"})
			return
		}

		for _, identity := range cnf.Auth.Tokens {
			if identity.Token == token {
				c.Set(securityContextKey, &auth.SecurityContext{
					Username:        identity.Username,
					ClientID:        identity.ClientID,
					PlatformRoleIDs: identity.Roles,
				})
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	}
}

// SecurityContext returns the caller identity installed by
// TokenAuthMiddleware, or nil on unauthenticated routes.
func SecurityContext(c *gin.Context) *auth.SecurityContext {
	value, exists := c.Get(securityContextKey)
	if !exists {
		return nil
	}
	sec, ok := value.(*auth.SecurityContext)
	if !ok {
		return nil
	}
	return sec
}
