package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rfortes/gym-studio/internal/domain"
	"rfortes/gym-studio/internal/errs"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// jwtClaims mirrors the payload produced by authService.generateJWT.
type jwtClaims struct {
	UserID string           `json:"uid"`
	Role   domain.StaffRole `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		if !token.Valid || claims.UserID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUserRoleKey, claims.Role)
		c.Next()
	}
}

// RoleMiddleware checks that the authenticated staff user holds one of
// the allowed roles. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, exists := c.Get(ContextUserRoleKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "User role not found in context")
			return
		}

		userRole, ok := roleRaw.(domain.StaffRole)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Invalid user role type in context")
			return
		}

		for _, allowed := range allowedRoles {
			if userRole == allowed {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps service errors onto HTTP statuses. Validation
// failures carry their violation list in the body.
func respondError(c *gin.Context, err error) {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      ve.Error(),
			"violations": ve.Violations,
		})
		return
	}

	switch {
	case errs.IsInvalidID(err):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errs.IsNotFound(err):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errs.IsPrecondition(err), errs.IsConflict(err):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func getUserIDFromContext(c *gin.Context) (string, error) {
	raw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	id, ok := raw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return id, nil
}

func getUserRoleFromContext(c *gin.Context) (domain.StaffRole, error) {
	raw, exists := c.Get(ContextUserRoleKey)
	if !exists {
		return "", errors.New("user role not found in context")
	}
	role, ok := raw.(domain.StaffRole)
	if !ok {
		return "", errors.New("invalid user role type in context")
	}
	return role, nil
}
