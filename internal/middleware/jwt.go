package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

// Token types carried in the "typ" claim.
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

// Context keys set by RequireAuth.
const (
	ContextUserID   = "user_id"
	ContextRole     = "role"
	ContextUsername = "username"
)

// Claims is the JWT payload issued by the login endpoint.
type Claims struct {
	UserID    uint        `json:"user_id"`
	Role      models.Role `json:"role"`
	Username  string      `json:"username"`
	TokenType string      `json:"typ"`
	jwt.RegisteredClaims
}

var ErrWrongTokenType = errors.New("wrong token type")

func secret() []byte {
	return []byte(config.Current().JWT.Secret)
}

// GenerateAccessToken signs a short-lived token used on every request.
func GenerateAccessToken(user models.User) (string, error) {
	return generateToken(user, AccessToken, config.Current().JWT.AccessTTL)
}

// GenerateRefreshToken signs a long-lived token only accepted by /token/refresh.
func GenerateRefreshToken(user models.User) (string, error) {
	return generateToken(user, RefreshToken, config.Current().JWT.RefreshTTL)
}

func generateToken(user models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Role:      user.Role,
		Username:  user.Username,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

// ParseToken validates signature, expiry and token type.
func ParseToken(tokenStr, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	if !claims.Role.Valid() {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// authenticate validates the bearer token and loads the account it names.
// It aborts the request and returns false when access must be refused.
// Role and activity come from the stored row, so demotions and
// deactivations apply to tokens that are already issued.
func authenticate(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := ParseToken(tokenString, AccessToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	var user models.User
	err = config.DB.WithContext(c.Request.Context()).
		Select("id", "username", "role", "is_active").
		First(&user, claims.UserID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("RequireAuth: user lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return false
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}
	if !user.IsActive || !user.Role.Valid() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
		return false
	}

	c.Set(ContextUserID, user.ID)
	c.Set(ContextRole, user.Role)
	c.Set(ContextUsername, user.Username)
	return true
}

// RequireAuth ensures a valid access token for an active account is present
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireRole ensures the JWT is valid and the user currently holds one of roles
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c) {
			return
		}

		role := CurrentRole(c)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// CurrentUserID returns the authenticated user's id, or 0.
func CurrentUserID(c *gin.Context) uint {
	id, _ := c.Get(ContextUserID)
	v, _ := id.(uint)
	return v
}

// CurrentRole returns the authenticated user's role, or "".
func CurrentRole(c *gin.Context) models.Role {
	r, _ := c.Get(ContextRole)
	v, _ := r.(models.Role)
	return v
}
