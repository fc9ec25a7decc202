package handler

import (
	"net/http"
	"time"

	"childguard/backend/internal/audit"
	"childguard/backend/internal/config"
	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// generateToken issues a JWT carrying the actor identity.
func (h *Handler) generateToken(actor *models.Actor) (string, error) {
	claims := jwt.MapClaims{
		"sub": actor.ID,
		"exp": time.Now().Add(config.TokenTTL).Unix(),
		"iss": "childguard-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.JWTSecret)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates by email and password and returns a JWT. Successful
// logins are audited.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": h.Localizer.GetString(h.lang(c), "VALIDATION_ERROR")})
		return
	}

	actor, err := h.Store.GetActorByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": h.Localizer.GetString(h.lang(c), "INTERNAL_ERROR")})
		return
	}
	if actor == nil || !actor.IsActive ||
		bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "INVALID_CREDENTIALS", "message": h.Localizer.GetString(h.lang(c), "INVALID_CREDENTIALS")})
		return
	}

	token, err := h.generateToken(actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL_ERROR", "message": h.Localizer.GetString(h.lang(c), "INTERNAL_ERROR")})
		return
	}

	h.Trail.Record(actor.ID, models.ActionLogin, models.TargetActor, actor.ID, audit.RequestMeta{
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	c.JSON(http.StatusOK, gin.H{"token": token, "actor": actor})
}

// AuthRequired validates the bearer token and loads the actor, with its
// current role and unit, into the request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": h.Localizer.GetString(h.lang(c), "UNAUTHORIZED")})
			return
		}
		tokenString := authHeader[7:]

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return h.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": h.Localizer.GetString(h.lang(c), "UNAUTHORIZED")})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": h.Localizer.GetString(h.lang(c), "UNAUTHORIZED")})
			return
		}
		sub, _ := claims["sub"].(string)

		// The role and unit come from the database, not the token, so a
		// role change takes effect immediately.
		actor, err := h.Store.GetActorByID(sub)
		if err != nil || actor == nil || !actor.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "message": h.Localizer.GetString(h.lang(c), "UNAUTHORIZED")})
			return
		}

		c.Set("actor", actor)
		c.Next()
	}
}

// RequireRole rejects requests below the minimum role before they reach a
// service.
func (h *Handler) RequireRole(min models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := h.actor(c)
		if actor == nil || !actor.Role.AtLeast(min) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "FORBIDDEN", "message": h.Localizer.GetString(h.lang(c), "FORBIDDEN")})
			return
		}
		c.Next()
	}
}
