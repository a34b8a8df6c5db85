package controllers

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type loginInput struct {
	ClassID  string `json:"class_id" binding:"required"`
	Password string `json:"password" binding:"required"`
	Operator string `json:"operator"`
}

// Login checks the class shared secret and issues the session cookie.
// The secret check is a deliberate simple comparison (constant-time, or
// bcrypt when the configured value is a hash) - this system runs for
// one day on a school LAN and is not an identity provider.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	secret, ok := h.Cfg.Classes[input.ClassID]
	if !ok || !secretMatches(secret, input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid class or password"})
		return
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"class_id": input.ClassID,
		"operator": input.Operator,
		"exp":      expirationTime.Unix(),
	})
	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create token"})
		return
	}

	cookie := fmt.Sprintf(
		"token=%s; Path=/; Max-Age=%d; Secure; HttpOnly; SameSite=None",
		tokenString,
		86400,
	)
	c.Header("Set-Cookie", cookie)

	c.JSON(http.StatusOK, gin.H{
		"message":  "Logged in",
		"class_id": input.ClassID,
	})
}

// Logout expires the cookie. Any open session for the operator should
// be cleared by the client before calling this.
func (h *Handler) Logout(c *gin.Context) {
	c.Header("Set-Cookie", "token=; Path=/; Max-Age=0; Secure; HttpOnly; SameSite=None")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// secretMatches supports both plain secrets (compared constant-time)
// and bcrypt hashes in the class config.
func secretMatches(configured, given string) bool {
	if strings.HasPrefix(configured, "$2a$") || strings.HasPrefix(configured, "$2b$") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(given)) == 1
}
