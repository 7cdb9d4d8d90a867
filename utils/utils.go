package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func ErrorResponse(c *gin.Context, message string, code int) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func SuccessResponse(c *gin.Context, message string, code int) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// AccessTokenTTL and RefreshTokenTTL bound the session lifetimes written to
// the session table; the JWT "exp" claims use the same values.
const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 15 * 24 * time.Hour
)

func secretKey() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("screening-dev-secret")
}

// GenerateJWT creates a new JWT access token for the given email.
func GenerateJWT(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"type":  "access",
		"exp":   time.Now().Add(AccessTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secretKey())
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// GenerateRefreshToken creates a long-lived JWT refresh token bound to a
// single session.
func GenerateRefreshToken(email string, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"email":     email,
		"type":      "refresh",
		"sessionId": sessionID,
		"exp":       time.Now().Add(RefreshTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secretKey())
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

// ValidateJWT parses and validates a JWT string.
func ValidateJWT(tokenStr string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token parsing error: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return token, nil
}

func ValidatePassword(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}
