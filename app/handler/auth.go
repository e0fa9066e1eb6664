package handler

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	authKey string
	passKey string
}

func NewAuthHandler(authKey, passKey string) *AuthHandler {
	return &AuthHandler{
		authKey: authKey,
		passKey: passKey,
	}
}

// InitRoute는 로그인 경로 등록 후 나머지 전체 경로에 토큰 검사를 건다.
// 이후에 등록되는 핸들러만 보호되므로 호출 순서가 중요함.
func (h *AuthHandler) InitRoute(app *fiber.App) {

	app.Post("/auth/login", h.Login)
	app.Use(h.AuthMiddleware)
}

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {

	var req LoginRequest
	err := c.BodyParser(&req)
	if err != nil {
		return fmt.Errorf("파라미터 BodyParse 시 오류 발생. %w", err)
	}

	err = validCheck(&req)
	if err != nil {
		return fmt.Errorf("파라미터 유효성 검사 시 오류 발생. %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(req.Passkey), []byte(h.passKey)) != 1 {
		return errors.New("잘못된 passkey")
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   "operator",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.authKey))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(JWTResponse{
		Token:  tokenString,
		Expiry: expirationTime.Unix(),
	})
}

func (h *AuthHandler) AuthMiddleware(c *fiber.Ctx) error {

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return errors.New("authorization header missing")
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return errors.New("invalid authorization format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.authKey), nil
	})

	if err != nil {
		return err
	}

	if !token.Valid {
		return errors.New("invalid token")
	}

	return c.Next()
}
