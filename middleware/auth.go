package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// AccessTokenTTL es la vigencia del token de acceso
	AccessTokenTTL = time.Hour
	// RefreshTokenTTL es la vigencia del token de actualización
	RefreshTokenTTL = 7 * 24 * time.Hour
)

func jwtSecret() []byte {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		return []byte(secret)
	}
	return []byte("clave_secreta_solo_para_desarrollo")
}

// Claims personalizados para el JWT. Incluyen los datos que la API expone
// en el token: username, email, nombre completo y el indicador de staff.
type Claims struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"token_type"` // access | refresh
	jwt.RegisteredClaims
}

// TokenPair agrupa los dos tokens emitidos al autenticarse
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // segundos del token de acceso
	RefreshExp   time.Time
}

func firmarToken(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// GenerateTokenPair emite el par access+refresh para un usuario
func GenerateTokenPair(userID int, username, email, nombre, apellido string, isStaff bool) (*TokenPair, error) {
	ahora := time.Now()
	base := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		Nombre:   nombre,
		Apellido: apellido,
		IsStaff:  isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(ahora),
		},
	}

	access := base
	access.TokenType = "access"
	access.ExpiresAt = jwt.NewNumericDate(ahora.Add(AccessTokenTTL))
	accessToken, err := firmarToken(access)
	if err != nil {
		return nil, err
	}

	refreshExp := ahora.Add(RefreshTokenTTL)
	refresh := base
	refresh.TokenType = "refresh"
	refresh.ExpiresAt = jwt.NewNumericDate(refreshExp)
	refreshToken, err := firmarToken(refresh)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(AccessTokenTTL.Seconds()),
		RefreshExp:   refreshExp,
	}, nil
}

// ParseToken valida la firma y vigencia de un token y devuelve sus claims
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// JWTMiddleware valida el token de acceso del header Authorization y deja
// los claims en el contexto de la petición
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{
				"error": "Token de autorización requerido",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{
				"error": "Formato de token inválido",
			})
		}

		claims, err := ParseToken(tokenString)
		if err != nil || claims.TokenType != "access" {
			return c.Status(401).JSON(fiber.Map{
				"error": "Token inválido",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("user_email", claims.Email)
		c.Locals("is_staff", claims.IsStaff)

		return c.Next()
	}
}
