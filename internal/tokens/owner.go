// Package tokens выпускает и проверяет JWT токены владельца ссылок.
//
// Регистрации пользователей в приложении нет: владелец идентифицируется UUID,
// который выдается посетителю при первом обращении и хранится в подписанном токене.
package tokens

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const issuer = "linkshort"

// OwnerClaims данные JWT токена владельца.
type OwnerClaims struct {
	jwt.RegisteredClaims
	OwnerID string `json:"oid"`
}

// GenerateOwnerJWT создает JWT токен для владельца.
//
// Параметры:
//   - ownerID: уникальный идентификатор владельца
//   - expire: срок действия токена
//   - key: ключ для подписи токена
//
// Возвращает:
//   - string: сгенерированный JWT токен
//   - error: ошибка генерации токена
func GenerateOwnerJWT(ownerID string, expire time.Duration, key []byte) (string, error) {
	now := time.Now()
	claims := OwnerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
		OwnerID: ownerID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("generating owner jwt token: %w", err)
	}
	return token, nil
}

// ParseOwnerJWT проверяет токен и возвращает идентификатор владельца.
//
// Параметры:
//   - tokenString: JWT токен в виде строки
//   - key: ключ для проверки подписи
//
// Возвращает:
//   - string: идентификатор владельца
//   - error: ErrTokenExpired если истек срок действия, ErrInvalidToken при прочих ошибках
func ParseOwnerJWT(tokenString string, key []byte) (string, error) {
	claims := new(OwnerClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !token.Valid || claims.OwnerID == "" {
		return "", ErrInvalidToken
	}
	return claims.OwnerID, nil
}
