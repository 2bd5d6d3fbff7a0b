package services

import (
	"math/rand/v2"

	"github.com/fsdevblog/linkshort/internal/models"
)

const shortCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateShortCode возвращает случайный код длины models.ShortCodeLength.
// Символы выбираются равновероятно и независимо. Уникальность обеспечивает
// цикл повторов при создании ссылки, а не генератор.
func GenerateShortCode() string {
	code := make([]byte, models.ShortCodeLength)
	for i := range code {
		code[i] = shortCodeAlphabet[rand.IntN(len(shortCodeAlphabet))] //nolint:gosec
	}
	return string(code)
}
