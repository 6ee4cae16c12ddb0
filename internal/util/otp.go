package util

import (
	"crypto/rand"
	"math/big"
)

const otpDigits = "0123456789"

// GenerateOTP : генерирует одноразовый цифровой код длиной length символов
func GenerateOTP(length int) (string, error) {
	code := make([]byte, length)
	limit := big.NewInt(int64(len(otpDigits)))

	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", LogError("[util] ошибка генерации кода", err)
		}
		code[i] = otpDigits[n.Int64()]
	}

	return string(code), nil
}
