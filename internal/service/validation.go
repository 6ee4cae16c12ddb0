package service

import (
	"fmt"
	"unicode"

	"social-app/internal/util"
)

// validatePassword : не короче 8 символов, буквы в обоих регистрах, цифра и спецсимвол
func validatePassword(password string) error {
	if len(password) < 8 {
		return util.NewBadRequest("пароль должен содержать минимум 8 символов")
	}

	var upperCount, lowerCount, digitCount, specialCount int

	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			upperCount++
		case unicode.IsLower(c):
			lowerCount++
		case unicode.IsDigit(c):
			digitCount++
		case unicode.IsPunct(c) || unicode.IsSymbol(c):
			specialCount++
		}
	}

	if upperCount == 0 || lowerCount == 0 {
		return util.NewBadRequest("пароль должен содержать буквы в разных регистрах")
	}
	if digitCount < 1 {
		return util.NewBadRequest("пароль должен содержать хотя бы одну цифру")
	}
	if specialCount < 1 {
		return util.NewBadRequest("пароль должен содержать хотя бы один специальный символ")
	}

	return nil
}

// uniqueStrings : порядок первого вхождения, пустые строки отбрасываются
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func limitOrDefault(limit int) int {
	switch {
	case limit <= 0:
		return 10
	case limit > 50:
		return 50
	}
	return limit
}

func ownerError(entity string) error {
	return util.NewForbidden(fmt.Sprintf("%s принадлежит другому пользователю", entity))
}
