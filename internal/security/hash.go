package security

import (
	"golang.org/x/crypto/bcrypt"

	"social-app/internal/util"
)

// Hasher : bcrypt с настраиваемой стоимостью, для паролей и одноразовых кодов
type Hasher struct {
	Cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{Cost: cost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", util.LogError("[Hasher] не удалось создать хэш", err)
	}
	return string(hashed), nil
}

func (h *Hasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
