package security

import (
	"fmt"

	"social-app/config"
	"social-app/internal/model"
)

// Tier : уровень доступа, определяет пару секретов подписи
type Tier string

const (
	TierStandard Tier = "standard"
	TierElevated Tier = "elevated"
)

const (
	LabelBearer = "Bearer"
	LabelAdmin  = "Admin"
)

var roleTiers = map[model.Role]Tier{
	model.RoleUser:       TierStandard,
	model.RoleAdmin:      TierElevated,
	model.RoleSuperAdmin: TierElevated,
}

var tierLabels = map[Tier]string{
	TierStandard: LabelBearer,
	TierElevated: LabelAdmin,
}

var labelTiers = map[string]Tier{
	LabelBearer: TierStandard,
	LabelAdmin:  TierElevated,
}

func TierForRole(role model.Role) (Tier, error) {
	tier, ok := roleTiers[role]
	if !ok {
		return "", fmt.Errorf("для роли %q не задан уровень доступа", role)
	}
	return tier, nil
}

func TierForLabel(label string) (Tier, bool) {
	tier, ok := labelTiers[label]
	return tier, ok
}

func (t Tier) Label() string {
	return tierLabels[t]
}

// secretsByTier : секреты подписи для каждого уровня, других уровней нет
func secretsByTier(cfg *config.JWTConfig) map[Tier]config.SecretPair {
	return map[Tier]config.SecretPair{
		TierStandard: cfg.User,
		TierElevated: cfg.Admin,
	}
}

func secretFor(secrets map[Tier]config.SecretPair, tier Tier, kind model.TokenKind) ([]byte, error) {
	pair, ok := secrets[tier]
	if !ok {
		return nil, fmt.Errorf("нет секретов для уровня %q", tier)
	}

	var secret string
	switch kind {
	case model.TokenKindAccess:
		secret = pair.Access
	case model.TokenKindRefresh:
		secret = pair.Refresh
	default:
		return nil, fmt.Errorf("неизвестный тип токена %q", kind)
	}

	if secret == "" {
		return nil, fmt.Errorf("пустой секрет для уровня %q", tier)
	}
	return []byte(secret), nil
}
