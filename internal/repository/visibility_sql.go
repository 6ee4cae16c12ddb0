package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"social-app/internal/model"
)

// visibilityClause : превращает условия видимости в SQL через OR.
// Плейсхолдеры нумеруются начиная с firstArg, аргументы возвращаются в том же порядке.
func visibilityClause(conditions []model.VisibilityCondition, firstArg int) (string, []interface{}) {
	if len(conditions) == 0 {
		return "FALSE", nil
	}

	var (
		alternatives = make([]string, 0, len(conditions))
		args         []interface{}
		next         = firstArg
	)
	placeholder := func(value interface{}) string {
		args = append(args, value)
		p := fmt.Sprintf("$%d", next)
		next++
		return p
	}

	for _, c := range conditions {
		var parts []string

		operator := "="
		if c.ExcludeAvailability {
			operator = "<>"
		}
		parts = append(parts, fmt.Sprintf("p.availability %s %s", operator, placeholder(string(c.Availability))))

		if c.AuthorIn != nil {
			parts = append(parts, fmt.Sprintf("p.author_uuid = ANY(%s::text[])", placeholder(pq.Array(c.AuthorIn))))
		}
		if c.SpecificFriendsContains != "" {
			parts = append(parts, fmt.Sprintf("%s::text = ANY(p.specific_friends)", placeholder(c.SpecificFriendsContains)))
		}
		if c.TagsContains != "" {
			parts = append(parts, fmt.Sprintf("%s::text = ANY(p.tags)", placeholder(c.TagsContains)))
		}

		alternatives = append(alternatives, "("+strings.Join(parts, " AND ")+")")
	}

	return "(" + strings.Join(alternatives, " OR ") + ")", args
}
