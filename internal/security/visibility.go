package security

import "social-app/internal/model"

// BuildVisibilityPredicate : условия видимости постов для запрашивающего, объединяются через OR.
// Анонимный запрос видит только публичные посты. Результат не кэшируется.
func BuildVisibilityPredicate(requester *model.User) []model.VisibilityCondition {
	conditions := []model.VisibilityCondition{
		{Kind: model.VisibilityPublic, Availability: model.AvailabilityPublic},
	}
	if requester == nil {
		return conditions
	}

	authors := make([]string, 0, len(requester.Friends)+1)
	authors = append(authors, requester.Friends...)
	authors = append(authors, requester.UUID)

	return append(conditions,
		model.VisibilityCondition{
			Kind:         model.VisibilityFriends,
			Availability: model.AvailabilityFriends,
			AuthorIn:     authors,
		},
		model.VisibilityCondition{
			Kind:         model.VisibilityPrivate,
			Availability: model.AvailabilityPrivate,
			AuthorIn:     []string{requester.UUID},
		},
		model.VisibilityCondition{
			Kind:                    model.VisibilitySpecificFriends,
			Availability:            model.AvailabilitySpecificFriends,
			SpecificFriendsContains: requester.UUID,
		},
		model.VisibilityCondition{
			Kind:                model.VisibilityTagged,
			Availability:        model.AvailabilityPrivate,
			ExcludeAvailability: true,
			TagsContains:        requester.UUID,
		},
	)
}
