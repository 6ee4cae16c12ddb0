package model

type VisibilityKind string

const (
	VisibilityPublic          VisibilityKind = "public"
	VisibilityFriends         VisibilityKind = "friends"
	VisibilityPrivate         VisibilityKind = "private"
	VisibilitySpecificFriends VisibilityKind = "specificFriends"
	VisibilityTagged          VisibilityKind = "tagged"
)

// VisibilityCondition : одна из альтернатив, по которым пост виден запрашивающему.
// Поля без значения не участвуют в проверке, условия списка объединяются через OR.
type VisibilityCondition struct {
	Kind                    VisibilityKind
	Availability            Availability
	ExcludeAvailability     bool
	AuthorIn                []string
	SpecificFriendsContains string
	TagsContains            string
}

// Matches : проверяет условие на уже загруженном посте
func (c VisibilityCondition) Matches(post *Post) bool {
	if c.ExcludeAvailability {
		if post.Availability == c.Availability {
			return false
		}
	} else if post.Availability != c.Availability {
		return false
	}

	if c.AuthorIn != nil && !contains(c.AuthorIn, post.AuthorUUID) {
		return false
	}
	if c.SpecificFriendsContains != "" && !contains(post.SpecificFriends, c.SpecificFriendsContains) {
		return false
	}
	if c.TagsContains != "" && !contains(post.Tags, c.TagsContains) {
		return false
	}
	return true
}

// VisibleTo : true, если пост удовлетворяет хотя бы одному условию
func VisibleTo(post *Post, conditions []VisibilityCondition) bool {
	for _, condition := range conditions {
		if condition.Matches(post) {
			return true
		}
	}
	return false
}
