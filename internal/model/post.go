package model

import (
	"io"
	"time"

	"github.com/lib/pq"
)

type Availability string

const (
	AvailabilityPublic          Availability = "public"
	AvailabilityPrivate         Availability = "private"
	AvailabilityFriends         Availability = "friends"
	AvailabilitySpecificFriends Availability = "specificFriends"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityPublic, AvailabilityPrivate, AvailabilityFriends, AvailabilitySpecificFriends:
		return true
	}
	return false
}

type AllowComment string

const (
	CommentsAllowed AllowComment = "allow"
	CommentsDenied  AllowComment = "deny"
)

type LikeAction string

const (
	ActionLike   LikeAction = "like"
	ActionUnlike LikeAction = "unlike"
)

type Post struct {
	UUID            string         `db:"uuid" json:"uuid"`
	AuthorUUID      string         `db:"author_uuid" json:"author"`
	Content         string         `db:"content" json:"content"`
	Attachments     pq.StringArray `db:"attachments" json:"attachments"`
	AllowComment    AllowComment   `db:"allow_comment" json:"allow_comment"`
	Availability    Availability   `db:"availability" json:"availability"`
	SpecificFriends pq.StringArray `db:"specific_friends" json:"specific_friends,omitempty"`
	Tags            pq.StringArray `db:"tags" json:"tags"`
	Likes           pq.StringArray `db:"likes" json:"likes"`
	AssetsFolderID  string         `db:"assets_folder_id" json:"-"`
	FreezedAt       *time.Time     `db:"freezed_at" json:"freezed_at,omitempty"`
	FreezedBy       *string        `db:"freezed_by" json:"freezed_by,omitempty"`
	RestoredAt      *time.Time     `db:"restored_at" json:"restored_at,omitempty"`
	RestoredBy      *string        `db:"restored_by" json:"restored_by,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// PostDraft : данные нового поста от автора
type PostDraft struct {
	Content         string
	Availability    Availability
	AllowComment    AllowComment
	Tags            []string
	SpecificFriends []string
}

// PostPatch : изменения поста, списки добавляются и удаляются как множества
type PostPatch struct {
	Content               *string
	Availability          *Availability
	AllowComment          *AllowComment
	AddAttachments        []string
	RemoveAttachments     []string
	AddTags               []string
	RemoveTags            []string
	AddSpecificFriends    []string
	RemoveSpecificFriends []string
}

// Upload : файл из multipart формы, который нужно положить в S3
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
