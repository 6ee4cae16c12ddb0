package model

import (
	"time"

	"github.com/lib/pq"
)

type Comment struct {
	UUID        string         `db:"uuid" json:"uuid"`
	PostUUID    string         `db:"post_uuid" json:"post"`
	AuthorUUID  string         `db:"author_uuid" json:"author"`
	ParentUUID  *string        `db:"parent_uuid" json:"parent,omitempty"`
	Content     string         `db:"content" json:"content"`
	Attachments pq.StringArray `db:"attachments" json:"attachments"`
	Likes       pq.StringArray `db:"likes" json:"likes"`
	Tags        pq.StringArray `db:"tags" json:"tags"`
	FreezedAt   *time.Time     `db:"freezed_at" json:"freezed_at,omitempty"`
	FreezedBy   *string        `db:"freezed_by" json:"freezed_by,omitempty"`
	RestoredAt  *time.Time     `db:"restored_at" json:"restored_at,omitempty"`
	RestoredBy  *string        `db:"restored_by" json:"restored_by,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// CommentPatch : изменения комментария, вложения и отметки меняются как множества
type CommentPatch struct {
	Content           *string
	AddAttachments    []string
	RemoveAttachments []string
	AddTags           []string
	RemoveTags        []string
}
