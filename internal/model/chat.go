package model

import (
	"time"

	"github.com/lib/pq"
)

// Chat : личная переписка двух пользователей
type Chat struct {
	UUID         string         `db:"uuid" json:"uuid"`
	Participants pq.StringArray `db:"participants" json:"participants"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
	Messages     []Message      `db:"-" json:"messages"`
}

type Message struct {
	UUID       string    `db:"uuid" json:"uuid"`
	ChatUUID   string    `db:"chat_uuid" json:"chat"`
	SenderUUID string    `db:"sender_uuid" json:"sender"`
	Content    string    `db:"content" json:"content"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
