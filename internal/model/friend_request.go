package model

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

type FriendRequest struct {
	UUID         string              `db:"uuid" json:"uuid"`
	SenderUUID   string              `db:"sender_uuid" json:"sender"`
	ReceiverUUID string              `db:"receiver_uuid" json:"receiver"`
	Status       FriendRequestStatus `db:"status" json:"status"`
	AcceptedAt   *time.Time          `db:"accepted_at" json:"accepted_at,omitempty"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}
