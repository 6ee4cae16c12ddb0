package requestresponse

import "social-app/internal/model"

// FriendRequestResponse : заявка в друзья
type FriendRequestResponse struct {
	Data *model.FriendRequest `json:"data"`
}

// ChatResponse : история личной переписки
type ChatResponse struct {
	Data *model.Chat `json:"data"`
}
