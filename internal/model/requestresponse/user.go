package requestresponse

import "social-app/internal/model"

// UserResponse : профиль пользователя
type UserResponse struct {
	Data *model.User `json:"data"`
}

// ChangeRoleRequest : новая роль пользователя
type ChangeRoleRequest struct {
	Role model.Role `json:"role" example:"admin"`
}

// FreezeRequest : причина заморозки аккаунта
type FreezeRequest struct {
	Reason string `json:"reason" example:"spam"`
}

// AvatarRequest : данные файла аватара для presigned URL
type AvatarRequest struct {
	Filename    string `json:"filename" example:"me.png"`
	ContentType string `json:"content_type" example:"image/png"`
}

// AvatarResponse : presigned PUT URL и ключ объекта
type AvatarResponse struct {
	Response struct {
		URL string `json:"url"`
		Key string `json:"key" example:"users/123/avatar/me.png"`
	} `json:"response"`
}
