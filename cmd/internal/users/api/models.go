package usersapi

import (
	"time"

	"snsfeed/cmd/identity"
)

type userResponse struct {
	ID              int64     `json:"id"`
	LoginID         string    `json:"loginId"`
	Name            string    `json:"name"`
	Nickname        string    `json:"nickname"`
	ProfileImageURL *string   `json:"profileImageUrl"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:              u.ID,
		LoginID:         u.LoginID,
		Name:            u.Name,
		Nickname:        u.Nickname,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
	}
}
