package authapi

type loginRequest struct {
	LoginID  string
	Password string
	DeviceID *string
}

type userResponse struct {
	ID              int64  `json:"id"`
	LoginID         string `json:"loginId"`
	Name            string `json:"name"`
	Nickname        string `json:"nickname"`
	ProfileImageURL string `json:"profileImageUrl"`
}

type loginResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}
