package authapi

import (
	"net"
	"net/http"
	"strings"

	"snsfeed/cmd/internal/auth/session"
)

// LoopbackAddress is the client address used when nothing better is known.
const LoopbackAddress = "127.0.0.1"

// ClientAddress resolves the caller's address: the first X-Forwarded-For entry,
// then the connection's remote host, then LoopbackAddress.
func ClientAddress(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	remote := strings.TrimSpace(r.RemoteAddr)
	if remote != "" {
		if host, _, err := net.SplitHostPort(remote); err == nil {
			if host != "" {
				return host
			}
		} else {
			return remote
		}
	}

	return LoopbackAddress
}

func toLoginResponse(res session.LoginResult) loginResponse {
	return loginResponse{
		User: userResponse{
			ID:              res.User.ID,
			LoginID:         res.User.LoginID,
			Name:            res.User.Name,
			Nickname:        res.User.Nickname,
			ProfileImageURL: res.User.ProfileImageURL,
		},
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
	}
}
