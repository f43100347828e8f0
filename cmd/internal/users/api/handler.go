// Package usersapi serves account registration and profile lookup.
package usersapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"snsfeed/cmd/identity"
	"snsfeed/cmd/internal/httpx"
)

const (
	msgLoginIDTaken  = "이미 사용 중인 ID입니다"
	msgNicknameTaken = "이미 사용 중인 닉네임입니다"
	msgInvalidUserID = "유효하지 않은 사용자 ID입니다"
	msgUserNotFound  = "사용자를 찾을 수 없습니다"
)

// Handler wires the /users routes to the identity service.
type Handler struct {
	log          *slog.Logger
	accounts     *identity.Service
	maxBodyBytes int64
}

// NewHandler constructs a users Handler.
func NewHandler(log *slog.Logger, accounts *identity.Service, maxBodyBytes int64) (*Handler, error) {
	if log == nil {
		log = slog.Default()
	}
	if accounts == nil {
		return nil, errors.New("users: nil identity service")
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &Handler{log: log, accounts: accounts, maxBodyBytes: maxBodyBytes}, nil
}

// Register wires user routes onto r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Get("/{id}", h.handleGet)
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	obj, err := httpx.DecodeObject(w, r, h.maxBodyBytes)
	if err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}
	in, err := parseRegisterRequest(obj)
	if err != nil {
		httpx.WriteDecodeError(w, err)
		return
	}

	u, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		var ve identity.ValidationError
		switch {
		case errors.As(err, &ve):
			httpx.WriteError(w, http.StatusBadRequest, ve.Message)
		case identity.IsConflict(err):
			field, _ := identity.ConflictField(err)
			msg := msgLoginIDTaken
			if field == identity.FieldNickname {
				msg = msgNicknameTaken
			}
			httpx.WriteError(w, http.StatusConflict, msg)
		default:
			h.log.Error("users.register.fail", "err", err)
			httpx.WriteInternal(w)
		}
		return
	}

	h.log.Info("users.register.success", "user_id", u.ID)
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidUserID)
		return
	}

	u, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		switch {
		case identity.IsNotFound(err):
			httpx.WriteError(w, http.StatusNotFound, msgUserNotFound)
		case identity.IsInvalidInput(err):
			httpx.WriteError(w, http.StatusBadRequest, msgInvalidUserID)
		default:
			h.log.Error("users.get.fail", "err", err)
			httpx.WriteInternal(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserResponse(u))
}

func parseRegisterRequest(obj httpx.Object) (identity.RegisterInput, error) {
	if err := obj.Only("loginId", "name", "nickname", "password", "profileImageUrl"); err != nil {
		return identity.RegisterInput{}, err
	}

	var (
		in  identity.RegisterInput
		err error
	)
	if in.LoginID, err = obj.String("loginId"); err != nil {
		return identity.RegisterInput{}, err
	}
	if in.Name, err = obj.String("name"); err != nil {
		return identity.RegisterInput{}, err
	}
	if in.Nickname, err = obj.String("nickname"); err != nil {
		return identity.RegisterInput{}, err
	}
	if in.Password, err = obj.String("password"); err != nil {
		return identity.RegisterInput{}, err
	}
	if in.ProfileImageURL, err = obj.OptionalString("profileImageUrl"); err != nil {
		return identity.RegisterInput{}, err
	}
	return in, nil
}
