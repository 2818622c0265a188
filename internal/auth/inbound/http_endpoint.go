package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgerror"
)

type HTTPEndpoint struct {
	uc uc
}

// TokenResponse matches what API clients expect from a login.
type TokenResponse struct {
	Access string `json:"access"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token handles POST /token/. Credentials are accepted as JSON or as a
// classic urlencoded form.
func (h *HTTPEndpoint) Token(ctx context.Context, r *http.Request) (any, error) {
	creds, err := extractCredentials(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		return nil, err
	}

	return TokenResponse{Access: result.Access}, nil
}

func extractCredentials(r *http.Request) (credentials, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if strings.EqualFold(mediaType, "application/json") {
		var creds credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			return credentials{}, pkgerror.NewInvalidFormat(err)
		}
		return creds, nil
	}

	if err := r.ParseForm(); err != nil {
		return credentials{}, pkgerror.NewInvalidFormat(err)
	}
	if len(r.PostForm) == 0 {
		return credentials{}, pkgerror.NewValidation(errors.New("credentials are required"))
	}

	return credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}, nil
}
