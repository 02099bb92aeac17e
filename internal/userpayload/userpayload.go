package userpayload

import (
	"net/http"

	"github.com/SergeyParamoshkin/blog/internal/model"
)

// UserPayload is how a user appears inside article responses.
type UserPayload struct {
	*model.User
	Role string `json:"role"`
}

func NewUserPayloadResponse(user *model.User) *UserPayload {
	return &UserPayload{User: user}
}

func (u *UserPayload) Render(w http.ResponseWriter, r *http.Request) error {
	u.Role = "author"

	return nil
}
