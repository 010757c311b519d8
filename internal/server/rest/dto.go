package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/userapp/internal/server/models"
	"github.com/dmitrijs2005/userapp/internal/server/services"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type userResponse struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	UserName          string    `json:"username"`
	Password          string    `json:"password"`
	IsAdmin           bool      `json:"is_admin"`
	CreationTimestamp time.Time `json:"creation_timestamp"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:                u.ID,
		Email:             u.Email,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		UserName:          u.UserName,
		Password:          u.Password,
		IsAdmin:           u.IsAdmin,
		CreationTimestamp: u.CreatedAt,
	}
}

type sessionResponse struct {
	ID                int64     `json:"id"`
	UserName          string    `json:"username"`
	APIKey            string    `json:"apikey"`
	CreationTimestamp time.Time `json:"creation_timestamp"`
}

func newSessionResponse(s *models.Session) sessionResponse {
	return sessionResponse{
		ID:                s.ID,
		UserName:          s.UserName,
		APIKey:            s.APIKey,
		CreationTimestamp: s.CreatedAt,
	}
}

// userRequest uses pointers so an absent key can be told apart from a
// zero value. Every key is required.
type userRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	UserName  *string `json:"username"`
	Password  *string `json:"password"`
	IsAdmin   *bool   `json:"is_admin"`
}

func (r *userRequest) toInput() (services.UserInput, error) {
	switch {
	case r.Email == nil:
		return services.UserInput{}, missingField("email")
	case r.FirstName == nil:
		return services.UserInput{}, missingField("first_name")
	case r.LastName == nil:
		return services.UserInput{}, missingField("last_name")
	case r.UserName == nil:
		return services.UserInput{}, missingField("username")
	case r.Password == nil:
		return services.UserInput{}, missingField("password")
	case r.IsAdmin == nil:
		return services.UserInput{}, missingField("is_admin")
	}
	return services.UserInput{
		Email:     *r.Email,
		FirstName: *r.FirstName,
		LastName:  *r.LastName,
		UserName:  *r.UserName,
		Password:  *r.Password,
		IsAdmin:   *r.IsAdmin,
	}, nil
}

type loginRequest struct {
	UserName *string `json:"username"`
	Password *string `json:"password"`
}

func (r *loginRequest) validate() error {
	switch {
	case r.UserName == nil:
		return missingField("username")
	case r.Password == nil:
		return missingField("password")
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: missing field %q", errBadRequest, name)
}

func decodeJSON(body io.Reader, dst any) error {
	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}
