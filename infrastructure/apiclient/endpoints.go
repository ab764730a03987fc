package apiclient

import (
	"context"
	"encoding/json"
	"fmt"

	"userhub/models"
)

// Response is an envelope with data decoded into T.
type Response[T any] struct {
	Success bool
	Message string
	Data    T
	HasData bool
	Errors  []FieldError
}

// Decode converts env into a typed Response. A data payload that does not fit T is reported as ErrNetwork.
func Decode[T any](env *Envelope) (Response[T], error) {
	var out Response[T]
	if env == nil {
		return out, &NetworkError{Err: fmt.Errorf("empty envelope")}
	}
	out.Success = env.Success
	out.Message = env.Message
	out.Errors = env.Errors
	if env.HasData() {
		if err := json.Unmarshal(env.Data, &out.Data); err != nil {
			return out, &NetworkError{Err: fmt.Errorf("decode data: %w", err)}
		}
		out.HasData = true
	}
	return out, nil
}

func call[T any](env *Envelope, err error) (Response[T], error) {
	if err != nil {
		return Response[T]{}, err
	}
	return Decode[T](env)
}

// LoginRequest is the body of POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/v1/auth/register.
type RegisterRequest struct {
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword"`
	PhoneNumber     string   `json:"phoneNumber"`
	Country         string   `json:"country"`
	Roles           []string `json:"roles"`
}

// ProfileUpdate is the body of PUT /api/v1/profile.
type ProfileUpdate struct {
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Country     string   `json:"country"`
	Roles       []string `json:"roles"`
}

// PasswordChange is the body of PUT /api/v1/profile/change-password.
type PasswordChange struct {
	CurrentPassword    string `json:"currentPassword"`
	NewPassword        string `json:"newPassword"`
	ConfirmNewPassword string `json:"confirmNewPassword"`
}

// RoleInput is the body of role create/update.
type RoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (Response[models.LoginResult], error) {
	return call[models.LoginResult](c.Post(ctx, "", "/api/v1/auth/login", req))
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (Response[json.RawMessage], error) {
	return call[json.RawMessage](c.Post(ctx, "", "/api/v1/auth/register", req))
}

func (c *Client) Profile(ctx context.Context, token string) (Response[models.User], error) {
	return call[models.User](c.Get(ctx, token, "/api/v1/profile"))
}

func (c *Client) UpdateProfile(ctx context.Context, token string, req ProfileUpdate) (Response[models.User], error) {
	return call[models.User](c.Put(ctx, token, "/api/v1/profile", req))
}

func (c *Client) ChangePassword(ctx context.Context, token string, req PasswordChange) (Response[json.RawMessage], error) {
	return call[json.RawMessage](c.Put(ctx, token, "/api/v1/profile/change-password", req))
}

// Roles lists roles; the endpoint is public so token may be empty.
func (c *Client) Roles(ctx context.Context, token string) (Response[[]models.Role], error) {
	return call[[]models.Role](c.Get(ctx, token, "/api/v1/roles"))
}

func (c *Client) Users(ctx context.Context, token string) (Response[[]models.User], error) {
	return call[[]models.User](c.Get(ctx, token, "/api/v1/admin/users"))
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) (Response[json.RawMessage], error) {
	return call[json.RawMessage](c.Delete(ctx, token, fmt.Sprintf("/api/v1/admin/users/%d", id)))
}

func (c *Client) CreateRole(ctx context.Context, token string, req RoleInput) (Response[models.Role], error) {
	return call[models.Role](c.Post(ctx, token, "/api/v1/admin/roles", req))
}

func (c *Client) UpdateRole(ctx context.Context, token string, id int64, req RoleInput) (Response[models.Role], error) {
	return call[models.Role](c.Put(ctx, token, fmt.Sprintf("/api/v1/admin/roles/%d", id), req))
}

func (c *Client) DeleteRole(ctx context.Context, token string, id int64) (Response[json.RawMessage], error) {
	return call[json.RawMessage](c.Delete(ctx, token, fmt.Sprintf("/api/v1/admin/roles/%d", id)))
}
