package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	CType  string
	ReqID  string
	Body   string
}

func newBackend(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
			CType:  r.Header.Get("Content-Type"),
			ReqID:  r.Header.Get("X-Request-ID"),
			Body:   string(raw),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestClientAttachesBearerAndJSONBody(t *testing.T) {
	srv, seen := newBackend(t, http.StatusOK, `{"success":true,"message":"ok","data":{"roleId":3,"name":"Editor"}}`)
	c := New(srv.URL+"/", nil, 0)

	resp, err := c.CreateRole(context.Background(), "tok-123", RoleInput{Name: "Editor", Description: "edits"})
	require.NoError(t, err)
	require.Len(t, *seen, 1)

	got := (*seen)[0]
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/v1/admin/roles", got.Path)
	assert.Equal(t, "Bearer tok-123", got.Auth)
	assert.Equal(t, "application/json", got.CType)
	assert.NotEmpty(t, got.ReqID)
	assert.JSONEq(t, `{"name":"Editor","description":"edits"}`, got.Body)

	assert.True(t, resp.Success)
	assert.True(t, resp.HasData)
	assert.Equal(t, int64(3), resp.Data.RoleID)
	assert.Equal(t, "Editor", resp.Data.Name)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	srv, seen := newBackend(t, http.StatusOK, `{"success":true,"data":[]}`)
	c := New(srv.URL, nil, 0)

	resp, err := c.Roles(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, (*seen)[0].Auth)
	assert.Empty(t, (*seen)[0].CType)
	assert.True(t, resp.HasData)
	assert.Empty(t, resp.Data)
}

func TestClientReturnsFailureEnvelopeVerbatim(t *testing.T) {
	srv, _ := newBackend(t, http.StatusBadRequest, `{"success":false,"message":"Validation failed","errors":[{"field":"email","message":"Email already registered"}]}`)
	c := New(srv.URL, nil, 0)

	resp, err := c.Register(context.Background(), RegisterRequest{Email: "john@example.com"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.False(t, resp.HasData)
	assert.Equal(t, "Validation failed", resp.Message)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, FieldError{Field: "email", Message: "Email already registered"}, resp.Errors[0])
}

func TestClient401IsUnauthenticatedForEveryVerb(t *testing.T) {
	srv, _ := newBackend(t, http.StatusUnauthorized, `{"success":false,"message":"Token expired"}`)
	c := New(srv.URL, nil, 0)
	ctx := context.Background()

	calls := map[string]func() error{
		"get":    func() error { _, err := c.Get(ctx, "t", "/api/v1/profile"); return err },
		"post":   func() error { _, err := c.Post(ctx, "t", "/api/v1/admin/roles", RoleInput{}); return err },
		"put":    func() error { _, err := c.Put(ctx, "t", "/api/v1/profile", ProfileUpdate{}); return err },
		"delete": func() error { _, err := c.Delete(ctx, "t", "/api/v1/admin/users/4"); return err },
	}
	for name, fn := range calls {
		err := fn()
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrUnauthenticated), name)
		assert.False(t, errors.Is(err, ErrNetwork), name)

		var unauth *UnauthenticatedError
		require.True(t, errors.As(err, &unauth), name)
		assert.Equal(t, "Token expired", unauth.Message)
	}
}

func TestClientTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base, nil, 0)
	_, err := c.Profile(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.False(t, errors.Is(err, ErrUnauthenticated))
}

func TestClientNonJSONBodyIsNetworkError(t *testing.T) {
	srv, _ := newBackend(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	c := New(srv.URL, nil, 0)

	_, err := c.Users(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusBadGateway, netErr.Status)
}

func TestDecodeNullDataHasNoData(t *testing.T) {
	resp, err := Decode[json.RawMessage](&Envelope{Success: true, Data: json.RawMessage("null")})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.HasData)
}

func TestDeleteUserPath(t *testing.T) {
	srv, seen := newBackend(t, http.StatusOK, `{"success":true,"message":"User deleted"}`)
	c := New(srv.URL, nil, 0)

	resp, err := c.DeleteUser(context.Background(), "tok", 42)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, http.MethodDelete, (*seen)[0].Method)
	assert.Equal(t, "/api/v1/admin/users/42", (*seen)[0].Path)
}
