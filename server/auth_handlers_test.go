package server

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/services"
)

func testIdentity() domain.Identity {
	return domain.Identity{UserID: "user-uuid", DisplayName: "Alice", Email: "alice@example.com"}
}

func newAuthTestServer(t *testing.T, repo *mocks.MockIUserRepository) (*httptest.Server, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	handler := NewAuthHandler(slog.Default(), services.NewAuthService(repo, tokens), tokens)

	router := NewRouter(handler,
		NewWSHandler(slog.Default(), nil, 1),
		NewSearchHandler(slog.Default(), nil))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, tokens
}

func TestAuthHandler_Register(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockIUserRepository(ctrl)
	repo.EXPECT().
		CreateUser("Alice", "alice@example.com", gomock.Any()).
		Return("user-uuid", nil).
		Times(1)

	srv, _ := newAuthTestServer(t, repo)

	body := `{"name":"Alice","email":"alice@example.com","password":"ComplexPass123!"}`
	resp, err := http.Post(srv.URL+"/auth/register", "application/json", strings.NewReader(body))
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusCreated, resp.StatusCode)
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockIUserRepository(ctrl)
	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", errors.ErrUserAlreadyExists).
		Times(1)

	srv, _ := newAuthTestServer(t, repo)

	body := `{"name":"Alice","email":"alice@example.com","password":"ComplexPass123!"}`
	resp, err := http.Post(srv.URL+"/auth/register", "application/json", strings.NewReader(body))
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusConflict, resp.StatusCode)
}

func TestAuthHandler_Me(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockIUserRepository(ctrl)
	srv, tokens := newAuthTestServer(t, repo)

	token, err := tokens.Generate(testIdentity())
	req.NoError(err)

	request, err := http.NewRequest(http.MethodGet, srv.URL+"/auth/me", nil)
	req.NoError(err)
	request.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(request)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	// And without a token the endpoint refuses
	resp2, err := http.Get(srv.URL + "/auth/me")
	req.NoError(err)
	defer resp2.Body.Close()
	req.Equal(http.StatusUnauthorized, resp2.StatusCode)
}
