package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/openoffice/openoffice-api/internal/auth"
	"github.com/openoffice/openoffice-api/internal/shared"
	"github.com/openoffice/openoffice-api/internal/token"
	_ "github.com/openoffice/openoffice-api/testing"
)

type stubRepo struct {
	user          *auth.User
	defaultRoleID int64
	created       []string
	updatedHashes map[int64]string
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, shared.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s *stubRepo) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	return s.user != nil && (s.user.Username == username || s.user.Email == email), nil
}

func (s *stubRepo) DefaultRoleID(ctx context.Context) (int64, error) {
	return s.defaultRoleID, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, username, email, passwordHash string, roleID int64) error {
	s.created = append(s.created, username)
	return nil
}

func (s *stubRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	if s.updatedHashes == nil {
		s.updatedHashes = make(map[int64]string)
	}
	s.updatedHashes[userID] = passwordHash
	return nil
}

type recordingDispatcher struct {
	emails []string
	tokens []string
}

func (d *recordingDispatcher) DispatchPasswordReset(ctx context.Context, email, resetToken string) error {
	d.emails = append(d.emails, email)
	d.tokens = append(d.tokens, resetToken)
	return nil
}

type fixture struct {
	handler    *auth.Handler
	repo       *stubRepo
	codec      *token.Codec
	dispatcher *recordingDispatcher
}

func newFixture(t *testing.T, repo *stubRepo) *fixture {
	t.Helper()
	codec, err := token.NewCodec(token.Config{
		Secret:   "test-secret",
		Issuer:   "http://api.openoffice.local",
		Audience: "http://api.openoffice.local",
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	resets := auth.NewRedisResetStore(redisClient)

	dispatcher := &recordingDispatcher{}
	service := auth.NewService(nil, repo, codec, resets, dispatcher, 15*time.Minute)
	return &fixture{
		handler:    auth.NewHandler(nil, service),
		repo:       repo,
		codec:      codec,
		dispatcher: dispatcher,
	}
}

func knownUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           7,
		Username:     "jdoe",
		Email:        "jdoe@openoffice.local",
		PasswordHash: string(hash),
		RoleID:       3,
		RoleName:     "employee",
	}
}

func doJSON(handler http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler(res, req)
	return res
}

func envelope(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	return out
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(t, &stubRepo{user: knownUser(t, "correct-horse")})

	res := doJSON(f.handler.Login, http.MethodPost, "/auth/login",
		`{"username":"jdoe","password":"correct-horse"}`)

	require.Equal(t, http.StatusOK, res.Code)
	data := envelope(t, res)["data"].(map[string]any)
	signed, _ := data["token"].(string)
	require.NotEmpty(t, signed)

	claims, err := f.codec.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "employee", claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t, &stubRepo{user: knownUser(t, "correct-horse")})

	res := doJSON(f.handler.Login, http.MethodPost, "/auth/login",
		`{"username":"jdoe","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid credentials.", envelope(t, res)["message"])
}

func TestLoginUnknownUser(t *testing.T) {
	f := newFixture(t, &stubRepo{})

	res := doJSON(f.handler.Login, http.MethodPost, "/auth/login",
		`{"username":"ghost","password":"whatever"}`)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid credentials.", envelope(t, res)["message"])
}

func TestLoginMissingFields(t *testing.T) {
	f := newFixture(t, &stubRepo{})

	res := doJSON(f.handler.Login, http.MethodPost, "/auth/login", `{"username":"jdoe"}`)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Username and password are required.", envelope(t, res)["message"])
}

func TestRegisterSuccess(t *testing.T) {
	repo := &stubRepo{defaultRoleID: 3}
	f := newFixture(t, repo)

	res := doJSON(f.handler.Register, http.MethodPost, "/auth/register",
		`{"username":"newbie","email":"newbie@openoffice.local","password":"password123"}`)

	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "User registered successfully.", envelope(t, res)["message"])
	assert.Equal(t, []string{"newbie"}, repo.created)
}

func TestRegisterDuplicate(t *testing.T) {
	f := newFixture(t, &stubRepo{user: knownUser(t, "x"), defaultRoleID: 3})

	res := doJSON(f.handler.Register, http.MethodPost, "/auth/register",
		`{"username":"jdoe","email":"fresh@openoffice.local","password":"password123"}`)

	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "Username or email already exists.", envelope(t, res)["message"])
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t, &stubRepo{defaultRoleID: 3})

	res := doJSON(f.handler.Register, http.MethodPost, "/auth/register",
		`{"username":"newbie","email":"not-an-email","password":"password123"}`)

	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, &stubRepo{})

	res := doJSON(f.handler.Logout, http.MethodPost, "/auth/logout", ``)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Logout successful. Please discard your token.", envelope(t, res)["message"])
}

func TestForgotPasswordDoesNotLeakAccountExistence(t *testing.T) {
	f := newFixture(t, &stubRepo{user: knownUser(t, "x")})

	known := doJSON(f.handler.ForgotPassword, http.MethodPost, "/auth/forgot-password",
		`{"email":"jdoe@openoffice.local"}`)
	unknown := doJSON(f.handler.ForgotPassword, http.MethodPost, "/auth/forgot-password",
		`{"email":"ghost@openoffice.local"}`)

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, envelope(t, known)["message"], envelope(t, unknown)["message"])
	assert.Equal(t, []string{"jdoe@openoffice.local"}, f.dispatcher.emails)
}

func TestResetPasswordFlow(t *testing.T) {
	repo := &stubRepo{user: knownUser(t, "old-password")}
	f := newFixture(t, repo)

	res := doJSON(f.handler.ForgotPassword, http.MethodPost, "/auth/forgot-password",
		`{"email":"jdoe@openoffice.local"}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, f.dispatcher.tokens, 1)
	resetToken := f.dispatcher.tokens[0]

	body := `{"token":"` + resetToken + `","password":"brand-new-pass"}`
	res = doJSON(f.handler.ResetPassword, http.MethodPost, "/auth/reset-password", body)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Password has been reset successfully.", envelope(t, res)["message"])

	newHash, ok := repo.updatedHashes[7]
	require.True(t, ok)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("brand-new-pass")))

	// The jti is burned; the same token must not work twice.
	res = doJSON(f.handler.ResetPassword, http.MethodPost, "/auth/reset-password", body)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid or expired reset token.", envelope(t, res)["message"])
}

func TestResetPasswordRejectsAccessToken(t *testing.T) {
	f := newFixture(t, &stubRepo{user: knownUser(t, "x")})

	signed, err := f.codec.Issue(7, "jdoe", "employee")
	require.NoError(t, err)

	res := doJSON(f.handler.ResetPassword, http.MethodPost, "/auth/reset-password",
		`{"token":"`+signed+`","password":"brand-new-pass"}`)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
