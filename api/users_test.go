package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userJSON = `{"id":"u1","username":"alice","email":"alice@example.com","first_name":"Alice","last_name":"Smith"}`

func TestLogin(t *testing.T) {
	var got capturedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = capturedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone(), Body: body}

		w.Header().Set("Token", "session-token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userJSON))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.Users().Login(context.Background(), LoginOptions{
		LoginID:  String("alice"),
		Password: String("hunter2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "session-token", result.Token)
	assert.Equal(t, "alice", result.User.Username)

	expectCall(t, got, http.MethodPost, "/api/v4/users/login")
	assert.JSONEq(t, `{"login_id":"alice","password":"hunter2"}`, string(got.Body))
}

func TestLoginWithCWSToken(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, userJSON)

	resp, err := srv.client().Users().LoginWithCWSToken(context.Background(), String("alice"), String("cws"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	got := srv.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/users/login/cws")
	assert.JSONEq(t, `{"login_id":"alice","cws_token":"cws"}`, string(got.Body))
}

func TestLogout(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `{"status":"OK"}`)

	status, err := srv.client().Users().Logout(context.Background())
	require.NoError(t, err)
	assert.True(t, status.OK())
	expectCall(t, srv.last(t), http.MethodPost, "/api/v4/users/logout")
}

func TestCreateUser(t *testing.T) {
	srv := newCaptureServer(t, http.StatusCreated, userJSON)

	_, err := srv.client().Users().Create(context.Background(), CreateUserOptions{
		Email:       "alice@example.com",
		Username:    "alice",
		Password:    String("s3cret!"),
		InviteToken: String("tok1"),
	})
	require.NoError(t, err)

	got := srv.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/users")
	assert.Equal(t, "tok1", got.Query.Get("t"))
	assert.False(t, got.Query.Has("iid"))
	assert.Equal(t, map[string]any{
		"email":    "alice@example.com",
		"username": "alice",
		"password": "s3cret!",
	}, got.JSONBody(t))
}

func TestListUsers(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `[`+userJSON+`]`)

	users, err := srv.client().Users().List(context.Background(), ListUsersOptions{
		InTeam: String("team1"),
		Active: Bool(true),
		Roles:  []string{"system_admin", "system_user"},
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice Smith", users[0].FullName())

	got := srv.last(t)
	expectCall(t, got, http.MethodGet, "/api/v4/users")
	assert.Empty(t, got.Body)
	assert.Equal(t, "team1", got.Query.Get("in_team"))
	assert.Equal(t, "true", got.Query.Get("active"))
	assert.Equal(t, "system_admin,system_user", got.Query.Get("roles"))
	assert.Len(t, got.Query, 3)
}

func TestPermanentDeleteAllUsers(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `{"status":"OK"}`)

	_, err := srv.client().Users().PermanentDeleteAll(context.Background())
	require.NoError(t, err)
	expectCall(t, srv.last(t), http.MethodDelete, "/api/v4/users")
}

func TestGetUsersByIDs(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `[`+userJSON+`]`)
	users := srv.client().Users()

	_, err := users.GetByIDs(context.Background(), []string{"u1", "u2"}, Int64(1700000000000))
	require.NoError(t, err)
	got := srv.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/users/ids")
	assert.JSONEq(t, `["u1","u2"]`, string(got.Body))
	assert.Equal(t, "1700000000000", got.Query.Get("since"))

	_, err = users.GetByIDs(context.Background(), nil, nil)
	require.NoError(t, err)
	got = srv.last(t)
	assert.JSONEq(t, `[]`, string(got.Body))
	assert.Empty(t, got.Query)
}

func TestGetUsersByUsernamesAndGroupChannels(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `[`+userJSON+`]`)
	users := srv.client().Users()

	list, err := users.GetByUsernames(context.Background(), []string{"alice"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	got := srv.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/users/usernames")
	assert.JSONEq(t, `["alice"]`, string(got.Body))

	groups := newCaptureServer(t, http.StatusOK, `{"gc1":[`+userJSON+`]}`)
	byChannel, err := groups.client().Users().GetByGroupChannelIDs(context.Background(), []string{"gc1"})
	require.NoError(t, err)
	require.Len(t, byChannel["gc1"], 1)
	got = groups.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/users/group_channels")
	assert.JSONEq(t, `["gc1"]`, string(got.Body))
}

func TestSearchUsers(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `[]`)

	_, err := srv.client().Users().Search(context.Background(), "ali", SearchUsersOptions{
		TeamID:        String("team1"),
		AllowInactive: Bool(false),
	})
	require.NoError(t, err)

	got := srv.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/users/search")
	assert.JSONEq(t, `{"term":"ali","team_id":"team1","allow_inactive":false}`, string(got.Body))
}

func TestAutocompleteUsers(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `{"users":[`+userJSON+`],"out_of_channel":[]}`)

	result, err := srv.client().Users().Autocomplete(context.Background(), "al", AutocompleteOptions{Limit: Int(5)})
	require.NoError(t, err)
	assert.Len(t, result.Users, 1)

	got := srv.last(t)
	expectCall(t, got, http.MethodGet, "/api/v4/users/autocomplete")
	assert.Equal(t, "al", got.Query.Get("name"))
	assert.Equal(t, "5", got.Query.Get("limit"))
	assert.False(t, got.Query.Has("team_id"))
}

func TestUserStats(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `{"total_users_count":42}`)
	users := srv.client().Users()

	stats, err := users.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalUsersCount)
	expectCall(t, srv.last(t), http.MethodGet, "/api/v4/users/stats")

	_, err = users.FilteredStats(context.Background(), FilteredStatsOptions{IncludeBots: Bool(true), TeamRoles: []string{"team_admin"}})
	require.NoError(t, err)
	got := srv.last(t)
	expectCall(t, got, http.MethodGet, "/api/v4/users/stats/filtered")
	assert.Equal(t, "true", got.Query.Get("include_bots"))
	assert.Equal(t, "team_admin", got.Query.Get("team_roles"))
	assert.Len(t, got.Query, 2)
}

func TestKnownUserIDs(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `["u1","u2"]`)

	ids, err := srv.client().Users().KnownIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, ids)
	expectCall(t, srv.last(t), http.MethodGet, "/api/v4/users/known")
}

func TestGetUserLookups(t *testing.T) {
	tests := []struct {
		name string
		call func(UsersService) (*User, error)
		path string
	}{
		{"by id", func(s UsersService) (*User, error) { return s.Get(context.Background(), "u1") }, "/api/v4/users/u1"},
		{"me", func(s UsersService) (*User, error) { return s.Get(context.Background(), "me") }, "/api/v4/users/me"},
		{"by username", func(s UsersService) (*User, error) { return s.GetByUsername(context.Background(), "alice") }, "/api/v4/users/username/alice"},
		{"by email", func(s UsersService) (*User, error) {
			return s.GetByEmail(context.Background(), "alice@example.com")
		}, "/api/v4/users/email/alice@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCaptureServer(t, http.StatusOK, userJSON)

			user, err := tt.call(srv.client().Users())
			require.NoError(t, err)
			assert.Equal(t, "u1", user.ID)
			expectCall(t, srv.last(t), http.MethodGet, tt.path)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, userJSON)

	_, err := srv.client().Users().Update(context.Background(), "u1", UserUpdate{
		Email:    "alice@example.com",
		Username: "alice",
		Nickname: String("Al"),
	})
	require.NoError(t, err)

	got := srv.last(t)
	expectCall(t, got, http.MethodPut, "/api/v4/users/u1")
	assert.JSONEq(t, `{"id":"u1","email":"alice@example.com","username":"alice","nickname":"Al"}`, string(got.Body))
}

func TestPatchUser(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, userJSON)

	_, err := srv.client().Users().Patch(context.Background(), "u1", UserPatch{Position: String("Engineer")})
	require.NoError(t, err)

	got := srv.last(t)
	expectCall(t, got, http.MethodPut, "/api/v4/users/u1/patch")
	assert.JSONEq(t, `{"position":"Engineer"}`, string(got.Body))
}

func TestUserStatusEndpoints(t *testing.T) {
	tests := []struct {
		name   string
		call   func(UsersService) (*StatusOK, error)
		method string
		path   string
		body   string
	}{
		{
			name:   "deactivate",
			call:   func(s UsersService) (*StatusOK, error) { return s.Deactivate(context.Background(), "u1") },
			method: http.MethodDelete,
			path:   "/api/v4/users/u1",
		},
		{
			name:   "roles",
			call:   func(s UsersService) (*StatusOK, error) { return s.UpdateRoles(context.Background(), "u1", "system_user") },
			method: http.MethodPut,
			path:   "/api/v4/users/u1/roles",
			body:   `{"roles":"system_user"}`,
		},
		{
			name:   "active",
			call:   func(s UsersService) (*StatusOK, error) { return s.UpdateActive(context.Background(), "u1", false) },
			method: http.MethodPut,
			path:   "/api/v4/users/u1/active",
			body:   `{"active":false}`,
		},
		{
			name:   "delete profile image",
			call:   func(s UsersService) (*StatusOK, error) { return s.DeleteProfileImage(context.Background(), "u1") },
			method: http.MethodDelete,
			path:   "/api/v4/users/u1/image",
		},
		{
			name: "update password",
			call: func(s UsersService) (*StatusOK, error) {
				return s.UpdatePassword(context.Background(), "u1", "new-pass", String("old-pass"))
			},
			method: http.MethodPut,
			path:   "/api/v4/users/u1/password",
			body:   `{"new_password":"new-pass","current_password":"old-pass"}`,
		},
		{
			name: "update password as admin",
			call: func(s UsersService) (*StatusOK, error) {
				return s.UpdatePassword(context.Background(), "u1", "new-pass", nil)
			},
			method: http.MethodPut,
			path:   "/api/v4/users/u1/password",
			body:   `{"new_password":"new-pass"}`,
		},
		{
			name:   "activate mfa",
			call:   func(s UsersService) (*StatusOK, error) { return s.UpdateMFA(context.Background(), "u1", true, String("123456")) },
			method: http.MethodPut,
			path:   "/api/v4/users/u1/mfa",
			body:   `{"activate":true,"code":"123456"}`,
		},
		{
			name:   "demote",
			call:   func(s UsersService) (*StatusOK, error) { return s.DemoteToGuest(context.Background(), "u1") },
			method: http.MethodPost,
			path:   "/api/v4/users/u1/demote",
		},
		{
			name:   "promote",
			call:   func(s UsersService) (*StatusOK, error) { return s.PromoteGuest(context.Background(), "u1") },
			method: http.MethodPost,
			path:   "/api/v4/users/u1/promote",
		},
		{
			name:   "revoke session",
			call:   func(s UsersService) (*StatusOK, error) { return s.RevokeSession(context.Background(), "u1", "s1") },
			method: http.MethodPost,
			path:   "/api/v4/users/u1/sessions/revoke",
			body:   `{"session_id":"s1"}`,
		},
		{
			name:   "revoke all sessions",
			call:   func(s UsersService) (*StatusOK, error) { return s.RevokeAllSessions(context.Background(), "u1") },
			method: http.MethodPost,
			path:   "/api/v4/users/u1/sessions/revoke/all",
		},
		{
			name:   "attach device",
			call:   func(s UsersService) (*StatusOK, error) { return s.AttachDevice(context.Background(), "android:abc") },
			method: http.MethodPut,
			path:   "/api/v4/users/sessions/device",
			body:   `{"device_id":"android:abc"}`,
		},
		{
			name:   "reset password",
			call:   func(s UsersService) (*StatusOK, error) { return s.ResetPassword(context.Background(), "code1", "pw") },
			method: http.MethodPost,
			path:   "/api/v4/users/password/reset",
			body:   `{"code":"code1","new_password":"pw"}`,
		},
		{
			name: "send reset email",
			call: func(s UsersService) (*StatusOK, error) {
				return s.SendPasswordResetEmail(context.Background(), "alice@example.com")
			},
			method: http.MethodPost,
			path:   "/api/v4/users/password/reset/send",
			body:   `{"email":"alice@example.com"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newCaptureServer(t, http.StatusOK, `{"status":"OK"}`)

			status, err := tt.call(srv.client().Users())
			require.NoError(t, err)
			assert.True(t, status.OK())

			got := srv.last(t)
			expectCall(t, got, tt.method, tt.path)
			if tt.body == "" {
				assert.Empty(t, got.Body)
				return
			}
			assert.JSONEq(t, tt.body, string(got.Body))
		})
	}
}

func TestProfileImage(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, "\x89PNG")
	users := srv.client().Users()

	img, err := users.GetProfileImage(context.Background(), "u1", String("1700000000"))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), img)
	got := srv.last(t)
	expectCall(t, got, http.MethodGet, "/api/v4/users/u1/image")
	assert.Equal(t, "1700000000", got.Query.Get("_"))

	_, err = users.GetDefaultProfileImage(context.Background(), "u1")
	require.NoError(t, err)
	expectCall(t, srv.last(t), http.MethodGet, "/api/v4/users/u1/image/default")
}

func TestSetProfileImage(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `{"status":"OK"}`)
	imagePath := filepath.Join(t.TempDir(), "me.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("jpeg"), 0o600))

	_, err := srv.client().Users().SetProfileImage(context.Background(), "u1", imagePath)
	require.NoError(t, err)

	got := srv.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/users/u1/image")
	form := got.MultipartForm(t)
	require.Len(t, form.File["image"], 1)
	assert.Equal(t, "me.jpg", form.File["image"][0].Filename)
}

func TestMFAEndpoints(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `{"secret":"ABC","qr_code":"data"}`)
	users := srv.client().Users()

	secret, err := users.GenerateMFASecret(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "ABC", secret.Secret)
	expectCall(t, srv.last(t), http.MethodPost, "/api/v4/users/u1/mfa/generate")

	check := newCaptureServer(t, http.StatusOK, `{"mfa_required":true}`)
	req, err := check.client().Users().CheckMFA(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, req.MFARequired)
	got := check.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/users/mfa")
	assert.JSONEq(t, `{"login_id":"alice"}`, string(got.Body))
}

func TestConvertToBot(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `{"user_id":"u1","username":"alice","owner_id":"admin"}`)

	bot, err := srv.client().Users().ConvertToBot(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", bot.OwnerID)
	expectCall(t, srv.last(t), http.MethodPost, "/api/v4/users/u1/convert_to_bot")
}

func TestSessionsAndAudits(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `[{"id":"s1","user_id":"u1"}]`)
	users := srv.client().Users()

	sessions, err := users.GetSessions(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)
	expectCall(t, srv.last(t), http.MethodGet, "/api/v4/users/u1/sessions")

	audits, err := users.GetAudits(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, audits, 1)
	expectCall(t, srv.last(t), http.MethodGet, "/api/v4/users/u1/audits")
}

func TestLogin_Unauthorized(t *testing.T) {
	srv := newCaptureServer(t, http.StatusUnauthorized, `{"id":"api.user.login.invalid_credentials_email_username","message":"Enter a valid email or username and/or password."}`)

	result, err := srv.client().Users().Login(context.Background(), LoginOptions{LoginID: String("alice"), Password: String("wrong")})
	assert.Nil(t, result)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, ErrUnauthorized, ErrorCodeFromError(err))
}
