package api

import (
	"context"
	"net/http"
)

// LoginOptions are the credentials for Login. Only set fields are sent.
type LoginOptions struct {
	ID       *string
	LoginID  *string
	Token    *string
	DeviceID *string
	LDAPOnly *bool
	Password *string
}

// CreateUserOptions describes a new account. Email and Username are required.
type CreateUserOptions struct {
	Email       string
	Username    string
	Password    *string
	FirstName   *string
	LastName    *string
	Nickname    *string
	AuthData    *string
	AuthService *string
	Locale      *string
	Props       map[string]string
	NotifyProps map[string]string

	// InviteToken ("t") and InviteID ("iid") let the new user join a team.
	InviteToken *string
	InviteID    *string
}

// ListUsersOptions filters and pages user listings.
type ListUsersOptions struct {
	Page             *int
	PerPage          *int
	InTeam           *string
	NotInTeam        *string
	InChannel        *string
	NotInChannel     *string
	InGroup          *string
	GroupConstrained *bool
	WithoutTeam      *bool
	Active           *bool
	Inactive         *bool
	Role             *string
	Sort             *string
	Roles            []string
	ChannelRoles     []string
	TeamRoles        []string
}

// SearchUsersOptions narrows a user search.
type SearchUsersOptions struct {
	TeamID           *string
	NotInTeamID      *string
	InChannelID      *string
	NotInChannelID   *string
	InGroupID        *string
	GroupConstrained *bool
	AllowInactive    *bool
	WithoutTeam      *bool
	Limit            *int
}

// AutocompleteOptions scopes an autocomplete lookup.
type AutocompleteOptions struct {
	TeamID    *string
	ChannelID *string
	Limit     *int
}

// FilteredStatsOptions filters the user count.
type FilteredStatsOptions struct {
	InTeam         *string
	InChannel      *string
	IncludeDeleted *bool
	IncludeBots    *bool
	Roles          []string
	ChannelRoles   []string
	TeamRoles      []string
}

// UserUpdate replaces a user's profile. Email and Username are required.
type UserUpdate struct {
	Email       string
	Username    string
	FirstName   *string
	LastName    *string
	Nickname    *string
	Locale      *string
	Position    *string
	Timezone    map[string]string
	Props       map[string]string
	NotifyProps map[string]string
}

// UserPatch holds the profile fields to change. Nil fields are left
// unchanged on the server.
type UserPatch struct {
	Email       *string
	Username    *string
	FirstName   *string
	LastName    *string
	Nickname    *string
	Locale      *string
	Position    *string
	Props       map[string]string
	NotifyProps map[string]string
}

func userPath(format, userID string) (string, error) {
	return resourcePath(format, "user ID", userID)
}

func (s UsersService) getUser(ctx context.Context, path string) (*User, error) {
	return fetchUser(ctx, s, path)
}

func fetchUser(ctx context.Context, r Requester, path string) (*User, error) {
	var user User
	if err := doJSON(ctx, r, NewRequest(http.MethodGet, r.apiPath(path)), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func userStatus(ctx context.Context, r Requester, method, format, userID string, stage func(*Request)) (*StatusOK, error) {
	path, err := userPath(format, userID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(method, r.apiPath(path))
	if stage != nil {
		stage(req)
	}
	return doStatus(ctx, r, req)
}

// Login authenticates with credentials and returns the user together with
// the session token from the Token response header.
func (s UsersService) Login(ctx context.Context, opts LoginOptions) (*LoginResult, error) {
	return login(ctx, s, opts)
}

func login(ctx context.Context, r Requester, opts LoginOptions) (*LoginResult, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/users/login")).JSON()
	setIf(req, "id", opts.ID)
	setIf(req, "login_id", opts.LoginID)
	setIf(req, "token", opts.Token)
	setIf(req, "device_id", opts.DeviceID)
	setIf(req, "ldap_only", opts.LDAPOnly)
	setIf(req, "password", opts.Password)

	resp, err := r.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var user User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &LoginResult{User: &user, Token: resp.Header.Get("Token")}, nil
}

// LoginWithCWSToken logs in with a Customer Web Server token.
// Requires server 7.0 or later.
func (s UsersService) LoginWithCWSToken(ctx context.Context, loginID, cwsToken *string) (*Response, error) {
	return loginCWS(ctx, s, loginID, cwsToken)
}

func loginCWS(ctx context.Context, r Requester, loginID, cwsToken *string) (*Response, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/users/login/cws")).JSON()
	setIf(req, "login_id", loginID)
	setIf(req, "cws_token", cwsToken)
	return r.Do(ctx, req)
}

// Logout ends the current session.
func (s UsersService) Logout(ctx context.Context) (*StatusOK, error) {
	return doStatus(ctx, s, NewRequest(http.MethodPost, s.apiPath("/users/logout")))
}

// Create creates a user account.
func (s UsersService) Create(ctx context.Context, opts CreateUserOptions) (*User, error) {
	return createUser(ctx, s, opts)
}

func createUser(ctx context.Context, r Requester, opts CreateUserOptions) (*User, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/users")).JSON()
	req.Set("email", opts.Email)
	req.Set("username", opts.Username)
	setIf(req, "first_name", opts.FirstName)
	setIf(req, "last_name", opts.LastName)
	setIf(req, "nickname", opts.Nickname)
	setIf(req, "auth_data", opts.AuthData)
	setIf(req, "auth_service", opts.AuthService)
	setIf(req, "password", opts.Password)
	setIf(req, "locale", opts.Locale)
	setMapIf(req, "props", opts.Props)
	setMapIf(req, "notify_props", opts.NotifyProps)
	queryIf(req, "t", opts.InviteToken)
	queryIf(req, "iid", opts.InviteID)

	var user User
	if err := doJSON(ctx, r, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users matching opts.
func (s UsersService) List(ctx context.Context, opts ListUsersOptions) ([]User, error) {
	return listUsers(ctx, s, opts)
}

func listUsers(ctx context.Context, r Requester, opts ListUsersOptions) ([]User, error) {
	req := NewRequest(http.MethodGet, r.apiPath("/users"))
	setIf(req, "page", opts.Page)
	setIf(req, "per_page", opts.PerPage)
	setIf(req, "in_team", opts.InTeam)
	setIf(req, "not_in_team", opts.NotInTeam)
	setIf(req, "in_channel", opts.InChannel)
	setIf(req, "not_in_channel", opts.NotInChannel)
	setIf(req, "in_group", opts.InGroup)
	setIf(req, "group_constrained", opts.GroupConstrained)
	setIf(req, "without_team", opts.WithoutTeam)
	setIf(req, "active", opts.Active)
	setIf(req, "inactive", opts.Inactive)
	setIf(req, "role", opts.Role)
	setIf(req, "sort", opts.Sort)
	setSliceIf(req, "roles", opts.Roles)
	setSliceIf(req, "channel_roles", opts.ChannelRoles)
	setSliceIf(req, "team_roles", opts.TeamRoles)

	var users []User
	err := doJSON(ctx, r, req, &users)
	return users, err
}

// PermanentDeleteAll removes every user. The server must have
// ServiceSettings.EnableAPIUserDeletion set.
func (s UsersService) PermanentDeleteAll(ctx context.Context) (*StatusOK, error) {
	return doStatus(ctx, s, NewRequest(http.MethodDelete, s.apiPath("/users")))
}

// GetByIDs returns the users with the given IDs. When since is set, only
// users modified after that time (epoch ms) are returned.
func (s UsersService) GetByIDs(ctx context.Context, userIDs []string, since *int64) ([]User, error) {
	return getUsersByIDs(ctx, s, userIDs, since)
}

func getUsersByIDs(ctx context.Context, r Requester, userIDs []string, since *int64) ([]User, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/users/ids")).SetBody(nonNil(userIDs))
	queryIf(req, "since", since)

	var users []User
	err := doJSON(ctx, r, req, &users)
	return users, err
}

// GetByGroupChannelIDs returns the members of each group message channel,
// keyed by channel ID.
func (s UsersService) GetByGroupChannelIDs(ctx context.Context, channelIDs []string) (map[string][]User, error) {
	return getUsersByGroupChannelIDs(ctx, s, channelIDs)
}

func getUsersByGroupChannelIDs(ctx context.Context, r Requester, channelIDs []string) (map[string][]User, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/users/group_channels")).SetBody(nonNil(channelIDs))

	var users map[string][]User
	err := doJSON(ctx, r, req, &users)
	return users, err
}

// GetByUsernames returns the users with the given usernames.
func (s UsersService) GetByUsernames(ctx context.Context, usernames []string) ([]User, error) {
	return getUsersByUsernames(ctx, s, usernames)
}

func getUsersByUsernames(ctx context.Context, r Requester, usernames []string) ([]User, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/users/usernames")).SetBody(nonNil(usernames))

	var users []User
	err := doJSON(ctx, r, req, &users)
	return users, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Search finds users whose username, name, nickname or email match term.
func (s UsersService) Search(ctx context.Context, term string, opts SearchUsersOptions) ([]User, error) {
	return searchUsers(ctx, s, term, opts)
}

func searchUsers(ctx context.Context, r Requester, term string, opts SearchUsersOptions) ([]User, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/users/search")).JSON()
	req.Set("term", term)
	setIf(req, "team_id", opts.TeamID)
	setIf(req, "not_in_team_id", opts.NotInTeamID)
	setIf(req, "in_channel_id", opts.InChannelID)
	setIf(req, "not_in_channel_id", opts.NotInChannelID)
	setIf(req, "in_group_id", opts.InGroupID)
	setIf(req, "group_constrained", opts.GroupConstrained)
	setIf(req, "allow_inactive", opts.AllowInactive)
	setIf(req, "without_team", opts.WithoutTeam)
	setIf(req, "limit", opts.Limit)

	var users []User
	err := doJSON(ctx, r, req, &users)
	return users, err
}

// Autocomplete suggests users whose names start with name.
func (s UsersService) Autocomplete(ctx context.Context, name string, opts AutocompleteOptions) (*UserAutocomplete, error) {
	return autocompleteUsers(ctx, s, name, opts)
}

func autocompleteUsers(ctx context.Context, r Requester, name string, opts AutocompleteOptions) (*UserAutocomplete, error) {
	req := NewRequest(http.MethodGet, r.apiPath("/users/autocomplete"))
	req.Set("name", name)
	setIf(req, "team_id", opts.TeamID)
	setIf(req, "channel_id", opts.ChannelID)
	setIf(req, "limit", opts.Limit)

	var result UserAutocomplete
	if err := doJSON(ctx, r, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// KnownIDs returns the IDs of users the caller shares a channel with.
func (s UsersService) KnownIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := doJSON(ctx, s, NewRequest(http.MethodGet, s.apiPath("/users/known")), &ids)
	return ids, err
}

// Stats returns the total number of users on the server.
func (s UsersService) Stats(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	if err := doJSON(ctx, s, NewRequest(http.MethodGet, s.apiPath("/users/stats")), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FilteredStats counts users matching opts. Requires server 5.26 or later.
func (s UsersService) FilteredStats(ctx context.Context, opts FilteredStatsOptions) (*UserStats, error) {
	return filteredUserStats(ctx, s, opts)
}

func filteredUserStats(ctx context.Context, r Requester, opts FilteredStatsOptions) (*UserStats, error) {
	req := NewRequest(http.MethodGet, r.apiPath("/users/stats/filtered"))
	setIf(req, "in_team", opts.InTeam)
	setIf(req, "in_channel", opts.InChannel)
	setIf(req, "include_deleted", opts.IncludeDeleted)
	setIf(req, "include_bots", opts.IncludeBots)
	setSliceIf(req, "roles", opts.Roles)
	setSliceIf(req, "channel_roles", opts.ChannelRoles)
	setSliceIf(req, "team_roles", opts.TeamRoles)

	var stats UserStats
	if err := doJSON(ctx, r, req, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Get retrieves a user by ID. userID may be "me".
func (s UsersService) Get(ctx context.Context, userID string) (*User, error) {
	path, err := userPath("/users/%s", userID)
	if err != nil {
		return nil, err
	}
	return s.getUser(ctx, path)
}

// GetByUsername retrieves a user by username.
func (s UsersService) GetByUsername(ctx context.Context, username string) (*User, error) {
	path, err := resourcePath("/users/username/%s", "username", username)
	if err != nil {
		return nil, err
	}
	return s.getUser(ctx, path)
}

// GetByEmail retrieves a user by email address.
func (s UsersService) GetByEmail(ctx context.Context, email string) (*User, error) {
	path, err := resourcePath("/users/email/%s", "email", email)
	if err != nil {
		return nil, err
	}
	return s.getUser(ctx, path)
}

// Update replaces a user's profile.
func (s UsersService) Update(ctx context.Context, userID string, update UserUpdate) (*User, error) {
	return updateUser(ctx, s, userID, update)
}

func updateUser(ctx context.Context, r Requester, userID string, update UserUpdate) (*User, error) {
	path, err := userPath("/users/%s", userID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPut, r.apiPath(path)).JSON()
	req.Set("id", userID)
	req.Set("email", update.Email)
	req.Set("username", update.Username)
	setIf(req, "first_name", update.FirstName)
	setIf(req, "last_name", update.LastName)
	setIf(req, "nickname", update.Nickname)
	setIf(req, "locale", update.Locale)
	setIf(req, "position", update.Position)
	setMapIf(req, "timezone", update.Timezone)
	setMapIf(req, "props", update.Props)
	setMapIf(req, "notify_props", update.NotifyProps)

	var user User
	if err := doJSON(ctx, r, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Patch changes only the profile fields set in patch.
func (s UsersService) Patch(ctx context.Context, userID string, patch UserPatch) (*User, error) {
	return patchUser(ctx, s, userID, patch)
}

func patchUser(ctx context.Context, r Requester, userID string, patch UserPatch) (*User, error) {
	path, err := userPath("/users/%s/patch", userID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPut, r.apiPath(path)).JSON()
	setIf(req, "email", patch.Email)
	setIf(req, "username", patch.Username)
	setIf(req, "first_name", patch.FirstName)
	setIf(req, "last_name", patch.LastName)
	setIf(req, "nickname", patch.Nickname)
	setIf(req, "locale", patch.Locale)
	setIf(req, "position", patch.Position)
	setMapIf(req, "props", patch.Props)
	setMapIf(req, "notify_props", patch.NotifyProps)

	var user User
	if err := doJSON(ctx, r, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Deactivate deactivates a user and revokes their sessions.
func (s UsersService) Deactivate(ctx context.Context, userID string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodDelete, "/users/%s", userID, nil)
}

// UpdateRoles replaces a user's system roles, e.g. "system_user system_admin".
func (s UsersService) UpdateRoles(ctx context.Context, userID, roles string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPut, "/users/%s/roles", userID, func(req *Request) {
		req.Set("roles", roles)
	})
}

// UpdateActive activates or deactivates a user.
func (s UsersService) UpdateActive(ctx context.Context, userID string, active bool) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPut, "/users/%s/active", userID, func(req *Request) {
		req.Set("active", active)
	})
}

// GetProfileImage returns the user's profile image bytes. cacheBust, when
// set, is sent as the "_" parameter.
func (s UsersService) GetProfileImage(ctx context.Context, userID string, cacheBust *string) ([]byte, error) {
	return getProfileImage(ctx, s, userID, cacheBust)
}

func getProfileImage(ctx context.Context, r Requester, userID string, cacheBust *string) ([]byte, error) {
	path, err := userPath("/users/%s/image", userID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodGet, r.apiPath(path))
	setIf(req, "_", cacheBust)
	return doBytes(ctx, r, req)
}

// SetProfileImage uploads the image at imagePath as the user's picture.
func (s UsersService) SetProfileImage(ctx context.Context, userID, imagePath string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPost, "/users/%s/image", userID, func(req *Request) {
		req.Multipart().AddFile("image", imagePath)
	})
}

// DeleteProfileImage reverts the user to the generated default picture.
func (s UsersService) DeleteProfileImage(ctx context.Context, userID string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodDelete, "/users/%s/image", userID, nil)
}

// GetDefaultProfileImage returns the generated default picture.
func (s UsersService) GetDefaultProfileImage(ctx context.Context, userID string) ([]byte, error) {
	path, err := userPath("/users/%s/image/default", userID)
	if err != nil {
		return nil, err
	}
	return doBytes(ctx, s, NewRequest(http.MethodGet, s.apiPath(path)))
}

// ResetPassword completes a reset with the code from the reset email.
func (s UsersService) ResetPassword(ctx context.Context, code, newPassword string) (*StatusOK, error) {
	req := NewRequest(http.MethodPost, s.apiPath("/users/password/reset")).JSON()
	req.Set("code", code)
	req.Set("new_password", newPassword)
	return doStatus(ctx, s, req)
}

// SendPasswordResetEmail emails a reset link to the account with email.
func (s UsersService) SendPasswordResetEmail(ctx context.Context, email string) (*StatusOK, error) {
	req := NewRequest(http.MethodPost, s.apiPath("/users/password/reset/send")).JSON()
	req.Set("email", email)
	return doStatus(ctx, s, req)
}

// UpdatePassword changes a user's password. currentPassword is required
// unless the caller is a system admin changing another user's password.
func (s UsersService) UpdatePassword(ctx context.Context, userID, newPassword string, currentPassword *string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPut, "/users/%s/password", userID, func(req *Request) {
		req.Set("new_password", newPassword)
		setIf(req, "current_password", currentPassword)
	})
}

// UpdateMFA activates or deactivates multi-factor authentication. code is
// required when activating.
func (s UsersService) UpdateMFA(ctx context.Context, userID string, activate bool, code *string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPut, "/users/%s/mfa", userID, func(req *Request) {
		req.Set("activate", activate)
		setIf(req, "code", code)
	})
}

// GenerateMFASecret generates a new MFA secret and QR code.
func (s UsersService) GenerateMFASecret(ctx context.Context, userID string) (*MFASecret, error) {
	path, err := userPath("/users/%s/mfa/generate", userID)
	if err != nil {
		return nil, err
	}
	var secret MFASecret
	if err := doJSON(ctx, s, NewRequest(http.MethodPost, s.apiPath(path)), &secret); err != nil {
		return nil, err
	}
	return &secret, nil
}

// CheckMFA reports whether logging in as loginID requires an MFA code.
func (s UsersService) CheckMFA(ctx context.Context, loginID string) (*MFARequirement, error) {
	req := NewRequest(http.MethodPost, s.apiPath("/users/mfa")).JSON()
	req.Set("login_id", loginID)

	var result MFARequirement
	if err := doJSON(ctx, s, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DemoteToGuest converts a regular user into a guest.
func (s UsersService) DemoteToGuest(ctx context.Context, userID string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPost, "/users/%s/demote", userID, nil)
}

// PromoteGuest converts a guest into a regular user.
func (s UsersService) PromoteGuest(ctx context.Context, userID string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPost, "/users/%s/promote", userID, nil)
}

// ConvertToBot converts a user account into a bot. Requires server 5.26 or
// later.
func (s UsersService) ConvertToBot(ctx context.Context, userID string) (*Bot, error) {
	path, err := userPath("/users/%s/convert_to_bot", userID)
	if err != nil {
		return nil, err
	}
	var bot Bot
	if err := doJSON(ctx, s, NewRequest(http.MethodPost, s.apiPath(path)), &bot); err != nil {
		return nil, err
	}
	return &bot, nil
}

// GetSessions lists a user's sessions.
func (s UsersService) GetSessions(ctx context.Context, userID string) ([]Session, error) {
	path, err := userPath("/users/%s/sessions", userID)
	if err != nil {
		return nil, err
	}
	var sessions []Session
	err = doJSON(ctx, s, NewRequest(http.MethodGet, s.apiPath(path)), &sessions)
	return sessions, err
}

// RevokeSession revokes one session.
func (s UsersService) RevokeSession(ctx context.Context, userID, sessionID string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPost, "/users/%s/sessions/revoke", userID, func(req *Request) {
		req.Set("session_id", sessionID)
	})
}

// RevokeAllSessions revokes every session of a user.
func (s UsersService) RevokeAllSessions(ctx context.Context, userID string) (*StatusOK, error) {
	return userStatus(ctx, s, http.MethodPost, "/users/%s/sessions/revoke/all", userID, nil)
}

// AttachDevice attaches a mobile device ID to the current session.
func (s UsersService) AttachDevice(ctx context.Context, deviceID string) (*StatusOK, error) {
	req := NewRequest(http.MethodPut, s.apiPath("/users/sessions/device")).JSON()
	req.Set("device_id", deviceID)
	return doStatus(ctx, s, req)
}

// GetAudits lists audit records for a user.
func (s UsersService) GetAudits(ctx context.Context, userID string) ([]Audit, error) {
	path, err := userPath("/users/%s/audits", userID)
	if err != nil {
		return nil, err
	}
	var audits []Audit
	err = doJSON(ctx, s, NewRequest(http.MethodGet, s.apiPath(path)), &audits)
	return audits, err
}
