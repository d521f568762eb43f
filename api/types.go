package api

// Team types. Valid values for Team.Type.
const (
	TeamOpen   = "O"
	TeamInvite = "I"
)

// Team represents a Mattermost team.
type Team struct {
	ID                 string `json:"id"`
	CreateAt           int64  `json:"create_at"`
	UpdateAt           int64  `json:"update_at"`
	DeleteAt           int64  `json:"delete_at"`
	DisplayName        string `json:"display_name"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Email              string `json:"email"`
	Type               string `json:"type"`
	CompanyName        string `json:"company_name"`
	AllowedDomains     string `json:"allowed_domains"`
	InviteID           string `json:"invite_id"`
	AllowOpenInvite    bool   `json:"allow_open_invite"`
	LastTeamIconUpdate int64  `json:"last_team_icon_update,omitempty"`
	SchemeID           string `json:"scheme_id,omitempty"`
	GroupConstrained   *bool  `json:"group_constrained,omitempty"`
	PolicyID           string `json:"policy_id,omitempty"`
}

// TeamMember is a user's membership in a team.
type TeamMember struct {
	TeamID      string `json:"team_id"`
	UserID      string `json:"user_id"`
	Roles       string `json:"roles"`
	DeleteAt    int64  `json:"delete_at"`
	SchemeGuest bool   `json:"scheme_guest"`
	SchemeUser  bool   `json:"scheme_user"`
	SchemeAdmin bool   `json:"scheme_admin"`
}

// User represents a Mattermost user account.
type User struct {
	ID                 string            `json:"id"`
	CreateAt           int64             `json:"create_at"`
	UpdateAt           int64             `json:"update_at"`
	DeleteAt           int64             `json:"delete_at"`
	Username           string            `json:"username"`
	AuthData           *string           `json:"auth_data,omitempty"`
	AuthService        string            `json:"auth_service"`
	Email              string            `json:"email"`
	EmailVerified      bool              `json:"email_verified"`
	Nickname           string            `json:"nickname"`
	FirstName          string            `json:"first_name"`
	LastName           string            `json:"last_name"`
	Position           string            `json:"position"`
	Roles              string            `json:"roles"`
	Locale             string            `json:"locale"`
	NotifyProps        map[string]string `json:"notify_props,omitempty"`
	Props              map[string]string `json:"props,omitempty"`
	Timezone           map[string]string `json:"timezone,omitempty"`
	LastPasswordUpdate int64             `json:"last_password_update,omitempty"`
	LastPictureUpdate  int64             `json:"last_picture_update,omitempty"`
	FailedAttempts     int               `json:"failed_attempts,omitempty"`
	MfaActive          bool              `json:"mfa_active,omitempty"`
	IsBot              bool              `json:"is_bot,omitempty"`
	BotDescription     string            `json:"bot_description,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

// IsActive reports whether the account is not deactivated.
func (u User) IsActive() bool {
	return u.DeleteAt == 0
}

// UserAutocomplete is the result of an autocomplete lookup.
type UserAutocomplete struct {
	Users        []User `json:"users"`
	OutOfChannel []User `json:"out_of_channel,omitempty"`
}

// UserStats carries a user count.
type UserStats struct {
	TotalUsersCount int64 `json:"total_users_count"`
}

// Session is an active login session.
type Session struct {
	ID             string            `json:"id"`
	CreateAt       int64             `json:"create_at"`
	ExpiresAt      int64             `json:"expires_at"`
	LastActivityAt int64             `json:"last_activity_at"`
	UserID         string            `json:"user_id"`
	DeviceID       string            `json:"device_id"`
	Roles          string            `json:"roles"`
	IsOAuth        bool              `json:"is_oauth"`
	Props          map[string]string `json:"props,omitempty"`
}

// Audit is one audit record for a user.
type Audit struct {
	ID        string `json:"id"`
	CreateAt  int64  `json:"create_at"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	ExtraInfo string `json:"extra_info"`
	IPAddress string `json:"ip_address"`
	SessionID string `json:"session_id"`
}

// MFASecret is a freshly generated MFA secret.
type MFASecret struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"`
}

// MFARequirement answers whether a login needs an MFA code.
type MFARequirement struct {
	MFARequired bool `json:"mfa_required"`
}

// Bot is the bot account a user was converted into.
type Bot struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	Description    string `json:"description"`
	OwnerID        string `json:"owner_id"`
	LastIconUpdate int64  `json:"last_icon_update,omitempty"`
	CreateAt       int64  `json:"create_at"`
	UpdateAt       int64  `json:"update_at"`
	DeleteAt       int64  `json:"delete_at"`
}

// LoginResult is the logged-in user plus the session token the server
// returned in the Token response header.
type LoginResult struct {
	User  *User
	Token string
}

// Post represents a message in a channel.
type Post struct {
	ID            string         `json:"id"`
	CreateAt      int64          `json:"create_at"`
	UpdateAt      int64          `json:"update_at"`
	EditAt        int64          `json:"edit_at"`
	DeleteAt      int64          `json:"delete_at"`
	IsPinned      bool           `json:"is_pinned"`
	UserID        string         `json:"user_id"`
	ChannelID     string         `json:"channel_id"`
	RootID        string         `json:"root_id"`
	OriginalID    string         `json:"original_id"`
	Message       string         `json:"message"`
	Type          string         `json:"type"`
	Props         map[string]any `json:"props,omitempty"`
	Hashtags      string         `json:"hashtags"`
	FileIDs       []string       `json:"file_ids,omitempty"`
	PendingPostID string         `json:"pending_post_id"`
	HasReactions  bool           `json:"has_reactions,omitempty"`
	ReplyCount    int64          `json:"reply_count"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// PostList is an ordered set of posts, as returned by thread and channel
// listings.
type PostList struct {
	Order      []string         `json:"order"`
	Posts      map[string]*Post `json:"posts"`
	NextPostID string           `json:"next_post_id"`
	PrevPostID string           `json:"prev_post_id"`
	HasNext    *bool            `json:"has_next,omitempty"`
}

// Ordered returns the posts in server order, skipping IDs with no post.
func (l *PostList) Ordered() []*Post {
	if l == nil {
		return nil
	}
	out := make([]*Post, 0, len(l.Order))
	for _, id := range l.Order {
		if p, ok := l.Posts[id]; ok && p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Channel bookmark types.
const (
	BookmarkLink = "link"
	BookmarkFile = "file"
)

// ChannelBookmark is a link or file pinned to a channel header.
type ChannelBookmark struct {
	ID          string    `json:"id"`
	CreateAt    int64     `json:"create_at"`
	UpdateAt    int64     `json:"update_at"`
	DeleteAt    int64     `json:"delete_at"`
	ChannelID   string    `json:"channel_id"`
	OwnerID     string    `json:"owner_id"`
	FileID      string    `json:"file_id"`
	DisplayName string    `json:"display_name"`
	SortOrder   int64     `json:"sort_order"`
	LinkURL     string    `json:"link_url,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Emoji       string    `json:"emoji,omitempty"`
	Type        string    `json:"type"`
	OriginalID  string    `json:"original_id,omitempty"`
	ParentID    string    `json:"parent_id,omitempty"`
	FileInfo    *FileInfo `json:"file,omitempty"`
}

// FileInfo describes an uploaded file attached to a bookmark.
type FileInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`
}

// UpdateBookmarkResult is returned by a bookmark patch: the new version and
// the one it replaced.
type UpdateBookmarkResult struct {
	Updated *ChannelBookmark `json:"updated"`
	Deleted *ChannelBookmark `json:"deleted"`
}

// PluginManifest describes an installed plugin.
type PluginManifest struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	HomepageURL      string `json:"homepage_url,omitempty"`
	SupportURL       string `json:"support_url,omitempty"`
	ReleaseNotesURL  string `json:"release_notes_url,omitempty"`
	IconPath         string `json:"icon_path,omitempty"`
	Version          string `json:"version"`
	MinServerVersion string `json:"min_server_version,omitempty"`
}

// PluginsResponse splits installed plugins by activation state.
type PluginsResponse struct {
	Active   []PluginManifest `json:"active"`
	Inactive []PluginManifest `json:"inactive"`
}

// Plugin states reported by PluginStatus.State.
const (
	PluginStateNotRunning          = 0
	PluginStateStarting            = 1
	PluginStateRunning             = 2
	PluginStateFailedToStart       = 3
	PluginStateFailedToStayRunning = 4
	PluginStateStopping            = 5
)

// PluginStatus is the state of a plugin on one cluster node.
type PluginStatus struct {
	PluginID    string `json:"plugin_id"`
	ClusterID   string `json:"cluster_id"`
	PluginPath  string `json:"plugin_path"`
	State       int    `json:"state"`
	Error       string `json:"error,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// GlobalRetentionPolicy is the server-wide data retention setting.
type GlobalRetentionPolicy struct {
	MessageDeletionEnabled bool  `json:"message_deletion_enabled"`
	FileDeletionEnabled    bool  `json:"file_deletion_enabled"`
	MessageRetentionCutoff int64 `json:"message_retention_cutoff"`
	FileRetentionCutoff    int64 `json:"file_retention_cutoff"`
}

// RetentionPolicy is a granular data retention policy.
type RetentionPolicy struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	PostDuration *int64 `json:"post_duration"`
	TeamCount    int64  `json:"team_count"`
	ChannelCount int64  `json:"channel_count"`
}

// RetentionPolicyList is a page of granular policies.
type RetentionPolicyList struct {
	Policies   []RetentionPolicy `json:"policies"`
	TotalCount int64             `json:"total_count"`
}

// TeamRetentionPolicy is a policy as applied to one team.
type TeamRetentionPolicy struct {
	TeamID       string `json:"team_id"`
	PostDuration int64  `json:"post_duration"`
}

// TeamRetentionPolicyList is a page of team policies for a user.
type TeamRetentionPolicyList struct {
	Policies   []TeamRetentionPolicy `json:"policies"`
	TotalCount int64                 `json:"total_count"`
}

// ChannelRetentionPolicy is a policy as applied to one channel.
type ChannelRetentionPolicy struct {
	ChannelID    string `json:"channel_id"`
	PostDuration int64  `json:"post_duration"`
}

// ChannelRetentionPolicyList is a page of channel policies for a user.
type ChannelRetentionPolicyList struct {
	Policies   []ChannelRetentionPolicy `json:"policies"`
	TotalCount int64                    `json:"total_count"`
}

// RetentionPolicyCount is the number of granular policies.
type RetentionPolicyCount struct {
	TotalCount int64 `json:"total_count"`
}
