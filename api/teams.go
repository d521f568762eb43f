package api

import (
	"context"
	"net/http"

	"github.com/mattermost-community/mattermost-api-go/internal/validation"
)

// TeamUpdate is the full set of fields accepted by Update. Nil fields are
// omitted from the request.
type TeamUpdate struct {
	DisplayName     string
	Description     *string
	CompanyName     *string
	AllowedDomains  *string
	InviteID        *string
	AllowOpenInvite *bool
}

// TeamPatch holds the fields to change on a team. Nil fields are left
// unchanged on the server.
type TeamPatch struct {
	DisplayName      *string
	Description      *string
	CompanyName      *string
	AllowedDomains   *string
	InviteID         *string
	AllowOpenInvite  *bool
	GroupConstrained *bool
}

// ListTeamsOptions pages team listings.
type ListTeamsOptions struct {
	Page              *int
	PerPage           *int
	IncludeTotalCount *bool
}

// PageOptions pages member and policy listings.
type PageOptions struct {
	Page    *int
	PerPage *int
}

func stagePage(req *Request, opts PageOptions) {
	setIf(req, "page", opts.Page)
	setIf(req, "per_page", opts.PerPage)
}

// Create creates a team. teamType is TeamOpen or TeamInvite.
func (s TeamsService) Create(ctx context.Context, name, displayName, teamType string) (*Team, error) {
	return createTeam(ctx, s, name, displayName, teamType)
}

func createTeam(ctx context.Context, r Requester, name, displayName, teamType string) (*Team, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/teams")).JSON()
	req.Set("name", name)
	req.Set("display_name", displayName)
	req.Set("type", teamType)

	var team Team
	if err := doJSON(ctx, r, req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Get retrieves a team by ID.
func (s TeamsService) Get(ctx context.Context, teamID string) (*Team, error) {
	return getTeam(ctx, s, teamID)
}

func getTeam(ctx context.Context, r Requester, teamID string) (*Team, error) {
	path, err := resourcePath("/teams/%s", "team ID", teamID)
	if err != nil {
		return nil, err
	}
	var team Team
	if err := doJSON(ctx, r, NewRequest(http.MethodGet, r.apiPath(path)), &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByName retrieves a team by its URL name.
func (s TeamsService) GetByName(ctx context.Context, name string) (*Team, error) {
	return getTeamByName(ctx, s, name)
}

func getTeamByName(ctx context.Context, r Requester, name string) (*Team, error) {
	path, err := resourcePath("/teams/name/%s", "team name", name)
	if err != nil {
		return nil, err
	}
	var team Team
	if err := doJSON(ctx, r, NewRequest(http.MethodGet, r.apiPath(path)), &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// List retrieves teams visible to the caller.
func (s TeamsService) List(ctx context.Context, opts ListTeamsOptions) ([]Team, error) {
	return listTeams(ctx, s, opts)
}

func listTeams(ctx context.Context, r Requester, opts ListTeamsOptions) ([]Team, error) {
	req := NewRequest(http.MethodGet, r.apiPath("/teams"))
	setIf(req, "page", opts.Page)
	setIf(req, "per_page", opts.PerPage)
	setIf(req, "include_total_count", opts.IncludeTotalCount)

	var teams []Team
	err := doJSON(ctx, r, req, &teams)
	return teams, err
}

// Update replaces a team's editable fields.
func (s TeamsService) Update(ctx context.Context, teamID string, update TeamUpdate) (*Team, error) {
	return updateTeam(ctx, s, teamID, update)
}

func updateTeam(ctx context.Context, r Requester, teamID string, update TeamUpdate) (*Team, error) {
	path, err := resourcePath("/teams/%s", "team ID", teamID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPut, r.apiPath(path)).JSON()
	req.Set("id", teamID)
	req.Set("display_name", update.DisplayName)
	setIf(req, "description", update.Description)
	setIf(req, "company_name", update.CompanyName)
	setIf(req, "allowed_domains", update.AllowedDomains)
	setIf(req, "invite_id", update.InviteID)
	setIf(req, "allow_open_invite", update.AllowOpenInvite)

	var team Team
	if err := doJSON(ctx, r, req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Patch changes only the fields set in patch.
func (s TeamsService) Patch(ctx context.Context, teamID string, patch TeamPatch) (*Team, error) {
	return patchTeam(ctx, s, teamID, patch)
}

func patchTeam(ctx context.Context, r Requester, teamID string, patch TeamPatch) (*Team, error) {
	path, err := resourcePath("/teams/%s/patch", "team ID", teamID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPut, r.apiPath(path)).JSON()
	setIf(req, "display_name", patch.DisplayName)
	setIf(req, "description", patch.Description)
	setIf(req, "company_name", patch.CompanyName)
	setIf(req, "allowed_domains", patch.AllowedDomains)
	setIf(req, "invite_id", patch.InviteID)
	setIf(req, "allow_open_invite", patch.AllowOpenInvite)
	setIf(req, "group_constrained", patch.GroupConstrained)

	var team Team
	if err := doJSON(ctx, r, req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// Delete archives a team, or removes it with all its data when permanent is
// true.
func (s TeamsService) Delete(ctx context.Context, teamID string, permanent bool) (*StatusOK, error) {
	return deleteTeam(ctx, s, teamID, permanent)
}

func deleteTeam(ctx context.Context, r Requester, teamID string, permanent bool) (*StatusOK, error) {
	path, err := resourcePath("/teams/%s", "team ID", teamID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodDelete, r.apiPath(path))
	if permanent {
		req.Set("permanent", true)
	}
	return doStatus(ctx, r, req)
}

// SetIcon uploads the image at imagePath as the team icon.
func (s TeamsService) SetIcon(ctx context.Context, teamID, imagePath string) (*StatusOK, error) {
	return setTeamIcon(ctx, s, teamID, imagePath)
}

func setTeamIcon(ctx context.Context, r Requester, teamID, imagePath string) (*StatusOK, error) {
	path, err := resourcePath("/teams/%s/image", "team ID", teamID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPost, r.apiPath(path)).Multipart()
	req.AddFile("image", imagePath)
	return doStatus(ctx, r, req)
}

// RemoveIcon deletes the team icon.
func (s TeamsService) RemoveIcon(ctx context.Context, teamID string) (*StatusOK, error) {
	return removeTeamIcon(ctx, s, teamID)
}

func removeTeamIcon(ctx context.Context, r Requester, teamID string) (*StatusOK, error) {
	path, err := resourcePath("/teams/%s/image", "team ID", teamID)
	if err != nil {
		return nil, err
	}
	return doStatus(ctx, r, NewRequest(http.MethodDelete, r.apiPath(path)))
}

// GetMembers lists team memberships.
func (s TeamsService) GetMembers(ctx context.Context, teamID string, opts PageOptions) ([]TeamMember, error) {
	return getTeamMembers(ctx, s, teamID, opts)
}

func getTeamMembers(ctx context.Context, r Requester, teamID string, opts PageOptions) ([]TeamMember, error) {
	path, err := resourcePath("/teams/%s/members", "team ID", teamID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodGet, r.apiPath(path))
	stagePage(req, opts)

	var members []TeamMember
	err = doJSON(ctx, r, req, &members)
	return members, err
}

// AddMember adds a user to a team.
func (s TeamsService) AddMember(ctx context.Context, teamID, userID string) (*TeamMember, error) {
	return addTeamMember(ctx, s, teamID, userID)
}

func addTeamMember(ctx context.Context, r Requester, teamID, userID string) (*TeamMember, error) {
	path, err := resourcePath("/teams/%s/members", "team ID", teamID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePathSegment("user ID", userID); err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPost, r.apiPath(path)).JSON()
	req.Set("team_id", teamID)
	req.Set("user_id", userID)

	var member TeamMember
	if err := doJSON(ctx, r, req, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember removes a user from a team.
func (s TeamsService) RemoveMember(ctx context.Context, teamID, userID string) (*StatusOK, error) {
	return removeTeamMember(ctx, s, teamID, userID)
}

func removeTeamMember(ctx context.Context, r Requester, teamID, userID string) (*StatusOK, error) {
	path, err := resourcePath("/teams/%s/members/%s", "team ID", teamID, "user ID", userID)
	if err != nil {
		return nil, err
	}
	return doStatus(ctx, r, NewRequest(http.MethodDelete, r.apiPath(path)))
}

// ListForUser lists the teams a user belongs to. userID may be "me".
func (s TeamsService) ListForUser(ctx context.Context, userID string) ([]Team, error) {
	return listTeamsForUser(ctx, s, userID)
}

func listTeamsForUser(ctx context.Context, r Requester, userID string) ([]Team, error) {
	path, err := resourcePath("/users/%s/teams", "user ID", userID)
	if err != nil {
		return nil, err
	}
	var teams []Team
	err = doJSON(ctx, r, NewRequest(http.MethodGet, r.apiPath(path)), &teams)
	return teams, err
}
