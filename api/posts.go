package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mattermost-community/mattermost-api-go/internal/urlparse"
	"github.com/mattermost-community/mattermost-api-go/internal/validation"
)

// CreatePostOptions are the optional parts of a new post.
type CreatePostOptions struct {
	Message  *string
	RootID   *string
	FileIDs  []string
	Props    map[string]any
	Metadata map[string]any
}

// EphemeralPost is the post shown to a single user.
type EphemeralPost struct {
	ChannelID string         `json:"channel_id"`
	Message   string         `json:"message"`
	Props     map[string]any `json:"props,omitempty"`
}

// PostUpdate holds the fields Update may change. Nil fields are omitted.
type PostUpdate struct {
	IsPinned     *bool
	Message      *string
	HasReactions *bool
	Props        map[string]any
}

// PostPatch holds the fields to change on a post. Nil fields are left
// unchanged on the server.
type PostPatch struct {
	IsPinned     *bool
	Message      *string
	Props        map[string]any
	FileIDs      []string
	HasReactions *bool
}

// ChannelPostsOptions pages and windows a channel's posts.
type ChannelPostsOptions struct {
	Page           *int
	PerPage        *int
	Since          *int64
	Before         *string
	After          *string
	IncludeDeleted *bool
}

func postPath(format, postID string) (string, error) {
	return resourcePath(format, "post ID", postID)
}

func decodePost(ctx context.Context, r Requester, req *Request) (*Post, error) {
	var post Post
	if err := doJSON(ctx, r, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create posts a message to a channel. Set opts.RootID to reply in a thread.
// setOnline controls whether the author's status is set to online.
func (s PostsService) Create(ctx context.Context, setOnline bool, channelID string, opts CreatePostOptions) (*Post, error) {
	return createPost(ctx, s, setOnline, channelID, opts)
}

func createPost(ctx context.Context, r Requester, setOnline bool, channelID string, opts CreatePostOptions) (*Post, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/posts")).JSON()
	req.Set("set_online", setOnline)
	req.Set("channel_id", channelID)
	setIf(req, "message", opts.Message)
	setIf(req, "root_id", opts.RootID)
	setSliceIf(req, "file_ids", opts.FileIDs)
	setMapIf(req, "props", opts.Props)
	setMapIf(req, "metadata", opts.Metadata)
	return decodePost(ctx, r, req)
}

// CreateEphemeral shows a post to userID only. Requires the
// create_post_ephemeral permission.
func (s PostsService) CreateEphemeral(ctx context.Context, userID string, post EphemeralPost) (*Post, error) {
	return createEphemeralPost(ctx, s, userID, post)
}

func createEphemeralPost(ctx context.Context, r Requester, userID string, post EphemeralPost) (*Post, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/posts/ephemeral")).JSON()
	req.Set("user_id", userID)
	req.Set("post", post)
	return decodePost(ctx, r, req)
}

// Get retrieves a post. includeDeleted requires system admin rights.
func (s PostsService) Get(ctx context.Context, postID string, includeDeleted *bool) (*Post, error) {
	return getPost(ctx, s, postID, includeDeleted)
}

func getPost(ctx context.Context, r Requester, postID string, includeDeleted *bool) (*Post, error) {
	path, err := postPath("/posts/%s", postID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodGet, r.apiPath(path))
	setIf(req, "include_deleted", includeDeleted)
	return decodePost(ctx, r, req)
}

// GetByPermalink retrieves the post a web permalink such as
// https://chat.example.com/eng/pl/{post_id} points at.
func (s PostsService) GetByPermalink(ctx context.Context, permalink string) (*Post, error) {
	postID, err := urlparse.PostID(permalink)
	if err != nil {
		return nil, fmt.Errorf("%w permalink: %w", validation.ErrInvalid, err)
	}
	return getPost(ctx, s, postID, nil)
}

// Delete soft-deletes a post.
func (s PostsService) Delete(ctx context.Context, postID string) (*StatusOK, error) {
	return deletePost(ctx, s, postID)
}

func deletePost(ctx context.Context, r Requester, postID string) (*StatusOK, error) {
	path, err := postPath("/posts/%s", postID)
	if err != nil {
		return nil, err
	}
	return doStatus(ctx, r, NewRequest(http.MethodDelete, r.apiPath(path)))
}

// Update replaces a post's editable fields.
func (s PostsService) Update(ctx context.Context, postID string, update PostUpdate) (*Post, error) {
	return updatePost(ctx, s, postID, update)
}

func updatePost(ctx context.Context, r Requester, postID string, update PostUpdate) (*Post, error) {
	path, err := postPath("/posts/%s", postID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPut, r.apiPath(path)).JSON()
	req.Set("id", postID)
	setIf(req, "is_pinned", update.IsPinned)
	setIf(req, "message", update.Message)
	setIf(req, "has_reactions", update.HasReactions)
	setMapIf(req, "props", update.Props)
	return decodePost(ctx, r, req)
}

// Patch changes only the fields set in patch.
func (s PostsService) Patch(ctx context.Context, postID string, patch PostPatch) (*Post, error) {
	return patchPost(ctx, s, postID, patch)
}

func patchPost(ctx context.Context, r Requester, postID string, patch PostPatch) (*Post, error) {
	path, err := postPath("/posts/%s/patch", postID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPut, r.apiPath(path)).JSON()
	setIf(req, "is_pinned", patch.IsPinned)
	setIf(req, "message", patch.Message)
	setMapIf(req, "props", patch.Props)
	setSliceIf(req, "file_ids", patch.FileIDs)
	setIf(req, "has_reactions", patch.HasReactions)
	return decodePost(ctx, r, req)
}

// GetThread returns a post together with its thread.
func (s PostsService) GetThread(ctx context.Context, postID string) (*PostList, error) {
	return getPostThread(ctx, s, postID)
}

func getPostThread(ctx context.Context, r Requester, postID string) (*PostList, error) {
	path, err := postPath("/posts/%s/thread", postID)
	if err != nil {
		return nil, err
	}
	var list PostList
	if err := doJSON(ctx, r, NewRequest(http.MethodGet, r.apiPath(path)), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Pin pins a post to its channel.
func (s PostsService) Pin(ctx context.Context, postID string) (*StatusOK, error) {
	return setPostPinned(ctx, s, postID, true)
}

// Unpin unpins a post.
func (s PostsService) Unpin(ctx context.Context, postID string) (*StatusOK, error) {
	return setPostPinned(ctx, s, postID, false)
}

func setPostPinned(ctx context.Context, r Requester, postID string, pinned bool) (*StatusOK, error) {
	format := "/posts/%s/unpin"
	if pinned {
		format = "/posts/%s/pin"
	}
	path, err := postPath(format, postID)
	if err != nil {
		return nil, err
	}
	return doStatus(ctx, r, NewRequest(http.MethodPost, r.apiPath(path)))
}

// ListForChannel returns a page of a channel's posts.
func (s PostsService) ListForChannel(ctx context.Context, channelID string, opts ChannelPostsOptions) (*PostList, error) {
	return listChannelPosts(ctx, s, channelID, opts)
}

func listChannelPosts(ctx context.Context, r Requester, channelID string, opts ChannelPostsOptions) (*PostList, error) {
	path, err := resourcePath("/channels/%s/posts", "channel ID", channelID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodGet, r.apiPath(path))
	setIf(req, "page", opts.Page)
	setIf(req, "per_page", opts.PerPage)
	setIf(req, "since", opts.Since)
	setIf(req, "before", opts.Before)
	setIf(req, "after", opts.After)
	setIf(req, "include_deleted", opts.IncludeDeleted)

	var list PostList
	if err := doJSON(ctx, r, req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
