package api

import (
	"context"
	"net/http"
)

// Channel bookmarks require server 9.5 or later (MinVersionChannelBookmarks).

// CreateBookmarkOptions describes a new bookmark. Link bookmarks need
// LinkURL; file bookmarks need FileID.
type CreateBookmarkOptions struct {
	DisplayName string
	Type        string
	LinkURL     *string
	FileID      *string
	ImageURL    *string
	Emoji       *string
}

// BookmarkPatch holds the bookmark fields to change. Nil fields are left
// unchanged on the server.
type BookmarkPatch struct {
	DisplayName *string
	LinkURL     *string
	FileID      *string
	ImageURL    *string
	Emoji       *string
}

func bookmarkPath(channelID, bookmarkID string) (string, error) {
	return resourcePath("/channels/%s/bookmarks/%s", "channel ID", channelID, "bookmark ID", bookmarkID)
}

// ListForChannel lists a channel's bookmarks. When since is set (epoch ms),
// only bookmarks changed after it are returned, including deleted ones.
func (s BookmarksService) ListForChannel(ctx context.Context, channelID string, since *int64) ([]ChannelBookmark, error) {
	return listChannelBookmarks(ctx, s, channelID, since)
}

func listChannelBookmarks(ctx context.Context, r Requester, channelID string, since *int64) ([]ChannelBookmark, error) {
	path, err := resourcePath("/channels/%s/bookmarks", "channel ID", channelID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodGet, r.apiPath(path))
	setIf(req, "bookmarks_since", since)

	var bookmarks []ChannelBookmark
	err = doJSON(ctx, r, req, &bookmarks)
	return bookmarks, err
}

// Create adds a bookmark to a channel.
func (s BookmarksService) Create(ctx context.Context, channelID string, opts CreateBookmarkOptions) (*ChannelBookmark, error) {
	return createChannelBookmark(ctx, s, channelID, opts)
}

func createChannelBookmark(ctx context.Context, r Requester, channelID string, opts CreateBookmarkOptions) (*ChannelBookmark, error) {
	path, err := resourcePath("/channels/%s/bookmarks", "channel ID", channelID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPost, r.apiPath(path)).JSON()
	req.Set("channel_id", channelID)
	req.Set("display_name", opts.DisplayName)
	req.Set("type", opts.Type)
	setIf(req, "link_url", opts.LinkURL)
	setIf(req, "file_id", opts.FileID)
	setIf(req, "image_url", opts.ImageURL)
	setIf(req, "emoji", opts.Emoji)

	var bookmark ChannelBookmark
	if err := doJSON(ctx, r, req, &bookmark); err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// Update patches a bookmark. The server keeps the previous version as a
// deleted bookmark and returns both.
func (s BookmarksService) Update(ctx context.Context, channelID, bookmarkID string, patch BookmarkPatch) (*UpdateBookmarkResult, error) {
	return updateChannelBookmark(ctx, s, channelID, bookmarkID, patch)
}

func updateChannelBookmark(ctx context.Context, r Requester, channelID, bookmarkID string, patch BookmarkPatch) (*UpdateBookmarkResult, error) {
	path, err := bookmarkPath(channelID, bookmarkID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPatch, r.apiPath(path)).JSON()
	setIf(req, "display_name", patch.DisplayName)
	setIf(req, "link_url", patch.LinkURL)
	setIf(req, "file_id", patch.FileID)
	setIf(req, "image_url", patch.ImageURL)
	setIf(req, "emoji", patch.Emoji)

	var result UpdateBookmarkResult
	if err := doJSON(ctx, r, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetSortOrder moves a bookmark to position order and returns the
// bookmarks whose order changed.
func (s BookmarksService) SetSortOrder(ctx context.Context, channelID, bookmarkID string, order int64) ([]ChannelBookmark, error) {
	path, err := resourcePath("/channels/%s/bookmarks/%s/sort_order", "channel ID", channelID, "bookmark ID", bookmarkID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodPost, s.apiPath(path)).SetBody(order)

	var bookmarks []ChannelBookmark
	err = doJSON(ctx, s, req, &bookmarks)
	return bookmarks, err
}

// Delete archives a bookmark and returns it.
func (s BookmarksService) Delete(ctx context.Context, channelID, bookmarkID string) (*ChannelBookmark, error) {
	return deleteChannelBookmark(ctx, s, channelID, bookmarkID)
}

func deleteChannelBookmark(ctx context.Context, r Requester, channelID, bookmarkID string) (*ChannelBookmark, error) {
	path, err := bookmarkPath(channelID, bookmarkID)
	if err != nil {
		return nil, err
	}
	var bookmark ChannelBookmark
	if err := doJSON(ctx, r, NewRequest(http.MethodDelete, r.apiPath(path)), &bookmark); err != nil {
		return nil, err
	}
	return &bookmark, nil
}
