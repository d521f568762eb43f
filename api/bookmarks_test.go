package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookmarkJSON = `{"id":"b1","channel_id":"c1","display_name":"Docs","type":"link","link_url":"https://docs.example.com","sort_order":0}`

func TestListChannelBookmarks(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `[`+bookmarkJSON+`]`)
	bookmarks := srv.client().Bookmarks()

	list, err := bookmarks.ListForChannel(context.Background(), "c1", nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, BookmarkLink, list[0].Type)
	got := srv.last(t)
	expectCall(t, got, http.MethodGet, "/api/v4/channels/c1/bookmarks")
	assert.Empty(t, got.Query)

	_, err = bookmarks.ListForChannel(context.Background(), "c1", Int64(1700000000000))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000", srv.last(t).Query.Get("bookmarks_since"))
}

func TestCreateChannelBookmark(t *testing.T) {
	srv := newCaptureServer(t, http.StatusCreated, bookmarkJSON)

	bookmark, err := srv.client().Bookmarks().Create(context.Background(), "c1", CreateBookmarkOptions{
		DisplayName: "Docs",
		Type:        BookmarkLink,
		LinkURL:     String("https://docs.example.com"),
		Emoji:       String(":book:"),
	})
	require.NoError(t, err)
	assert.Equal(t, "b1", bookmark.ID)

	got := srv.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/channels/c1/bookmarks")
	assert.JSONEq(t, `{
		"channel_id": "c1",
		"display_name": "Docs",
		"type": "link",
		"link_url": "https://docs.example.com",
		"emoji": ":book:"
	}`, string(got.Body))
}

func TestUpdateChannelBookmark(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `{"updated":`+bookmarkJSON+`,"deleted":{"id":"b0","delete_at":1}}`)

	result, err := srv.client().Bookmarks().Update(context.Background(), "c1", "b1", BookmarkPatch{DisplayName: String("Handbook")})
	require.NoError(t, err)
	assert.Equal(t, "b1", result.Updated.ID)
	assert.Equal(t, "b0", result.Deleted.ID)

	got := srv.last(t)
	expectCall(t, got, http.MethodPatch, "/api/v4/channels/c1/bookmarks/b1")
	assert.JSONEq(t, `{"display_name":"Handbook"}`, string(got.Body))
}

func TestSetBookmarkSortOrder(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, `[`+bookmarkJSON+`]`)

	_, err := srv.client().Bookmarks().SetSortOrder(context.Background(), "c1", "b1", 3)
	require.NoError(t, err)

	got := srv.last(t)
	expectCall(t, got, http.MethodPost, "/api/v4/channels/c1/bookmarks/b1/sort_order")
	assert.Equal(t, "3", string(got.Body))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
}

func TestDeleteChannelBookmark(t *testing.T) {
	srv := newCaptureServer(t, http.StatusOK, bookmarkJSON)

	bookmark, err := srv.client().Bookmarks().Delete(context.Background(), "c1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "Docs", bookmark.DisplayName)
	expectCall(t, srv.last(t), http.MethodDelete, "/api/v4/channels/c1/bookmarks/b1")
}

func TestBookmarks_NotImplementedOnOldServers(t *testing.T) {
	srv := newCaptureServer(t, http.StatusNotImplemented, `{"id":"api.channel.bookmark.channel_bookmark.license.error","message":"not available"}`)

	_, err := srv.client().Bookmarks().ListForChannel(context.Background(), "c1", nil)
	require.Error(t, err)
	assert.Equal(t, ErrNotEnabled, ErrorCodeFromError(err))
}
