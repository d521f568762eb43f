package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mattermost-community/mattermost-api-go/internal/validation"
)

// Plugin management requires the manage_system permission and
// PluginSettings.EnableUploads on the server.

// Upload uploads the plugin bundle (.tar.gz) at bundlePath. When force is
// set, an installed plugin with the same ID is overwritten.
func (s PluginsService) Upload(ctx context.Context, bundlePath string, force *bool) (*PluginManifest, error) {
	return uploadPlugin(ctx, s, bundlePath, force)
}

func uploadPlugin(ctx context.Context, r Requester, bundlePath string, force *bool) (*PluginManifest, error) {
	req := NewRequest(http.MethodPost, r.apiPath("/plugins")).Multipart()
	req.AddFile("plugin", bundlePath)
	if force != nil {
		req.AddFormField("force", strconv.FormatBool(*force))
	}

	var manifest PluginManifest
	if err := doJSON(ctx, r, req, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// UploadContent uploads an in-memory plugin bundle.
func (s PluginsService) UploadContent(ctx context.Context, filename string, bundle []byte, force *bool) (*PluginManifest, error) {
	req := NewRequest(http.MethodPost, s.apiPath("/plugins")).Multipart()
	req.AddFileContent("plugin", filename, bundle)
	if force != nil {
		req.AddFormField("force", strconv.FormatBool(*force))
	}

	var manifest PluginManifest
	if err := doJSON(ctx, s, req, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// List returns installed plugins split into active and inactive.
func (s PluginsService) List(ctx context.Context) (*PluginsResponse, error) {
	return listPlugins(ctx, s)
}

func listPlugins(ctx context.Context, r Requester) (*PluginsResponse, error) {
	var plugins PluginsResponse
	if err := doJSON(ctx, r, NewRequest(http.MethodGet, r.apiPath("/plugins")), &plugins); err != nil {
		return nil, err
	}
	return &plugins, nil
}

// InstallFromURL has the server download and install a plugin bundle.
func (s PluginsService) InstallFromURL(ctx context.Context, downloadURL string, force *bool) (*PluginManifest, error) {
	return installPluginFromURL(ctx, s, downloadURL, force)
}

func installPluginFromURL(ctx context.Context, r Requester, downloadURL string, force *bool) (*PluginManifest, error) {
	if err := validation.ValidateDownloadURL(downloadURL); err != nil {
		return nil, fmt.Errorf("%w plugin download URL: %w", validation.ErrInvalid, err)
	}
	req := NewRequest(http.MethodPost, r.apiPath("/plugins/install_from_url"))
	req.Query("plugin_download_url", downloadURL)
	queryIf(req, "force", force)

	var manifest PluginManifest
	if err := doJSON(ctx, r, req, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// Remove uninstalls a plugin.
func (s PluginsService) Remove(ctx context.Context, pluginID string) (*StatusOK, error) {
	return pluginAction(ctx, s, http.MethodDelete, "/plugins/%s", pluginID)
}

// Enable activates a plugin.
func (s PluginsService) Enable(ctx context.Context, pluginID string) (*StatusOK, error) {
	return pluginAction(ctx, s, http.MethodPost, "/plugins/%s/enable", pluginID)
}

// Disable deactivates a plugin.
func (s PluginsService) Disable(ctx context.Context, pluginID string) (*StatusOK, error) {
	return pluginAction(ctx, s, http.MethodPost, "/plugins/%s/disable", pluginID)
}

func pluginAction(ctx context.Context, r Requester, method, format, pluginID string) (*StatusOK, error) {
	path, err := resourcePath(format, "plugin ID", pluginID)
	if err != nil {
		return nil, err
	}
	return doStatus(ctx, r, NewRequest(method, r.apiPath(path)))
}

// Statuses reports each plugin's state on every cluster node.
func (s PluginsService) Statuses(ctx context.Context) ([]PluginStatus, error) {
	var statuses []PluginStatus
	err := doJSON(ctx, s, NewRequest(http.MethodGet, s.apiPath("/plugins/statuses")), &statuses)
	return statuses, err
}
