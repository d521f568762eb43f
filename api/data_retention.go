package api

import (
	"context"
	"net/http"
)

// Granular data retention requires an Enterprise license.

// TeamPoliciesForUser lists the retention policies applied to the teams
// userID belongs to. Requires server 5.35 or later.
func (s DataRetentionService) TeamPoliciesForUser(ctx context.Context, userID string, opts PageOptions) (*TeamRetentionPolicyList, error) {
	return teamPoliciesForUser(ctx, s, userID, opts)
}

func teamPoliciesForUser(ctx context.Context, r Requester, userID string, opts PageOptions) (*TeamRetentionPolicyList, error) {
	path, err := userPath("/users/%s/data_retention/team_policies", userID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodGet, r.apiPath(path))
	stagePage(req, opts)

	var list TeamRetentionPolicyList
	if err := doJSON(ctx, r, req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ChannelPoliciesForUser lists the retention policies applied to the
// channels userID belongs to. Requires server 5.35 or later.
func (s DataRetentionService) ChannelPoliciesForUser(ctx context.Context, userID string, opts PageOptions) (*ChannelRetentionPolicyList, error) {
	return channelPoliciesForUser(ctx, s, userID, opts)
}

func channelPoliciesForUser(ctx context.Context, r Requester, userID string, opts PageOptions) (*ChannelRetentionPolicyList, error) {
	path, err := userPath("/users/%s/data_retention/channel_policies", userID)
	if err != nil {
		return nil, err
	}
	req := NewRequest(http.MethodGet, r.apiPath(path))
	stagePage(req, opts)

	var list ChannelRetentionPolicyList
	if err := doJSON(ctx, r, req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GlobalPolicy returns the server-wide retention settings.
func (s DataRetentionService) GlobalPolicy(ctx context.Context) (*GlobalRetentionPolicy, error) {
	var policy GlobalRetentionPolicy
	if err := doJSON(ctx, s, NewRequest(http.MethodGet, s.apiPath("/data_retention/policy")), &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// ListPolicies returns a page of granular policies.
func (s DataRetentionService) ListPolicies(ctx context.Context, opts PageOptions) (*RetentionPolicyList, error) {
	req := NewRequest(http.MethodGet, s.apiPath("/data_retention/policies"))
	stagePage(req, opts)

	var list RetentionPolicyList
	if err := doJSON(ctx, s, req, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetPolicy retrieves one granular policy.
func (s DataRetentionService) GetPolicy(ctx context.Context, policyID string) (*RetentionPolicy, error) {
	path, err := resourcePath("/data_retention/policies/%s", "policy ID", policyID)
	if err != nil {
		return nil, err
	}
	var policy RetentionPolicy
	if err := doJSON(ctx, s, NewRequest(http.MethodGet, s.apiPath(path)), &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// PoliciesCount returns the number of granular policies.
func (s DataRetentionService) PoliciesCount(ctx context.Context) (*RetentionPolicyCount, error) {
	var count RetentionPolicyCount
	if err := doJSON(ctx, s, NewRequest(http.MethodGet, s.apiPath("/data_retention/policies_count")), &count); err != nil {
		return nil, err
	}
	return &count, nil
}

// DeletePolicy deletes a granular policy.
func (s DataRetentionService) DeletePolicy(ctx context.Context, policyID string) (*StatusOK, error) {
	path, err := resourcePath("/data_retention/policies/%s", "policy ID", policyID)
	if err != nil {
		return nil, err
	}
	return doStatus(ctx, s, NewRequest(http.MethodDelete, s.apiPath(path)))
}
