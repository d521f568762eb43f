package api

import "context"

// PathResolver builds absolute API URLs.
type PathResolver interface {
	// apiPath returns the absolute URL for an API path.
	// Example: apiPath("/teams") -> "https://chat.example.com/api/v4/teams"
	apiPath(path string) string
}

// HTTPExecutor dispatches staged requests.
type HTTPExecutor interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Requester is the request surface resource helpers depend on. Tests can
// substitute a recorder that captures staged requests without a server.
type Requester interface {
	PathResolver
	HTTPExecutor
}
