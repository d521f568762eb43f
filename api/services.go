package api

// Service accessors group Client methods by resource.
// Each service embeds *Client.

type TeamsService struct{ *Client }

type UsersService struct{ *Client }

type PostsService struct{ *Client }

type BookmarksService struct{ *Client }

type PluginsService struct{ *Client }

type DataRetentionService struct{ *Client }

func (c *Client) Teams() TeamsService {
	return TeamsService{c}
}

func (c *Client) Users() UsersService {
	return UsersService{c}
}

func (c *Client) Posts() PostsService {
	return PostsService{c}
}

func (c *Client) Bookmarks() BookmarksService {
	return BookmarksService{c}
}

func (c *Client) Plugins() PluginsService {
	return PluginsService{c}
}

func (c *Client) DataRetention() DataRetentionService {
	return DataRetentionService{c}
}
