package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"
	RouteCallback   = "/auth/callback"

	// API Routes
	RouteAPILoginWith = "/api/v2/login-with"
	RouteAPIMe        = "/api/v2/me"

	// FGA proxy routes
	RouteFGAStores      = "/api/v2/fga/stores"
	RouteFGATupleWrite  = "/api/v2/fga/tuples/write"
	RouteFGATupleRead   = "/api/v2/fga/tuples/read"
	RouteFGATupleDelete = "/api/v2/fga/tuples/delete"
	RouteFGAModel       = "/api/v2/fga/authorization-models"
	RouteFGACheck       = "/api/v2/fga/check"
	RouteFGABatchCheck  = "/api/v2/fga/batch-check"
	RouteFGAExpand      = "/api/v2/fga/expand"
	RouteFGAListUsers   = "/api/v2/fga/list-users"
)
