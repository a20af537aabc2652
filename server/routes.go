package server

import (
	"fmt"
	"log"
	"strings"
)

func (s *Server) initRoutes() {
	// LOGIN
	s.RegisterRouteFunc("GET "+RouteAuthLogin, s.LoginHandler())
	s.RegisterRouteFunc("GET "+RouteAuthLogout, s.LogoutHandler())
	s.RegisterRouteFunc("GET "+RouteCallback, s.OAuthCallbackHandler())
	s.RegisterRouteFunc("POST "+RouteCallback, s.OAuthCallbackHandler()) // For form_post response mode

	// API routes
	s.RegisterRouteHandler("POST "+RouteAPILoginWith, ChainMiddleware(s.LoginWithHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIMe, ChainMiddleware(s.MeHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))

	// FGA proxy routes (session-authenticated)
	s.RegisterRouteHandler("GET "+RouteFGAStores, ChainMiddleware(s.FGAListStoresHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteFGATupleWrite, ChainMiddleware(s.FGAWriteTuplesHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteFGATupleRead, ChainMiddleware(s.FGAReadTuplesHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteFGATupleDelete, ChainMiddleware(s.FGADeleteTuplesHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("GET "+RouteFGAModel, ChainMiddleware(s.FGAReadModelHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteFGAModel, ChainMiddleware(s.FGAWriteModelHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteFGACheck, ChainMiddleware(s.FGACheckHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteFGABatchCheck, ChainMiddleware(s.FGABatchCheckHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteFGAExpand, ChainMiddleware(s.FGAExpandHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
	s.RegisterRouteHandler("POST "+RouteFGAListUsers, ChainMiddleware(s.FGAListUsersHandler(), append(s.APIMiddleware(), s.RequireSessionAuth())...))
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
