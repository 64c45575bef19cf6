// Package api exposes the Growing App functions over HTTP.
//
// Every function is a named route with one allowed method. In service mode
// all of them are mounted under /api/v1; in function mode the configured
// function is also served at "/", which is how each one is deployed as its
// own Cloud Run service.
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Handlers are stateless; every request runs one warehouse operation and at
// most a few device-cloud calls.
package api
