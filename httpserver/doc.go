// Package httpserver exposes the execution service over HTTP.
//
// Routes:
//
//	POST /execute    run code and return its captured output
//	GET  /           liveness message
//	GET  /health     plain-text health check
//	GET  /languages  supported languages, aliases and images
//
// Every error response carries a JSON body of the form {"detail": "..."}.
package httpserver
