// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - Auth: validates the static API token carried in the Authorization header.
//   - RayID: generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing.
//
// These middleware components are registered globally in the platform's app setup.
package middleware
