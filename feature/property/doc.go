// Package property implements the property read/write API.
//
// The key of a property is the request path after the leading slash,
// URL-decoded and otherwise untouched: slashes and arbitrary characters are
// part of the key.
//
// # HTTP Endpoints
//
//   - GET /{key}  : 200 with the value (application/json for objects,
//     text/plain otherwise, literal "null" when unset); 400 on store failure.
//   - POST /{key} : stores the body, as a JSON object when it starts with '{',
//     as text otherwise; 200 with an empty body, 400 on invalid JSON or store failure.
//   - Any other method, or an empty key: 404.
//
// Authentication happens in front of these handlers (core/middleware/auth).
package property
