// Package devicecloud is a client for the Arduino IoT Cloud REST API.
//
// It publishes property values to a thing:
//
//	PUT {base}/things/{thing}/properties/{property}/publish  {"value": v}
//
// Requests carry a bearer token obtained one of two ways:
//   - OAuth2 client credentials (client_id/client_secret), fetched from the
//     token endpoint and cached until it expires
//   - a static device key, used as-is
//
// Every request has a fixed timeout and is never retried.
package devicecloud
