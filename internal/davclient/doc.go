// Package davclient implements the WebDAV requests the traversal depends on:
// PROPFIND Depth:1 for enumerating a collection's children and HEAD for
// probing leaf resources.
//
// The client deliberately never follows redirects. A redirected leaf is part
// of the measurement (the redirect target is recorded for reporting) but the
// target itself is never fetched.
//
// Only the resourcetype property is requested, which is sufficient to
// classify each child as a collection or a file. See RFC 4918 for the
// multistatus response format.
package davclient
