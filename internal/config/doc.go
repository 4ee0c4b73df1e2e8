// Package config loads syncpack configuration files.
//
// Configuration is read from the first of .syncpackrc, .syncpackrc.json,
// .syncpackrc.yaml and .syncpackrc.yml in the workspace root, falling back
// to the "syncpack" property of the root package.json. Files are validated
// against an embedded CUE schema before decoding, and SYNCPACK_ environment
// variables override scalar settings.
package config
