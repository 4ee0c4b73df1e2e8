// Package registry provides types and a client for npm registry packuments.
//
// A packument is the JSON document an npm registry serves for a package
// name. It lists every published version, the dist-tags pointing into
// them, and per-version metadata such as deprecation notices.
//
// # Registry Layout
//
// Packuments are served at the registry root, with scoped names escaped:
//
//	GET {registry}/react
//	GET {registry}/@types%2fnode
//
// # Usage
//
// Fetch and validate a packument:
//
//	client := registry.NewClient(registry.DefaultURL)
//	p, err := client.GetPackument(ctx, "react")
//	if err != nil {
//	    // Handle validation or network errors
//	}
//	fmt.Println(p.LatestVersion())
//
// Validate arbitrary JSON:
//
//	p, err := registry.ValidatePackumentJSON(data)
package registry
