// Package manifest reads the package.json files of a JavaScript monorepo
// and turns their dependency fields into flat entries.
//
// # Workspace layout
//
// The set of manifests comes from, in order of precedence:
//   - explicit source patterns supplied by the caller
//   - the packages list of pnpm-workspace.yaml
//   - the workspaces field of the root package.json
//   - package.json and packages/*/package.json
//
// The root package.json is always part of the workspace.
//
// # Dependency types
//
// Each DependencyType names an object or string inside package.json and a
// strategy for reading it:
//
//	prod           dependencies            versionsByName
//	dev            devDependencies         versionsByName
//	peer           peerDependencies        versionsByName
//	optional       optionalDependencies    versionsByName
//	overrides      overrides               versionsByName
//	pnpmOverrides  pnpm.overrides          versionsByName
//	resolutions    resolutions             versionsByName
//	local          version                 version
//
// Custom types reuse the same strategies over any path, for example
// "engines" with versionsByName or "packageManager" with name@version.
//
// # Usage
//
//	ws, err := manifest.LoadWorkspace(dir, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	files, err := manifest.Discover(ctx, dir, ws.Patterns)
//	for _, f := range files {
//	    pkg, err := manifest.Load(filepath.Join(dir, f))
//	    ...
//	    for _, e := range ws.Catalogs.Apply(pkg.Entries(manifest.DefaultTypes())) {
//	        fmt.Println(e.Path, e.Name, e.Raw)
//	    }
//	}
package manifest
