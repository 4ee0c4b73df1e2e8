// Package selection decides, for every dependency occurrence in a set of
// package.json manifests, which specifier should be there and why.
//
// # Model
//
// A [Context] is an arena owning every [Package] and [Instance] of a run.
// Instances refer to their package by [PackageID] handle and are grouped
// into [Dependency] values by (version group, internal name). The internal
// name of an instance is the aliased package for "npm:" aliases and the
// manifest key otherwise.
//
// # Groups
//
// Two independent tables classify instances:
//
//   - A [VersionGroup] assigns an identity policy: [HighestSemver],
//     [LowestSemver], [Pinned], [Banned], [Ignored], [SameRange] or
//     [SnappedTo]. The first matching group wins; [DefaultVersionGroup]
//     (HighestSemver) catches the rest.
//   - A [SemverGroup] assigns a preferred range operator. The first matching
//     group wins; no match means no preference. A package's own version is
//     never given a preferred range.
//
// # Resolution
//
// [Context.Resolve] runs one pass per dependency in two phases: gather the
// candidate identity from the full instance set, then decide a [State] and
// an expected specifier for each instance. Where the identity policy and the
// preferred range disagree about which version is correct, the instance is
// recorded as a conflict rather than rewritten.
//
// A package's own version anchors identity for every policy. Pinned, Banned
// and SnappedTo never rewrite it; they flag it as suspect instead.
//
// States fall into five categories (see [Category]): valid, fixable,
// unfixable, conflict and suspect. Only fixable states carry an expected
// specifier that consumers may write back.
package selection
