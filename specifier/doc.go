// Package specifier classifies the version strings found in package.json
// dependency fields and orders the ones that carry a version.
//
// # Classification
//
// [Classify] is total: every input maps to exactly one [Kind], with
// [KindUnsupported] as the catch-all. Examples:
//
//	1.2.3                 exact
//	^1.2.3, >=1.2.3       range
//	1, ^1                 major, range-major
//	1.2, ~1.2             minor, range-minor
//	*                     latest
//	^1.2.3 || ^2.0.0      range-complex
//	next                  tag
//	npm:@scope/pkg@1.2.3  alias
//	file:./path           file
//	github:owner/repo     git
//	https://host/pkg.tgz  url
//	workspace:^           workspace-protocol
//
// # Ordering
//
// An [Orderable] is (range, version). Versions compare by major, minor,
// patch and then pre-release identifiers. Build metadata never takes part.
// At an equal version the greedier range sorts higher:
//
//	<  <=  ""  ~  ^  >=  >  *
//
// Latest ("*") orders above every version and non-semver specifiers order
// below every version.
//
// # Satisfiability
//
// [Specifier.Admits] and [Intersects] delegate range semantics to
// github.com/Masterminds/semver/v3.
package specifier
