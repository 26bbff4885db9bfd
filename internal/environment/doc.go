// Package environment models the development environments managed by devenv.
//
// An environment is a named, typed project living at a fixed location on
// disk. Its Docker Compose stack and configuration files are generated under
// a fixed installation subdirectory of that location (see [InstallSubdir]).
//
// # Records
//
// A [Record] carries the identity of one environment (name, location, type)
// and whether it is the active environment. The composite project identifier
// used by Docker Compose and Mutagen is derived from the type and the name:
//
//	rec := environment.Record{Name: "demo", Location: "/srv/demo", Type: environment.TypeSymfony}
//	rec.ProjectName() // "symfony_demo"
//
// # Types
//
// Environment types form a closed set. Every [Type] has exactly one row in the
// type table describing its expected configuration files and the way its PHP
// image tag is derived. A missing row is detected when the package is loaded.
//
// # Registry
//
// A [Registry] holds every known record in memory and enforces the registry
// invariants:
//   - no two records share a name;
//   - no two records share a location;
//   - at most one record is active.
//
// The registry is loaded from durable storage when a command starts and flushed
// back when it ends; it never talks to storage itself.
package environment
