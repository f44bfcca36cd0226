// Package loader provides a [props.Resolver] that reads property sets from
// files.
//
// Locations are interpreted by kind:
//
//	classpath:app.properties   searched in each classpath root, in order
//	file:/etc/app/app.yaml     opened on the host file system
//	ref:defaults               a property set registered with [WithRef]
//
// The format is chosen by file extension: .properties (also used for
// unknown extensions), .yaml and .yml, .json, .toml, .ini and .env.
// Nested documents are flattened into dotted keys, and sequences into
// indexed keys:
//
//	db:
//	  hosts: [a, b]    =>  db.hosts[0]=a
//	                       db.hosts[1]=b
//
// Values are stored verbatim; placeholders within them are left for the
// [props.Component] to resolve.
package loader
