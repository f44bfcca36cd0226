// Package props resolves property placeholders against a layered property
// set.
//
// # Placeholders
//
// A placeholder is a key enclosed in the prefix and suffix tokens, "{{" and
// "}}" by default:
//
//	{{db.host}}              value of db.host
//	{{db.port:5432}}         value of db.port, or 5432 if undefined
//	{{env:HOME}}             value of environment variable HOME
//	{{sys:user.name:nobody}} value of system property user.name, or nobody
//	{{service:billing}}      BILLING_SERVICE_HOST:BILLING_SERVICE_PORT
//
// Values may themselves contain placeholders, which are resolved in turn.
//
// # Precedence
//
// For each key the first of the following that yields a value wins:
//
//  1. a registered [Function], when the key has the form name:remainder
//  2. a system property, when the system-properties mode is [ModeOverride]
//  3. an environment variable, when the environment mode is [ModeOverride]
//  4. the augmented key (property prefix + key + property suffix), then the
//     bare key, in the merged property set
//  5. a system property, when the system-properties mode is [ModeFallback]
//  6. an environment variable, when the environment mode is [ModeFallback]
//  7. the default value of a key:default placeholder
//
// # Property sets
//
// The merged property set consulted in step 4 is built by a [Component]
// from its initial properties, its registered sources, the properties of
// each [Location] loaded through its [Resolver], and its override
// properties. Location property sets are cached by the exact ordered list of
// locations.
package props
