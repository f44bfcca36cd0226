package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// debugBinary matches the default output name of the dlv debugger.
var debugBinary = regexp.MustCompile(`^__debug_bin\d+$`)

// Prefix returns the base name of the running executable without extension
// or leading dots, or [Name] when running under the dlv debugger.
//
// Prefix names the per-user directories and, upper-cased, prefixes the
// environment variables that relocate them.
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimLeft(strings.TrimSuffix(id, filepath.Ext(id)), ".")

		if id == "" || debugBinary.MatchString(id) {
			return Name
		}

		return id
	},
)

// envName returns the environment variable for the given suffix, for
// example APROP_CONFIG_DIR.
func envName(suffix string) string {
	id := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, Prefix())

	return id + "_" + suffix
}

// userDir returns the value of the environment variable env if set.
// Otherwise it returns the [Prefix] directory under base(), falling back to
// the subdirectory home of the user's home directory, then to the working
// directory.
func userDir(env string, base func() (string, error), home string) string {
	if dir, ok := os.LookupEnv(env); ok && dir != "" {
		return dir
	}

	dir, err := base()
	if err != nil {
		if dir, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(dir, home)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// ConfigDir returns the configuration directory, $APROP_CONFIG_DIR when
// set.
var ConfigDir = sync.OnceValue(
	func() string {
		return userDir(envName("CONFIG_DIR"), os.UserConfigDir, ".config")
	},
)

// CacheDir returns the directory used for history and profiles,
// $APROP_CACHE_DIR when set.
var CacheDir = sync.OnceValue(
	func() string {
		return userDir(envName("CACHE_DIR"), os.UserCacheDir, ".cache")
	},
)
