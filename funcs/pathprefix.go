package funcs

import (
	"os"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/aprop/props"
)

// PathPrefixName is the name of the function returned by [PathPrefix].
const PathPrefixName = "pathprefix"

// PathPrefix returns the "pathprefix" function. Its remainder has the form
//
//	NAME:item[<sep>item...]
//
// where <sep> is [os.PathListSeparator]. It yields the path list held by
// environment variable NAME with the items prepended, without duplicates.
// An undefined variable is treated as an empty list.
func PathPrefix(env props.Lookup) props.Function {
	delim := string(os.PathListSeparator)

	return props.FunctionFunc(PathPrefixName, func(rem string) (string, bool) {
		name, items, ok := strings.Cut(rem, ":")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return "", false
		}

		var prefix []string

		for item := range strings.SplitSeq(items, delim) {
			if item != "" {
				prefix = append(prefix, item)
			}
		}

		return mung.Make(
			mung.WithSubjectItems(get(env, name)),
			mung.WithDelim(delim),
			mung.WithPrefixItems(prefix...),
		).String(), true
	})
}
