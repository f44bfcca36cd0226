package cmd

import (
	"context"

	"github.com/ardnew/aprop/cli/cmd/repl"
	"github.com/ardnew/aprop/log"
)

// Repl starts an interactive session resolving placeholders against the
// configured locations.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	c, err := componentFrom(ctx)
	if err != nil {
		return err
	}

	cacheDir, _ := varFrom(ctx, CacheIdentifier)
	if r.NoHistory {
		cacheDir = ""
	}

	return repl.Run(ctx, c, cacheDir, log.Default())
}
