package main

import (
	"github.com/urfave/cli/v2"

	"github.com/marcos-nsantos/imagepipe/internal/pkg/apperror"
)

const (
	exitFailure  = 1
	exitBadInput = 2
	exitStorage  = 3
)

// exitFor picks the process exit code from the error's class.
func exitFor(err error) error {
	switch {
	case apperror.IsBadInput(err):
		return cli.Exit(err, exitBadInput)
	case apperror.IsStorage(err):
		return cli.Exit(err, exitStorage)
	default:
		return cli.Exit(err, exitFailure)
	}
}
