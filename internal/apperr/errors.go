package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrPathOutsideVault = errors.New("path outside vault")
	ErrBadFrontmatter   = errors.New("malformed frontmatter")
)
