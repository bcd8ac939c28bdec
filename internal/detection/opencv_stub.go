//go:build !gocv
// +build !gocv

package detection

import "errors"

// ErrGoCVDisabled is returned when the gocv backend is requested from a build
// without the gocv tag.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

func newOpenCV(EdgeParams, HoughParams) (Extractor, error) {
	return nil, ErrGoCVDisabled
}
