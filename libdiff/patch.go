package libdiff

import (
	"errors"
	"fmt"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

var ErrPatchFailed = errors.New("patch did not apply")

// MakePatch returns a textual patch taking from to to.
func MakePatch(from, to string) string {
	dmp := diffpatch.New()
	return dmp.PatchToText(dmp.PatchMake(from, to))
}

// ApplyPatch applies a patch produced by MakePatch to text. Every hunk
// must apply.
func ApplyPatch(patch, text string) (string, error) {
	dmp := diffpatch.New()
	ps, err := dmp.PatchFromText(patch)
	if err != nil {
		return "", fmt.Errorf("parsing patch: %w", err)
	}
	res, applied := dmp.PatchApply(ps, text)
	for i, ok := range applied {
		if !ok {
			return "", fmt.Errorf("%w: hunk %d", ErrPatchFailed, i)
		}
	}
	return res, nil
}
