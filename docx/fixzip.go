package docx

import (
	"bytes"
	"fmt"

	fixzip "github.com/hidez8891/zip"
)

// StripDataDescriptors rewrites the package without zip data descriptors.
// Some picky document consumers refuse streamed archives that carry them;
// the rewrite copies entries verbatim with the descriptor flag cleared.
func StripDataDescriptors(data []byte) ([]byte, error) {
	r, err := fixzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("unable to read package archive: %w", err)
	}

	var out bytes.Buffer
	w := fixzip.NewWriter(&out)
	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^uint16(fixzip.FlagDataDescriptor)
		if err := w.CopyFile(file); err != nil {
			return nil, fmt.Errorf("unable to copy package entry %s: %w", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("unable to finalize package archive: %w", err)
	}
	return out.Bytes(), nil
}
