package job

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/mungerd/rembobine/internal/model"
)

// LookupCharset resolves a charset label ("latin1", "windows-1252",
// "utf-8") for WithCharset. Empty and UTF-8 labels return nil, which means
// no decoding step.
func LookupCharset(label string) (encoding.Encoding, error) {
	if label == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown charset %q", model.ErrInvalidOption, label)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}
