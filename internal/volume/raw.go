package volume

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OpenRaw loads a headerless C-order volume of the given shape and dtype.
// Compressed inputs are handled the same way as in Open.
func OpenRaw(path string, shape [NDim]int, dt DType) (*Volume, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, closeFn, err := decompress(path, bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	defer closeFn()
	v, err := ReadRaw(r, shape, dt, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}

// ParseShape parses "D0xD1xD2" (commas are accepted as separators too).
func ParseShape(s string) ([NDim]int, error) {
	var shape [NDim]int
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == 'x' || r == 'X' || r == ',' })
	if len(parts) != NDim {
		return shape, fmt.Errorf("%w: %q is not a %d-dimensional shape", ErrShape, s, NDim)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return shape, fmt.Errorf("%w: bad extent %q", ErrShape, p)
		}
		shape[i] = n
	}
	return shape, nil
}
