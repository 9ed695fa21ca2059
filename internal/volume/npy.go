package volume

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var npyMagic = []byte("\x93NUMPY")

var (
	ErrFormat = errors.New("volume: not a NPY file")
	ErrDType  = errors.New("volume: unsupported dtype")
)

var (
	descrRe   = regexp.MustCompile(`'descr'\s*:\s*'([^']*)'`)
	fortranRe = regexp.MustCompile(`'fortran_order'\s*:\s*(True|False)`)
	shapeRe   = regexp.MustCompile(`'shape'\s*:\s*\(([^)]*)\)`)
)

var dtypeAliases = map[string]string{
	"bool":    "|b1",
	"uint8":   "|u1",
	"int8":    "|i1",
	"uint16":  "<u2",
	"int16":   "<i2",
	"uint32":  "<u4",
	"int32":   "<i4",
	"uint64":  "<u8",
	"int64":   "<i8",
	"float32": "<f4",
	"float64": "<f8",
}

// DType describes the on-disk element type of an array.
type DType struct {
	Kind  byte // 'b', 'u', 'i' or 'f'
	Size  int
	Order binary.ByteOrder
}

// ParseDType accepts numpy style descriptors such as "<f4", "|u1", ">i2"
// and the short names "uint8", "int16", "float32", ...
func ParseDType(s string) (DType, error) {
	if alias, ok := dtypeAliases[s]; ok {
		s = alias
	}
	if len(s) < 3 {
		return DType{}, fmt.Errorf("%w: %q", ErrDType, s)
	}
	dt := DType{Kind: s[1], Order: binary.LittleEndian}
	switch s[0] {
	case '<', '|', '=':
	case '>':
		dt.Order = binary.BigEndian
	default:
		return DType{}, fmt.Errorf("%w: %q", ErrDType, s)
	}
	size, err := strconv.Atoi(s[2:])
	if err != nil {
		return DType{}, fmt.Errorf("%w: %q", ErrDType, s)
	}
	dt.Size = size
	switch {
	case dt.Kind == 'b' && size == 1:
	case (dt.Kind == 'u' || dt.Kind == 'i') && (size == 1 || size == 2 || size == 4 || size == 8):
	case dt.Kind == 'f' && (size == 4 || size == 8):
	default:
		return DType{}, fmt.Errorf("%w: %q", ErrDType, s)
	}
	return dt, nil
}

func (d DType) String() string {
	prefix := "<"
	if d.Size == 1 {
		prefix = "|"
	} else if d.Order == binary.BigEndian {
		prefix = ">"
	}
	return prefix + string(d.Kind) + strconv.Itoa(d.Size)
}

func (d DType) decode(b []byte) float64 {
	switch d.Kind {
	case 'b', 'u':
		switch d.Size {
		case 1:
			return float64(b[0])
		case 2:
			return float64(d.Order.Uint16(b))
		case 4:
			return float64(d.Order.Uint32(b))
		default:
			return float64(d.Order.Uint64(b))
		}
	case 'i':
		switch d.Size {
		case 1:
			return float64(int8(b[0]))
		case 2:
			return float64(int16(d.Order.Uint16(b)))
		case 4:
			return float64(int32(d.Order.Uint32(b)))
		default:
			return float64(int64(d.Order.Uint64(b)))
		}
	default:
		if d.Size == 4 {
			return float64(math.Float32frombits(d.Order.Uint32(b)))
		}
		return math.Float64frombits(d.Order.Uint64(b))
	}
}

// Open loads a volume from path. ".npy" files are read directly; a trailing
// ".gz" or ".zst" is decompressed first.
func Open(path string) (*Volume, error) {
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
	v, err := ReadNPY(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return v, nil
}

func decompress(path string, r io.Reader) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	}
	return r, func() {}, nil
}

// ReadNPY decodes a NPY (format version 1, 2 or 3) holding a 3D array.
func ReadNPY(r io.Reader) (*Volume, error) {
	magic := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if !bytes.Equal(magic[:len(npyMagic)], npyMagic) {
		return nil, ErrFormat
	}
	major := magic[len(npyMagic)]

	var headerLen int
	switch major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		headerLen = int(n)
	default:
		return nil, fmt.Errorf("%w: version %d", ErrFormat, major)
	}

	header := make([]byte, headerLen)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrFormat, err)
	}
	dt, fortran, shape, err := parseHeader(string(header))
	if err != nil {
		return nil, err
	}
	return ReadRaw(r, shape, dt, fortran)
}

func parseHeader(h string) (DType, bool, [NDim]int, error) {
	var shape [NDim]int
	m := descrRe.FindStringSubmatch(h)
	if m == nil {
		return DType{}, false, shape, fmt.Errorf("%w: missing descr", ErrFormat)
	}
	dt, err := ParseDType(m[1])
	if err != nil {
		return DType{}, false, shape, err
	}
	fortran := false
	if m := fortranRe.FindStringSubmatch(h); m != nil {
		fortran = m[1] == "True"
	}
	m = shapeRe.FindStringSubmatch(h)
	if m == nil {
		return DType{}, false, shape, fmt.Errorf("%w: missing shape", ErrFormat)
	}
	dims := make([]int, 0, NDim)
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(part, "L"))
		if err != nil {
			return DType{}, false, shape, fmt.Errorf("%w: shape %q", ErrFormat, m[1])
		}
		if n < 0 {
			return DType{}, false, shape, fmt.Errorf("%w: negative extent in shape %q", ErrShape, m[1])
		}
		dims = append(dims, n)
	}
	if len(dims) != NDim {
		return DType{}, false, shape, fmt.Errorf("%w: expected a %d-dimensional array, got shape %v", ErrShape, NDim, dims)
	}
	copy(shape[:], dims)
	return dt, fortran, shape, nil
}

// ReadRaw decodes shape[0]*shape[1]*shape[2] elements of dtype from r.
// With fortran set the first axis varies fastest on disk.
func ReadRaw(r io.Reader, shape [NDim]int, dt DType, fortran bool) (*Volume, error) {
	n, err := Voxels(shape)
	if err != nil {
		return nil, err
	}
	v := &Volume{Shape: shape, Data: make([]float64, n)}
	buf := make([]byte, dt.Size)
	br := bufio.NewReader(r)
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("%w: element %d of %d: %v", ErrShape, i, n, err)
		}
		val := dt.decode(buf)
		if !fortran {
			v.Data[i] = val
			continue
		}
		k := i / (shape[0] * shape[1])
		j := (i / shape[0]) % shape[1]
		v.Set(i%shape[0], j, k, val)
	}
	return v, nil
}

// WriteNPY encodes v as a version 1.0 NPY of little-endian float64.
func WriteNPY(w io.Writer, v *Volume) error {
	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': (%d, %d, %d), }",
		v.Shape[0], v.Shape[1], v.Shape[2])
	// magic + version + length prefix + header + '\n' must be a multiple of 64
	total := len(npyMagic) + 2 + 2 + len(header) + 1
	if pad := (64 - total%64) % 64; pad > 0 {
		header += strings.Repeat(" ", pad)
	}
	header += "\n"

	bw := bufio.NewWriter(w)
	bw.Write(npyMagic)
	bw.Write([]byte{1, 0})
	binary.Write(bw, binary.LittleEndian, uint16(len(header)))
	bw.WriteString(header)
	if err := binary.Write(bw, binary.LittleEndian, v.Data); err != nil {
		return err
	}
	return bw.Flush()
}

// Save writes v to path as NPY.
func Save(path string, v *Volume) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteNPY(f, v)
}
