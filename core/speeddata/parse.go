package speeddata

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var speedPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// ctxCheckEvery bounds how many lines are read between cancellation checks.
const ctxCheckEvery = 4096

// maxLineBytes bounds a single row.
const maxLineBytes = 1 << 20

type reading struct {
	road  int
	day   int
	slot  int
	speed float64
}

func intField(fields []string, i int) (int, bool) {
	if i >= len(fields) {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseReading decodes a data row for road. Rows for other roads, rows with
// fewer than four fields, bad integers and missing, malformed or non-positive
// speeds all yield false.
func parseReading(line string, road int) (reading, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return reading{}, false
	}
	id, ok := intField(fields, 0)
	if !ok || id != road {
		return reading{}, false
	}
	day, ok := intField(fields, 1)
	if !ok {
		return reading{}, false
	}
	slot, ok := intField(fields, 2)
	if !ok {
		return reading{}, false
	}
	raw := strings.TrimSpace(fields[3])
	if !speedPattern.MatchString(raw) {
		return reading{}, false
	}
	speed, err := strconv.ParseFloat(raw, 64)
	if err != nil || speed <= 0 {
		return reading{}, false
	}
	return reading{road: id, day: day, slot: slot, speed: speed}, true
}

// eachRow calls fn for every line after the header of the file at path.
func eachRow(ctx context.Context, path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return scanRows(ctx, f, fn)
}

// scanRows reads r line by line, skipping the header. Lines longer than
// maxLineBytes are dropped without ending the scan.
func scanRows(ctx context.Context, r io.Reader, fn func(line string)) error {
	br := bufio.NewReaderSize(r, 64*1024)
	var line []byte
	header, tooLong := true, false
	n := 0
	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == nil || len(line) > 0 || tooLong {
			n++
			if n%ctxCheckEvery == 0 {
				if cerr := ctx.Err(); cerr != nil {
					return cerr
				}
			}
			switch {
			case header:
				header = false
			case !tooLong:
				fn(strings.TrimRight(string(line), "\r\n"))
			}
		}
		line, tooLong = line[:0], false
		if err == io.EOF {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
	}
}
