package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-pals/pals/spectrum"
)

// LoadSpectrum reads a spectrum text file. See ReadSpectrum for the format.
func LoadSpectrum(path string) (spectrum.Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpError{Op: "config.load_spectrum", Kind: KindNotFound, Path: path, Err: err}
	}
	defer f.Close()

	s, err := ReadSpectrum(f)
	if err != nil {
		return nil, &OpError{Op: "config.load_spectrum", Kind: KindInvalidData, Path: path, Err: err}
	}
	return s, nil
}

// ReadSpectrum parses one point per line: either "channel counts" or a
// bare count, in which case the line number (from 0) is the channel.
// Columns may be separated by whitespace, comma, semicolon or tab. Empty
// lines and lines starting with '#' are skipped. Counts may be written as
// floats and are rounded.
func ReadSpectrum(r io.Reader) (spectrum.Spectrum, error) {
	var (
		out  spectrum.Spectrum
		next int
		line int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})

		var (
			channel int
			counts  float64
			err     error
		)
		switch len(fields) {
		case 1:
			channel = next
			counts, err = strconv.ParseFloat(fields[0], 64)
		case 2:
			var c float64
			if c, err = strconv.ParseFloat(fields[0], 64); err == nil {
				channel = int(c)
				counts, err = strconv.ParseFloat(fields[1], 64)
			}
		default:
			err = fmt.Errorf("expected 1 or 2 columns, got %d", len(fields))
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", line, err, ErrInvalidData)
		}
		if counts < 0 {
			return nil, fmt.Errorf("line %d: negative counts: %w", line, ErrInvalidData)
		}
		if len(out) > 0 && channel <= out[len(out)-1].Channel {
			return nil, fmt.Errorf("line %d: channel %d is not increasing: %w", line, channel, ErrInvalidData)
		}

		out = append(out, spectrum.Point{Channel: channel, Counts: int(counts + 0.5)})
		next = channel + 1
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no data points: %w", ErrInvalidData)
	}

	return out, nil
}

// WriteSpectrum writes s as "channel counts" lines, readable by ReadSpectrum.
func WriteSpectrum(w io.Writer, s spectrum.Spectrum) error {
	bw := bufio.NewWriter(w)
	for _, p := range s {
		if _, err := fmt.Fprintf(bw, "%d %d\n", p.Channel, p.Counts); err != nil {
			return err
		}
	}
	return bw.Flush()
}
