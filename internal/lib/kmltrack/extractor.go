// Package kmltrack extracts ordered track coordinates from KML documents.
package kmltrack

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"
	"strings"

	"github.com/dpup/trek.ersn.net/server/internal/lib/geo"
)

const (
	lineStringElement  = "LineString"
	coordinatesElement = "coordinates"
)

// FormatError reports KML geometry that could not be turned into coordinates
type FormatError struct {
	Name  string // file name, when known
	Tuple string // offending coordinate tuple, when known
	Err   error
}

func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("invalid track geometry")
	if e.Name != "" {
		fmt.Fprintf(&b, " in %s", e.Name)
	}
	if e.Tuple != "" {
		fmt.Fprintf(&b, " at %q", e.Tuple)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

var (
	errMissingCoordinates = errors.New("LineString has no coordinates")
	errEmptyCoordinates   = errors.New("LineString coordinates are empty")
	errShortTuple         = errors.New("coordinate tuple needs longitude and latitude")
	errNotFinite          = errors.New("coordinate is not a finite number")
	errLatitudeRange      = errors.New("latitude must be within [-90, 90]")
)

// Extract reads a KML document and returns the points of every LineString in
// document order. KML stores tuples as "lon,lat[,alt]"; the returned points
// are (lat, lon) and any further tuple components are ignored.
//
// Elements are matched by local name so both plain KML 2.2 and documents that
// mix in other namespaces (gx, kml: prefixes) are accepted.
func Extract(r io.Reader) ([]geo.Point, error) {
	decoder := xml.NewDecoder(r)

	var (
		points   []geo.Point
		stack    []string
		inCoords bool
		text     strings.Builder
		// coordinates seen for each open LineString, innermost last
		lineStrings []bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FormatError{Err: fmt.Errorf("failed to parse KML: %w", err)}
		}

		switch t := token.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.Name.Local)

			switch {
			case t.Name.Local == lineStringElement:
				lineStrings = append(lineStrings, false)
			case t.Name.Local == coordinatesElement && parent == lineStringElement:
				inCoords = true
				text.Reset()
				lineStrings[len(lineStrings)-1] = true
			}

		case xml.CharData:
			if inCoords {
				text.Write(t)
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}

			switch {
			case inCoords && t.Name.Local == coordinatesElement:
				inCoords = false
				parsed, err := parseCoordinates(text.String())
				if err != nil {
					return nil, err
				}
				points = append(points, parsed...)
			case t.Name.Local == lineStringElement && len(lineStrings) > 0:
				seen := lineStrings[len(lineStrings)-1]
				lineStrings = lineStrings[:len(lineStrings)-1]
				if !seen {
					return nil, &FormatError{Err: errMissingCoordinates}
				}
			}
		}
	}

	return points, nil
}

// ExtractFile extracts points from the named file in fsys
func ExtractFile(fsys fs.FS, name string) ([]geo.Point, error) {
	file, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open track file: %w", err)
	}
	defer file.Close()

	points, err := Extract(file)
	if err != nil {
		return nil, WithName(err, name)
	}
	return points, nil
}

// WithName attaches a file name to a FormatError. Other errors pass through.
func WithName(err error, name string) error {
	var formatErr *FormatError
	if errors.As(err, &formatErr) && formatErr.Name == "" {
		named := *formatErr
		named.Name = name
		return &named
	}
	return err
}

// parseCoordinates parses whitespace-separated "lon,lat[,alt]" tuples.
// Latitudes beyond the poles are rejected; longitudes are wrapped into
// [-180, 180].
func parseCoordinates(text string) ([]geo.Point, error) {
	tuples := strings.Fields(text)
	if len(tuples) == 0 {
		return nil, &FormatError{Err: errEmptyCoordinates}
	}

	points := make([]geo.Point, 0, len(tuples))
	for _, tuple := range tuples {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, &FormatError{Tuple: tuple, Err: errShortTuple}
		}

		lon, err := parseComponent(parts[0])
		if err != nil {
			return nil, &FormatError{Tuple: tuple, Err: err}
		}
		lat, err := parseComponent(parts[1])
		if err != nil {
			return nil, &FormatError{Tuple: tuple, Err: err}
		}

		if lat < -90 || lat > 90 {
			return nil, &FormatError{Tuple: tuple, Err: errLatitudeRange}
		}

		point := geo.Point{Latitude: lat, Longitude: geo.NormalizeLongitude(lon)}
		if !geo.IsValid(point) {
			return nil, &FormatError{Tuple: tuple, Err: fmt.Errorf("coordinate out of range: %v", point)}
		}
		points = append(points, point)
	}

	return points, nil
}

func parseComponent(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}
