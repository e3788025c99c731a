package route

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	kml "github.com/twpayne/go-kml"
)

const kmlLineWidth = 4

// KML renders the collection as a KML document with one styled LineString
// placemark per day.
func (c Collection) KML(name string) kml.Element {
	elements := []kml.Element{kml.Name(name)}

	styles := map[string]*kml.SharedElement{}
	for _, d := range c.Days {
		if _, ok := styles[d.Color]; ok {
			continue
		}
		style := kml.SharedStyle(styleID(d.Color),
			kml.LineStyle(
				kml.Color(lineColor(d.Color)),
				kml.Width(kmlLineWidth),
			),
		)
		styles[d.Color] = style
		elements = append(elements, style)
	}

	for _, d := range c.Days {
		coords := make([]kml.Coordinate, len(d.Points))
		for i, p := range d.Points {
			coords[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
		}
		elements = append(elements, kml.Placemark(
			kml.Name(fmt.Sprintf("Day %d", d.Day)),
			kml.StyleURL(styles[d.Color].URL()),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coords...),
			),
		))
	}

	return kml.KML(kml.Document(elements...))
}

// WriteKML writes the collection as an indented KML document
func (c Collection) WriteKML(w io.Writer, name string) error {
	if err := c.KML(name).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write KML: %w", err)
	}
	return nil
}

func styleID(hex string) string {
	return "day-" + strings.TrimPrefix(strings.ToLower(hex), "#")
}

var errHexColor = errors.New("color must be #rgb or #rrggbb hex")

// ParseHexColor parses "#rrggbb" or the short "#rgb" form into an opaque color.
func ParseHexColor(hex string) (color.RGBA, error) {
	s, ok := strings.CutPrefix(hex, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("%q: %w", hex, errHexColor)
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("%q: %w", hex, errHexColor)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%q: %w", hex, errHexColor)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// lineColor renders unparseable colors as opaque white.
func lineColor(hex string) color.RGBA {
	c, err := ParseHexColor(hex)
	if err != nil {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return c
}
