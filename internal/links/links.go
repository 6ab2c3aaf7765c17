// Package links builds outbound deep links. Nothing here touches the network.
package links

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultMapsBase = "https://www.google.com/maps"
	DefaultOSMBase  = "https://www.openstreetmap.org"
)

type Builder struct {
	MapsBase string
	OSMBase  string
}

var std = Builder{MapsBase: DefaultMapsBase, OSMBase: DefaultOSMBase}

func New(mapsBase, osmBase string) Builder {
	b := std
	if mapsBase != "" {
		b.MapsBase = strings.TrimRight(mapsBase, "/")
	}
	if osmBase != "" {
		b.OSMBase = strings.TrimRight(osmBase, "/")
	}
	return b
}

// RouteLink is a driving-directions link from origin to destination.
func (b Builder) RouteLink(origin, destination string) string {
	return fmt.Sprintf("%s/dir/?api=1&origin=%s&destination=%s&travelmode=driving",
		b.MapsBase, escape(origin), escape(destination))
}

// PlaceLink points the map viewer at a single OSM element.
func (b Builder) PlaceLink(osmType string, osmID int64) string {
	return fmt.Sprintf("%s/%s/%d", b.OSMBase, osmType, osmID)
}

func RouteLink(origin, destination string) string { return std.RouteLink(origin, destination) }
func PlaceLink(osmType string, osmID int64) string { return std.PlaceLink(osmType, osmID) }

var queryUnsafe = strings.NewReplacer("%2F", "/", "&", "%26", "=", "%3D", "+", "%2B", ":", "%3A", "@", "%40", "$", "%24")

// escape percent-encodes s for a query value. '/' stays literal and the
// characters that would break a query string are escaped.
func escape(s string) string {
	return queryUnsafe.Replace(url.PathEscape(s))
}
