// Package polyline implements Google's polyline encoding for coordinate
// sequences, used to ship particle trajectories compactly over the API.
// Format reference: https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import "math"

// precisionFactor scales degrees to the 1e-5 integer grid the format uses.
const precisionFactor = 1e5

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Encode encodes coordinates as a delta-compressed polyline string.
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	buf := make([]byte, 0, len(coords)*4)
	var prevLat, prevLon int

	for _, c := range coords {
		lat := int(math.Round(c.Lat * precisionFactor))
		lon := int(math.Round(c.Lon * precisionFactor))

		buf = appendSigned(buf, lat-prevLat)
		buf = appendSigned(buf, lon-prevLon)

		prevLat, prevLon = lat, lon
	}

	return string(buf)
}

// Decode decodes a polyline string back into coordinates. Malformed input
// yields however many complete points precede the truncation.
func Decode(encoded string) []Coordinate {
	var coords []Coordinate
	var lat, lon int

	for i := 0; i < len(encoded); {
		latDelta, next := readSigned(encoded, i)
		lonDelta, after := readSigned(encoded, next)
		if after == next {
			break
		}
		i = after

		lat += latDelta
		lon += lonDelta
		coords = append(coords, Coordinate{
			Lat: float64(lat) / precisionFactor,
			Lon: float64(lon) / precisionFactor,
		})
	}

	return coords
}

// Length returns the great-circle length of the polyline in meters.
func Length(coords []Coordinate) float64 {
	var total float64
	for i := 1; i < len(coords); i++ {
		total += haversine(coords[i-1], coords[i])
	}
	return total
}

// appendSigned writes one zigzag-encoded value in 5-bit chunks.
func appendSigned(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}

// readSigned reads one value starting at index, returning it and the index
// past its last byte.
func readSigned(encoded string, index int) (int, int) {
	var result, shift int

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

const earthRadiusMeters = 6371000

func haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
