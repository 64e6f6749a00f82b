package models

import (
	"encoding/json"
	"fmt"
)

// Place is a point of interest with a stable identity and a geographic position.
// Places are immutable once fetched; collections hold them by value.
type Place struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Image       Image   `json:"image"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

// UnmarshalJSON accepts both "lng" and the older "lon" spelling for the longitude.
func (p *Place) UnmarshalJSON(b []byte) error {
	type alias Place
	aux := struct {
		*alias
		Lon *float64 `json:"lon"`
		Lng *float64 `json:"lng"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	switch {
	case aux.Lng != nil:
		p.Lng = *aux.Lng
	case aux.Lon != nil:
		p.Lng = *aux.Lon
	}
	return nil
}

// Image references a place's picture. The backend sends either a bare path
// string or an object with src and alt; the value is written back in the shape
// it was read in. The zero Image stands for a missing or null image and is
// written as null.
type Image struct {
	Src string
	Alt string

	bare   bool
	object bool
}

// NewImage returns an object-shaped image reference.
func NewImage(src, alt string) Image {
	return Image{Src: src, Alt: alt, object: true}
}

// NewBareImage returns an image reference encoded as a plain string.
func NewBareImage(src string) Image {
	return Image{Src: src, bare: true}
}

// IsBare reports whether the image is encoded as a plain string.
func (i Image) IsBare() bool {
	return i.bare
}

// IsZero reports whether no image was given.
func (i Image) IsZero() bool {
	return !i.bare && !i.object
}

func (i Image) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	if i.bare {
		return json.Marshal(i.Src)
	}
	return json.Marshal(struct {
		Src string `json:"src"`
		Alt string `json:"alt"`
	}{i.Src, i.Alt})
}

func (i *Image) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*i = Image{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*i = NewBareImage(s)
		return nil
	}

	var obj struct {
		Src string `json:"src"`
		Alt string `json:"alt"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("image must be a string or an object with src and alt: %w", err)
	}
	*i = NewImage(obj.Src, obj.Alt)
	return nil
}

// GeoPosition is a reading from the position sensor, in degrees.
type GeoPosition struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlacesEnvelope is the request and response body of the places endpoints.
type PlacesEnvelope struct {
	Places []Place `json:"places"`
}

// MessageResponse is returned by the backend on writes and errors.
type MessageResponse struct {
	Message string `json:"message"`
}

// ClonePlaces returns a copy of places that never aliases the input.
// A nil input yields an empty, non-nil slice so it encodes as [].
func ClonePlaces(places []Place) []Place {
	return append(make([]Place, 0, len(places)), places...)
}

// IndexOf returns the index of the place with the given id, or -1.
func IndexOf(places []Place, id string) int {
	for i, p := range places {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// SameIDs reports whether a and b hold the same ids in the same order.
func SameIDs(a, b []Place) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

// DedupePlaces drops every place whose id was already seen, keeping the first
// occurrence and the original order.
func DedupePlaces(places []Place) []Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]Place, 0, len(places))
	for _, p := range places {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
