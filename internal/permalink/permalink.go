// Package permalink packs a search or a station focus into a single
// shareable query value.
//
// The payload is pipe separated and base64url encoded without padding:
//
//	1|from|to|typesHex|t or s|selectedIndex|layersHex
//	2|stationId
package permalink

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jusunglee/railmap-go/internal/models"
)

// ErrInvalid is returned for payloads that cannot be decoded
var ErrInvalid = errors.New("invalid permalink")

// Kind tells what a permalink points at
type Kind int

const (
	KindRoute   Kind = 1
	KindStation Kind = 2
)

// Layers is the set of map overlays shown alongside a route
type Layers uint8

const (
	LayerSatellite Layers = 1
	LayerPolitical Layers = 2
)

// String returns the layers as the CSV used in the layers query parameter
func (l Layers) String() string {
	var parts []string
	if l&LayerSatellite != 0 {
		parts = append(parts, "sat")
	}
	if l&LayerPolitical != 0 {
		parts = append(parts, "pol")
	}
	return strings.Join(parts, ",")
}

// ParseLayers reads a CSV such as "sat,pol". Unknown names are ignored.
func ParseLayers(v string) Layers {
	var l Layers
	for _, part := range strings.Split(v, ",") {
		switch strings.TrimSpace(part) {
		case "sat":
			l |= LayerSatellite
		case "pol":
			l |= LayerPolitical
		}
	}
	return l
}

// State is the decoded content of a permalink
type State struct {
	Kind     Kind
	From     string
	To       string
	Types    models.TypeSet
	Priority models.Priority
	Selected int
	Layers   Layers
	Station  string
}

// Route returns the state of a route search
func Route(from, to string, types models.TypeSet, priority models.Priority, selected int, layers Layers) State {
	return State{
		Kind:     KindRoute,
		From:     from,
		To:       to,
		Types:    types,
		Priority: priority,
		Selected: selected,
		Layers:   layers,
	}
}

// Station returns the state of a focused station
func Station(id string) State {
	return State{Kind: KindStation, Station: id}
}

// Encode packs the state into a query value
func Encode(s State) string {
	var payload string
	switch s.Kind {
	case KindStation:
		payload = "2|" + s.Station
	default:
		payload = strings.Join([]string{
			"1",
			s.From,
			s.To,
			s.Types.Hex(),
			s.Priority.Code(),
			strconv.Itoa(max(s.Selected, 0)),
			strings.ToUpper(strconv.FormatUint(uint64(s.Layers), 16)),
		}, "|")
	}
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// Decode unpacks a query value. Padding is tolerated and the layers field
// of route payloads is optional.
func Decode(q string) (State, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(q), "="))
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	parts := strings.Split(string(raw), "|")
	switch {
	case parts[0] == "1" && len(parts) >= 6:
		return decodeRoute(parts)
	case parts[0] == "2" && len(parts) >= 2 && parts[1] != "":
		return Station(parts[1]), nil
	}
	return State{}, fmt.Errorf("%w: unrecognized payload", ErrInvalid)
}

func decodeRoute(parts []string) (State, error) {
	types, err := models.ParseTypeSetHex(parts[3])
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	priority := models.PriorityTransfers
	if parts[4] == "s" {
		priority = models.PriorityStops
	}

	// A malformed selection falls back to the first route
	selected, err := strconv.Atoi(parts[5])
	if err != nil || selected < 0 {
		selected = 0
	}

	var layers Layers
	if len(parts) > 6 && parts[6] != "" {
		if mask, err := strconv.ParseUint(parts[6], 16, 8); err == nil {
			layers = Layers(mask) & (LayerSatellite | LayerPolitical)
		}
	}

	return Route(parts[1], parts[2], types, priority, selected, layers), nil
}
