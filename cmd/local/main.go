package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jusunglee/railmap-go/internal/feed"
	"github.com/jusunglee/railmap-go/internal/itinerary"
	"github.com/jusunglee/railmap-go/internal/models"
	"github.com/jusunglee/railmap-go/internal/permalink"
	"github.com/jusunglee/railmap-go/internal/routing"
	"github.com/jusunglee/railmap-go/pkg/transit"
)

func main() {
	var (
		stations  = flag.String("stations", feed.DefaultStationsSource, "Stations JSON file or URL")
		lines     = flag.String("lines", feed.DefaultLinesSource, "Lines JSON file or URL")
		demo      = flag.Bool("demo", false, "Use the built-in sample network")
		from      = flag.String("from", "", "Start station (id, name or \"Name (ID)\")")
		to        = flag.String("to", "", "Destination station")
		types     = flag.String("types", "", "Line types as a bitmask or list, e.g. 3 or IC,REGIO")
		priority  = flag.String("priority", "transfers", "transfers or stops")
		maxRoutes = flag.Int("max", routing.DefaultMaxResults, "Maximum number of routes")
		q         = flag.String("q", "", "Permalink to open instead of -from/-to")
		line      = flag.String("line", "", "List the stations of a line")
		asJSON    = flag.Bool("json", false, "Print raw routes as JSON")
	)
	flag.Parse()

	client, err := newClient(*demo, *stations, *lines)
	if err != nil {
		slog.Error("Failed to load network", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	// Line listing mode
	if *line != "" {
		ln, err := client.GetLine(*line)
		if err != nil {
			slog.Error("Failed to get line", "line", *line, "error", err)
			os.Exit(1)
		}

		fmt.Printf("\nStations on line %s (%s):\n", ln.ID, models.LineType(ln.ID, &ln).Label())
		for _, id := range ln.Stations {
			st, err := client.GetStation(id)
			name := id
			if err == nil {
				name = st.DisplayName()
			}
			suffix := ""
			if ln.IsSkipped(id) {
				suffix = " (przejazd)"
			}
			fmt.Printf("- %s (%s)%s\n", name, id, suffix)
		}
		return
	}

	prefs := routing.DefaultPreferences()
	selected := 0
	if *q != "" {
		state, err := permalink.Decode(*q)
		if err != nil || state.Kind != permalink.KindRoute {
			slog.Error("Permalink does not describe a route", "q", *q, "error", err)
			os.Exit(1)
		}
		*from, *to = state.From, state.To
		prefs = prefs.WithTypes(state.Types).WithPriority(state.Priority)
		selected = state.Selected
	} else {
		if *types != "" {
			set, err := models.ParseTypeSet(*types)
			if err != nil {
				slog.Error("Invalid types", "types", *types, "error", err)
				os.Exit(1)
			}
			prefs = prefs.WithTypes(set)
		}
		p, err := models.ParsePriority(*priority)
		if err != nil {
			slog.Error("Invalid priority", "error", err)
			os.Exit(1)
		}
		prefs = prefs.WithPriority(p)
	}

	if *from == "" || *to == "" {
		slog.Error("Both -from and -to are required (or -q)")
		os.Exit(1)
	}

	src, err := client.ResolveStation(*from)
	if err != nil {
		slog.Error("Unknown start station", "error", err)
		os.Exit(1)
	}
	dst, err := client.ResolveStation(*to)
	if err != nil {
		slog.Error("Unknown destination", "error", err)
		os.Exit(1)
	}

	query := prefs.Query(src, dst, *maxRoutes)
	ctx := context.Background()

	if *asJSON {
		routes, err := client.FindRoutes(ctx, query)
		if err != nil {
			slog.Error("Route search failed", "error", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(routes); err != nil {
			slog.Error("Failed to write routes", "error", err)
			os.Exit(1)
		}
		return
	}

	cards, err := client.Itineraries(ctx, query, itinerary.ThemeLight, selected)
	if err != nil {
		slog.Error("Route search failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\n%s → %s (%s, %s)\n\n", *from, *to, prefs.Types, prefs.Priority)
	if err := itinerary.WriteText(os.Stdout, cards); err != nil {
		slog.Error("Failed to write itineraries", "error", err)
		os.Exit(1)
	}
	if len(cards) > 0 {
		fmt.Printf("Permalink: ?q=%s\n", permalink.Encode(permalink.Route(src, dst, prefs.Types, prefs.Priority, selected, 0)))
	}
	fmt.Printf("Data loaded: %s\n", client.GetLastUpdate().Format("2006-01-02 15:04"))
}

func newClient(demo bool, stations, lines string) (*transit.LocalClient, error) {
	config := transit.DefaultConfig()
	config.CacheSize = 0

	if demo {
		st, ln := feed.SampleNetwork()
		return transit.NewStatic(st, ln, config), nil
	}

	config.StationsSource = stations
	config.LinesSource = lines
	return transit.NewLocal(context.Background(), config)
}
