package itinerary

import (
	"fmt"
	"io"
	"strings"
)

// NoRouteText is printed when a search finds nothing
const NoRouteText = "Brak połączenia."

// WriteText prints cards as plain text, one block per route
func WriteText(w io.Writer, cards []Card) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, NoRouteText)
		return err
	}

	var sb strings.Builder
	for _, c := range cards {
		marker := " "
		if c.Selected {
			marker = "*"
		}
		fmt.Fprintf(&sb, "%s Trasa %d  %s\n", marker, c.Index+1, c.Summary())
		for i, leg := range c.Legs {
			fmt.Fprintf(&sb, "   %d. %s [%s]\n", i+1, leg.Name, leg.TypeLabel)
			names := make([]string, len(leg.Stops))
			for j, stop := range leg.Stops {
				names[j] = stop.Name
				if stop.Skipped {
					names[j] = "(" + stop.Name + ")"
				}
			}
			fmt.Fprintf(&sb, "      %s\n", strings.Join(names, " → "))
			fmt.Fprintf(&sb, "      Wsiąść: %s\n", leg.Board)
			fmt.Fprintf(&sb, "      Wysiąść: %s\n", leg.Alight)
		}
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
