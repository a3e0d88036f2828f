package feed

import "github.com/jusunglee/railmap-go/internal/models"

// SampleStationsJSON is a small network used by tests and the -demo mode of the CLI
const SampleStationsJSON = `{
  "GD":  {"name": "Gdańsk Główny", "coordinates": [10, 50], "voivodeship": "pomorskie"},
  "MB":  {"name": "Malbork", "coordinates": [15, 52], "voivodeship": "pomorskie"},
  "WAW": {"name": "Warszawa Centralna", "coordinates": [45, 60], "voivodeship": "mazowieckie"},
  "WZ":  {"name": "Warszawa Zachodnia", "coordinates": [45, 58], "voivodeship": "mazowieckie"},
  "SK":  {"name": "Skierniewice", "coordinates": [48, 52], "voivodeship": "łódzkie"},
  "LF":  {"name": "Łódź Fabryczna", "coordinates": [50, 45], "voivodeship": "łódzkie"},
  "RD":  {"name": "Radom", "coordinates": [58, 62], "voivodeship": "mazowieckie"},
  "KR":  {"name": "Kraków Główny", "coordinates": [80, 55], "voivodeship": "małopolskie"},
  "KT":  {"name": "Katowice", "coordinates": [78, 45], "voivodeship": "śląskie"},
  "PO":  {"name": "Poznań Główny", "coordinates": [40, 30], "voivodeship": "wielkopolskie"},
  "ML":  {"name": "Młociny", "coordinates": [42, 59], "type": "metro"},
  "PM":  {"name": "Politechnika", "coordinates": [46, 61], "type": "metro"},
  "LO":  {"name": "Lotnisko Chopina", "coordinates": [47, 60]}
}`

// SampleLinesJSON holds the lines of the sample network
const SampleLinesJSON = `{
  "IC1":  {"category": "IC", "stations": ["GD", "MB", "WAW", "RD", "KR"], "skipped": ["MB", "RD"],
           "color": "Red", "relation": "Gdańsk - Kraków\nprzez Warszawę"},
  "IC2":  {"category": "EIC", "stations": ["PO", "LF", "KT", "KR"], "color": "Orange",
           "relation": "Poznań - Kraków"},
  "R1":   {"category": "REGIONALNE", "stations": ["WAW", "WZ", "SK", "LF"], "color": "Blue",
           "relation": "Warszawa - Łódź"},
  "R2":   {"category": "REGIO", "stations": ["WAW", "RD"], "color": "Green"},
  "M1":   {"category": "METRO", "stations": ["ML", "WAW", "PM"],
           "hexLightMode": "#1565c0", "hexDarkMode": "#90caf9"},
  "NŻ1":  {"stations": ["LO", "WZ"], "color": "Purple", "relation": "Lotnisko - Zachodnia"}
}`

// SampleNetwork parses the sample dictionaries
func SampleNetwork() (map[string]*models.Station, map[string]*models.Line) {
	stations, err := ParseStations([]byte(SampleStationsJSON))
	if err != nil {
		panic(err)
	}
	lines, err := ParseLines([]byte(SampleLinesJSON))
	if err != nil {
		panic(err)
	}
	return stations, lines
}
