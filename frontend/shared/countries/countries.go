// Package countries lists the ISO 3166-1 alpha-2 codes offered by the registration and profile forms.
package countries

import (
	"sort"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"userhub/frontend/shared/html"
)

var codes = []string{
	"AE", "AR", "AT", "AU", "BD", "BE", "BR", "CA", "CH", "CL", "CN", "CO", "CZ", "DE", "DK", "EG",
	"ES", "FI", "FR", "GB", "GH", "GR", "HK", "HU", "ID", "IE", "IL", "IN", "IT", "JP", "KE", "KR",
	"LK", "MA", "MX", "MY", "NG", "NL", "NO", "NZ", "PE", "PH", "PK", "PL", "PT", "RO", "SA", "SE",
	"SG", "TH", "TR", "TW", "UA", "US", "VN", "ZA",
}

var (
	once    sync.Once
	options []html.Option
	names   map[string]string
)

func load() {
	namer := display.English.Regions()
	names = make(map[string]string, len(codes))
	options = make([]html.Option, 0, len(codes))
	for _, code := range codes {
		region, err := language.ParseRegion(code)
		if err != nil {
			continue
		}
		name := namer.Name(region)
		if name == "" {
			name = code
		}
		names[code] = name
		options = append(options, html.Option{Value: code, Label: name})
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Label < options[j].Label })
}

// Options returns the select options sorted by country name.
func Options() []html.Option {
	once.Do(load)
	out := make([]html.Option, len(options))
	copy(out, options)
	return out
}

// Name returns the English name for code, or code itself when unknown.
func Name(code string) string {
	once.Do(load)
	if name, ok := names[code]; ok {
		return name
	}
	return code
}
