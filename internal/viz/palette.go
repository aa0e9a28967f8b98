package viz

import (
	"fmt"
	"image/color"
)

// paired is the ColorBrewer "Paired" palette: alternating faint/strong
// shades of the same hue, so each genotype gets a faint colour for its
// individual traces and the matching strong colour for the summary overlay.
var paired = []string{
	"#a6cee3", "#1f78b4",
	"#b2df8a", "#33a02c",
	"#fb9a99", "#e31a1c",
	"#fdbf6f", "#ff7f00",
	"#cab2d6", "#6a3d9a",
	"#ffff99", "#b15928",
}

// Pair is the two chart colours assigned to one genotype.
type Pair struct {
	Faint  string // individual fish traces
	Strong string // summary trace
}

// Palette assigns a colour pair to each genotype, in order. The paired
// palette caps the plot at six genotypes.
func Palette(genotypes []string) (map[string]Pair, error) {
	if len(genotypes) > len(paired)/2 {
		return nil, fmt.Errorf("at most %d genotypes can be plotted, got %d", len(paired)/2, len(genotypes))
	}
	out := make(map[string]Pair, len(genotypes))
	for i, g := range genotypes {
		out[g] = Pair{Faint: paired[2*i], Strong: paired[2*i+1]}
	}
	return out, nil
}

// parseHex converts a "#rrggbb" colour with the given alpha.
func parseHex(s string, alpha uint8) (color.RGBA, error) {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: alpha}, nil
}
