package showheat

import (
	"image/color"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a normalized value in [0, 1] onto a color ramp.
// Ramps are defined by anchor stops and interpolated in Lab space,
// so sequential maps stay perceptually ordered between anchors.
type Colormap struct {
	name  string
	stops []colorful.Color
}

// Name returns the registry name of the colormap.
func (cm Colormap) Name() string {
	return cm.name
}

// At returns the ramp color for t. Values outside [0, 1] are clamped.
func (cm Colormap) At(t float64) color.RGBA {
	c := cm.at(t)
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// HexAt returns the ramp color for t as a "#rrggbb" string.
func (cm Colormap) HexAt(t float64) string {
	return cm.at(t).Hex()
}

func (cm Colormap) at(t float64) colorful.Color {
	if len(cm.stops) == 0 {
		return colorful.Color{}
	}
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if len(cm.stops) == 1 {
		return cm.stops[0]
	}
	pos := t * float64(len(cm.stops)-1)
	i := int(pos)
	if i >= len(cm.stops)-1 {
		return cm.stops[len(cm.stops)-1]
	}
	frac := pos - float64(i)
	return cm.stops[i].BlendLab(cm.stops[i+1], frac).Clamped()
}

// Reversed returns the colormap with its ramp flipped, named with the
// conventional "_r" suffix.
func (cm Colormap) Reversed() Colormap {
	rev := make([]colorful.Color, len(cm.stops))
	for i, s := range cm.stops {
		rev[len(cm.stops)-1-i] = s
	}
	name := cm.name + "_r"
	if strings.HasSuffix(cm.name, "_r") {
		name = strings.TrimSuffix(cm.name, "_r")
	}
	return Colormap{name: name, stops: rev}
}

// ColormapByName resolves a registered colormap. Lookup is
// case-insensitive and a "_r" suffix selects the reversed ramp.
func ColormapByName(name string) (Colormap, error) {
	trimmed := strings.TrimSpace(name)
	if cm, ok := findColormap(trimmed); ok {
		return cm, nil
	}
	if base := strings.TrimSuffix(trimmed, "_r"); base != trimmed {
		if cm, ok := findColormap(base); ok {
			return cm.Reversed(), nil
		}
	}
	return Colormap{}, NewConfigError("colormap", name, ErrUnknownColormap)
}

func findColormap(name string) (Colormap, bool) {
	for reg, stops := range colormapStops {
		if strings.EqualFold(reg, name) {
			return Colormap{name: reg, stops: parseStops(stops)}, true
		}
	}
	return Colormap{}, false
}

// ColormapNames returns the registered colormap names, sorted.
func ColormapNames() []string {
	names := make([]string, 0, len(colormapStops))
	for name := range colormapStops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseStops(hexes []string) []colorful.Color {
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			// Registry entries are static; a bad one is a programming error.
			panic("showheat: bad colormap stop " + h + ": " + err.Error())
		}
		stops[i] = c
	}
	return stops
}

// colormapStops holds the anchor colors of each registered ramp,
// light to dark for the sequential maps. The Brewer ramps use the
// 9-class anchors; the perceptually uniform maps are sampled at ten
// evenly spaced points.
var colormapStops = map[string][]string{
	"Blues": {
		"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
		"#4292c6", "#2171b5", "#08519c", "#08306b",
	},
	"Greens": {
		"#f7fcf5", "#e5f5e0", "#c7e9c0", "#a1d99b", "#74c476",
		"#41ab5d", "#238b45", "#006d2c", "#00441b",
	},
	"Reds": {
		"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
		"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
	},
	"Oranges": {
		"#fff5eb", "#fee6ce", "#fdd0a2", "#fdae6b", "#fd8d3c",
		"#f16913", "#d94801", "#a63603", "#7f2704",
	},
	"Purples": {
		"#fcfbfd", "#efedf5", "#dadaeb", "#bcbddc", "#9e9ac8",
		"#807dba", "#6a51a3", "#54278f", "#3f007d",
	},
	"Greys": {
		"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696",
		"#737373", "#525252", "#252525", "#000000",
	},
	"YlOrRd": {
		"#ffffcc", "#ffeda0", "#fed976", "#feb24c", "#fd8d3c",
		"#fc4e2a", "#e31a1c", "#bd0026", "#800026",
	},
	"YlGnBu": {
		"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4",
		"#1d91c0", "#225ea8", "#253494", "#081d58",
	},
	"Viridis": {
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	},
	"Plasma": {
		"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
		"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
	},
	"Inferno": {
		"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
		"#cf4446", "#ed6925", "#fb9b06", "#f7d03c", "#fcffa4",
	},
	"Magma": {
		"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f",
		"#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf",
	},
	"Cividis": {
		"#00224e", "#123570", "#3b496c", "#575d6d", "#707173",
		"#8a8678", "#a59c74", "#c3b369", "#e1cc55", "#fee838",
	},
	"RdYlGn": {
		"#a50026", "#d73027", "#f46d43", "#fdae61", "#fee08b",
		"#ffffbf", "#d9ef8b", "#a6d96a", "#66bd63", "#1a9850", "#006837",
	},
	"Spectral": {
		"#9e0142", "#d53e4f", "#f46d43", "#fdae61", "#fee08b",
		"#ffffbf", "#e6f598", "#abdda4", "#66c2a5", "#3288bd", "#5e4fa2",
	},
}
