package lesson

import "math/rand/v2"

// Color is a palette entry with the spoken singular and plural names.
type Color struct {
	Name     string `json:"name" yaml:"name"`
	Singular string `json:"singular" yaml:"singular"`
	Plural   string `json:"plural" yaml:"plural"`
	Hex      string `json:"hex" yaml:"hex"`
}

// Palette is the fixed set of token colors.
var Palette = []Color{
	{Name: "red", Singular: "rojo", Plural: "rojos", Hex: "#ef4444"},
	{Name: "blue", Singular: "azul", Plural: "azules", Hex: "#3b82f6"},
	{Name: "green", Singular: "verde", Plural: "verdes", Hex: "#10b981"},
	{Name: "yellow", Singular: "amarillo", Plural: "amarillos", Hex: "#f59e0b"},
	{Name: "purple", Singular: "morado", Plural: "morados", Hex: "#8b5cf6"},
	{Name: "orange", Singular: "naranja", Plural: "naranjas", Hex: "#f97316"},
	{Name: "pink", Singular: "rosa", Plural: "rosas", Hex: "#ec4899"},
	{Name: "brown", Singular: "café", Plural: "cafés", Hex: "#8b5a2b"},
	{Name: "black", Singular: "negro", Plural: "negros", Hex: "#111827"},
	{Name: "gray", Singular: "gris", Plural: "grises", Hex: "#6b7280"},
}

// fallbackCelebration is used when every palette color is excluded.
const fallbackCelebration = "#22c55e"

// pickTwoColors returns two distinct palette colors.
func pickTwoColors(rng *rand.Rand) (Color, Color) {
	i := rng.IntN(len(Palette))
	j := rng.IntN(len(Palette) - 1)
	if j >= i {
		j++
	}
	return Palette[i], Palette[j]
}

// celebrationColor picks a palette hex not in exclude.
func celebrationColor(rng *rand.Rand, exclude ...Color) string {
	options := make([]string, 0, len(Palette))
	for _, c := range Palette {
		skip := false
		for _, ex := range exclude {
			if c.Hex == ex.Hex {
				skip = true
				break
			}
		}
		if !skip {
			options = append(options, c.Hex)
		}
	}
	if len(options) == 0 {
		return fallbackCelebration
	}
	return options[rng.IntN(len(options))]
}
