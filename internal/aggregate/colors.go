package aggregate

import "fmt"

// Theme selects the chart palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var (
	lightPalette = [...]string{"#2563EB", "#16A34A", "#DC2626", "#D97706", "#7C3AED", "#0891B2"}
	darkPalette  = [...]string{"#60A5FA", "#4ADE80", "#F87171", "#FBBF24", "#A78BFA", "#22D3EE"}
)

// ParseTheme accepts "light" (also the default for "") and "dark".
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case "", ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	}
	return "", fmt.Errorf("unknown theme %q", s)
}

// GroupColors assigns palette entries by position in groups, modulo the
// palette size. The mapping only depends on the order of groups.
func GroupColors(groups []string, theme Theme) map[string]string {
	palette := lightPalette[:]
	if theme == ThemeDark {
		palette = darkPalette[:]
	}
	colors := make(map[string]string, len(groups))
	for i, g := range groups {
		colors[g] = palette[i%len(palette)]
	}
	return colors
}
