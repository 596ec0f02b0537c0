package domain

// Theme is the colour scheme persisted per profile.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored value to a Theme. Anything but "dark" is light.
func ParseTheme(s string) Theme {
	if s == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ToggleLabel is the caption of the control that switches away from t.
func (t Theme) ToggleLabel() string {
	if t == ThemeDark {
		return "☀️ Light"
	}
	return "🌙 Dark"
}
