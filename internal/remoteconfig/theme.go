package remoteconfig

const (
	keyIcon  = "icon"
	keyFont  = "font"
	keyColor = "color"
	keyMode  = "mode"

	keyName    = "name"
	keyEnabled = "enabled"
)

// ThemeConfig is the client theme delivered through remote config. Every field
// is optional and a missing section means disabled.
type ThemeConfig struct {
	Font  FontConfig  `json:"font"`
	Color ColorConfig `json:"color"`
	Icon  *string     `json:"icon,omitempty"`
	Mode  *string     `json:"mode,omitempty"`
}

type FontConfig struct {
	Enabled bool    `json:"enabled"`
	Name    *string `json:"name,omitempty"`
}

type ColorConfig struct {
	Enabled bool    `json:"enabled"`
	Name    *string `json:"name,omitempty"`
}

func NewThemeConfig(dict map[string]any) *ThemeConfig {
	return &ThemeConfig{
		Font:  NewFontConfig(section(dict, keyFont)),
		Color: NewColorConfig(section(dict, keyColor)),
		Icon:  stringValue(dict, keyIcon),
		Mode:  stringValue(dict, keyMode),
	}
}

func NewFontConfig(dict map[string]any) FontConfig {
	enabled, _ := dict[keyEnabled].(bool)
	return FontConfig{Enabled: enabled, Name: stringValue(dict, keyName)}
}

func NewColorConfig(dict map[string]any) ColorConfig {
	enabled, _ := dict[keyEnabled].(bool)
	return ColorConfig{Enabled: enabled, Name: stringValue(dict, keyName)}
}

// FontName returns the configured font when the font override is enabled.
func (t *ThemeConfig) FontName() (string, bool) {
	if t == nil || !t.Font.Enabled || t.Font.Name == nil {
		return "", false
	}
	return *t.Font.Name, true
}

// ColorName returns the configured palette when the color override is enabled.
func (t *ThemeConfig) ColorName() (string, bool) {
	if t == nil || !t.Color.Enabled || t.Color.Name == nil {
		return "", false
	}
	return *t.Color.Name, true
}

func section(dict map[string]any, key string) map[string]any {
	if s, ok := dict[key].(map[string]any); ok {
		return s
	}
	return map[string]any{}
}

func stringValue(dict map[string]any, key string) *string {
	s, ok := dict[key].(string)
	if !ok {
		return nil
	}
	return &s
}
