package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// PACEWATCH_THEME_DIR can point to one or more extra theme directories,
// separated by the OS path-list separator.
const themeDirEnvVar = "PACEWATCH_THEME_DIR"

const defaultThemeName = "Catppuccin Mocha"

// Theme is the color token set used by the dashboard. External themes are JSON
// files with the same snake_case fields, e.g. {"name":"Mine","base":"#111111",...}.
type Theme struct {
	Name string `json:"name"`
	Icon string `json:"icon"`

	Base     lipgloss.Color `json:"base"`
	Mantle   lipgloss.Color `json:"mantle"`
	Surface0 lipgloss.Color `json:"surface0"`
	Surface1 lipgloss.Color `json:"surface1"`

	Text    lipgloss.Color `json:"text"`
	Subtext lipgloss.Color `json:"subtext"`
	Dim     lipgloss.Color `json:"dim"`

	Accent   lipgloss.Color `json:"accent"`
	Blue     lipgloss.Color `json:"blue"`
	Sapphire lipgloss.Color `json:"sapphire"`
	Green    lipgloss.Color `json:"green"`
	Yellow   lipgloss.Color `json:"yellow"`
	Red      lipgloss.Color `json:"red"`
	Peach    lipgloss.Color `json:"peach"`
	Teal     lipgloss.Color `json:"teal"`
	Lavender lipgloss.Color `json:"lavender"`
}

var (
	themeMu        sync.RWMutex
	themes         []Theme
	activeThemeIdx int
)

func init() {
	themes = builtinThemes()
	activeThemeIdx = defaultThemeIndex(themes)
	applyTheme(themes[activeThemeIdx])
}

func builtinThemes() []Theme {
	return []Theme{
		{
			Name: "Catppuccin Mocha", Icon: "🐱",
			Base: "#1E1E2E", Mantle: "#181825", Surface0: "#313244", Surface1: "#45475A",
			Text: "#CDD6F4", Subtext: "#A6ADC8", Dim: "#585B70",
			Accent: "#CBA6F7", Blue: "#89B4FA", Sapphire: "#74C7EC",
			Green: "#A6E3A1", Yellow: "#F9E2AF", Red: "#F38BA8",
			Peach: "#FAB387", Teal: "#94E2D5", Lavender: "#B4BEFE",
		},
		{
			Name: "Gruvbox", Icon: "🌻",
			Base: "#282828", Mantle: "#1D2021", Surface0: "#3C3836", Surface1: "#504945",
			Text: "#EBDBB2", Subtext: "#D5C4A1", Dim: "#665C54",
			Accent: "#D3869B", Blue: "#83A598", Sapphire: "#83A598",
			Green: "#B8BB26", Yellow: "#FABD2F", Red: "#FB4934",
			Peach: "#FE8019", Teal: "#8EC07C", Lavender: "#D3869B",
		},
		{
			Name: "Nord", Icon: "❄",
			Base: "#2E3440", Mantle: "#242933", Surface0: "#3B4252", Surface1: "#434C5E",
			Text: "#ECEFF4", Subtext: "#D8DEE9", Dim: "#4C566A",
			Accent: "#B48EAD", Blue: "#81A1C1", Sapphire: "#88C0D0",
			Green: "#A3BE8C", Yellow: "#EBCB8B", Red: "#BF616A",
			Peach: "#D08770", Teal: "#8FBCBB", Lavender: "#B48EAD",
		},
		{
			Name: "Tokyo Night", Icon: "🌃",
			Base: "#1A1B26", Mantle: "#16161E", Surface0: "#24283B", Surface1: "#414868",
			Text: "#C0CAF5", Subtext: "#A9B1D6", Dim: "#565F89",
			Accent: "#BB9AF7", Blue: "#7AA2F7", Sapphire: "#7DCFFF",
			Green: "#9ECE6A", Yellow: "#E0AF68", Red: "#F7768E",
			Peach: "#FF9E64", Teal: "#73DACA", Lavender: "#BB9AF7",
		},
		{
			Name: "Solarized Dark", Icon: "🌅",
			Base: "#002B36", Mantle: "#073642", Surface0: "#073642", Surface1: "#0E3A45",
			Text: "#93A1A1", Subtext: "#839496", Dim: "#586E75",
			Accent: "#D33682", Blue: "#268BD2", Sapphire: "#2AA198",
			Green: "#859900", Yellow: "#B58900", Red: "#DC322F",
			Peach: "#CB4B16", Teal: "#2AA198", Lavender: "#6C71C4",
		},
		{
			Name: "Grayscale", Icon: "⬛",
			Base: "#000000", Mantle: "#0A0A0A", Surface0: "#181818", Surface1: "#2A2A2A",
			Text: "#F5F5F5", Subtext: "#D6D6D6", Dim: "#A8A8A8",
			Accent: "#FFFFFF", Blue: "#E8E8E8", Sapphire: "#DDDDDD",
			Green: "#D0D0D0", Yellow: "#BEBEBE", Red: "#AAAAAA",
			Peach: "#ECECEC", Teal: "#CCCCCC", Lavender: "#D9D9D9",
		},
	}
}

func defaultThemeIndex(all []Theme) int {
	_, idx, found := lo.FindIndexOf(all, func(t Theme) bool {
		return strings.EqualFold(t.Name, defaultThemeName)
	})
	if !found {
		return 0
	}
	return idx
}

func applyTheme(t Theme) {
	colorBase = t.Base
	colorMantle = t.Mantle
	colorSurface0 = t.Surface0
	colorSurface1 = t.Surface1
	colorText = t.Text
	colorSubtext = t.Subtext
	colorDim = t.Dim
	colorAccent = t.Accent
	colorBlue = t.Blue
	colorSapphire = t.Sapphire
	colorGreen = t.Green
	colorYellow = t.Yellow
	colorRed = t.Red
	colorPeach = t.Peach
	colorTeal = t.Teal
	colorLavender = t.Lavender
	rebuildStyles()
}

func normalizeTheme(in Theme) Theme {
	in.Name = strings.TrimSpace(in.Name)
	in.Icon = strings.TrimSpace(in.Icon)
	if in.Icon == "" {
		in.Icon = "🎨"
	}
	for _, f := range in.colorFields() {
		*f.value = lipgloss.Color(strings.TrimSpace(string(*f.value)))
	}
	return in
}

func (t *Theme) colorFields() []struct {
	name  string
	value *lipgloss.Color
} {
	return []struct {
		name  string
		value *lipgloss.Color
	}{
		{"base", &t.Base}, {"mantle", &t.Mantle}, {"surface0", &t.Surface0}, {"surface1", &t.Surface1},
		{"text", &t.Text}, {"subtext", &t.Subtext}, {"dim", &t.Dim},
		{"accent", &t.Accent}, {"blue", &t.Blue}, {"sapphire", &t.Sapphire},
		{"green", &t.Green}, {"yellow", &t.Yellow}, {"red", &t.Red},
		{"peach", &t.Peach}, {"teal", &t.Teal}, {"lavender", &t.Lavender},
	}
}

func (t Theme) validate() error {
	if t.Name == "" {
		return fmt.Errorf("missing required field: name")
	}
	var missing []string
	for _, f := range t.colorFields() {
		if strings.TrimSpace(string(*f.value)) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required color fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func themeSearchDirs(configDir string) []string {
	var out []string
	if strings.TrimSpace(configDir) != "" {
		out = append(out, filepath.Join(configDir, "themes"))
	}
	if env := strings.TrimSpace(os.Getenv(themeDirEnvVar)); env != "" {
		out = append(out, filepath.SplitList(env)...)
	}
	out = lo.FilterMap(out, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return filepath.Clean(p), p != ""
	})
	return lo.Uniq(out)
}

func loadThemesFromDir(dir string) ([]Theme, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read theme dir %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	var loaded []Theme
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s: %w", path, err))
			continue
		}
		var t Theme
		if err := json.Unmarshal(data, &t); err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
			continue
		}
		t = normalizeTheme(t)
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("validate %s: %w", path, err))
			continue
		}
		loaded = append(loaded, t)
	}
	return loaded, errors.Join(errs...)
}

// mergeThemes overrides base themes by case-insensitive name and appends new ones.
func mergeThemes(base, extra []Theme) []Theme {
	merged := append([]Theme(nil), base...)
	for _, t := range extra {
		_, idx, found := lo.FindIndexOf(merged, func(b Theme) bool {
			return strings.EqualFold(b.Name, t.Name)
		})
		if found {
			merged[idx] = t
			continue
		}
		merged = append(merged, t)
	}
	return merged
}

func setActiveThemeByNameLocked(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	for i, t := range themes {
		if strings.EqualFold(t.Name, name) {
			activeThemeIdx = i
			applyTheme(t)
			return true
		}
	}
	return false
}

// LoadThemes rebuilds the catalog from the built-ins plus JSON files found in
// <configDir>/themes and PACEWATCH_THEME_DIR. Invalid files are skipped and
// reported in the joined error; valid ones stay available.
func LoadThemes(configDir string) error {
	themeMu.Lock()
	defer themeMu.Unlock()

	current := themes[activeThemeIdx].Name
	next := builtinThemes()
	var errs []error
	for _, dir := range themeSearchDirs(configDir) {
		loaded, err := loadThemesFromDir(dir)
		if err != nil {
			errs = append(errs, err)
		}
		next = mergeThemes(next, loaded)
	}

	themes = next
	if !setActiveThemeByNameLocked(current) {
		activeThemeIdx = defaultThemeIndex(themes)
		applyTheme(themes[activeThemeIdx])
	}
	return errors.Join(errs...)
}

func AvailableThemes() []Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return append([]Theme(nil), themes...)
}

func ActiveTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return themes[activeThemeIdx]
}

// CycleTheme activates the next theme and returns its name.
func CycleTheme() string {
	themeMu.Lock()
	defer themeMu.Unlock()
	activeThemeIdx = (activeThemeIdx + 1) % len(themes)
	applyTheme(themes[activeThemeIdx])
	return themes[activeThemeIdx].Name
}

func ThemeName() string {
	t := ActiveTheme()
	if t.Icon == "" {
		return t.Name
	}
	return t.Icon + " " + t.Name
}

func SetThemeByName(name string) bool {
	themeMu.Lock()
	defer themeMu.Unlock()
	return setActiveThemeByNameLocked(name)
}
