package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Heuristics holds the character-window sizes used to associate dates with
// nearby events. Window association is approximate by nature: two dated
// records close together in the text can cross-contaminate a window, so the
// sizes are configuration rather than constants.
type Heuristics struct {
	// StatusWindow is how far forward (in characters) to look for a
	// "<Status> reached" phrase after an XP deduction marker.
	StatusWindow int
	// TripDateBack is how far back to look for a date before a trip summary.
	TripDateBack int
	// SegDateBack / SegDateForward bound the combined window around a
	// segment match when searching for its "on DD Month YYYY" date.
	SegDateBack    int
	SegDateForward int
	// MarkerGap is the maximum run of boilerplate tolerated between a
	// two-part bonus marker's prefix and its second phrase.
	MarkerGap int
}

// Settings is the full runtime configuration.
type Settings struct {
	Heuristics Heuristics
	// CycleStart selects which cycle-start source the reconciliation uses
	// when both are available: "derived" (1st of month after the latest
	// level-up) or "explicit" (a cycle-boundary statement in the text).
	CycleStart string
	ServerAddr string
}

const (
	CycleStartDerived  = "derived"
	CycleStartExplicit = "explicit"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("heuristics.status_window", 300)
	v.SetDefault("heuristics.trip_date_back", 50)
	v.SetDefault("heuristics.seg_date_back", 100)
	v.SetDefault("heuristics.seg_date_forward", 300)
	v.SetDefault("heuristics.marker_gap", 120)
	v.SetDefault("reconcile.cycle_start", CycleStartDerived)
	v.SetDefault("server.addr", ":8080")
}

// Defaults returns the built-in settings without touching any config file.
func Defaults() Settings {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}

// Load reads settings from an optional YAML file, with SKYSTATUS_* env
// variables overriding file values. An empty path means defaults + env only.
func Load(path string) (Settings, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SKYSTATUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("failed to read config %q: %w", path, err)
		}
	}

	s := fromViper(v)
	if s.CycleStart != CycleStartDerived && s.CycleStart != CycleStartExplicit {
		return Settings{}, fmt.Errorf("reconcile.cycle_start must be %q or %q, got %q",
			CycleStartDerived, CycleStartExplicit, s.CycleStart)
	}
	return s, nil
}

func fromViper(v *viper.Viper) Settings {
	return Settings{
		Heuristics: Heuristics{
			StatusWindow:   v.GetInt("heuristics.status_window"),
			TripDateBack:   v.GetInt("heuristics.trip_date_back"),
			SegDateBack:    v.GetInt("heuristics.seg_date_back"),
			SegDateForward: v.GetInt("heuristics.seg_date_forward"),
			MarkerGap:      v.GetInt("heuristics.marker_gap"),
		},
		CycleStart: v.GetString("reconcile.cycle_start"),
		ServerAddr: v.GetString("server.addr"),
	}
}
