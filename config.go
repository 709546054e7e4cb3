// config.go
// Copyright(c) 2026 orrery contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/orrery/orrery/pkg/celengine"
	"github.com/orrery/orrery/pkg/util"
)

// Settings is the TOML settings file. Zero values mean "leave the
// engine's default alone"; out-of-range values are clamped by the engine
// setters with a logged warning.
type Settings struct {
	FaintestMagnitude float64 `toml:"faintest_magnitude"`
	AutoMag           bool    `toml:"auto_magnitude"`
	FadingOrbits      bool    `toml:"fading_orbits"`
	AmbientLight      float32 `toml:"ambient_light"`
	MinFeatureSize    float64 `toml:"min_feature_size"`
	MinOrbitSize      float64 `toml:"min_orbit_size"`
	DistanceLimitKm   float64 `toml:"distance_limit_km"`
	DepthSplitRatio   float64 `toml:"depth_split_ratio"`
	ScreenDPI         int     `toml:"screen_dpi"`

	// Body kind names ("planet", "moon", ...); empty means all kinds.
	RenderKinds []string `toml:"render_kinds"`
	LabelKinds  []string `toml:"label_kinds"`
	OrbitKinds  []string `toml:"orbit_kinds"`

	Window struct {
		Width  int `toml:"width"`
		Height int `toml:"height"`
	} `toml:"window"`

	Detail struct {
		OrbitSamplePoints int     `toml:"orbit_sample_points"`
		OrbitPeriodsShown float64 `toml:"orbit_periods_shown"`
		OrbitWindowEnd    float64 `toml:"orbit_window_end"`
		FadeFraction      float64 `toml:"fade_fraction"`
	} `toml:"detail"`
}

func LoadSettings(path string) (Settings, error) {
	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

var settingsKinds = map[string]celengine.BodyKind{
	"star":           celengine.KindStar,
	"planet":         celengine.KindPlanet,
	"dwarfplanet":    celengine.KindDwarfPlanet,
	"moon":           celengine.KindMoon,
	"minormoon":      celengine.KindMinorMoon,
	"asteroid":       celengine.KindAsteroid,
	"comet":          celengine.KindComet,
	"spacecraft":     celengine.KindSpacecraft,
	"referencepoint": celengine.KindReferencePoint,
}

// kindMask turns kind names into a kind bitmask; unknown names are
// reported, not fatal.
func kindMask(names []string) (uint32, error) {
	var mask uint32
	var unknown []string
	for _, n := range names {
		if k, ok := settingsKinds[strings.ToLower(n)]; ok {
			mask |= k.Flag()
		} else {
			unknown = append(unknown, n)
		}
	}
	if len(unknown) > 0 {
		return mask, fmt.Errorf("unknown body kinds: %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(util.SortedMapKeys(settingsKinds), ", "))
	}
	return mask, nil
}

// Apply pushes the settings into the engine through its setters, which
// clamp anything out of range.
func (s Settings) Apply(sr *celengine.SceneRenderer) error {
	if s.FaintestMagnitude != 0 {
		sr.SetFaintestVisible(s.FaintestMagnitude)
	}
	sr.SetAutoMag(s.AutoMag)
	sr.SetFadingOrbits(s.FadingOrbits)
	if s.AmbientLight != 0 {
		sr.SetAmbientLight(s.AmbientLight)
	}
	if s.MinFeatureSize != 0 {
		sr.SetMinimumFeatureSize(s.MinFeatureSize)
	}
	if s.MinOrbitSize != 0 {
		sr.SetMinimumOrbitSize(s.MinOrbitSize)
	}
	if s.DistanceLimitKm != 0 {
		sr.SetDistanceLimit(s.DistanceLimitKm)
	}
	if s.DepthSplitRatio != 0 {
		sr.SetDepthSplitRatio(s.DepthSplitRatio)
	}
	if s.ScreenDPI != 0 {
		sr.SetScreenDPI(s.ScreenDPI)
	}

	for _, kinds := range []struct {
		names []string
		set   func(uint32)
	}{
		{s.RenderKinds, sr.SetRenderFlags},
		{s.LabelKinds, sr.SetLabelMode},
		{s.OrbitKinds, sr.SetOrbitMask},
	} {
		if len(kinds.names) == 0 {
			continue
		}
		mask, err := kindMask(kinds.names)
		if err != nil {
			return err
		}
		kinds.set(mask)
	}

	if s.Detail.OrbitSamplePoints != 0 || s.Detail.OrbitPeriodsShown != 0 ||
		s.Detail.OrbitWindowEnd != 0 || s.Detail.FadeFraction != 0 {
		d := sr.DetailOptions()
		if s.Detail.OrbitSamplePoints != 0 {
			d.OrbitPathSamplePoints = s.Detail.OrbitSamplePoints
		}
		if s.Detail.OrbitPeriodsShown != 0 {
			d.OrbitPeriodsShown = s.Detail.OrbitPeriodsShown
		}
		if s.Detail.OrbitWindowEnd != 0 {
			d.OrbitWindowEnd = s.Detail.OrbitWindowEnd
		}
		if s.Detail.FadeFraction != 0 {
			d.LinearFadeFraction = s.Detail.FadeFraction
		}
		sr.SetDetailOptions(d)
	}

	return nil
}
