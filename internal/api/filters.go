package api

import "strings"

// Filters is the audio filter set understood by the server. Nil members
// are omitted.
type Filters struct {
	Volume     *float64           `json:"volume,omitempty"`
	Equalizer  []EqualizerBand    `json:"equalizer,omitempty"`
	Karaoke    *KaraokeOptions    `json:"karaoke,omitempty"`
	Timescale  *TimescaleOptions  `json:"timescale,omitempty"`
	Tremolo    *WaveOptions       `json:"tremolo,omitempty"`
	Vibrato    *WaveOptions       `json:"vibrato,omitempty"`
	Rotation   *RotationOptions   `json:"rotation,omitempty"`
	Distortion *DistortionOptions `json:"distortion,omitempty"`
	ChannelMix *ChannelMixOptions `json:"channelMix,omitempty"`
	LowPass    *LowPassOptions    `json:"lowPass,omitempty"`
}

type EqualizerBand struct {
	Band int     `json:"band"`
	Gain float64 `json:"gain"`
}

type KaraokeOptions struct {
	Level       float64 `json:"level"`
	MonoLevel   float64 `json:"monoLevel"`
	FilterBand  float64 `json:"filterBand"`
	FilterWidth float64 `json:"filterWidth"`
}

type TimescaleOptions struct {
	Speed float64 `json:"speed"`
	Pitch float64 `json:"pitch"`
	Rate  float64 `json:"rate"`
}

// WaveOptions parameterizes both tremolo and vibrato.
type WaveOptions struct {
	Frequency float64 `json:"frequency"`
	Depth     float64 `json:"depth"`
}

type RotationOptions struct {
	RotationHz float64 `json:"rotationHz"`
}

type DistortionOptions struct {
	SinOffset float64 `json:"sinOffset"`
	SinScale  float64 `json:"sinScale"`
	CosOffset float64 `json:"cosOffset"`
	CosScale  float64 `json:"cosScale"`
	TanOffset float64 `json:"tanOffset"`
	TanScale  float64 `json:"tanScale"`
	Offset    float64 `json:"offset"`
	Scale     float64 `json:"scale"`
}

type ChannelMixOptions struct {
	LeftToLeft   float64 `json:"leftToLeft"`
	LeftToRight  float64 `json:"leftToRight"`
	RightToLeft  float64 `json:"rightToLeft"`
	RightToRight float64 `json:"rightToRight"`
}

type LowPassOptions struct {
	Smoothing float64 `json:"smoothing"`
}

// Presets lists the filter presets in menu order.
var Presets = []string{
	"Clear", "Bassboost", "Nightcore", "Vaporwave",
	"8D", "Soft", "Tremolo", "Vibrato", "Karaoke",
}

// Preset returns the filter set for a preset name, case-insensitively.
// Unknown names yield the empty set, which clears every filter.
func Preset(name string) Filters {
	switch strings.ToLower(name) {
	case "bassboost":
		return Filters{Equalizer: []EqualizerBand{
			{Band: 0, Gain: 0.2},
			{Band: 1, Gain: 0.15},
			{Band: 2, Gain: 0.1},
			{Band: 3, Gain: 0.05},
			{Band: 4, Gain: 0.0},
			{Band: 5, Gain: -0.05},
		}}
	case "soft":
		return Filters{LowPass: &LowPassOptions{Smoothing: 20}}
	case "nightcore":
		return Filters{Timescale: &TimescaleOptions{Speed: 1.1, Pitch: 1.1, Rate: 1.0}}
	case "vaporwave":
		return Filters{Timescale: &TimescaleOptions{Speed: 0.85, Pitch: 0.8, Rate: 1.0}}
	case "8d":
		return Filters{Rotation: &RotationOptions{RotationHz: 0.2}}
	case "tremolo":
		return Filters{Tremolo: &WaveOptions{Frequency: 2.0, Depth: 0.5}}
	case "vibrato":
		return Filters{Vibrato: &WaveOptions{Frequency: 2.0, Depth: 0.5}}
	case "karaoke":
		return Filters{Karaoke: &KaraokeOptions{Level: 1.0, MonoLevel: 1.0, FilterBand: 220, FilterWidth: 100}}
	default:
		return Filters{}
	}
}
