package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/desertthunder/mixt/internal/mixer"
	"github.com/desertthunder/mixt/internal/models"
	"github.com/desertthunder/mixt/internal/shared"
)

// Field indexes into the options form inputs.
const (
	fieldTotal = iota
	fieldMaxPerArtist
	fieldSlice
	fieldMaxTracks
	fieldPercents
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Total tracks",
	"Max per artist (0 = unlimited)",
	"Top/Bottom slice (T500/B500)",
	"Max tracks per playlist (0 = all)",
	"Weights (name=w, comma separated)",
}

// newOptionInputs builds the options form fields with config defaults.
func newOptionInputs(config *shared.Config) []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 64
		inputs[i] = input
	}

	inputs[fieldTotal].SetValue(strconv.Itoa(config.Defaults.TotalTracks))
	inputs[fieldMaxPerArtist].SetValue(strconv.Itoa(config.Defaults.MaxPerArtist))
	inputs[fieldTotal].Focus()

	return inputs
}

// mixForm holds the parsed options form values.
type mixForm struct {
	normalize mixer.NormalizeOptions
	options   models.MixOptions
	percents  map[string]float64
}

// parseForm validates the form inputs into mix parameters. Weights for
// sources missing from the percent field are filled in later against the
// selected source names.
func parseForm(inputs []textinput.Model, disallowShared bool) (*mixForm, error) {
	total, err := parseCount(inputs[fieldTotal].Value(), "total tracks")
	if err != nil {
		return nil, err
	}
	maxPerArtist, err := parseCount(inputs[fieldMaxPerArtist].Value(), "max per artist")
	if err != nil {
		return nil, err
	}
	maxTracks, err := parseCount(inputs[fieldMaxTracks].Value(), "max tracks per playlist")
	if err != nil {
		return nil, err
	}
	percents, err := parsePercentList(inputs[fieldPercents].Value())
	if err != nil {
		return nil, err
	}

	return &mixForm{
		normalize: mixer.NormalizeOptions{
			Slice:     strings.TrimSpace(inputs[fieldSlice].Value()),
			MaxTracks: maxTracks,
		},
		options: models.MixOptions{
			Total:          total,
			MaxPerArtist:   maxPerArtist,
			DisallowShared: disallowShared,
		},
		percents: percents,
	}, nil
}

// parseCount parses a non-negative integer field, treating blank as zero.
func parseCount(value, label string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", label)
	}
	return n, nil
}

// parsePercentList parses "name=weight, name=weight" into a weight map.
// A blank field means equal weights for every source.
func parsePercentList(value string) (map[string]float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return map[string]float64{}, nil
	}

	percents := make(map[string]float64)
	for _, part := range strings.Split(value, ",") {
		name, raw, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found || name == "" {
			return nil, fmt.Errorf("weight %q is not name=weight", part)
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || weight < 0 {
			return nil, fmt.Errorf("weight %q needs a non-negative number", part)
		}
		percents[strings.TrimSpace(name)] = weight
	}
	return percents, nil
}

// fillWeights completes a percent map for the given source names, assigning
// the equal share to any source without an explicit weight.
func fillWeights(names []string, percents map[string]float64) map[string]float64 {
	equal := 100 / float64(len(names))
	weights := make(map[string]float64, len(names))
	for _, name := range names {
		if weight, ok := percents[name]; ok {
			weights[name] = weight
		} else {
			weights[name] = equal
		}
	}
	return weights
}
