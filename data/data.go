// Package data embeds the default historical weather dataset.
package data

import _ "embed"

// Weather is the bundled dataset served when no DATASET_SOURCE is configured.
//
//go:embed weather.json
var Weather []byte

// WeatherName is the origin reported for the embedded dataset.
const WeatherName = "embedded:weather.json"
