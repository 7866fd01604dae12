package weather

import (
	"errors"
	"fmt"
	"strings"
)

// ConsistencyMode controls what happens when cities of one country do not
// share the same month keys.
type ConsistencyMode string

const (
	ConsistencyOff    ConsistencyMode = "off"
	ConsistencyWarn   ConsistencyMode = "warn"
	ConsistencyStrict ConsistencyMode = "strict"
)

// ErrInconsistentDataset is returned by CheckConsistency in strict mode.
var ErrInconsistentDataset = errors.New("inconsistent dataset")

// Inconsistency describes a city whose month keys differ from the first
// city of its country.
type Inconsistency struct {
	Country   string
	City      string
	Reference string
	Missing   []string
	Extra     []string
}

func (i Inconsistency) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s differs from %s", i.Country, i.City, i.Reference)
	if len(i.Missing) > 0 {
		fmt.Fprintf(&b, "; missing %s", strings.Join(i.Missing, ","))
	}
	if len(i.Extra) > 0 {
		fmt.Fprintf(&b, "; extra %s", strings.Join(i.Extra, ","))
	}
	return b.String()
}

// Audit compares every city against the first city (load order) of its
// country. It only reports; the dataset is left as loaded.
func Audit(d Dataset) []Inconsistency {
	var out []Inconsistency
	d.each(func(country string, cities Cities) {
		refName, ref, ok := cities.First()
		if !ok {
			return
		}
		cities.each(func(city string, months Months) {
			if city == refName {
				return
			}
			var missing, extra []string
			ref.each(func(m string, _ Record) {
				if !months.Has(m) {
					missing = append(missing, m)
				}
			})
			months.each(func(m string, _ Record) {
				if !ref.Has(m) {
					extra = append(extra, m)
				}
			})
			if len(missing) > 0 || len(extra) > 0 {
				out = append(out, Inconsistency{
					Country:   country,
					City:      city,
					Reference: refName,
					Missing:   missing,
					Extra:     extra,
				})
			}
		})
	})
	return out
}

// CheckConsistency runs Audit according to mode. Findings are passed to warn;
// strict mode additionally fails.
func CheckConsistency(d Dataset, mode ConsistencyMode, warn func(Inconsistency)) error {
	if mode == ConsistencyOff {
		return nil
	}

	found := Audit(d)
	for _, inc := range found {
		if warn != nil {
			warn(inc)
		}
	}
	if mode == ConsistencyStrict && len(found) > 0 {
		return fmt.Errorf("%w: %d cities disagree with their country's month set (first: %s)",
			ErrInconsistentDataset, len(found), found[0])
	}
	return nil
}
