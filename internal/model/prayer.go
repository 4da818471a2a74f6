package model

import (
	"fmt"
	"strings"
)

// Prayer identifies one of the five daily prayer instants. Sunrise is not a Prayer.
type Prayer int

const (
	Fajr Prayer = iota
	Dhuhr
	Asr
	Maghrib
	Isha
)

// PrayerCount is the fixed number of daily prayer instants.
const PrayerCount = 5

// Prayers lists every prayer in chronological order.
var Prayers = [PrayerCount]Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

func (p Prayer) Valid() bool {
	return p >= Fajr && p <= Isha
}

// String returns the key used by the upstream API, e.g. "Fajr".
func (p Prayer) String() string {
	switch p {
	case Fajr:
		return "Fajr"
	case Dhuhr:
		return "Dhuhr"
	case Asr:
		return "Asr"
	case Maghrib:
		return "Maghrib"
	case Isha:
		return "Isha"
	default:
		return fmt.Sprintf("Prayer(%d)", int(p))
	}
}

// LocalName returns the Indonesian name shown to users.
func (p Prayer) LocalName() string {
	switch p {
	case Fajr:
		return "Subuh"
	case Dhuhr:
		return "Dzuhur"
	case Asr:
		return "Ashar"
	case Maghrib:
		return "Maghrib"
	case Isha:
		return "Isya"
	default:
		return p.String()
	}
}

func (p Prayer) ArabicName() string {
	switch p {
	case Fajr:
		return "الفجر"
	case Dhuhr:
		return "الظهر"
	case Asr:
		return "العصر"
	case Maghrib:
		return "المغرب"
	case Isha:
		return "العشاء"
	default:
		return ""
	}
}

// ParsePrayer accepts either the upstream key or the Indonesian name, case-insensitively.
func ParsePrayer(s string) (Prayer, error) {
	for _, p := range Prayers {
		if strings.EqualFold(s, p.String()) || strings.EqualFold(s, p.LocalName()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown prayer name: %q", s)
}

func (p Prayer) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid prayer %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Prayer) UnmarshalText(text []byte) error {
	parsed, err := ParsePrayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
