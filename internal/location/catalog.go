package location

import (
	"math"
	"strings"

	"github.com/Nixie-Tech-LLC/shalat/internal/model"
)

func city(name string, lat, lon float64) model.City {
	return model.City{Name: name, Coordinate: model.Coordinate{Latitude: lat, Longitude: lon}}
}

// IndonesianCities is the curated city list. The first entry is the default.
var IndonesianCities = []model.City{
	city("Jakarta", -6.2088, 106.8456),
	city("Surabaya", -7.2575, 112.7521),
	city("Bandung", -6.9175, 107.6191),
	city("Medan", 3.5952, 98.6722),
	city("Semarang", -6.9667, 110.4167),
	city("Makassar", -5.1477, 119.4327),
	city("Palembang", -2.9761, 104.7754),
	city("Tangerang", -6.1783, 106.6319),
	city("Depok", -6.4025, 106.7942),
	city("Bekasi", -6.2383, 106.9756),
	city("Bogor", -6.5971, 106.8060),
	city("Yogyakarta", -7.7956, 110.3695),
	city("Surakarta", -7.5755, 110.8243),
	city("Malang", -7.9666, 112.6326),
	city("Cirebon", -6.7320, 108.5523),
	city("Serang", -6.1200, 106.1503),
	city("Denpasar", -8.6705, 115.2126),
	city("Mataram", -8.5833, 116.1167),
	city("Kupang", -10.1772, 123.6070),
	city("Banda Aceh", 5.5483, 95.3238),
	city("Padang", -0.9471, 100.4172),
	city("Pekanbaru", 0.5071, 101.4478),
	city("Jambi", -1.6101, 103.6131),
	city("Bengkulu", -3.8004, 102.2655),
	city("Bandar Lampung", -5.3971, 105.2668),
	city("Pangkal Pinang", -2.1291, 106.1138),
	city("Batam", 1.0456, 104.0305),
	city("Tanjung Pinang", 0.9186, 104.4554),
	city("Pontianak", -0.0263, 109.3425),
	city("Palangka Raya", -2.2096, 113.9108),
	city("Banjarmasin", -3.3186, 114.5944),
	city("Balikpapan", -1.2379, 116.8529),
	city("Samarinda", -0.5022, 117.1536),
	city("Tanjung Selor", 2.8375, 117.3653),
	city("Manado", 1.4748, 124.8421),
	city("Gorontalo", 0.5435, 123.0568),
	city("Palu", -0.8917, 119.8707),
	city("Mamuju", -2.6748, 118.8885),
	city("Kendari", -3.9985, 122.5129),
	city("Ambon", -3.6954, 128.1814),
	city("Ternate", 0.7893, 127.3776),
	city("Sorong", -0.8762, 131.2558),
	city("Manokwari", -0.8615, 134.0620),
	city("Jayapura", -2.5337, 140.7181),
}

// Catalog is a read-only list of selectable cities.
type Catalog struct {
	cities []model.City
}

// NewCatalog copies cities; the first city becomes the default.
func NewCatalog(cities []model.City) *Catalog {
	c := make([]model.City, len(cities))
	copy(c, cities)
	return &Catalog{cities: c}
}

func DefaultCatalog() *Catalog {
	return NewCatalog(IndonesianCities)
}

func (c *Catalog) All() []model.City {
	out := make([]model.City, len(c.cities))
	copy(out, c.cities)
	return out
}

func (c *Catalog) Default() model.City {
	if len(c.cities) == 0 {
		return IndonesianCities[0]
	}
	return c.cities[0]
}

// Find looks a city up by exact name, ignoring case.
func (c *Catalog) Find(name string) (model.City, bool) {
	name = strings.TrimSpace(name)
	for _, city := range c.cities {
		if strings.EqualFold(city.Name, name) {
			return city, true
		}
	}
	return model.City{}, false
}

// Search returns every city whose name contains query, ignoring case.
// An empty query returns the whole catalog.
func (c *Catalog) Search(query string) []model.City {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}

	out := make([]model.City, 0)
	for _, city := range c.cities {
		if strings.Contains(strings.ToLower(city.Name), q) {
			out = append(out, city)
		}
	}
	return out
}

// Nearest returns the catalog city closest to coord and its distance in km.
func (c *Catalog) Nearest(coord model.Coordinate) (model.City, float64) {
	best := c.Default()
	bestKm := math.Inf(1)
	for _, city := range c.cities {
		if d := DistanceKm(coord, city.Coordinate); d < bestKm {
			best, bestKm = city, d
		}
	}
	return best, bestKm
}

const earthRadiusKm = 6371.0

// DistanceKm is the haversine great-circle distance.
func DistanceKm(a, b model.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
