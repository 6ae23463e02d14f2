package cityblocks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/unixpickle/model3d/model2d"
)

// GroundThickness is the height of the ground slab in cell units
const GroundThickness = 0.05

var (
	// ErrInvalidConfig implies the config can't be used to build a city
	ErrInvalidConfig = fmt.Errorf("invalid city config")

	// ErrNoFactory implies New was called without a Factory
	ErrNoFactory = fmt.Errorf("no resource factory given")
)

// Option changes how a City is assembled
type Option func(*City)

// WithCache makes the city use (and share) the given cache. The caller owns
// the cache & must call DisposeAll on it when done; City.Dispose leaves it be.
func WithCache(cache *ResourceCache) Option {
	return func(c *City) {
		c.cache = cache
	}
}

// WithProgress sets a func called as a heartbeat while resources are
// loaded & once when the city is done.
func WithProgress(fn ProgressFunc) Option {
	return func(c *City) {
		c.progress = fn
	}
}

// City holds a generated city; roads, districts, buildings and the
// resources needed to draw them.
// A City is not safe for concurrent use.
type City struct {
	ID     string
	Seed   int64
	Config *Config

	Roads     *RoadSet
	Districts []*District
	Markers   []*DistrictMarker `json:",omitempty"`
	Buildings []*Building       `json:",omitempty"`
	Paths     []*Path           `json:",omitempty"`
	Grid      *GridOverlay
	Stats     *CityStats

	factory   Factory
	cache     *ResourceCache
	ownsCache bool
	progress  ProgressFunc
	rng       *partitionedRNG
	log       *logrus.Entry

	ground   Resource
	disposed bool
	cmap     *imageMap
}

// New generates a city from the given config, creating resources via f.
//
// A nil config is the DefaultConfig. If generation fails part way through any
// resources created so far are released before returning.
func New(ctx context.Context, cfg *Config, f Factory, opts ...Option) (*City, error) {
	if f == nil {
		return nil, ErrNoFactory
	}

	c := &City{factory: f}
	for _, opt := range opts {
		opt(c)
	}

	err := c.init(cfg)
	if err != nil {
		return nil, err
	}

	err = c.build(ctx)
	if err != nil {
		c.Dispose()
		return nil, err
	}

	return c, nil
}

// init checks & defaults config, sets up our rng, cache & stats
func (c *City) init(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg.withDefaults()

	if c.Config.Seed == 0 {
		c.Config.Seed = time.Now().UnixNano()
	}
	c.Seed = c.Config.Seed
	c.rng = newPartitionedRNG(c.Seed)

	if c.cache == nil {
		c.cache = NewResourceCache()
		c.ownsCache = true
	}

	c.ID = uuid.NewString()
	c.log = logrus.WithFields(logrus.Fields{"city": c.ID, "seed": c.Seed})
	c.Stats = newCityStats()

	return nil
}

// build runs the generation steps. Order is important; each step reads the
// output of those before it.
func (c *City) build(ctx context.Context) error {
	cfg := c.Config

	start := time.Now()
	roads, stalled, err := generateRoads(ctx, c.rng.forSubsystem(subsystemRoads), cfg.Spacing, cfg.TileCount, cfg.MaxRoadFailures)
	if err != nil {
		return err
	}
	c.Roads = roads
	c.Stats.RoadsRequested = cfg.TileCount
	c.Stats.RoadsPlaced = roads.Len() - 1
	c.Stats.RoadsStalled = stalled
	if stalled {
		c.log.Warnf("road layout stalled after placing %d of %d tiles", c.Stats.RoadsPlaced, cfg.TileCount)
	}
	c.log.WithField("took", time.Since(start)).Debugf("placed %d road tiles", c.Stats.RoadsPlaced)

	c.Districts = assignDistricts(c.rng.forSubsystem(subsystemDistricts), roads, cfg.Districts)
	c.Markers = newDistrictMarkers(c.Districts, cfg.Scale)
	c.log.Debugf("assigned %d districts", len(c.Districts))

	start = time.Now()
	p := &placer{
		rng:         c.rng.forSubsystem(subsystemBuildings),
		cache:       c.cache,
		factory:     c.factory,
		tiers:       cfg.Tiers,
		palettes:    &cfg.Palettes,
		pathWidth:   cfg.PathWidth,
		maxFailures: cfg.MaxBuildingFailures,
		progress:    c.progress,
		log:         c.log,
	}
	buildings, paths, stalled, err := p.place(ctx, roads, c.Districts, cfg.BuildingCount)
	if err != nil {
		return err
	}
	c.Buildings = buildings
	c.Paths = paths
	c.Stats.BuildingsRequested = cfg.BuildingCount
	c.Stats.BuildingsPlaced = len(buildings)
	c.Stats.BuildingsStalled = stalled
	c.Stats.Paths = len(paths)
	for _, b := range buildings {
		c.Stats.increment(b.Zone)
	}
	if stalled {
		c.log.Warnf("building placement stalled after placing %d of %d buildings", len(buildings), cfg.BuildingCount)
	}
	c.log.WithField("took", time.Since(start)).Debugf("placed %d buildings, %d paths", len(buildings), len(paths))

	c.Grid = buildGridOverlay(roads.Bounds(), cfg.Scale, cfg.GroundExtraSpacing)

	// the ground is ours alone, it's never shared through the cache
	size := roads.Size()
	c.ground, err = c.factory.Box(
		float64(size.X+cfg.GroundExtraSpacing),
		GroundThickness,
		float64(size.Y+cfg.GroundExtraSpacing),
	)
	if err != nil {
		return fmt.Errorf("ground: %w", err)
	}

	c.progress.tick()
	c.log.WithFields(logrus.Fields{
		"roads":     c.Stats.RoadsPlaced,
		"buildings": c.Stats.BuildingsPlaced,
		"cached":    c.cache.Len(),
	}).Info("city assembled")

	return nil
}

// newDistrictMarkers returns hidden world space markers for each district
func newDistrictMarkers(districts []*District, scale float64) []*DistrictMarker {
	out := make([]*DistrictMarker, len(districts))
	for i, d := range districts {
		out[i] = &DistrictMarker{
			DistrictID: d.ID,
			// a cell's world centre sits half a cell in from its corner
			Centre: model2d.Coord{X: (d.Centre.X + 0.5) * scale, Y: (d.Centre.Y + 0.5) * scale},
			Radius: d.Radius * scale,
		}
	}
	return out
}

// Scale returns the world size of a single cell
func (c *City) Scale() float64 {
	return c.Config.Scale
}

// Cache returns the cache the city resolved its resources through
func (c *City) Cache() *ResourceCache {
	return c.cache
}

// ToggleDistrictDebug flips the visibility of every district marker
func (c *City) ToggleDistrictDebug() {
	for _, m := range c.Markers {
		m.Visible = !m.Visible
	}
}

// ToggleGridDebug flips the visibility of the grid overlay
func (c *City) ToggleGridDebug() {
	if c.Grid != nil {
		c.Grid.Visible = !c.Grid.Visible
	}
}

// Resources returns the resources the city owns outside of its cache
func (c *City) Resources() []Resource {
	if c.ground == nil {
		return nil
	}
	return []Resource{c.ground}
}

// Dispose releases everything the city owns. If the city created its own
// cache the cache is emptied too, a cache passed in via WithCache is left
// alone. Calling Dispose more than once is a no-op.
func (c *City) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true

	release(c)
	c.ground = nil

	if c.ownsCache {
		c.cache.DisposeAll()
	}
	c.log.Debug("disposed city")
}

// release everything a Disposable owns
func release(d Disposable) {
	for _, r := range d.Resources() {
		r.Release()
	}
}

// JSON returns the city as json.
func (c *City) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// SaveJSON writes a json file to the given path.
func (c *City) SaveJSON(fpath string) error {
	data, err := c.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, data, 0644)
}

// Map returns a CityMap of the city.
// The map holds the same data as the city but stored graphically, one pixel
// per cell.
func (c *City) Map() CityMap {
	if c.cmap == nil {
		c.cmap = newMap(c)
	}
	return c.cmap
}
