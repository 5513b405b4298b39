package region

import (
	_ "embed"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/rm-hull/ev-stations-api/internal/datasets"
	"github.com/rm-hull/ev-stations-api/internal/geo"
)

//go:embed regions.yaml
var regionsYAML []byte

type Source string

const (
	SourceLive    Source = "live"
	SourceBundled Source = "bundled"
)

type Region struct {
	Name    string          `yaml:"name"`
	Dataset string          `yaml:"dataset"`
	Bounds  geo.BoundingBox `yaml:"bounds"`
}

type regionFile struct {
	Regions []Region `yaml:"regions"`
}

type Decision struct {
	Source  Source
	Region  string
	Dataset *datasets.Dataset
}

type bundledRegion struct {
	Region
	dataset *datasets.Dataset
}

// Router sends origins that fall inside a bundled region to its static dataset
// and everything else to the live provider.
type Router struct {
	enabled bool
	regions []bundledRegion
}

func ParseRegions(data []byte) ([]Region, error) {
	var file regionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "failed to parse region config")
	}

	seen := make(map[string]struct{}, len(file.Regions))
	for _, r := range file.Regions {
		if r.Name == "" {
			return nil, errors.New("region without a name")
		}
		if _, exists := seen[r.Name]; exists {
			return nil, errors.Newf("duplicate region: %s", r.Name)
		}
		seen[r.Name] = struct{}{}

		if !r.Bounds.Valid() {
			return nil, errors.Newf("invalid bounds for region %s", r.Name)
		}
	}
	return file.Regions, nil
}

func NewRouter(enabled bool, regions []Region) (*Router, error) {
	router := &Router{enabled: enabled}
	for _, r := range regions {
		dataset, err := datasets.Load(r.Dataset)
		if err != nil {
			return nil, errors.Wrapf(err, "region %s", r.Name)
		}
		router.regions = append(router.regions, bundledRegion{Region: r, dataset: dataset})
	}
	return router, nil
}

// NewDefaultRouter uses the embedded region config.
func NewDefaultRouter(enabled bool) (*Router, error) {
	regions, err := ParseRegions(regionsYAML)
	if err != nil {
		return nil, err
	}
	return NewRouter(enabled, regions)
}

func (r *Router) Enabled() bool {
	return r != nil && r.enabled
}

func (r *Router) Regions() []string {
	names := make([]string, 0, len(r.regions))
	for _, region := range r.regions {
		names = append(names, region.Name)
	}
	return names
}

// Route picks the first region whose bounds contain origin. A nil or disabled
// router always routes live.
func (r *Router) Route(origin geo.Coordinate) Decision {
	if !r.Enabled() {
		return Decision{Source: SourceLive}
	}
	for _, region := range r.regions {
		if region.Bounds.Contains(origin) {
			return Decision{Source: SourceBundled, Region: region.Name, Dataset: region.dataset}
		}
	}
	return Decision{Source: SourceLive}
}
