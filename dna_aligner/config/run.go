package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"DNA-Graph-Alignments/dna_aligner/common"
	"DNA-Graph-Alignments/dna_aligner/io"
	"DNA-Graph-Alignments/dna_aligner/variants"
)

// Run describes one backbone, its variants and the alignment settings used against it.
type Run struct {
	Backbone        string         `yaml:"backbone"`
	BackboneFile    string         `yaml:"backbone_file"`
	Region          *RegionEntry   `yaml:"region"`
	Regions         []RegionEntry  `yaml:"regions"`
	MaxGraphWidth   int            `yaml:"max_graph_width"`
	Wildcard        string         `yaml:"wildcard"`
	MaxEditDistance *int           `yaml:"max_edit_distance"`
	CacheSize       int            `yaml:"cache_size"`
	Variants        []VariantEntry `yaml:"variants"`
}

// RegionEntry is the half-open backbone window to build the graph over.
type RegionEntry struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// VariantEntry is one variant as written in a run file.
type VariantEntry struct {
	Source   int    `yaml:"source"`
	Position int    `yaml:"position"`
	Ref      string `yaml:"ref"`
	Alt      string `yaml:"alt"`
	Kind     string `yaml:"kind"`
	RefIndex *int   `yaml:"ref_index"`
	AltIndex *int   `yaml:"alt_index"`
}

// Load reads a YAML run file. Variables from a .env file in the working directory and
// GRAPH_ALIGN_* environment variables override values from the file.
func Load(path string) (*Run, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load run file")
	}
	run, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if run.BackboneFile != "" && !filepath.IsAbs(run.BackboneFile) {
		run.BackboneFile = filepath.Join(filepath.Dir(path), run.BackboneFile)
	}
	return run, nil
}

// Parse decodes a run file and applies environment overrides and defaults.
func Parse(data []byte) (*Run, error) {
	run := &Run{}
	if err := yaml.UnmarshalStrict(data, run); err != nil {
		return nil, errors.Wrap(err, "parse run file")
	}
	if err := run.applyEnv(); err != nil {
		return nil, err
	}
	if run.MaxGraphWidth == 0 {
		run.MaxGraphWidth = DefaultMaxGraphWidth
	}
	if run.CacheSize == 0 {
		run.CacheSize = DefaultGraphCacheSize
	}
	return run, nil
}

func (r *Run) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvMaxGraphWidth)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvMaxGraphWidth)
		}
		r.MaxGraphWidth = n
	}
	if v, ok := os.LookupEnv(EnvWildcard); ok {
		r.Wildcard = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxEditDistance)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvMaxEditDistance)
		}
		r.MaxEditDistance = &n
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvCacheSize)
		}
		r.CacheSize = n
	}
	return nil
}

// BackboneSequence returns the inline backbone, or reads BackboneFile when no inline one is set.
func (r *Run) BackboneSequence() ([]byte, error) {
	if r.Backbone != "" {
		return []byte(strings.TrimSpace(r.Backbone)), nil
	}
	if r.BackboneFile == "" {
		return nil, errors.New("run file sets neither backbone nor backbone_file")
	}
	seq, err := io.ReadSequence(r.BackboneFile)
	if err != nil {
		return nil, errors.Wrap(err, "read backbone")
	}
	return seq, nil
}

// GraphRegions returns the configured region followed by the regions list.
// Without either, the whole backbone is the only region.
func (r *Run) GraphRegions(backboneLen int) []common.Region {
	var out []common.Region
	if r.Region != nil {
		out = append(out, r.Region.region())
	}
	for _, entry := range r.Regions {
		out = append(out, entry.region())
	}
	if len(out) == 0 {
		out = append(out, common.Region{Start: 0, End: backboneLen})
	}
	return out
}

func (e RegionEntry) region() common.Region {
	return common.Region{Start: e.Start, End: e.End}
}

// WildcardByte returns the wildcard to align with. "none" disables it, empty selects the default.
func (r *Run) WildcardByte() (byte, bool, error) {
	switch r.Wildcard {
	case "":
		return DefaultWildcard, true, nil
	case "none":
		return 0, false, nil
	}
	if len(r.Wildcard) != 1 {
		return 0, false, errors.Errorf("wildcard %q must be a single byte", r.Wildcard)
	}
	return r.Wildcard[0], true, nil
}

// EditDistanceCeiling returns the configured score ceiling or NoMaxEditDistance.
func (r *Run) EditDistanceCeiling() int {
	if r.MaxEditDistance == nil {
		return NoMaxEditDistance
	}
	return *r.MaxEditDistance
}

// VariantList validates every entry through the constructor of its kind.
func (r *Run) VariantList() ([]*variants.Variant, error) {
	out := make([]*variants.Variant, 0, len(r.Variants))
	for i, entry := range r.Variants {
		kind, err := variants.ParseKind(strings.ToLower(strings.TrimSpace(entry.Kind)))
		if err != nil {
			return nil, errors.Wrapf(err, "variant entry %d", i)
		}
		refIndex, altIndex := 0, 1
		if entry.RefIndex != nil {
			refIndex = *entry.RefIndex
		}
		if entry.AltIndex != nil {
			altIndex = *entry.AltIndex
		}
		v, err := variants.NewOfKind(kind, entry.Source, entry.Position, []byte(entry.Ref), []byte(entry.Alt), refIndex, altIndex)
		if err != nil {
			return nil, errors.Wrapf(err, "variant entry %d", i)
		}
		out = append(out, v)
	}
	return out, nil
}
