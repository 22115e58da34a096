package acqconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scopeacq/acquire/proptype"
)

// TriggerConfig is the YAML/JSON rendering of proptype.TriggerConfig:
// string enums instead of the core's small integer codes, so an
// acquisition.yaml file stays human-writable and the same struct doubles
// as the rpc package's wire DTO.
type TriggerConfig struct {
	Enable bool   `yaml:"enable" json:"enable"`
	Edge   string `yaml:"edge" json:"edge"`     // "rising" | "falling"
	Source string `yaml:"source" json:"source"` // "software" | "line0".."line3"
	Kind   string `yaml:"kind" json:"kind"`     // "input" | "output"
}

// CameraConfig is one stream's requested camera settings plus the pattern
// used to select the device via device.Manager.Select(KindCamera, Pattern).
type CameraConfig struct {
	Pattern          string        `yaml:"pattern" json:"pattern"`
	Binning          uint8         `yaml:"binning" json:"binning"`
	SampleType       string        `yaml:"sample_type" json:"sample_type"`
	Width            int           `yaml:"width" json:"width"`
	Height           int           `yaml:"height" json:"height"`
	ExposureUs       float64       `yaml:"exposure_us" json:"exposure_us"`
	LineIntervalUs   float64       `yaml:"line_interval_us" json:"line_interval_us"`
	InputTrigger     TriggerConfig `yaml:"input_trigger" json:"input_trigger"`
	OutputTrigger    TriggerConfig `yaml:"output_trigger" json:"output_trigger"`
	ReadoutDirection string        `yaml:"readout_direction" json:"readout_direction"` // "forward" | "backward"
}

// StorageConfig is one stream's requested storage settings plus the
// pattern used to select the device via device.Manager.Select(KindStorage,
// Pattern).
type StorageConfig struct {
	Pattern              string  `yaml:"pattern" json:"pattern"`
	URI                  string  `yaml:"uri" json:"uri"`
	ExternalMetadataJSON string  `yaml:"external_metadata_json" json:"external_metadata_json"`
	PixelScaleUmX        float64 `yaml:"pixel_scale_um_x" json:"pixel_scale_um_x"`
	PixelScaleUmY        float64 `yaml:"pixel_scale_um_y" json:"pixel_scale_um_y"`
	Multiscale           bool    `yaml:"multiscale" json:"multiscale"`
}

// StreamConfig is one camera+storage pipeline entry in acquisition.yaml.
type StreamConfig struct {
	Camera             CameraConfig  `yaml:"camera" json:"camera"`
	Storage            StorageConfig `yaml:"storage" json:"storage"`
	MaxFrameCount      uint64        `yaml:"max_frame_count" json:"max_frame_count"`
	FrameAverageFactor uint32        `yaml:"frame_average_factor" json:"frame_average_factor"`
}

// AcquisitionConfig is the top-level structure of an acquisition.yaml file,
// and also the JSON body rpc.AcquisitionClient.Configure sends/receives.
type AcquisitionConfig struct {
	Streams []StreamConfig `yaml:"streams" json:"streams"`
}

// Load reads and parses an acquisition YAML document.
func Load(path string) (*AcquisitionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("acqconfig: read %s: %w", path, err)
	}
	var cfg AcquisitionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("acqconfig: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// ToRuntimeProperties converts the parsed YAML document into the
// proptype.RuntimeProperties tree runtime.Configure expects. Each device
// identifier carries its kind and the configured Pattern as its Name, which
// Manager.Select later interprets as a regular expression; a Pattern of ""
// requests the first device of its kind.
func (c *AcquisitionConfig) ToRuntimeProperties() (proptype.RuntimeProperties, error) {
	props, err := proptype.NewRuntimeProperties(len(c.Streams))
	if err != nil {
		return proptype.RuntimeProperties{}, err
	}
	for i, sc := range c.Streams {
		vsp, err := sc.toVideoStreamProperties()
		if err != nil {
			return proptype.RuntimeProperties{}, fmt.Errorf("acqconfig: stream %d: %w", i, err)
		}
		props.Streams[i] = vsp
	}
	return props, nil
}

func (sc StreamConfig) toVideoStreamProperties() (proptype.VideoStreamProperties, error) {
	sampleType, err := parseSampleType(sc.Camera.SampleType)
	if err != nil {
		return proptype.VideoStreamProperties{}, err
	}
	inputTrigger, err := sc.Camera.InputTrigger.toTriggerConfig(proptype.TriggerKindInput)
	if err != nil {
		return proptype.VideoStreamProperties{}, err
	}
	outputTrigger, err := sc.Camera.OutputTrigger.toTriggerConfig(proptype.TriggerKindOutput)
	if err != nil {
		return proptype.VideoStreamProperties{}, err
	}
	readout, err := parseReadoutDirection(sc.Camera.ReadoutDirection)
	if err != nil {
		return proptype.VideoStreamProperties{}, err
	}

	var vsp proptype.VideoStreamProperties
	vsp.CameraID = proptype.Identifier{Kind: proptype.KindCamera, Name: sc.Camera.Pattern}
	vsp.Camera = proptype.CameraProperties{
		Binning:          sc.Camera.Binning,
		SampleType:       sampleType,
		Width:            sc.Camera.Width,
		Height:           sc.Camera.Height,
		ExposureUs:       sc.Camera.ExposureUs,
		LineIntervalUs:   sc.Camera.LineIntervalUs,
		InputTrigger:     inputTrigger,
		OutputTrigger:    outputTrigger,
		ReadoutDirection: readout,
	}

	vsp.StorageID = proptype.Identifier{Kind: proptype.KindStorage, Name: sc.Storage.Pattern}
	vsp.Storage = proptype.StorageProperties{
		URI:                  proptype.NewOwnedString(sc.Storage.URI),
		ExternalMetadataJSON: proptype.NewOwnedString(sc.Storage.ExternalMetadataJSON),
		PixelScaleUm:         [2]float64{sc.Storage.PixelScaleUmX, sc.Storage.PixelScaleUmY},
		Multiscale:           sc.Storage.Multiscale,
	}

	vsp.MaxFrameCount = sc.MaxFrameCount
	vsp.FrameAverageFactor = sc.FrameAverageFactor
	return vsp, nil
}

func (t TriggerConfig) toTriggerConfig(kind proptype.TriggerKind) (proptype.TriggerConfig, error) {
	edge, err := parseTriggerEdge(t.Edge)
	if err != nil {
		return proptype.TriggerConfig{}, err
	}
	source, err := parseTriggerSource(t.Source)
	if err != nil {
		return proptype.TriggerConfig{}, err
	}
	return proptype.TriggerConfig{
		Enable: t.Enable,
		Edge:   edge,
		Source: source,
		Kind:   kind,
	}, nil
}

func parseSampleType(s string) (proptype.SampleType, error) {
	switch s {
	case "", "u8":
		return proptype.U8, nil
	case "u16":
		return proptype.U16, nil
	case "i8":
		return proptype.I8, nil
	case "i16":
		return proptype.I16, nil
	case "f32":
		return proptype.F32, nil
	case "u10":
		return proptype.U10, nil
	case "u12":
		return proptype.U12, nil
	case "u14":
		return proptype.U14, nil
	default:
		return 0, fmt.Errorf("acqconfig: unknown sample_type %q", s)
	}
}

func parseTriggerEdge(s string) (proptype.TriggerEdge, error) {
	switch s {
	case "", "rising":
		return proptype.TriggerEdgeRising, nil
	case "falling":
		return proptype.TriggerEdgeFalling, nil
	default:
		return 0, fmt.Errorf("acqconfig: unknown trigger edge %q", s)
	}
}

func parseTriggerSource(s string) (proptype.TriggerSource, error) {
	switch s {
	case "", "software":
		return proptype.TriggerSourceSoftware, nil
	case "line0":
		return proptype.TriggerSourceLine0, nil
	case "line1":
		return proptype.TriggerSourceLine1, nil
	case "line2":
		return proptype.TriggerSourceLine2, nil
	case "line3":
		return proptype.TriggerSourceLine3, nil
	default:
		return 0, fmt.Errorf("acqconfig: unknown trigger source %q", s)
	}
}

func parseReadoutDirection(s string) (proptype.ReadoutDirection, error) {
	switch s {
	case "", "forward":
		return proptype.ReadoutForward, nil
	case "backward":
		return proptype.ReadoutBackward, nil
	default:
		return 0, fmt.Errorf("acqconfig: unknown readout_direction %q", s)
	}
}

// FromRuntimeProperties is the inverse of ToRuntimeProperties: it renders a
// resolved proptype.RuntimeProperties tree (as returned by
// runtime.Runtime.Configure/GetConfiguration) back into the YAML/JSON DTO
// shape, so cmd/acqctl and the rpc package can print or transmit it without
// a second conversion layer.
func FromRuntimeProperties(props proptype.RuntimeProperties) AcquisitionConfig {
	cfg := AcquisitionConfig{Streams: make([]StreamConfig, len(props.Streams))}
	for i, vsp := range props.Streams {
		cfg.Streams[i] = fromVideoStreamProperties(vsp)
	}
	return cfg
}

func fromVideoStreamProperties(vsp proptype.VideoStreamProperties) StreamConfig {
	return StreamConfig{
		Camera: CameraConfig{
			Pattern:          vsp.CameraID.Name,
			Binning:          vsp.Camera.Binning,
			SampleType:       vsp.Camera.SampleType.String(),
			Width:            vsp.Camera.Width,
			Height:           vsp.Camera.Height,
			ExposureUs:       vsp.Camera.ExposureUs,
			LineIntervalUs:   vsp.Camera.LineIntervalUs,
			InputTrigger:     fromTriggerConfig(vsp.Camera.InputTrigger),
			OutputTrigger:    fromTriggerConfig(vsp.Camera.OutputTrigger),
			ReadoutDirection: readoutDirectionString(vsp.Camera.ReadoutDirection),
		},
		Storage: StorageConfig{
			Pattern:              vsp.StorageID.Name,
			URI:                  vsp.Storage.URI.String(),
			ExternalMetadataJSON: vsp.Storage.ExternalMetadataJSON.String(),
			PixelScaleUmX:        vsp.Storage.PixelScaleUm[0],
			PixelScaleUmY:        vsp.Storage.PixelScaleUm[1],
			Multiscale:           vsp.Storage.Multiscale,
		},
		MaxFrameCount:      vsp.MaxFrameCount,
		FrameAverageFactor: vsp.FrameAverageFactor,
	}
}

func fromTriggerConfig(t proptype.TriggerConfig) TriggerConfig {
	kind := "input"
	if t.Kind == proptype.TriggerKindOutput {
		kind = "output"
	}
	return TriggerConfig{
		Enable: t.Enable,
		Edge:   triggerEdgeString(t.Edge),
		Source: triggerSourceString(t.Source),
		Kind:   kind,
	}
}

func triggerEdgeString(e proptype.TriggerEdge) string {
	if e == proptype.TriggerEdgeFalling {
		return "falling"
	}
	return "rising"
}

func triggerSourceString(s proptype.TriggerSource) string {
	switch s {
	case proptype.TriggerSourceLine0:
		return "line0"
	case proptype.TriggerSourceLine1:
		return "line1"
	case proptype.TriggerSourceLine2:
		return "line2"
	case proptype.TriggerSourceLine3:
		return "line3"
	default:
		return "software"
	}
}

func readoutDirectionString(d proptype.ReadoutDirection) string {
	if d == proptype.ReadoutBackward {
		return "backward"
	}
	return "forward"
}
