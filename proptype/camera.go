package proptype

// TriggerEdge selects which signal transition a hardware trigger fires on.
type TriggerEdge int

const (
	TriggerEdgeRising TriggerEdge = iota
	TriggerEdgeFalling
)

// TriggerSource names the physical or logical line a trigger is wired to.
type TriggerSource int

const (
	TriggerSourceSoftware TriggerSource = iota
	TriggerSourceLine0
	TriggerSourceLine1
	TriggerSourceLine2
	TriggerSourceLine3
)

// TriggerKind distinguishes an input (the camera is triggered externally)
// from an output (the camera emits a strobe other devices can trigger off).
type TriggerKind int

const (
	TriggerKindInput TriggerKind = iota
	TriggerKindOutput
)

// TriggerConfig configures one input or output trigger line.
type TriggerConfig struct {
	Enable bool
	Edge   TriggerEdge
	Source TriggerSource
	Kind   TriggerKind
}

// ReadoutDirection selects the sensor row-readout direction, relevant for
// rolling-shutter cameras.
type ReadoutDirection int

const (
	ReadoutForward ReadoutDirection = iota
	ReadoutBackward
)

// CameraProperties is the requested or effective configuration of one
// camera device.
type CameraProperties struct {
	Binning          uint8
	SampleType       SampleType
	Width            int
	Height           int
	ExposureUs       float64
	LineIntervalUs   float64
	InputTrigger     TriggerConfig
	OutputTrigger    TriggerConfig
	ReadoutDirection ReadoutDirection
}
