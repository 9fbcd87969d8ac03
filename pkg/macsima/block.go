package macsima

// BlockKind is the closed set of protocol block kinds the converter
// distinguishes. Anything else decodes to KindUnknown and degrades to the
// generic single-row rendering.
type BlockKind int

const (
	KindUnknown BlockKind = iota
	KindScan
	KindDefineROIs
	KindErase
	KindRestainNuclei
	KindRunCycle
)

// Block is one step of a protocol. The kind-specific payloads (Photos for
// erase blocks, Reagents for run-cycle blocks) are only populated for their
// kind; the dispatcher switches on Kind and never reads the other payload.
type Block struct {
	BlockType string `json:"blockType"`
	Name      string `json:"name"`
	// Magnification is a prefixed enum ("Magnification_20x"). A JSON null is
	// left as the empty string, same as an absent field.
	Magnification string `json:"magnification"`

	// Erase payload: photo channel key -> channel settings.
	Photos map[string]ErasePhoto `json:"photos"`

	// RunCycle payload: canonical detection slot key -> per-slot settings.
	Reagents map[string]DetectionSettings `json:"reagents"`
}

// ErasePhoto is the per-channel payload of an erase block.
type ErasePhoto struct {
	FluorochromeType string  `json:"fluorochromeType"`
	BleachingEnergy  float64 `json:"bleachingEnergy"`
	IsEnabled        bool    `json:"isEnabled"`
}

// DetectionSettings is the per-slot payload of a run-cycle block.
type DetectionSettings struct {
	BucketID                   string           `json:"bucketId"`
	DilutionFactor             float64          `json:"dilutionFactor"`
	IncubationTime             float64          `json:"incubationTime"`
	ExposureTimeAndCoefficient ExposureSettings `json:"exposureTimeAndCoefficient"`
	ErasingMethod              string           `json:"erasingMethod"`
	BleachingEnergy            float64          `json:"bleachingEnergy"`
}

type ExposureSettings struct {
	TimeCoefficient float64 `json:"timeCoefficient"`
}

// Kind maps the raw prefixed block type onto the closed kind set.
func (b Block) Kind() BlockKind {
	switch Label(b.BlockType) {
	case "Scan":
		return KindScan
	case "DefineROIs":
		return KindDefineROIs
	case "Erase":
		return KindErase
	case "RestainNuclei":
		return KindRestainNuclei
	case "RunCycle":
		return KindRunCycle
	default:
		return KindUnknown
	}
}
