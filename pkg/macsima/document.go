package macsima

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Document is the root of one instrument run record.
type Document struct {
	Experiments []Experiment   `json:"experiments"`
	Racks       []Rack         `json:"racks"`
	ROIs        []ROI          `json:"rois"`
	Samples     []Sample       `json:"samples"`
	Procedures  []Procedure    `json:"procedures"`
	Reagents    []CatalogEntry `json:"reagents"`
}

// Experiment holds the run-level execution metadata.
type Experiment struct {
	Name                   string  `json:"name"`
	ExecutionStartDateTime string  `json:"executionStartDateTime"`
	ExecutionEndDateTime   string  `json:"executionEndDateTime"`
	ActualRunningTime      float64 `json:"actualRunningTime"`
	UsedDiskspace          float64 `json:"usedDiskspace"`
}

// Rack is one sample rack loaded for the run.
type Rack struct {
	Name string `json:"name"`
}

// ROI is one region of interest. The shape payload nests a second JSON
// document in the Data string.
type ROI struct {
	Name      string    `json:"name"`
	Shape     Shape     `json:"shape"`
	AutoFocus AutoFocus `json:"autoFocus"`
}

type Shape struct {
	Type string `json:"Type"`
	Data string `json:"Data"`
}

type AutoFocus struct {
	Method string `json:"method"`
}

// Sample describes one specimen placed on a rack.
type Sample struct {
	Name           string `json:"name"`
	Species        string `json:"species"`
	SampleType     string `json:"sampleType"`
	Organ          string `json:"organ"`
	FixationMethod string `json:"fixationMethod"`
}

// Procedure is one protocol: an ordered block list plus the per-procedure
// slot-to-reagent links connecting run-cycle buckets to the global catalog.
type Procedure struct {
	Name     string     `json:"name"`
	Comment  string     `json:"comment"`
	Blocks   []Block    `json:"blocks"`
	Reagents []SlotLink `json:"reagents"`
}

// SlotLink binds a bucket reference to a reagent identifier.
type SlotLink struct {
	BucketID  string    `json:"bucketId"`
	ReagentID ReagentID `json:"reagentId"`
}

type ReagentID struct {
	ItemID string `json:"itemId"`
}

// CatalogEntry is the document-global metadata of one reagent.
type CatalogEntry struct {
	ID                       string  `json:"id"`
	Antigen                  string  `json:"antigen"`
	Clone                    string  `json:"clone"`
	ExposureTime             float64 `json:"exposureTime"`
	SupportedFixationMethods string  `json:"supportedFixationMethods"`
	Antibody                 string  `json:"antibody"`
	AntibodyType             string  `json:"antibodyType"`
	HostSpecies              string  `json:"hostSpecies"`
	Isotype                  string  `json:"isotype"`
	Manufacturer             string  `json:"manufacturer"`
	Name                     string  `json:"name"`
	OrderNumber              string  `json:"orderNumber"`
	Species                  string  `json:"species"`
}

// Decode reads one run record. A record that cannot be decoded into the
// expected shape is the only fatal input error of the whole conversion.
func Decode(r io.Reader) (*Document, error) {
	doc := &Document{}
	err := json.NewDecoder(r).Decode(doc)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode run record")
	}

	return doc, nil
}
