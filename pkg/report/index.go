package report

import "github.com/askiada/macsima-report/pkg/macsima"

// ReagentFields is the flattened catalog metadata reachable from one bucket
// reference. The zero value is the record returned for every unresolvable
// reference.
type ReagentFields struct {
	Antigen      string
	Clone        string
	ExposureTime float64
	ValidatedFor string
	Antibody     string
	AntibodyType string
	HostSpecies  string
	Isotype      string
	Manufacturer string
	Name         string
	OrderNumber  string
	Species      string
}

// ReagentIndex maps a bucket reference to its flattened reagent metadata. It
// is built once per record and read-only afterwards.
type ReagentIndex map[string]ReagentFields

// Resolve is total: an unknown bucket yields the all-default record, never an
// error.
func (ix ReagentIndex) Resolve(bucketID string) ReagentFields {
	return ix[bucketID]
}

// BuildReagentIndex composes the two-stage indirection of the record into one
// flat lookup: the per-procedure slot links give bucket -> reagent id (last
// write wins for a duplicated bucket), the global catalog gives reagent id ->
// metadata. A bucket whose reagent id is absent from the catalog maps to the
// all-default record.
func BuildReagentIndex(doc *macsima.Document) ReagentIndex {
	bucketToReagent := make(map[string]string)
	for _, proc := range doc.Procedures {
		for _, link := range proc.Reagents {
			if link.BucketID == "" || link.ReagentID.ItemID == "" {
				continue
			}
			bucketToReagent[link.BucketID] = link.ReagentID.ItemID
		}
	}

	catalog := make(map[string]ReagentFields, len(doc.Reagents))
	for _, entry := range doc.Reagents {
		fields := ReagentFields{
			Antigen:      entry.Antigen,
			Clone:        entry.Clone,
			ExposureTime: entry.ExposureTime,
			ValidatedFor: entry.SupportedFixationMethods,
			Antibody:     entry.Antibody,
			AntibodyType: entry.AntibodyType,
			HostSpecies:  entry.HostSpecies,
			Isotype:      entry.Isotype,
			Manufacturer: entry.Manufacturer,
			Name:         entry.Name,
			OrderNumber:  entry.OrderNumber,
			Species:      entry.Species,
		}
		// Catalog entries always carry a displayable antigen and clone.
		if fields.Antigen == "" {
			fields.Antigen = "Unknown"
		}
		if fields.Clone == "" {
			fields.Clone = "N/A"
		}
		catalog[entry.ID] = fields
	}

	index := make(ReagentIndex, len(bucketToReagent))
	for bucket, reagentID := range bucketToReagent {
		index[bucket] = catalog[reagentID]
	}

	return index
}
