package report

import (
	"sort"

	"go.uber.org/zap"

	"github.com/askiada/macsima-report/pkg/macsima"
)

// detectionSlot binds an acquisition slot key from the run record to the
// fluorescence channel the instrument acquires it on.
type detectionSlot struct {
	key     string
	channel string
}

// detectionSlots is the instrument's fixed channel layout. Every run cycle
// emits exactly one row per slot, in this order, populated or not.
var detectionSlots = []detectionSlot{
	{key: "DetectionChannel_1", channel: "DAPI"},
	{key: "DetectionChannel_2", channel: "FITC"},
	{key: "DetectionChannel_3", channel: "PE"},
	{key: "DetectionChannel_4", channel: "APC"},
	{key: "DetectionChannel_5", channel: "Vio780"},
}

// Dispatcher turns sequenced protocol blocks into step rows.
type Dispatcher struct {
	index ReagentIndex
	log   *zap.Logger
}

// NewDispatcher builds a dispatcher over the run's reagent index. A nil logger
// is replaced with a no-op one.
func NewDispatcher(index ReagentIndex, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}

	return &Dispatcher{index: index, log: log}
}

// Rows expands a block into its step rows: one per enabled channel for erase
// blocks, one per detection slot for run cycles, a single row otherwise.
func (d *Dispatcher) Rows(block SequencedBlock) []Row {
	switch block.Kind() {
	case macsima.KindErase:
		return d.eraseRows(block)
	case macsima.KindRunCycle:
		return d.cycleRows(block)
	case macsima.KindScan, macsima.KindDefineROIs, macsima.KindRestainNuclei:
		return []Row{d.singleRow(block)}
	case macsima.KindUnknown:
		d.log.Debug("unrecognised block type", zap.String("blockType", block.BlockType))

		return []Row{d.singleRow(block)}
	}

	return []Row{d.singleRow(block)}
}

func (d *Dispatcher) eraseRows(block SequencedBlock) []Row {
	rows := make([]Row, 0, len(block.Photos))
	for _, key := range sortedKeys(block.Photos) {
		photo := block.Photos[key]
		channel := macsima.Label(photo.FluorochromeType)
		if !photo.IsEnabled || channel == "" || channel == "None" {
			continue
		}

		rows = append(rows, newStepRow(map[string]any{
			"BlockType":       blockTypeCell(block),
			"Channel":         channel,
			"Magnification":   magnificationCell(block),
			"BleachingEnergy": numberCell(photo.BleachingEnergy),
		}))
	}

	return rows
}

func (d *Dispatcher) cycleRows(block SequencedBlock) []Row {
	rows := make([]Row, 0, len(detectionSlots))
	for _, slot := range detectionSlots {
		settings := block.Reagents[slot.key]

		values := map[string]any{
			"RunCycleNumber": block.CycleNumber,
			"BlockType":      blockTypeCell(block),
			"Channel":        slot.channel,
			"Magnification":  magnificationCell(block),
		}

		// A slot without a bucket reference is unused this cycle; its settings
		// are leftovers and stay off the row.
		if settings.BucketID != "" {
			values["DilutionFactor"] = numberCell(settings.DilutionFactor)
			values["IncubationTime"] = numberCell(settings.IncubationTime)
			values["ErasingMethod"] = macsima.Label(settings.ErasingMethod)
			values["BleachingEnergy"] = numberCell(settings.BleachingEnergy)

			reagent := d.index.Resolve(settings.BucketID)
			values["Antigen"] = reagent.Antigen
			values["Clone"] = reagent.Clone
			values["ReagentExposure"] = numberCell(reagent.ExposureTime)
			values["ValidatedFor"] = reagent.ValidatedFor
			values["Antibody"] = reagent.Antibody
			values["AntibodyType"] = reagent.AntibodyType
			values["HostSpecies"] = reagent.HostSpecies
			values["Isotype"] = reagent.Isotype
			values["Manufacturer"] = reagent.Manufacturer
			values["OrderNumber"] = reagent.OrderNumber
			values["Species"] = reagent.Species
			values["Name"] = reagent.Name

			coef := settings.ExposureTimeAndCoefficient.TimeCoefficient
			values["Coefficient"] = numberCell(coef)
			if reagent.ExposureTime != 0 && coef != 0 {
				values["ActualExposure"] = reagent.ExposureTime * coef / 100
			}
		}

		rows = append(rows, newStepRow(values))
	}

	return rows
}

func (d *Dispatcher) singleRow(block SequencedBlock) Row {
	return newStepRow(map[string]any{
		"BlockType":     blockTypeCell(block),
		"Magnification": magnificationCell(block),
	})
}

func blockTypeCell(block SequencedBlock) string {
	if block.BlockType == "" {
		return "Unknown block type"
	}

	return macsima.Label(block.BlockType)
}

func magnificationCell(block SequencedBlock) string {
	if block.EffectiveMagnification == "" {
		return "N/A"
	}

	return macsima.Label(block.EffectiveMagnification)
}

// numberCell renders zero numeric settings as an empty cell, matching the
// instrument's convention of zero meaning "not set".
func numberCell(v float64) any {
	if v == 0 {
		return ""
	}

	return v
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
