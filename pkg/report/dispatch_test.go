package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/macsima-report/pkg/macsima"
	"github.com/askiada/macsima-report/pkg/report"
)

func TestDispatcherScanRow(t *testing.T) {
	t.Parallel()

	dispatcher := report.NewDispatcher(report.ReagentIndex{}, nil)

	rows := dispatcher.Rows(report.SequencedBlock{
		Block:                  block("ProtocolBlockType_Scan", "Magnification_2x"),
		EffectiveMagnification: "Magnification_2x",
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Scan", rows[0].Get("BlockType"))
	assert.Equal(t, "2x", rows[0].Get("Magnification"))
	assert.Equal(t, "", rows[0].Get("RunCycleNumber"))
	assert.Equal(t, "", rows[0].Get("Antigen"))
	assert.Len(t, rows[0], 22)
}

func TestDispatcherDefaults(t *testing.T) {
	t.Parallel()

	dispatcher := report.NewDispatcher(report.ReagentIndex{}, nil)

	rows := dispatcher.Rows(report.SequencedBlock{Block: macsima.Block{}})

	require.Len(t, rows, 1)
	assert.Equal(t, "Unknown block type", rows[0].Get("BlockType"))
	assert.Equal(t, "N/A", rows[0].Get("Magnification"))
}

func TestDispatcherEraseRows(t *testing.T) {
	t.Parallel()

	dispatcher := report.NewDispatcher(report.ReagentIndex{}, nil)

	rows := dispatcher.Rows(report.SequencedBlock{
		Block: macsima.Block{
			BlockType: "ProtocolBlockType_Erase",
			Photos: map[string]macsima.ErasePhoto{
				"Photo_2": {FluorochromeType: "FluorochromeType_PE", BleachingEnergy: 840, IsEnabled: true},
				"Photo_1": {FluorochromeType: "FluorochromeType_FITC", BleachingEnergy: 1980, IsEnabled: true},
				"Photo_3": {FluorochromeType: "FluorochromeType_APC", BleachingEnergy: 780, IsEnabled: true},
				"Photo_4": {FluorochromeType: "FluorochromeType_Vio780", BleachingEnergy: 780, IsEnabled: false},
				"Photo_5": {FluorochromeType: "FluorochromeType_None", BleachingEnergy: 100, IsEnabled: true},
			},
		},
		EffectiveMagnification: "Magnification_20x",
	})

	require.Len(t, rows, 3)

	channels := make([]any, len(rows))
	energies := make([]any, len(rows))
	for i, row := range rows {
		channels[i] = row.Get("Channel")
		energies[i] = row.Get("BleachingEnergy")
		assert.Equal(t, "Erase", row.Get("BlockType"))
		assert.Equal(t, "20x", row.Get("Magnification"))
		assert.Equal(t, "", row.Get("RunCycleNumber"))
	}

	// Photo map keys are walked in sorted order.
	assert.Equal(t, []any{"FITC", "PE", "APC"}, channels)
	assert.Equal(t, []any{1980.0, 840.0, 780.0}, energies)
}

func TestDispatcherRunCycleRows(t *testing.T) {
	t.Parallel()

	index := report.ReagentIndex{
		"bucket-1": {
			Antigen:      "CD4",
			Clone:        "REA623",
			ExposureTime: 56,
			ValidatedFor: "PFA",
			Antibody:     "CD4 Antibody",
			AntibodyType: "Recombinant",
			HostSpecies:  "Human",
			Isotype:      "IgG1",
			Manufacturer: "Miltenyi",
			OrderNumber:  "130-000-000",
			Species:      "Human",
			Name:         "CD4-PE",
		},
	}
	dispatcher := report.NewDispatcher(index, nil)

	rows := dispatcher.Rows(report.SequencedBlock{
		Block: macsima.Block{
			BlockType: "ProtocolBlockType_RunCycle",
			Reagents: map[string]macsima.DetectionSettings{
				"DetectionChannel_3": {
					BucketID:                   "bucket-1",
					DilutionFactor:             50,
					IncubationTime:             10,
					ExposureTimeAndCoefficient: macsima.ExposureSettings{TimeCoefficient: 330},
					ErasingMethod:              "ErasingMethod_Photobleaching",
					BleachingEnergy:            840,
				},
			},
		},
		CycleNumber:            3,
		EffectiveMagnification: "Magnification_20x",
	})

	require.Len(t, rows, 5)

	expectedChannels := []any{"DAPI", "FITC", "PE", "APC", "Vio780"}
	for i, row := range rows {
		assert.Equal(t, expectedChannels[i], row.Get("Channel"))
		assert.Equal(t, 3, row.Get("RunCycleNumber"))
		assert.Equal(t, "RunCycle", row.Get("BlockType"))
		assert.Equal(t, "20x", row.Get("Magnification"))
		assert.Len(t, row, 22)
	}

	// Only the populated slot carries reagent data.
	pe := rows[2]
	assert.Equal(t, "CD4", pe.Get("Antigen"))
	assert.Equal(t, "REA623", pe.Get("Clone"))
	assert.Equal(t, 50.0, pe.Get("DilutionFactor"))
	assert.Equal(t, 56.0, pe.Get("ReagentExposure"))
	assert.Equal(t, 330.0, pe.Get("Coefficient"))
	assert.Equal(t, 184.8, pe.Get("ActualExposure"))
	assert.Equal(t, "Photobleaching", pe.Get("ErasingMethod"))
	assert.Equal(t, "PFA", pe.Get("ValidatedFor"))
	assert.Equal(t, "CD4-PE", pe.Get("Name"))

	empty := rows[0]
	assert.Equal(t, "", empty.Get("Antigen"))
	assert.Equal(t, "", empty.Get("ActualExposure"))
	assert.Equal(t, "", empty.Get("DilutionFactor"))
}

func TestDispatcherEraseSkipsMissingFluorochrome(t *testing.T) {
	t.Parallel()

	dispatcher := report.NewDispatcher(report.ReagentIndex{}, nil)

	rows := dispatcher.Rows(report.SequencedBlock{
		Block: macsima.Block{
			BlockType: "ProtocolBlockType_Erase",
			Photos: map[string]macsima.ErasePhoto{
				"Photo_1": {FluorochromeType: "FluorochromeType_FITC", BleachingEnergy: 1980, IsEnabled: true},
				"Photo_2": {FluorochromeType: "", BleachingEnergy: 840, IsEnabled: true},
			},
		},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "FITC", rows[0].Get("Channel"))
}

func TestDispatcherRunCycleUnusedSlotDropsSettings(t *testing.T) {
	t.Parallel()

	dispatcher := report.NewDispatcher(report.ReagentIndex{}, nil)

	// Leftover settings on a slot with no bucket reference stay off the row.
	rows := dispatcher.Rows(report.SequencedBlock{
		Block: macsima.Block{
			BlockType: "ProtocolBlockType_RunCycle",
			Reagents: map[string]macsima.DetectionSettings{
				"DetectionChannel_1": {
					BucketID:        "",
					DilutionFactor:  50,
					IncubationTime:  10,
					ErasingMethod:   "ErasingMethod_Photobleaching",
					BleachingEnergy: 840,
				},
			},
		},
		CycleNumber: 1,
	})

	require.Len(t, rows, 5)
	dapi := rows[0]
	assert.Equal(t, "DAPI", dapi.Get("Channel"))
	assert.Equal(t, "", dapi.Get("DilutionFactor"))
	assert.Equal(t, "", dapi.Get("IncubationTime"))
	assert.Equal(t, "", dapi.Get("ErasingMethod"))
	assert.Equal(t, "", dapi.Get("BleachingEnergy"))
}

func TestDispatcherActualExposureRequiresBothFactors(t *testing.T) {
	t.Parallel()

	index := report.ReagentIndex{
		"no-coef":     {Antigen: "CD4", ExposureTime: 56},
		"no-exposure": {Antigen: "CD8"},
	}
	dispatcher := report.NewDispatcher(index, nil)

	rows := dispatcher.Rows(report.SequencedBlock{
		Block: macsima.Block{
			BlockType: "ProtocolBlockType_RunCycle",
			Reagents: map[string]macsima.DetectionSettings{
				"DetectionChannel_1": {BucketID: "no-coef"},
				"DetectionChannel_2": {
					BucketID:                   "no-exposure",
					ExposureTimeAndCoefficient: macsima.ExposureSettings{TimeCoefficient: 200},
				},
			},
		},
		CycleNumber: 1,
	})

	require.Len(t, rows, 5)
	assert.Equal(t, "", rows[0].Get("ActualExposure"))
	assert.Equal(t, "", rows[0].Get("Coefficient"))
	assert.Equal(t, 56.0, rows[0].Get("ReagentExposure"))
	assert.Equal(t, "", rows[1].Get("ActualExposure"))
	assert.Equal(t, 200.0, rows[1].Get("Coefficient"))
}
