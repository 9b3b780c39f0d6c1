package utils

import "errors"

// 1 mmol/L of glucose = 18.0182 mg/dL
const mgdlPerMmol = 18.0182

func MgDLToMmolL(v float64) float64 { return v / mgdlPerMmol }

func MmolLToMgDL(v float64) float64 { return v * mgdlPerMmol }

// ValidateGlucoseMgDL rejects values no meter or CGM would ever report.
func ValidateGlucoseMgDL(v float64) error {
	if v < 10 || v > 600 {
		return errors.New("glucose value out of plausible range (10-600 mg/dL)")
	}
	return nil
}
