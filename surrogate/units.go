// SPDX-License-Identifier: MIT

package surrogate

// Physical constants (SI) for converting geometric-unit waveforms.
const (
	G          = 6.67384e-11               // m³ kg⁻¹ s⁻²
	C          = 299792458.0               // m s⁻¹
	MassSun    = 1.98892e30                // kg
	Megaparsec = 3.08568025e22             // m
	MsunInSec  = G * MassSun / (C * C * C) // s
)

// TimeScale converts times in units of total mass M (solar masses) to seconds.
func TimeScale(totalMass float64) float64 { return totalMass * MsunInSec }

// AmplitudeScale converts geometric strain to the physical strain observed at
// distMpc megaparsecs from a source of total mass M (solar masses).
func AmplitudeScale(totalMass, distMpc float64) float64 {
	return totalMass * MassSun / (distMpc * Megaparsec) * G / (C * C)
}
