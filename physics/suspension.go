package physics

import (
	"github.com/lixenwraith/vi-racer/vmath"
)

// SpringInput carries one wheel's spring-damper state
// Strength and Damping are per unit carrying mass
type SpringInput struct {
	RestHeight     float64
	Distance       float64
	Strength       float64
	Damping        float64
	CarryingMass   float64
	NormalVelocity float64 // body velocity at the wheel along the contact normal
}

// SpringForce returns the suspension force magnitude along the contact normal
// The spring only pushes: compression below rest produces force, a pulling result clamps to 0
func SpringForce(in SpringInput) float64 {
	offset := in.RestHeight - in.Distance
	f := offset*in.Strength*in.CarryingMass - in.NormalVelocity*in.Damping*in.CarryingMass
	if !vmath.IsFinite(f) || f < 0 {
		return 0
	}
	return f
}

// CarryingMass returns the share of body mass each wheel supports
func CarryingMass(mass float64, wheels int) float64 {
	if wheels <= 0 || mass <= 0 {
		return 0
	}
	return mass / float64(wheels)
}

// Travel returns suspension compression in [0, restHeight] for display
func Travel(restHeight, distance float64) float64 {
	return vmath.Clamp(restHeight-distance, 0, restHeight)
}
