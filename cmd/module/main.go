package main

import (
	"go.viam.com/rdk/components/sensor"
	"go.viam.com/rdk/module"
	"go.viam.com/rdk/resource"
	rrrArm "rrr_arm"
)

func main() {
	module.ModularMain(
		resource.APIModel{API: sensor.API, Model: rrrArm.KinematicsSensorModel},
	)
}
