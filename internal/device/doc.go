// Package device provides access to the field devices attached to crops.
//
// A device is one Arduino board driving a relay. The warehouse row records
// the crop it monitors, the last known relay state and the control mode
// (AUTOMATICO or MANUAL) chosen in the app.
//
// The package also resolves a device's critical minimum temperature by
// joining its crop, which is the threshold the temperature controller
// compares readings against.
//
// Null columns are defaulted on read: relay state false, control mode
// MANUAL, device name DefaultName.
package device
