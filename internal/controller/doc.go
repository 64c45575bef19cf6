// Package controller implements the temperature threshold control step.
//
// Each Evaluate call is one poll-evaluate-act cycle:
//
//  1. read the most recent temperature across all devices
//  2. resolve the critical minimum of that device's crop
//  3. if the reading is strictly above the threshold, switch the relay on
//
// Nothing is remembered between calls and there is no hysteresis band: two
// consecutive calls over the threshold actuate twice. Errors are returned
// to the caller and never retried.
package controller
