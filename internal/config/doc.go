// Package config loads fit descriptions and spectrum files for the ltfit
// command.
//
// A fit description is YAML. It is decoded into YAML DTOs and mapped into a
// param.Set plus fit.Settings; mapping errors name the offending field and
// wrap ErrInvalidConfig in an *OpError. Times are in the unit of the channel
// resolution (ps).
//
//	spectrum: run42.txt
//	roi: {start: 0, stop: 999}
//	resolution: 25
//	sample:
//	  - tau: {start: 200, lower: 50, upper: 1000}
//	    intensity: {start: 1}
//	irf:
//	  - fwhm: {start: 230, fixed: true}
//	    mu: {start: 0, fixed: true}
//	    intensity: {start: 1, fixed: true}
//	background: {start: 5, fixed: true}
package config
