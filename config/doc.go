// SPDX-License-Identifier: MIT

// Package config reads a YAML run description for the mcarnoldi runner.
//
// A run file has five sections:
//
//	solver:    Arnoldi shape, restart method, tolerances, dense decomposer
//	sampling:  base histories, relaxation, transport batching
//	geometry:  scoring bins and slab regions (widths, left to right)
//	seed / run_id
//	log:       level, development encoder
//
// Omitted keys keep the values of Default(); unknown keys are rejected.
package config
