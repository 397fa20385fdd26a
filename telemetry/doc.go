// SPDX-License-Identifier: MIT

// Package telemetry exports solver progress as Prometheus metrics.
//
// A Collector is both an arnoldi observer and a prometheus.Collector: attach
// it to arnoldi.Options.Observers and register it with a registry. All
// updates go through Prometheus's internal locking.
package telemetry
