// Package pkg provides the libraries behind cropsy.
//
// # Overview
//
// Cropsy cuts Zoom gallery tiles out of a screen capture inside Isadora. Given
// a screen size and a number of participants it finds the grid Zoom uses,
// derives the crop of every tile, and expresses each crop as Panner values
// (zoom and pan percentages) that an Isadora patch can apply directly.
//
// # Architecture
//
// The data flow for one control message:
//
//	ZoomOSC /zgc/cropValues [width, height, max]
//	         ↓
//	    [relay] parses the request and starts a batch
//	         ↓
//	    [pipeline] streams counts 1..max through the cache
//	         ↓
//	    [layout] → [crop] → [panner] compute each gallery size
//	         ↓
//	    [transport/osc] sends /izzy/cropValues/NNN to Isadora
//
// # Main Packages
//
// ## Geometry
//
// [layout] - Grid solver. Scans every column count and keeps the partition
// with the largest box, quantized to the 16:9 family of sizes.
//
// [crop] - Per-box margins for a solved layout, with Zoom's window margins,
// spacing and inset as a configurable [crop.Config].
//
// [panner] - Converts crops to Isadora Panner values rounded to six decimals.
//
// ## Relay
//
// [relay] - Control message parsing and the fan-out of one message per
// gallery size. Failures are collected in a [relay.Report] per batch.
//
// [transport] - Retry helpers shared by transports. The osc subpackage
// implements [relay.Transport] over UDP.
//
// [pipeline] - Cached computation shared by the relay, the HTTP API and the
// CLI.
//
// [cache] - Memory, Redis and no-op backends for computed values.
//
// ## Outer Surfaces
//
// [api] - Optional HTTP API for inspecting values and triggering batches.
//
// [preview] - Renders the computed boxes to PNG, JPEG or WebP and cuts
// tiles from screenshots.
//
// ## Support
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for relay, cache and HTTP events.
//
// [buildinfo] - Version information set at build time.
//
// # Quick Start
//
// Compute the Panner values for a four-person gallery:
//
//	p, err := panner.Compute(1920, 1080, 4)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(p.WidthPercent, p.CropPercents)
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/layout
// [crop]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/crop
// [crop.Config]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/crop#Config
// [panner]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/panner
// [relay]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/relay
// [relay.Report]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/relay#Report
// [relay.Transport]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/relay#Transport
// [transport/osc]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/transport/osc
// [transport]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/transport
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/api
// [preview]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/preview
// [errors]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cropsy/pkg/buildinfo
package pkg
