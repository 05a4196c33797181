// Package transport holds what the outbound transports share: retrying
// transient send failures.
//
// Concrete transports live in subpackages; transport/osc sends and receives
// OSC messages over UDP.
package transport
