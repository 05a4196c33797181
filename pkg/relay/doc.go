// Package relay turns one inbound control message into a fan-out of Panner
// values, one outbound message per gallery size.
//
// ZoomOSC sends the screen size and the largest gallery size:
//
//	/zgc/cropValues 1920 1080 9
//
// and the relay answers with nine messages, one per count, each carrying the
// box size and a (horizontal, vertical) pan pair per box:
//
//	/izzy/cropValues/001 89.895833 89.895833 50 44.444444
//	/izzy/cropValues/002 49.0625 49.0625 1.431493 48.897978 98.568507 48.897978
//	...
//
// Messages leave in increasing count order. Computation runs ahead of
// sending in a producer goroutine (see pipeline.Runner.Stream). A count that
// fails to compute or to send is recorded in the [Report] and the fan-out
// continues; messages already sent stay sent.
//
// The network is behind [Transport]; see package transport/osc for the UDP
// implementation.
package relay
