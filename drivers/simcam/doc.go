// Package simcam registers three built-in, hardware-free cameras so the
// acquisition runtime's end-to-end scenarios run without external
// equipment: a uniform-random payload generator (the default selection), a
// deterministic radial-sine test pattern for stress/regression testing, and
// an all-zero generator for the cheapest possible high-resolution path.
package simcam
