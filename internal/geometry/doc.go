// Package geometry provides the small amount of 2D math the sensor needs:
// vectors, poses and the world-to-local transform used for beam endpoints.
package geometry
