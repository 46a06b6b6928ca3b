// Package render3d is a small software renderer for wireframe scenes.
//
// Pipeline (fixed):
//
//	Scene → World → Object transform → View → Orthographic projection → Line raster.
//
// Meshes carry triangle indices, line index pairs or both; every edge is drawn
// as a one-pixel line into a caller-provided Target. The render path does not
// allocate.
package render3d
