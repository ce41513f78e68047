// Package pkg provides the core libraries for lutforge LUT processing.
//
// # Overview
//
// Lutforge works with 3D color lookup tables: concatenating existing
// .cube LUTs, synthesizing log-to-log conversion LUTs between camera
// formats, and resampling tables. The pkg directory is organized as:
//
//  1. [lut] - Grid type, trilinear sampling, composition, resampling
//  2. [cube] - .cube file serialization
//  3. [colorimetry] - Log curves, camera gamuts, chromatic adaptation
//  4. [pipeline] - Cached conversion LUT synthesis
//  5. [batch] - Batched combine runs over a worker pool
//  6. [cache] - File/redis/null byte-blob caching
//  7. [api] - HTTP front over generation and combination
//
// # Architecture
//
// The typical data flow for generation:
//
//	format registry (colorimetry)
//	         ↓
//	    [pipeline] synthesize: decode → gamut matrix → encode
//	         ↓
//	    [lut] analyze + sanitize
//	         ↓
//	    [cube] serialize to .cube
//
// and for combination:
//
//	.cube files → [cube] parse → [lut] compose → [cube] write
//
// with [batch] fanning the combine flow across many input files.
package pkg
