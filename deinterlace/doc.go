// Package deinterlace removes interlacing artifacts from video frames.
//
// Four methods are available: bob and linear synthesize discarded field
// rows from vertical neighbors in the current frame, weave takes them
// from the previous frame, and greedyh switches between the two per
// pixel based on measured motion. The engine keeps one frame of history
// and falls back to bob while no history exists yet.
package deinterlace
