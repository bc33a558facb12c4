// Package render composites the edited screenshot with the rasterized chat
// overlays. A Session owns the overlay cache and guarantees that only the
// most recent render request ever draws to the canvas.
package render
