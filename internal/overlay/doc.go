// Package overlay speaks to the text rasterizer: it builds the render
// request, performs the HTTP exchange and decodes the length-prefixed
// multipart response into per-section bitmaps and mask metadata.
package overlay
