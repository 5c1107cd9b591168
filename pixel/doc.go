// Package pixel implements the 16-bit 5-6-5 color model and an image type that
// wraps raw framebuffer memory.
//
// The types are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces, so anything that renders onto a [draw.Image] can render
// straight into a framebuffer surface.
package pixel
