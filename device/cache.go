package device

import "github.com/gogpu/wgpu/hal"

// TextureCache reuses plane textures across frames. A video stream
// presents the same plane geometry every frame, so after the first frame
// every acquisition is a cache hit.
//
// Slots are matched by position: Begin resets a cursor, and each Acquire
// consumes the next slot, reusing its texture when the geometry matches
// and replacing it when it does not. Callers must acquire planes in the
// same order every frame.
type TextureCache struct {
	slots  []*Texture
	cursor int

	hits   uint64
	misses uint64
}

// NewTextureCache creates an empty cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{}
}

// Begin resets the slot cursor for a new frame.
func (c *TextureCache) Begin() {
	c.cursor = 0
}

// Acquire returns a texture with the given geometry, reusing the texture
// in the current slot when it matches.
func (c *TextureCache) Acquire(width, height, texelBytes int) *Texture {
	slot := c.cursor
	c.cursor++

	if slot < len(c.slots) {
		if t := c.slots[slot]; t.Matches(width, height, texelBytes) {
			c.hits++
			return t
		}
		// Geometry changed: drop the old texture. The GPU mirror is
		// released lazily by Clear since the device is not at hand here.
		c.misses++
		t := NewTexture(width, height, texelBytes)
		c.slots[slot] = t
		return t
	}

	c.misses++
	t := NewTexture(width, height, texelBytes)
	c.slots = append(c.slots, t)
	return t
}

// UploadPlane acquires a texture and fills it from src with the given
// row stride.
func (c *TextureCache) UploadPlane(width, height, texelBytes int, src []byte, stride int) (*Texture, error) {
	t := c.Acquire(width, height, texelBytes)
	if err := t.Upload(src, stride); err != nil {
		return nil, err
	}
	return t, nil
}

// Stats returns the cumulative hit and miss counts.
func (c *TextureCache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

// Len returns the number of live slots.
func (c *TextureCache) Len() int {
	return len(c.slots)
}

// Clear releases every slot and its GPU mirror.
func (c *TextureCache) Clear(device hal.Device) {
	for _, t := range c.slots {
		t.Release(device)
	}
	c.slots = nil
	c.cursor = 0
}
