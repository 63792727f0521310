// Package cache provides a small generic LRU cache.
//
// The gradient animator keys rendered still images by their content hash,
// so a repeated request for the same size, palette, positions and
// saturation is served without touching the rasterizer:
//
//	c := cache.New[string, *swirl.Image](8)
//	img := c.GetOrCreate(hash, func() *swirl.Image { return render() })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
