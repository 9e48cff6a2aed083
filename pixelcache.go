package img2irc

// pixelCache memoizes NewPixel for one quantization band. It is not
// safe for concurrent use.
type pixelCache struct {
	entries map[RGB]Pixel
	hits    int
	misses  int
}

func newPixelCache() *pixelCache {
	return &pixelCache{entries: make(map[RGB]Pixel)}
}

// get returns the quantized pixel for c, computing it on a miss.
func (pc *pixelCache) get(c RGB) Pixel {
	if p, ok := pc.entries[c]; ok {
		pc.hits++
		return p
	}
	pc.misses++
	p := NewPixel(c)
	pc.entries[c] = p
	return p
}
