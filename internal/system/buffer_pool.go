package system

import (
	"image"
	"image/png"
	"sync"
	"sync/atomic"
)

// FramePool recycles frames of one fixed size together with the PNG
// encoder state used to write them out. It is safe for concurrent use.
type FramePool struct {
	rect      image.Rectangle
	frames    sync.Pool
	encoders  sync.Pool
	allocated atomic.Int64
}

func NewFramePool(rect image.Rectangle) *FramePool {
	p := &FramePool{rect: rect}
	p.frames.New = func() any {
		p.allocated.Add(1)
		return image.NewRGBA(rect)
	}
	return p
}

// Get returns a cleared frame.
func (p *FramePool) Get() *image.RGBA {
	img := p.frames.Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put returns img to the pool. Frames of another size are dropped.
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil || img.Rect != p.rect {
		return
	}
	p.frames.Put(img)
}

// Allocated reports how many frames the pool has created so far.
func (p *FramePool) Allocated() int64 {
	return p.allocated.Load()
}

// Encoder returns a fast PNG encoder that shares buffers through the pool.
func (p *FramePool) Encoder() *png.Encoder {
	return &png.Encoder{CompressionLevel: png.BestSpeed, BufferPool: encoderPool{p}}
}

type encoderPool struct{ p *FramePool }

func (e encoderPool) Get() *png.EncoderBuffer {
	b, _ := e.p.encoders.Get().(*png.EncoderBuffer)
	return b
}

func (e encoderPool) Put(b *png.EncoderBuffer) {
	e.p.encoders.Put(b)
}
