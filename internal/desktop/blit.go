package desktop

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"bubble-pop/internal/host"
)

func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// blitter uploads the canvas into a texture and draws it letterboxed.
type blitter struct {
	prog  uint32
	vao   uint32
	vbo   uint32
	tex   uint32
	uRect int32
	w, h  int32
}

func newBlitter(w, h int) (*blitter, error) {
	prog, err := linkProgram(quadVertSrc, quadFragSrc)
	if err != nil {
		return nil, err
	}
	b := &blitter{prog: prog, w: int32(w), h: int32(h)}

	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))

	gl.GenTextures(1, &b.tex)
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, b.w, b.h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	gl.UseProgram(prog)
	b.uRect = gl.GetUniformLocation(prog, gl.Str("uRect\x00"))
	gl.Uniform1i(gl.GetUniformLocation(prog, gl.Str("uTex\x00")), 0)
	return b, nil
}

// upload copies the canvas pixels into the texture.
func (b *blitter) upload(img *image.RGBA) {
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, b.w, b.h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
}

// draw renders the texture at p inside a fbW x fbH framebuffer.
func (b *blitter) draw(p host.Placement, fbW, fbH int) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if p.W <= 0 || p.H <= 0 {
		return
	}

	// Window pixels to NDC, y down; the vertex shader flips y.
	x := float32(p.X/float64(fbW)*2 - 1)
	y := float32(p.Y/float64(fbH)*2 - 1)
	w := float32(p.W / float64(fbW) * 2)
	h := float32(p.H / float64(fbH) * 2)

	gl.UseProgram(b.prog)
	gl.Uniform4f(b.uRect, x, y, w, h)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, b.tex)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func (b *blitter) delete() {
	gl.DeleteTextures(1, &b.tex)
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteProgram(b.prog)
}
