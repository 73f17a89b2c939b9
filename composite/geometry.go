package composite

// destRect computes the destination rectangle for one source.
//
// A zero or negative configured width/height falls back to the input's
// native size. With ZeroSizeIsUnscaled the native size is used as-is;
// otherwise an unsized input stretches to the full output.
func (e *Engine) destRect(s *Source) rect {
	fw, fh := s.Frame.Width, s.Frame.Height

	bw, bh := s.Width, s.Height
	if bw <= 0 || bh <= 0 {
		if e.cfg.ZeroSizeIsUnscaled {
			if bw <= 0 {
				bw = fw
			}
			if bh <= 0 {
				bh = fh
			}
		} else {
			if bw <= 0 {
				bw = e.cfg.Width
			}
			if bh <= 0 {
				bh = e.cfg.Height
			}
		}
	}

	r := rect{x: s.X, y: s.Y, w: bw, h: bh}
	if s.Sizing == SizingKeepAspect {
		r = fitKeepAspect(r, fw, fh)
	}
	return r
}

// fitKeepAspect shrinks the box to the largest rectangle with the source
// aspect ratio that fits inside it, centered. Rounding snaps to whichever
// axis divides evenly.
func fitKeepAspect(box rect, srcW, srcH int) rect {
	if srcW <= 0 || srcH <= 0 || box.empty() {
		return rect{}
	}

	// Cross-multiplied aspect comparison avoids float drift for the
	// exact-fit and evenly dividing cases.
	if box.w*srcH <= box.h*srcW {
		// Width-bound: pad vertically.
		h := box.w * srcH / srcW
		return rect{
			x: box.x,
			y: box.y + (box.h-h)/2,
			w: box.w,
			h: h,
		}
	}
	// Height-bound: pad horizontally.
	w := box.h * srcW / srcH
	return rect{
		x: box.x + (box.w-w)/2,
		y: box.y,
		w: w,
		h: box.h,
	}
}
