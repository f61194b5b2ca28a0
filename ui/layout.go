package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// splitLayout places two objects side by side, the first taking ratio of the width.
type splitLayout struct {
	ratio float32
}

// MinSize calculates the minimum size.
func (s *splitLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var w, h float32
	for _, o := range objects {
		m := o.MinSize()
		w += m.Width
		h = fyne.Max(h, m.Height)
	}
	return fyne.NewSize(w, h)
}

// Layout arranges the objects.
func (s *splitLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) != 2 {
		return
	}
	firstWidth := fyne.Max(size.Width*s.ratio, objects[0].MinSize().Width)
	objects[0].Resize(fyne.NewSize(firstWidth, size.Height))
	objects[0].Move(fyne.NewPos(0, 0))
	objects[1].Resize(fyne.NewSize(size.Width-firstWidth, size.Height))
	objects[1].Move(fyne.NewPos(firstWidth, 0))
}

// newSplitRow lays out a label and its control, the label taking a third of the row.
func newSplitRow(label, control fyne.CanvasObject) *fyne.Container {
	return container.New(&splitLayout{ratio: 1.0 / 3}, label, control)
}
