package main

import (
	"image"
	"image/color"

	"github.com/AllenDang/giu"
	"github.com/AllenDang/imgui-go"
)

type GridState struct {
	itemWidth  float32
	itemHeight float32
}

func (s *GridState) Dispose() {
	// Nothing to do here.
}

// GridBuilder arranges one widget per value in columns x rows cells of equal size.
// The selected cell is outlined with highlight, clicking a cell calls onClicked.
func GridBuilder[T any](id string, columns, rows int, values []T, selected int, highlight color.RGBA, onClicked func(i int), builder func(i int, item T) giu.Widget) giu.Layout {
	if columns < 1 || rows < 1 || builder == nil {
		return giu.Layout{}
	}

	layout := giu.Layout{
		giu.Custom(func() {
			imgui.PushID(id)

			w, h := giu.GetAvailableRegion()
			spacingX, spacingY := giu.GetItemSpacing()
			state := &GridState{
				itemWidth:  (w - spacingX*float32(columns-1)) / float32(columns),
				itemHeight: (h - spacingY*float32(rows-1)) / float32(rows),
			}
			giu.Context.SetState(id, state)
		}),
	}

	for i, v := range values {
		if i >= columns*rows {
			break
		}
		itemIdx, item := i, v
		layout = append(layout, giu.Custom(func() {
			if itemIdx%columns > 0 {
				giu.SameLine()
			}
			s, ok := giu.Context.GetState(id).(*GridState)
			if !ok {
				return
			}
			giu.Child().Border(true).Size(s.itemWidth, s.itemHeight).Flags(giu.WindowFlagsNoScrollbar|giu.WindowFlagsNoScrollWithMouse).Layout(
				giu.Custom(func() {
					if itemIdx != selected {
						return
					}
					outlineSelected(highlight)
				}),
				builder(itemIdx, item),
			).Build()
			giu.Event().OnClick(giu.MouseButtonLeft, func() {
				if onClicked != nil {
					onClicked(itemIdx)
				}
			}).Build()
		}))
	}

	return append(layout, giu.Custom(func() { imgui.PopID() }))
}

func outlineSelected(highlight color.RGBA) {
	style := imgui.CurrentStyle()
	availWidth, availHeight := giu.GetAvailableRegion()
	padding := style.FramePadding()
	topLeftPos := giu.GetCursorScreenPos().Sub(image.Pt(int(padding.X), int(2*padding.Y)))
	giu.GetCanvas().AddRect(
		topLeftPos,
		topLeftPos.Add(image.Pt(int(availWidth+2*padding.X), int(availHeight+4*padding.Y))),
		highlight,
		6.,
		giu.DrawFlagsRoundCornersAll,
		2.,
	)
}
