package main

import "github.com/AllenDang/giu"

// ShortLabelWidget shortens its text to the available width and shows the
// full text as tooltip when it had to be cut
type ShortLabelWidget struct {
	label string
}

func ShortLabel(label string) *ShortLabelWidget {
	return &ShortLabelWidget{label: label}
}

func (l *ShortLabelWidget) Build() {
	width, _ := giu.GetAvailableRegion()
	label := shortenText(width, l.label)
	giu.Label(label).Build()
	if label != l.label {
		giu.Tooltip(l.label).Build()
	}
}
